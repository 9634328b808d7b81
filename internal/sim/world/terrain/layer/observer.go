package layer

// Observer sees every intermediate stage of a pipeline as it is assembled.
// It is a side channel only; nothing it does feeds back into generation.
type Observer interface {
	Observe(label string, index int, f Factory)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(label string, index int, f Factory)

func (fn ObserverFunc) Observe(label string, index int, f Factory) { fn(label, index, f) }

type nopObserver struct{}

func (nopObserver) Observe(string, int, Factory) {}

type options struct {
	observer  Observer
	cacheSize int
}

type Option func(*options)

// WithObserver installs a post-stage observer. nil keeps the no-op default.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		if o != nil {
			opts.observer = o
		}
	}
}

// WithCacheSize overrides the settings' per-stage cache capacity.
func WithCacheSize(n int) Option {
	return func(opts *options) {
		opts.cacheSize = n
	}
}
