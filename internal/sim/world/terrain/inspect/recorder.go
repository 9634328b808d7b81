package inspect

import (
	"sync"

	"layergen.ai/internal/sim/tuning"
	"layergen.ai/internal/sim/world/terrain/layer"
)

// Sink receives every frame a Recorder captures.
type Sink interface {
	WriteFrame(f Frame) error
}

type SinkFunc func(f Frame) error

func (fn SinkFunc) WriteFrame(f Frame) error { return fn(f) }

// Recorder is a layer.Observer that samples the configured window of every
// stage and forwards the frame to its sinks. Frames past MaxFrames are
// counted and dropped. A sink error is kept and reported by Err; later
// frames still reach the other sinks.
type Recorder struct {
	runID    string
	pipeline string
	x, z     int64
	size     int
	max      int
	sinks    []Sink

	mu      sync.Mutex
	seq     int
	dropped int
	frames  []Frame
	err     error
}

func NewRecorder(runID, pipeline string, s tuning.InspectSettings, sinks ...Sink) *Recorder {
	return &Recorder{
		runID:    runID,
		pipeline: pipeline,
		x:        s.WindowX,
		z:        s.WindowZ,
		size:     s.WindowSize,
		max:      s.MaxFrames,
		sinks:    sinks,
	}
}

func (r *Recorder) Observe(label string, index int, f layer.Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	if len(r.frames) >= r.max {
		r.dropped++
		return
	}
	fr := Capture(r.runID, r.pipeline, label, index, f.Build(), r.x, r.z, r.size, r.size)
	fr.Seq = r.seq
	r.frames = append(r.frames, fr)
	for _, s := range r.sinks {
		if err := s.WriteFrame(fr); err != nil && r.err == nil {
			r.err = err
		}
	}
}

// Frames returns the captured frames in assembly order.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

// Stages is the number of stages observed, captured or not.
func (r *Recorder) Stages() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
