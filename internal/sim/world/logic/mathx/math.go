package mathx

import "math"

// FloorDiv divides rounding toward negative infinity. b > 0.
func FloorDiv(a, b int64) int64 {
	q := a / b
	r := a % b
	if r < 0 {
		q--
	}
	return q
}

// Mod returns a non-negative remainder. b > 0.
func Mod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func AbsInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Mix64 is the SplitMix64 finalizer.
func Mix64(z uint64) uint64 {
	return mix64(z)
}

// Hash2 hashes a full 64-bit coordinate pair.
func Hash2(seed int64, x, z int64) uint64 {
	v := uint64(seed) ^ mix64(uint64(x)*0x9e3779b97f4a7c15) ^ mix64(uint64(z)*0xbf58476d1ce4e5b9+0x632be59bd9b4e019)
	return mix64(v)
}

// Hash3 hashes a seed with three 64-bit values.
func Hash3(seed int64, x, y, z int64) uint64 {
	v := uint64(seed) ^ mix64(uint64(x)*0x9e3779b97f4a7c15) ^ mix64(uint64(y)*0xc2b2ae3d27d4eb4f+0x165667b19e3779f9) ^ mix64(uint64(z)*0xbf58476d1ce4e5b9+0x632be59bd9b4e019)
	return mix64(v)
}

// Unit maps a hash to [0, 1) using its top 53 bits.
func Unit(h uint64) float64 {
	return float64(h>>11) / (1 << 53)
}

// Stream is a SplitMix64 sequence. The zero value is a valid stream for seed 0.
type Stream struct {
	state uint64
}

func NewStream(seed int64) *Stream {
	return &Stream{state: uint64(seed)}
}

func (s *Stream) Uint64() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func (s *Stream) Int64() int64 {
	return int64(s.Uint64())
}

func (s *Stream) Int32() int32 {
	return int32(s.Uint64() >> 32)
}

// Float64 returns a value in [0, 1).
func (s *Stream) Float64() float64 {
	return Unit(s.Uint64())
}

// FloorToInt64 floors a float and saturates at the int64 range.
func FloorToInt64(f float64) int64 {
	f = math.Floor(f)
	switch {
	case f != f:
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}
