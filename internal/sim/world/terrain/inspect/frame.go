// Package inspect captures sampled windows of pipeline stages for debug
// tooling. Nothing here feeds back into generation.
package inspect

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"layergen.ai/internal/observerproto"
	"layergen.ai/internal/sim/encoding"
	"layergen.ai/internal/sim/world/terrain/layer"
)

// Frame is a row-major w x h window of one stage's grid.
type Frame struct {
	RunID    string
	Pipeline string
	Label    string
	Index    int
	Seq      int // assembly order within the pipeline, from 1
	X, Z     int64
	W, H     int
	Values   []int
}

// Capture samples a window of r.
func Capture(runID, pipeline, label string, index int, r layer.Reader, x, z int64, w, h int) Frame {
	return Frame{
		RunID:    runID,
		Pipeline: pipeline,
		Label:    label,
		Index:    index,
		X:        x,
		Z:        z,
		W:        w,
		H:        h,
		Values:   layer.Sample(r, x, z, w, h),
	}
}

func (f Frame) Encoded() string { return encoding.EncodeRLE(f.Values) }

// Digest is the hex sha256 of the encoded window. Equal windows have equal
// digests regardless of run.
func (f Frame) Digest() string {
	sum := sha256.Sum256([]byte(f.Encoded()))
	return hex.EncodeToString(sum[:])
}

func (f Frame) Message() observerproto.FrameMsg {
	data := f.Encoded()
	sum := sha256.Sum256([]byte(data))
	hist := make(map[string]int)
	for id, n := range encoding.Histogram(f.Values) {
		hist[strconv.Itoa(id)] = n
	}
	return observerproto.FrameMsg{
		Type:            "FRAME",
		ProtocolVersion: observerproto.Version,
		RunID:           f.RunID,
		Pipeline:        f.Pipeline,
		Label:           f.Label,
		Index:           f.Index,
		Seq:             f.Seq,
		X:               f.X,
		Z:               f.Z,
		W:               f.W,
		H:               f.H,
		Encoding:        observerproto.FrameEncoding,
		Data:            data,
		Digest:          hex.EncodeToString(sum[:]),
		Histogram:       hist,
	}
}

// FrameFromMessage decodes a FRAME message back into a frame.
func FrameFromMessage(m observerproto.FrameMsg) (Frame, error) {
	values, err := encoding.DecodeRLE(m.Data)
	if err != nil {
		return Frame{}, err
	}
	return Frame{
		RunID:    m.RunID,
		Pipeline: m.Pipeline,
		Label:    m.Label,
		Index:    m.Index,
		Seq:      m.Seq,
		X:        m.X,
		Z:        m.Z,
		W:        m.W,
		H:        m.H,
		Values:   values,
	}, nil
}
