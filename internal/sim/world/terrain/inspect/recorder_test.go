package inspect

import (
	"errors"
	"testing"

	"layergen.ai/internal/sim/tuning"
	"layergen.ai/internal/sim/world/terrain/layer"
)

func TestRecorderCapturesEveryForestStage(t *testing.T) {
	var seen []Frame
	sink := SinkFunc(func(f Frame) error {
		seen = append(seen, f)
		return nil
	})
	s := tuning.InspectSettings{WindowX: -8, WindowZ: 4, WindowSize: 16, MaxFrames: 100}
	rec := NewRecorder("run-1", "forest", s, sink)

	final := layer.BuildForests(3, tuning.DefaultLayers(), layer.WithObserver(rec))

	frames := rec.Frames()
	if len(frames) != 12 || len(seen) != 12 {
		t.Fatalf("expected 12 forest frames, got %d recorded / %d sunk", len(frames), len(seen))
	}
	for i, f := range frames {
		if f.Seq != i+1 || f.Label != layer.LabelForest || f.Index != i+1 {
			t.Fatalf("frame %d: seq=%d label=%q index=%d", i, f.Seq, f.Label, f.Index)
		}
		if len(f.Values) != 16*16 || f.X != -8 || f.Z != 4 {
			t.Fatalf("frame %d has wrong window", i)
		}
	}

	last := Capture("run-1", "forest", layer.LabelForest, 12, final.Build(), -8, 4, 16, 16)
	if last.Digest() != frames[11].Digest() {
		t.Fatalf("final stage frame differs from a fresh capture")
	}
	if rec.Err() != nil || rec.Dropped() != 0 || rec.Stages() != 12 {
		t.Fatalf("unexpected recorder state: err=%v dropped=%d stages=%d", rec.Err(), rec.Dropped(), rec.Stages())
	}
}

func TestRecorderLimitsAndErrors(t *testing.T) {
	boom := errors.New("sink failed")
	calls := 0
	sink := SinkFunc(func(Frame) error {
		calls++
		return boom
	})
	s := tuning.InspectSettings{WindowSize: 4, MaxFrames: 3}
	rec := NewRecorder("run-2", "rock", s, sink)
	layer.BuildRocks(1, tuning.DefaultLayers(), layer.WithObserver(rec))

	if len(rec.Frames()) != 3 || calls != 3 {
		t.Fatalf("expected 3 frames, got %d (%d sink calls)", len(rec.Frames()), calls)
	}
	if rec.Dropped() != rec.Stages()-3 {
		t.Fatalf("dropped %d of %d", rec.Dropped(), rec.Stages())
	}
	if !errors.Is(rec.Err(), boom) {
		t.Fatalf("expected sink error, got %v", rec.Err())
	}
}

func TestFrameMessageRoundTrip(t *testing.T) {
	f := Frame{RunID: "r", Pipeline: "biome", Label: "biomes", Index: 18, Seq: 47, X: 1, Z: 2, W: 3, H: 2, Values: []int{4, 4, 4, 17, 17, 0}}
	m := f.Message()
	if m.Type != "FRAME" || m.Digest != f.Digest() || m.Histogram["4"] != 3 {
		t.Fatalf("unexpected message %+v", m)
	}
	back, err := FrameFromMessage(m)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Digest() != f.Digest() || back.Seq != 47 || back.W != 3 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}
