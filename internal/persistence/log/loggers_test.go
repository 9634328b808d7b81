package log

import (
	"path/filepath"
	"testing"

	"layergen.ai/internal/sim/world/terrain/inspect"
)

func TestFrameLoggerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := NewFrameLogger(dir)
	frames := []inspect.Frame{
		{RunID: "r1", Pipeline: "rock", Label: "rock", Index: 1, Seq: 1, W: 2, H: 2, Values: []int{3, 3, 1, 0}},
		{RunID: "r1", Pipeline: "rock", Label: "rock", Index: 2, Seq: 2, X: -4, Z: 9, W: 1, H: 3, Values: []int{7, 7, 7}},
	}
	for _, f := range frames {
		if err := l.WriteFrame(f); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := ReadFrames(dir)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(got))
	}
	for i := range frames {
		if got[i].Digest() != frames[i].Digest() || got[i].Seq != frames[i].Seq || got[i].Z != frames[i].Z {
			t.Fatalf("frame %d mismatch: %+v", i, got[i])
		}
	}
}

func TestJSONLZstdWriterRotatesSegments(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONLZstdWriter(dir, "x", 2)
	for i := 0; i < 5; i++ {
		if err := w.Write(map[string]int{"i": i}); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	segs, _ := filepath.Glob(filepath.Join(dir, "x-*.jsonl.zst"))
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	n := 0
	if err := ReadJSONLZstd(dir, "x", func([]byte) error { n++; return nil }); err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 lines, got %d", n)
	}
}
