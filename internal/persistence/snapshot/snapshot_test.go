package snapshot

import (
	"path/filepath"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots", "region.snap.zst")
	snap := RegionSnapshotV1{
		Header:   Header{Version: Version, RunID: "run-9", Seed: -42},
		Settings: SettingsV1{OceanPercent: 0.45, RockLayerScale: 7, RockCount: 12},
		Layers: []LayerV1{{
			Pipeline: "biome",
			X:        -2,
			Z:        5,
			W:        3,
			H:        2,
			Values:   []int32{0, 0, 17, 4, 4, 19},
			Palette:  []string{"OCEAN"},
		}},
	}
	if err := WriteSnapshot(path, snap); err != nil {
		t.Fatalf("write: %v", err)
	}

	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if h.RunID != "run-9" || h.Seed != -42 {
		t.Fatalf("unexpected header %+v", h)
	}

	got, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	l, ok := got.Layer("biome")
	if !ok {
		t.Fatalf("missing biome layer")
	}
	if v, ok := l.At(0, 5); !ok || v != 17 {
		t.Fatalf("At(0,5) = %d %v, want 17", v, ok)
	}
	if v, ok := l.At(0, 6); !ok || v != 19 {
		t.Fatalf("At(0,6) = %d %v, want 19", v, ok)
	}
	if _, ok := l.At(1, 5); ok {
		t.Fatalf("At outside the window should miss")
	}
	if got.Settings.RockCount != 12 {
		t.Fatalf("settings not preserved: %+v", got.Settings)
	}
}

func TestWriteRejectsShapeMismatch(t *testing.T) {
	snap := RegionSnapshotV1{
		Header: Header{Version: Version},
		Layers: []LayerV1{{Pipeline: "rock", W: 2, H: 2, Values: []int32{1}}},
	}
	if err := WriteSnapshot(filepath.Join(t.TempDir(), "bad.zst"), snap); err == nil {
		t.Fatalf("expected error for mismatched layer shape")
	}
}
