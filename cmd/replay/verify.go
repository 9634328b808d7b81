package main

import (
	"fmt"

	persistlog "layergen.ai/internal/persistence/log"
	"layergen.ai/internal/persistence/snapshot"
	"layergen.ai/internal/sim/tuning"
	"layergen.ai/internal/sim/world/terrain/inspect"
	"layergen.ai/internal/sim/world/terrain/layer"
)

func settingsOf(snap snapshot.RegionSnapshotV1) tuning.LayerSettings {
	s := tuning.DefaultLayers()
	s.OceanPercent = snap.Settings.OceanPercent
	s.RockLayerScale = snap.Settings.RockLayerScale
	s.RockCount = snap.Settings.RockCount
	return s
}

func assemble(pipeline string, seed int64, s tuning.LayerSettings, opts ...layer.Option) (layer.Factory, error) {
	switch pipeline {
	case "biome":
		return layer.BuildBiomes(seed, s, opts...), nil
	case "forest":
		return layer.BuildForests(seed, s, opts...), nil
	case "plates":
		return layer.BuildPlateInfo(seed, s, opts...), nil
	case "rock":
		return layer.BuildRocks(seed, s, opts...), nil
	}
	return layer.Factory{}, fmt.Errorf("unknown pipeline %q", pipeline)
}

// verifyLayers regenerates every stored layer from the snapshot's seed and
// settings and compares it cell by cell.
func verifyLayers(snap snapshot.RegionSnapshotV1) (int, error) {
	s := settingsOf(snap)
	cells := 0
	for _, l := range snap.Layers {
		f, err := assemble(l.Pipeline, snap.Header.Seed, s)
		if err != nil {
			return cells, err
		}
		got := layer.Sample(f.Build(), l.X, l.Z, l.W, l.H)
		for i, v := range got {
			if int32(v) != l.Values[i] {
				return cells, fmt.Errorf("%s: mismatch at (%d, %d): got=%d want=%d",
					l.Pipeline, l.X+int64(i%l.W), l.Z+int64(i/l.W), v, l.Values[i])
			}
		}
		cells += len(got)
	}
	return cells, nil
}

// verifyFrames rebuilds each logged frame's stage and compares digests.
// Frames are matched to stages by assembly order.
func verifyFrames(snap snapshot.RegionSnapshotV1, runDir string) (int, error) {
	frames, err := persistlog.ReadFrames(runDir)
	if err != nil {
		return 0, err
	}
	if len(frames) == 0 {
		return 0, fmt.Errorf("no frames found in %s", runDir)
	}

	s := settingsOf(snap)
	stages := map[string][]layer.Factory{}
	checked := 0
	for _, want := range frames {
		list, ok := stages[want.Pipeline]
		if !ok {
			obs := layer.ObserverFunc(func(_ string, _ int, f layer.Factory) {
				list = append(list, f)
			})
			if _, err := assemble(want.Pipeline, snap.Header.Seed, s, layer.WithObserver(obs)); err != nil {
				return checked, err
			}
			stages[want.Pipeline] = list
		}
		if want.Seq < 1 || want.Seq > len(list) {
			return checked, fmt.Errorf("%s: frame seq %d out of range (%d stages)", want.Pipeline, want.Seq, len(list))
		}
		f := list[want.Seq-1]
		if f.Label() != want.Label {
			return checked, fmt.Errorf("%s: frame seq %d label %s, stage is %s", want.Pipeline, want.Seq, want.Label, f.Label())
		}
		got := inspect.Capture(want.RunID, want.Pipeline, want.Label, want.Index, f.Build(), want.X, want.Z, want.W, want.H)
		if got.Digest() != want.Digest() {
			return checked, fmt.Errorf("%s: digest mismatch at %s#%d (seq %d)", want.Pipeline, want.Label, want.Index, want.Seq)
		}
		checked++
	}
	return checked, nil
}
