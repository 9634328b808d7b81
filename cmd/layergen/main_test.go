package main

import (
	"reflect"
	"testing"

	"layergen.ai/internal/sim/catalogs"
	"layergen.ai/internal/sim/tuning"
	"layergen.ai/internal/sim/world/terrain/inspect"
)

func TestParsePipelines(t *testing.T) {
	got, err := parsePipelines("all")
	if err != nil || !reflect.DeepEqual(got, allPipelines) {
		t.Fatalf("all: got %v err %v", got, err)
	}
	got, err = parsePipelines(" rock, biome,rock ")
	if err != nil || !reflect.DeepEqual(got, []string{"rock", "biome"}) {
		t.Fatalf("list: got %v err %v", got, err)
	}
	if _, err := parsePipelines("biome,voxels"); err == nil {
		t.Fatalf("expected error for unknown pipeline")
	}
}

func TestRockPaletteFallsBackToNumberedNames(t *testing.T) {
	cats := &catalogs.Catalogs{Rocks: catalogs.RockCatalog{Names: []string{"GRANITE"}}}
	got := rockPalette(cats, 3)
	if !reflect.DeepEqual(got, []string{"GRANITE", "ROCK_1", "ROCK_2"}) {
		t.Fatalf("unexpected palette %v", got)
	}
}

func TestBuildAssemblesEveryPipeline(t *testing.T) {
	tune := tuning.Defaults()
	tune.Inspect.MaxFrames = 0
	for _, p := range allPipelines {
		rec := inspect.NewRecorder("t", p, tune.Inspect)
		if f := build(p, tune, rec); !f.Valid() {
			t.Fatalf("%s: invalid factory", p)
		}
		if rec.Stages() == 0 {
			t.Fatalf("%s: no stages observed", p)
		}
	}
}
