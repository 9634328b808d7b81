package main

import (
	"database/sql"
	"path/filepath"
	"testing"

	"layergen.ai/internal/persistence/indexdb"
	"layergen.ai/internal/sim/tuning"
	"layergen.ai/internal/sim/world/terrain/inspect"
)

func TestRunQuery_FramesAndSameStage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.sqlite")
	idx, err := indexdb.OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	tune := tuning.Defaults()
	idx.RecordRun("a", tune, []string{"rock"})
	idx.RecordRun("b", tune, []string{"rock"})
	shared := []int{1, 1, 2, 2}
	_ = idx.WriteFrame(inspect.Frame{RunID: "a", Pipeline: "rock", Label: "rock", Index: 1, Seq: 1, W: 2, H: 2, Values: shared})
	_ = idx.WriteFrame(inspect.Frame{RunID: "a", Pipeline: "rock", Label: "rock", Index: 2, Seq: 2, W: 2, H: 2, Values: []int{0, 0, 0, 0}})
	_ = idx.WriteFrame(inspect.Frame{RunID: "b", Pipeline: "rock", Label: "rock", Index: 1, Seq: 1, W: 2, H: 2, Values: shared})
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var runs []runRow
	if err := runQuery(db, "runs", queryArgs{Limit: 10}, func(v any) { runs = append(runs, v.(runRow)) }); err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	var frames []frameRow
	if err := runQuery(db, "frames", queryArgs{RunID: "a", Limit: 10}, func(v any) { frames = append(frames, v.(frameRow)) }); err != nil {
		t.Fatalf("frames: %v", err)
	}
	if len(frames) != 2 || frames[0].Seq != 1 || frames[1].Seq != 2 {
		t.Fatalf("unexpected frames %+v", frames)
	}

	var same []frameRow
	if err := runQuery(db, "same_stage", queryArgs{Digest: frames[0].Digest, Limit: 10}, func(v any) { same = append(same, v.(frameRow)) }); err != nil {
		t.Fatalf("same_stage: %v", err)
	}
	if len(same) != 2 || same[0].RunID != "a" || same[1].RunID != "b" {
		t.Fatalf("unexpected same_stage rows %+v", same)
	}

	if err := runQuery(db, "frames", queryArgs{Limit: 10}, func(any) {}); err == nil {
		t.Fatalf("expected missing run error")
	}
	if err := runQuery(db, "agents", queryArgs{Limit: 10}, func(any) {}); err == nil {
		t.Fatalf("expected unknown query error")
	}
}
