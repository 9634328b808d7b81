package indexdb

import (
	"database/sql"
	"path/filepath"
	"testing"

	"layergen.ai/internal/persistence/snapshot"
	"layergen.ai/internal/sim/catalogs"
	"layergen.ai/internal/sim/tuning"
	"layergen.ai/internal/sim/world/terrain/inspect"
)

func TestSQLiteIndex_WritesRunsFramesAndSnapshots(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "index.sqlite")

	idx, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	tune := tuning.Defaults()
	idx.RecordRun("run-1", tune, []string{"biome", "rock"})
	for i := 1; i <= 3; i++ {
		f := inspect.Frame{RunID: "run-1", Pipeline: "rock", Label: "rock", Index: i, Seq: i, W: 2, H: 2, Values: []int{i, i, 0, 1}}
		if err := idx.WriteFrame(f); err != nil {
			t.Fatalf("write frame: %v", err)
		}
	}
	idx.RecordSnapshot(filepath.Join(dir, "region.zst"), snapshot.RegionSnapshotV1{
		Header: snapshot.Header{Version: snapshot.Version, RunID: "run-1", Seed: tune.Seed},
		Layers: []snapshot.LayerV1{{Pipeline: "rock"}},
	})
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if idx.Dropped() != 0 {
		t.Fatalf("unexpected dropped writes: %d", idx.Dropped())
	}
	// Writes after close are ignored.
	idx.RecordRun("late", tune, nil)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var seed int64
	var pipelines string
	if err := db.QueryRow(`SELECT seed, pipelines FROM runs WHERE run_id='run-1'`).Scan(&seed, &pipelines); err != nil {
		t.Fatalf("query run: %v", err)
	}
	if seed != tune.Seed || pipelines != `["biome","rock"]` {
		t.Fatalf("unexpected run row: seed=%d pipelines=%s", seed, pipelines)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM frames WHERE run_id='run-1' AND pipeline='rock'`).Scan(&n); err != nil {
		t.Fatalf("count frames: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 frames, got %d", n)
	}
	var distinct int
	var digest string
	if err := db.QueryRow(`SELECT distinct_ids, digest FROM frames WHERE run_id='run-1' AND seq=2`).Scan(&distinct, &digest); err != nil {
		t.Fatalf("query frame: %v", err)
	}
	want := inspect.Frame{W: 2, H: 2, Values: []int{2, 2, 0, 1}}
	if distinct != 3 || digest != want.Digest() {
		t.Fatalf("unexpected frame row: distinct=%d digest=%s", distinct, digest)
	}

	if err := db.QueryRow(`SELECT layers FROM snapshots WHERE run_id='run-1'`).Scan(&n); err != nil {
		t.Fatalf("query snapshot: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 layer, got %d", n)
	}
}

func TestSQLiteIndex_UpsertCatalogs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.sqlite")
	idx, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer idx.Close()

	configDir := "../../../configs"
	cats, err := catalogs.Load(configDir)
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	if err := idx.UpsertCatalogs(configDir, cats, tuning.Defaults()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var digest string
	if err := idx.db.QueryRow(`SELECT digest FROM catalogs WHERE name='biome_variants'`).Scan(&digest); err != nil {
		t.Fatalf("query: %v", err)
	}
	if digest != cats.Biomes.Digest {
		t.Fatalf("digest mismatch: %s vs %s", digest, cats.Biomes.Digest)
	}
	var n int
	if err := idx.db.QueryRow(`SELECT COUNT(*) FROM catalogs`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected biome, rock and tuning rows, got %d", n)
	}
}

func TestOpenSQLiteRejectsEmptyPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatalf("expected error")
	}
}
