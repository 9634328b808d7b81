package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"layergen.ai/internal/persistence/snapshot"
	"layergen.ai/internal/sim/catalogs"
	"layergen.ai/internal/sim/tuning"
	"layergen.ai/internal/sim/world/terrain/inspect"
)

// SQLiteIndex is a queryable secondary index of generation runs and the
// stage frames they captured. Writes are queued and applied by one writer
// goroutine in batched transactions; the JSONL frame log stays the source of
// truth when the queue overflows.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed  atomic.Bool
	dropped atomic.Uint64
}

type reqKind int

const (
	reqRun reqKind = iota + 1
	reqFrame
	reqSnapshot
)

type req struct {
	kind reqKind

	run      runRow
	frame    frameRow
	snapshot snapshotRow
}

type runRow struct {
	RunID     string
	Seed      int64
	Pipelines string
	Settings  string
	StartedAt string
}

type frameRow struct {
	RunID    string
	Pipeline string
	Seq      int
	Label    string
	Index    int
	X, Z     int64
	W, H     int
	Digest   string
	Distinct int
	Data     string
}

type snapshotRow struct {
	Path       string
	RunID      string
	Seed       int64
	Layers     int
	RecordedAt string
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 16384),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			pipelines TEXT NOT NULL,
			settings_json TEXT NOT NULL,
			started_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS frames (
			run_id TEXT NOT NULL,
			pipeline TEXT NOT NULL,
			seq INTEGER NOT NULL,
			label TEXT NOT NULL,
			idx INTEGER NOT NULL,
			x INTEGER NOT NULL,
			z INTEGER NOT NULL,
			w INTEGER NOT NULL,
			h INTEGER NOT NULL,
			digest TEXT NOT NULL,
			distinct_ids INTEGER NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (run_id, pipeline, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_frames_label ON frames(pipeline, label, idx);`,
		`CREATE INDEX IF NOT EXISTS idx_frames_digest ON frames(digest);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			path TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			layers INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// Dropped is the number of writes discarded because the queue was full.
func (s *SQLiteIndex) Dropped() uint64 { return s.dropped.Load() }

func (s *SQLiteIndex) enqueue(r req) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
		s.dropped.Add(1)
	}
}

func (s *SQLiteIndex) RecordRun(runID string, tune tuning.Tuning, pipelines []string) {
	p, _ := json.Marshal(pipelines)
	st, _ := json.Marshal(tune)
	s.enqueue(req{kind: reqRun, run: runRow{
		RunID:     runID,
		Seed:      tune.Seed,
		Pipelines: string(p),
		Settings:  string(st),
		StartedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}})
}

// WriteFrame indexes one captured frame. It never blocks and never fails;
// it is an inspect.Sink.
func (s *SQLiteIndex) WriteFrame(f inspect.Frame) error {
	if s == nil {
		return nil
	}
	m := f.Message()
	s.enqueue(req{kind: reqFrame, frame: frameRow{
		RunID:    f.RunID,
		Pipeline: f.Pipeline,
		Seq:      f.Seq,
		Label:    f.Label,
		Index:    f.Index,
		X:        f.X,
		Z:        f.Z,
		W:        f.W,
		H:        f.H,
		Digest:   m.Digest,
		Distinct: len(m.Histogram),
		Data:     m.Data,
	}})
	return nil
}

func (s *SQLiteIndex) RecordSnapshot(path string, snap snapshot.RegionSnapshotV1) {
	s.enqueue(req{kind: reqSnapshot, snapshot: snapshotRow{
		Path:       path,
		RunID:      snap.Header.RunID,
		Seed:       snap.Header.Seed,
		Layers:     len(snap.Layers),
		RecordedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}})
}

// UpsertCatalogs stores the raw catalogs and the tuning actually applied,
// keyed by digest. It writes synchronously.
func (s *SQLiteIndex) UpsertCatalogs(configDir string, cats *catalogs.Catalogs, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	var rows []kv
	read := func(name, file, digest string) {
		if configDir == "" || digest == "" {
			return
		}
		b, err := os.ReadFile(filepath.Join(configDir, file))
		if err != nil {
			return
		}
		rows = append(rows, kv{name: name, digest: digest, json: b})
	}
	read("biome_variants", "biome_variants.json", cats.Biomes.Digest)
	read("rocks", "rocks.json", cats.Rocks.Digest)
	{
		b, _ := json.Marshal(tune)
		sum := sha256.Sum256(b)
		rows = append(rows, kv{name: "tuning", digest: hex.EncodeToString(sum[:]), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertRun, _ := s.db.Prepare(`INSERT OR REPLACE INTO runs(run_id,seed,pipelines,settings_json,started_at) VALUES(?,?,?,?,?)`)
	insertFrame, _ := s.db.Prepare(`INSERT OR REPLACE INTO frames(run_id,pipeline,seq,label,idx,x,z,w,h,digest,distinct_ids,data) VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`)
	insertSnapshot, _ := s.db.Prepare(`INSERT OR REPLACE INTO snapshots(path,run_id,seed,layers,recorded_at) VALUES(?,?,?,?,?)`)
	defer func() {
		for _, st := range []*sql.Stmt{insertRun, insertFrame, insertSnapshot} {
			if st != nil {
				_ = st.Close()
			}
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 500
		commitMaxWait = time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	exec := func(st *sql.Stmt, args ...any) {
		if st == nil || tx == nil {
			return
		}
		if _, err := tx.Stmt(st).Exec(args...); err != nil {
			rollback()
			return
		}
		opCount++
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqRun:
			ru := r.run
			exec(insertRun, ru.RunID, ru.Seed, ru.Pipelines, ru.Settings, ru.StartedAt)
		case reqFrame:
			f := r.frame
			exec(insertFrame, f.RunID, f.Pipeline, f.Seq, f.Label, f.Index, f.X, f.Z, f.W, f.H, f.Digest, f.Distinct, f.Data)
		case reqSnapshot:
			sn := r.snapshot
			exec(insertSnapshot, sn.Path, sn.RunID, sn.Seed, sn.Layers, sn.RecordedAt)
		}
		if tx != nil && (opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait) {
			commit()
		}
	}

	commit()
}
