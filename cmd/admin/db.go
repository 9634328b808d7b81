package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "output directory of layergen")
	dbPath := fs.String("db", "", "sqlite db path (optional; defaults to <data>/index.sqlite)")
	runID := fs.String("run", "", "run id filter (frames)")
	pipeline := fs.String("pipeline", "", "pipeline filter (frames)")
	digest := fs.String("digest", "", "frame digest (same_stage)")
	limit := fs.Int("limit", 20, "result limit")
	_ = fs.Parse(args)

	q := "runs"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		path = filepath.Join(*dataDir, "index.sqlite")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	if *limit <= 0 {
		*limit = 20
	}
	if err := runQuery(db, q, queryArgs{RunID: *runID, Pipeline: *pipeline, Digest: *digest, Limit: *limit}, printJSON); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if strings.HasPrefix(err.Error(), "unknown query") {
			fmt.Fprintln(os.Stderr, "usage: admin db [-data ./data|-db PATH] [-run ID] [-pipeline P] [-digest D] runs|frames|snapshots|catalogs|same_stage")
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type queryArgs struct {
	RunID    string
	Pipeline string
	Digest   string
	Limit    int
}

type runRow struct {
	RunID     string `json:"run_id"`
	Seed      int64  `json:"seed"`
	Pipelines string `json:"pipelines"`
	StartedAt string `json:"started_at"`
}

type frameRow struct {
	RunID    string `json:"run_id"`
	Pipeline string `json:"pipeline"`
	Seq      int    `json:"seq"`
	Label    string `json:"label"`
	Index    int    `json:"index"`
	Digest   string `json:"digest"`
	Distinct int    `json:"distinct_ids"`
}

type snapshotRow struct {
	Path       string `json:"path"`
	RunID      string `json:"run_id"`
	Seed       int64  `json:"seed"`
	Layers     int    `json:"layers"`
	RecordedAt string `json:"recorded_at"`
}

type catalogRow struct {
	Name      string `json:"name"`
	Digest    string `json:"digest"`
	UpdatedAt string `json:"updated_at"`
}

// runQuery runs one named query and hands every row to emit.
func runQuery(db *sql.DB, q string, a queryArgs, emit func(any)) error {
	var (
		rows *sql.Rows
		err  error
	)
	switch q {
	case "runs":
		rows, err = db.Query(`SELECT run_id,seed,pipelines,started_at FROM runs ORDER BY started_at DESC LIMIT ?`, a.Limit)
	case "frames":
		if a.RunID == "" {
			return fmt.Errorf("frames: missing -run")
		}
		if a.Pipeline != "" {
			rows, err = db.Query(`SELECT run_id,pipeline,seq,label,idx,digest,distinct_ids FROM frames WHERE run_id=? AND pipeline=? ORDER BY pipeline,seq LIMIT ?`, a.RunID, a.Pipeline, a.Limit)
		} else {
			rows, err = db.Query(`SELECT run_id,pipeline,seq,label,idx,digest,distinct_ids FROM frames WHERE run_id=? ORDER BY pipeline,seq LIMIT ?`, a.RunID, a.Limit)
		}
	case "same_stage":
		// Frames from any run whose window matched this digest.
		if a.Digest == "" {
			return fmt.Errorf("same_stage: missing -digest")
		}
		rows, err = db.Query(`SELECT run_id,pipeline,seq,label,idx,digest,distinct_ids FROM frames WHERE digest=? ORDER BY run_id,pipeline,seq LIMIT ?`, a.Digest, a.Limit)
		q = "frames"
	case "snapshots":
		rows, err = db.Query(`SELECT path,run_id,seed,layers,recorded_at FROM snapshots ORDER BY recorded_at DESC LIMIT ?`, a.Limit)
	case "catalogs":
		rows, err = db.Query(`SELECT name,digest,updated_at FROM catalogs ORDER BY name`)
	default:
		return fmt.Errorf("unknown query: %s", q)
	}
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		switch q {
		case "runs":
			var r runRow
			if err := rows.Scan(&r.RunID, &r.Seed, &r.Pipelines, &r.StartedAt); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			emit(r)
		case "frames":
			var r frameRow
			if err := rows.Scan(&r.RunID, &r.Pipeline, &r.Seq, &r.Label, &r.Index, &r.Digest, &r.Distinct); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			emit(r)
		case "snapshots":
			var r snapshotRow
			if err := rows.Scan(&r.Path, &r.RunID, &r.Seed, &r.Layers, &r.RecordedAt); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			emit(r)
		case "catalogs":
			var r catalogRow
			if err := rows.Scan(&r.Name, &r.Digest, &r.UpdatedAt); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			emit(r)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	return nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
