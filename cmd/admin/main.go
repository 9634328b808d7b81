package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	persistlog "layergen.ai/internal/persistence/log"
	"layergen.ai/internal/persistence/snapshot"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "db":
			dbCmd(os.Args[2:])
			return
		case "frames":
			framesCmd(os.Args[2:])
			return
		case "bootstrap":
			bootstrapCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

// listCmd prints every run directory with its snapshot header, if any.
func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "output directory of layergen")
	_ = fs.Parse(args)

	base := filepath.Join(*dataDir, "runs")
	entries, err := os.ReadDir(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		h, err := snapshot.ReadHeader(filepath.Join(base, name, "region.snap.zst"))
		if err != nil {
			fmt.Println(name)
			continue
		}
		fmt.Printf("%s seed=%d v%d\n", name, h.Seed, h.Version)
	}
}

// framesCmd prints the logged frames of one run, optionally filtered.
func framesCmd(args []string) {
	fs := flag.NewFlagSet("frames", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "output directory of layergen")
	runID := fs.String("run", "", "run id (required)")
	pipeline := fs.String("pipeline", "", "pipeline filter (optional)")
	label := fs.String("label", "", "label filter (optional)")
	_ = fs.Parse(args)

	if strings.TrimSpace(*runID) == "" {
		fmt.Fprintln(os.Stderr, "missing -run")
		os.Exit(2)
	}
	frames, err := persistlog.ReadFrames(filepath.Join(*dataDir, "runs", *runID))
	if err != nil {
		fmt.Fprintln(os.Stderr, "read frames:", err)
		os.Exit(1)
	}
	for _, f := range frames {
		if *pipeline != "" && f.Pipeline != *pipeline {
			continue
		}
		if *label != "" && f.Label != *label {
			continue
		}
		m := f.Message()
		printJSON(struct {
			Pipeline string         `json:"pipeline"`
			Seq      int            `json:"seq"`
			Label    string         `json:"label"`
			Index    int            `json:"index"`
			Window   [4]int64       `json:"window"`
			Digest   string         `json:"digest"`
			Hist     map[string]int `json:"histogram"`
		}{f.Pipeline, f.Seq, f.Label, f.Index, [4]int64{f.X, f.Z, int64(f.W), int64(f.H)}, m.Digest, m.Histogram})
	}
}
