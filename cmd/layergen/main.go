package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"layergen.ai/internal/observerproto"
	"layergen.ai/internal/persistence/indexdb"
	persistlog "layergen.ai/internal/persistence/log"
	"layergen.ai/internal/persistence/snapshot"
	"layergen.ai/internal/sim/catalogs"
	"layergen.ai/internal/sim/tuning"
	"layergen.ai/internal/sim/world/terrain/inspect"
	"layergen.ai/internal/sim/world/terrain/layer"
	"layergen.ai/internal/transport/observer"
)

const (
	pipelineBiome  = "biome"
	pipelineForest = "forest"
	pipelinePlates = "plates"
	pipelineRock   = "rock"
)

var allPipelines = []string{pipelineBiome, pipelineForest, pipelinePlates, pipelineRock}

func main() {
	var (
		seed       = flag.Int64("seed", 0, "master seed (default: tuning seed)")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		pipeline   = flag.String("pipeline", "all", "pipeline to generate: biome|forest|plates|rock|all (comma separated)")

		x = flag.Int64("x", 0, "window origin x")
		z = flag.Int64("z", 0, "window origin z")
		w = flag.Int("w", 256, "window width")
		h = flag.Int("h", 256, "window height")

		outDir  = flag.String("out", "./data", "output directory")
		index   = flag.Bool("index", true, "index runs and stage frames in <out>/index.sqlite")
		frames  = flag.Bool("frames", true, "log stage frames as zstd JSONL under the run directory")
		serveOn = flag.String("serve", "", "serve stage frames to observers on this address after generating (e.g. 127.0.0.1:8081)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[layergen] ", log.LstdFlags|log.Lmicroseconds)

	if *w <= 0 || *h <= 0 {
		logger.Fatalf("window must be positive, got %dx%d", *w, *h)
	}
	pipelines, err := parsePipelines(*pipeline)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}
	reg, err := layer.NewBiomeRegistry(cats)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			tune.Seed = *seed
		}
	})

	runID := fmt.Sprintf("run_%d_%d", tune.Seed, time.Now().UTC().UnixNano())
	runDir := filepath.Join(*outDir, "runs", runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		logger.Fatalf("create run dir: %v", err)
	}

	var sinks []inspect.Sink

	if *frames {
		fl := persistlog.NewFrameLogger(runDir)
		defer fl.Close()
		sinks = append(sinks, fl)
	}

	// Optional: read-model index (does not affect generation).
	var idx *indexdb.SQLiteIndex
	if *index {
		idx, err = indexdb.OpenSQLite(filepath.Join(*outDir, "index.sqlite"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer func() {
			if err := idx.Close(); err != nil {
				logger.Printf("index close: %v", err)
			}
			if n := idx.Dropped(); n > 0 {
				logger.Printf("index dropped %d writes", n)
			}
		}()
		if err := idx.UpsertCatalogs(*configDir, cats, tune); err != nil {
			logger.Printf("index: upsert catalogs: %v", err)
		}
		idx.RecordRun(runID, tune, pipelines)
		sinks = append(sinks, idx)
	}

	var srv *observer.Server
	if *serveOn != "" {
		srv = observer.NewServer(observerproto.BootstrapResponse{
			RunID: runID,
			RunParams: observerproto.RunParams{
				Seed:           tune.Seed,
				OceanPercent:   tune.Layers.OceanPercent,
				RockLayerScale: tune.Layers.RockLayerScale,
				RockCount:      tune.Layers.RockCount,
				Pipelines:      pipelines,
				Window:         [4]int64{tune.Inspect.WindowX, tune.Inspect.WindowZ, int64(tune.Inspect.WindowSize), int64(tune.Inspect.WindowSize)},
			},
			BiomePalette:  layer.BiomePalette(reg),
			ForestPalette: layer.ForestPalette(),
			PlatePalette:  layer.PlatePalette(),
			RockPalette:   rockPalette(cats, tune.Layers.RockCount),
		}, tune.Inspect.MaxFrames*len(pipelines)+len(pipelines), logger)
		sinks = append(sinks, srv)
	}

	snap := snapshot.RegionSnapshotV1{
		Header: snapshot.Header{Version: snapshot.Version, RunID: runID, Seed: tune.Seed},
		Settings: snapshot.SettingsV1{
			OceanPercent:   tune.Layers.OceanPercent,
			RockLayerScale: tune.Layers.RockLayerScale,
			RockCount:      tune.Layers.RockCount,
		},
		BiomeCatalogDigest: cats.Biomes.Digest,
		RockCatalogDigest:  cats.Rocks.Digest,
	}

	for _, p := range pipelines {
		start := time.Now()
		rec := inspect.NewRecorder(runID, p, tune.Inspect, sinks...)
		area := build(p, tune, rec).Build()

		if p == pipelineBiome {
			if err := layer.CheckNoMarkers(area, *x, *z, *w, *h); err != nil {
				logger.Fatalf("biome: %v", err)
			}
		}
		values := layer.Sample(area, *x, *z, *w, *h)
		l := snapshot.LayerV1{Pipeline: p, X: *x, Z: *z, W: *w, H: *h, Values: make([]int32, len(values))}
		for i, v := range values {
			l.Values[i] = int32(v)
		}
		switch p {
		case pipelineBiome:
			l.Palette = layer.BiomePalette(reg)
		case pipelineForest:
			l.Palette = layer.ForestPalette()
		case pipelinePlates:
			l.Palette = layer.PlatePalette()
		case pipelineRock:
			l.Palette = rockPalette(cats, tune.Layers.RockCount)
		}
		snap.Layers = append(snap.Layers, l)

		if err := rec.Err(); err != nil {
			logger.Printf("%s: frame sink: %v", p, err)
		}
		if srv != nil {
			srv.Done(runID, p, rec.Stages())
		}
		logger.Printf("%s: stages=%d frames=%d dropped=%d window=%dx%d took=%s",
			p, rec.Stages(), len(rec.Frames()), rec.Dropped(), *w, *h, time.Since(start).Truncate(time.Millisecond))
	}

	snapPath := filepath.Join(runDir, "region.snap.zst")
	if err := snapshot.WriteSnapshot(snapPath, snap); err != nil {
		logger.Fatalf("write snapshot: %v", err)
	}
	if idx != nil {
		idx.RecordSnapshot(snapPath, snap)
	}
	logger.Printf("run %s seed=%d snapshot=%s", runID, tune.Seed, snapPath)

	if srv != nil {
		if err := serve(*serveOn, srv, logger); err != nil {
			logger.Printf("observer server: %v", err)
		}
	}
}

func build(pipeline string, tune tuning.Tuning, rec *inspect.Recorder) layer.Factory {
	opts := []layer.Option{layer.WithObserver(rec)}
	switch pipeline {
	case pipelineBiome:
		return layer.BuildBiomes(tune.Seed, tune.Layers, opts...)
	case pipelineForest:
		return layer.BuildForests(tune.Seed, tune.Layers, opts...)
	case pipelinePlates:
		return layer.BuildPlateInfo(tune.Seed, tune.Layers, opts...)
	default:
		return layer.BuildRocks(tune.Seed, tune.Layers, opts...)
	}
}

func parsePipelines(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return append([]string(nil), allPipelines...), nil
	}
	var out []string
	seen := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		switch p {
		case pipelineBiome, pipelineForest, pipelinePlates, pipelineRock:
		default:
			return nil, fmt.Errorf("unknown pipeline %q (want biome|forest|plates|rock|all)", p)
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out, nil
}

func rockPalette(cats *catalogs.Catalogs, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = cats.RockName(i)
	}
	return out
}

func serve(addr string, srv *observer.Server, logger *log.Logger) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/observer/bootstrap", srv.BootstrapHandler())
	mux.HandleFunc("/v1/observer/ws", srv.WSHandler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	hs := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("observer listening on %s", addr)
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	logger.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}
