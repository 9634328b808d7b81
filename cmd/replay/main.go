package main

import (
	"flag"
	"fmt"
	"os"

	"layergen.ai/internal/persistence/snapshot"
	"layergen.ai/internal/sim/catalogs"
)

func main() {
	var (
		snapPath  = flag.String("snapshot", "", "path to region.snap.zst")
		framesDir = flag.String("frames", "", "run directory containing frames/frames-*.jsonl.zst (optional)")
		configDir = flag.String("configs", "./configs", "config directory")
	)
	flag.Parse()

	if *snapPath == "" {
		fmt.Fprintln(os.Stderr, "missing -snapshot")
		os.Exit(2)
	}

	snap, err := snapshot.ReadSnapshot(*snapPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}

	fmt.Printf("snapshot v%d run=%s seed=%d ocean=%.2f rock_scale=%d rock_count=%d layers=%d\n",
		snap.Header.Version, snap.Header.RunID, snap.Header.Seed,
		snap.Settings.OceanPercent, snap.Settings.RockLayerScale, snap.Settings.RockCount, len(snap.Layers))

	if cats, err := catalogs.Load(*configDir); err == nil {
		if snap.BiomeCatalogDigest != "" && snap.BiomeCatalogDigest != cats.Biomes.Digest {
			fmt.Println("warning: biome catalog changed since the snapshot was written")
		}
		if snap.RockCatalogDigest != "" && snap.RockCatalogDigest != cats.Rocks.Digest {
			fmt.Println("warning: rock catalog changed since the snapshot was written")
		}
	}

	cells, err := verifyLayers(snap)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	fmt.Printf("layers ok: checked=%d cells\n", cells)

	if *framesDir == "" {
		return
	}
	checked, err := verifyFrames(snap, *framesDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	fmt.Printf("frames ok: checked=%d frames\n", checked)
}
