package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const Version = 1

type Header struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id"`
	Seed    int64  `json:"seed"`
}

// RegionSnapshotV1 stores the final grids of one generation run over one
// window, plus everything needed to regenerate and compare them.
type RegionSnapshotV1 struct {
	Header Header `json:"header"`

	Settings SettingsV1 `json:"settings"`

	BiomeCatalogDigest string `json:"biome_catalog_digest,omitempty"`
	RockCatalogDigest  string `json:"rock_catalog_digest,omitempty"`

	Layers []LayerV1 `json:"layers"`
}

type SettingsV1 struct {
	OceanPercent   float64 `json:"ocean_percent"`
	RockLayerScale int     `json:"rock_layer_scale"`
	RockCount      int     `json:"rock_count"`
}

// LayerV1 is one pipeline's final grid, row-major.
type LayerV1 struct {
	Pipeline string   `json:"pipeline"`
	X        int64    `json:"x"`
	Z        int64    `json:"z"`
	W        int      `json:"w"`
	H        int      `json:"h"`
	Values   []int32  `json:"values"`
	Palette  []string `json:"palette,omitempty"`
}

// Layer returns the stored layer for a pipeline.
func (s *RegionSnapshotV1) Layer(pipeline string) (LayerV1, bool) {
	for _, l := range s.Layers {
		if l.Pipeline == pipeline {
			return l, true
		}
	}
	return LayerV1{}, false
}

// At returns the id at world coordinates inside the window.
func (l LayerV1) At(x, z int64) (int, bool) {
	dx, dz := x-l.X, z-l.Z
	if dx < 0 || dz < 0 || dx >= int64(l.W) || dz >= int64(l.H) {
		return 0, false
	}
	return int(l.Values[dz*int64(l.W)+dx]), true
}

func WriteSnapshot(path string, snap RegionSnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	for _, l := range snap.Layers {
		if len(l.Values) != l.W*l.H {
			return fmt.Errorf("layer %s: %d values for %dx%d window", l.Pipeline, len(l.Values), l.W, l.H)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func ReadSnapshot(path string) (RegionSnapshotV1, error) {
	var snap RegionSnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	hb, err := br.ReadBytes('\n')
	if err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	var h Header
	if err := json.Unmarshal(hb, &h); err != nil {
		return snap, fmt.Errorf("header: %w", err)
	}
	if h.Version != Version {
		return snap, fmt.Errorf("unsupported snapshot version %d", h.Version)
	}

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}

// ReadHeader reads only the JSON header line.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	hb, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, err
	}
	err = json.Unmarshal(hb, &h)
	return h, err
}
