package catalogs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRepoConfigs(t *testing.T) {
	c, err := Load("../../../configs")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Biomes.Defs) != 31 {
		t.Fatalf("expected 31 biome variants, got %d", len(c.Biomes.Defs))
	}
	if v, ok := c.Biome("DEEP_OCEAN_TRENCH"); !ok || v.Category != "OCEAN" {
		t.Fatalf("unexpected DEEP_OCEAN_TRENCH: %+v ok=%v", v, ok)
	}
	if c.Biomes.Digest == "" || c.Rocks.Digest == "" {
		t.Fatalf("missing digests")
	}
	if c.RockName(0) != "GRANITE" {
		t.Fatalf("rock 0: %s", c.RockName(0))
	}
	if c.RockName(500) != "ROCK_500" {
		t.Fatalf("fallback rock name: %s", c.RockName(500))
	}
}

func TestParseBiomesRejectsSchemaViolations(t *testing.T) {
	var out BiomeCatalog
	bad := []string{
		`[]`,
		`[{"id":"OCEAN"}]`,
		`[{"id":"ocean","category":"OCEAN"}]`,
		`[{"id":"OCEAN","category":"SKY"}]`,
		`[{"id":"OCEAN","category":"OCEAN","extra":1}]`,
	}
	for _, raw := range bad {
		if err := parseBiomes([]byte(raw), &out); err == nil {
			t.Fatalf("expected schema error for %s", raw)
		}
	}
}

func TestParseBiomesRejectsDuplicates(t *testing.T) {
	var out BiomeCatalog
	raw := `[{"id":"OCEAN","category":"OCEAN"},{"id":"OCEAN","category":"OCEAN"}]`
	if err := parseBiomes([]byte(raw), &out); err == nil {
		t.Fatalf("expected duplicate error")
	}
}

func TestLoadWithoutRocksFile(t *testing.T) {
	dir := t.TempDir()
	raw := `[{"id":"OCEAN","category":"OCEAN","color":"#000000"}]`
	if err := os.WriteFile(filepath.Join(dir, "biome_variants.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Rocks.Names) != 0 || c.RockName(2) != "ROCK_2" {
		t.Fatalf("unexpected rocks: %+v", c.Rocks)
	}
}
