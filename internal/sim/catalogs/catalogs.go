package catalogs

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed biome_variants.schema.json
var biomeSchemaJSON string

type Catalogs struct {
	Biomes BiomeCatalog
	Rocks  RockCatalog
}

// BiomeCatalog holds the variant definitions that layer ids resolve to.
// Defs keeps file order; ids are assigned by the registry, not here.
type BiomeCatalog struct {
	Defs   []BiomeVariant
	ByID   map[string]BiomeVariant
	Digest string
}

// BiomeVariant is the opaque handle a biome layer id maps to.
type BiomeVariant struct {
	ID       string `json:"id"`
	Category string `json:"category"` // "OCEAN","LAND","MOUNTAIN","LAKE","RIVER","SHORE"
	Color    string `json:"color,omitempty"`
}

type RockCatalog struct {
	Names  []string `json:"rocks"`
	Digest string   `json:"-"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	if err := loadBiomes(filepath.Join(configDir, "biome_variants.json"), &c.Biomes); err != nil {
		return nil, err
	}
	if err := loadRocks(filepath.Join(configDir, "rocks.json"), &c.Rocks); err != nil {
		return nil, err
	}
	return &c, nil
}

// Biome returns the variant named id.
func (c *Catalogs) Biome(id string) (BiomeVariant, bool) {
	v, ok := c.Biomes.ByID[id]
	return v, ok
}

// RockName falls back to a numbered name when the catalog has fewer rocks
// than the configured rock count.
func (c *Catalogs) RockName(i int) string {
	if c != nil && i >= 0 && i < len(c.Rocks.Names) {
		return c.Rocks.Names[i]
	}
	return fmt.Sprintf("ROCK_%d", i)
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func compileBiomeSchema() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("biome_variants.schema.json", biomeSchemaJSON)
}

func loadBiomes(path string, out *BiomeCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return parseBiomes(raw, out)
}

func parseBiomes(raw []byte, out *BiomeCatalog) error {
	out.Digest = sha256Hex(raw)

	schema, err := compileBiomeSchema()
	if err != nil {
		return fmt.Errorf("biome_variants.schema.json: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("biome_variants.json: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("biome_variants.json: %w", err)
	}

	var defs []BiomeVariant
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("biome_variants.json: %w", err)
	}
	out.Defs = defs
	out.ByID = make(map[string]BiomeVariant, len(defs))
	for _, d := range defs {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			return fmt.Errorf("biome_variants.json: empty id")
		}
		if _, dup := out.ByID[id]; dup {
			return fmt.Errorf("biome_variants.json: duplicate id %s", id)
		}
		out.ByID[id] = d
	}
	return nil
}

func loadRocks(path string, out *RockCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		// Rock names are cosmetic; numbered names are used when absent.
		if os.IsNotExist(err) {
			out.Digest = sha256Hex(nil)
			return nil
		}
		return err
	}
	out.Digest = sha256Hex(raw)
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("rocks.json: %w", err)
	}
	return nil
}
