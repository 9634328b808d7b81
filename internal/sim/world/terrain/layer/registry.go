package layer

import (
	"fmt"

	"layergen.ai/internal/sim/catalogs"
	"layergen.ai/internal/sim/world/terrain/variants"
)

// BiomeRegistry resolves biome layer ids to catalog variants.
type BiomeRegistry = variants.Registry[catalogs.BiomeVariant]

// NewBiomeRegistry registers the catalog's variants in id order, then the
// markers. Any mismatch between a registered id and its constant, or a
// variant missing from the catalog, is a configuration defect.
func NewBiomeRegistry(cats *catalogs.Catalogs) (*BiomeRegistry, error) {
	reg := variants.NewRegistry[catalogs.BiomeVariant]()
	for want, name := range biomeVariantNames {
		v, ok := cats.Biome(name)
		if !ok {
			return nil, fmt.Errorf("biome registry: catalog has no variant %s", name)
		}
		id, err := reg.Register(v)
		if err != nil {
			return nil, fmt.Errorf("biome registry: %w", err)
		}
		if id != want {
			return nil, fmt.Errorf("biome registry: %s registered as %d, expected %d", name, id, want)
		}
	}
	for want := OceanOceanConvergingMarker; want < biomeIDCount; want++ {
		if id := reg.RegisterDummy(); id != want {
			return nil, fmt.Errorf("biome registry: marker registered as %d, expected %d", id, want)
		}
	}
	return reg, nil
}

// BiomePalette returns the variant names indexed by biome id. Marker slots
// are named "MARKER_<id>".
func BiomePalette(reg *BiomeRegistry) []string {
	out := make([]string, reg.Len())
	for id := range out {
		if v, err := reg.Lookup(id); err == nil {
			out[id] = v.ID
		} else {
			out[id] = fmt.Sprintf("MARKER_%d", id)
		}
	}
	return out
}
