package layer

import "fmt"

// CheckNoMarkers scans a w x h window of a biome grid and reports the first
// marker or out-of-range id found.
func CheckNoMarkers(r Reader, x, z int64, w, h int) error {
	for dz := 0; dz < h; dz++ {
		for dx := 0; dx < w; dx++ {
			cx, cz := x+int64(dx), z+int64(dz)
			if v := r.Get(cx, cz); v < 0 || v >= biomeIDCount || IsMarker(v) {
				return fmt.Errorf("layer: non-variant id %d at (%d, %d)", v, cx, cz)
			}
		}
	}
	return nil
}
