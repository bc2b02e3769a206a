package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/paulmach/orb/geojson"
)

// Overlays serves the static reference overlays (points of interest) that
// ship with the service as GeoJSON files under the data directory.
type Overlays struct {
	dir string
}

// overlayFiles maps overlay names to their files.
var overlayFiles = map[string]string{
	"tourism":   "Tourism.geojson",
	"education": "Education.geojson",
	"medical":   "Medical.geojson",
	"market":    "Market.geojson",
}

// NewOverlays creates an overlay source over dataDir/geodata.
func NewOverlays(dataDir string) *Overlays {
	return &Overlays{dir: filepath.Join(dataDir, "geodata")}
}

// Names returns the known overlay names, sorted.
func (o *Overlays) Names() []string {
	names := make([]string, 0, len(overlayFiles))
	for name := range overlayFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads and parses one overlay by name.
func (o *Overlays) Load(name string) (*geojson.FeatureCollection, error) {
	file, ok := overlayFiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown overlay %q", name)
	}

	data, err := os.ReadFile(filepath.Join(o.dir, file))
	if err != nil {
		return nil, fmt.Errorf("reading overlay %q: %w", name, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing overlay %q: %w", name, err)
	}
	return fc, nil
}
