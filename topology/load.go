package topology

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Load reads a topology description from path, applies field defaults and
// validates it. The parser and defaulting logic are deliberately outside
// the simulation core (spec.md §1): everything downstream of Load consumes
// only the returned, already-valid Topology.
func Load(path string) (*Topology, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("topology: reading %s: %w", path, err)
	}

	var t Topology
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("topology: parsing %s: %w", path, err)
	}

	if err := applyDefaults(&t); err != nil {
		return nil, fmt.Errorf("topology: applying defaults: %w", err)
	}

	if err := Validate(&t); err != nil {
		return nil, err
	}

	return &t, nil
}
