package zone

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type regionFile struct {
	Regions []regionDef `yaml:"regions"`
}

type regionDef struct {
	Name   string     `yaml:"name"`
	Level  int32      `yaml:"level"`
	Shape  string     `yaml:"shape"`
	Nodes  [][2]int32 `yaml:"nodes"`
	Radius int32      `yaml:"radius"`
}

// LoadFile reads region definitions from a YAML file:
//
//	regions:
//	  - name: spawn
//	    level: 0
//	    shape: Cuboid
//	    nodes: [[0, 0], [100, 60]]
func LoadFile(path string) ([]*Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading regions %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes region definitions from YAML bytes.
func Parse(data []byte) ([]*Region, error) {
	var f regionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing regions: %w", err)
	}

	regions := make([]*Region, 0, len(f.Regions))
	for i, def := range f.Regions {
		nodesX := make([]int32, len(def.Nodes))
		nodesY := make([]int32, len(def.Nodes))
		for j, nd := range def.Nodes {
			nodesX[j] = nd[0]
			nodesY[j] = nd[1]
		}

		r, err := NewRegion(def.Name, def.Level, def.Shape, nodesX, nodesY, def.Radius)
		if err != nil {
			return nil, fmt.Errorf("region #%d: %w", i, err)
		}
		regions = append(regions, r)
	}

	return regions, nil
}
