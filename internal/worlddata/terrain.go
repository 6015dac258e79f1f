package worlddata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// regionEntry describes one region in terrain.yaml. Heights may be given as
// a full 96x96 vertex list or a single base height for flat regions.
type regionEntry struct {
	X       uint8     `yaml:"x"`
	Y       uint8     `yaml:"y"`
	Dungeon bool      `yaml:"dungeon"`
	Base    float32   `yaml:"base_height"`
	Heights []float32 `yaml:"heights"`
}

type terrainFile struct {
	Regions []regionEntry `yaml:"regions"`
}

// Terrain maps loaded regions to their heightmaps. Regions not present have
// no defined height; movement keeps the previous y there.
type Terrain struct {
	maps map[Region]*Heightmap
}

func NewTerrain() *Terrain {
	return &Terrain{maps: make(map[Region]*Heightmap)}
}

// LoadTerrain reads the prepared terrain table. The navmesh binary formats
// are converted offline; the server only consumes this digest.
func LoadTerrain(path string) (*Terrain, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read terrain %s: %w", path, err)
	}
	var f terrainFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse terrain: %w", err)
	}

	t := NewTerrain()
	for _, entry := range f.Regions {
		region := RegionFromXY(entry.X, entry.Y)
		if entry.Dungeon {
			region |= 0x8000
		}
		switch {
		case len(entry.Heights) == HeightmapVertices*HeightmapVertices:
			t.maps[region] = NewHeightmap(entry.Heights, HeightmapVertices, HeightmapSpacing)
		case len(entry.Heights) == 0:
			t.maps[region] = FlatHeightmap(entry.Base)
		default:
			return nil, fmt.Errorf("terrain region %s: expected %d heights, got %d",
				region, HeightmapVertices*HeightmapVertices, len(entry.Heights))
		}
	}
	return t, nil
}

// SetRegion installs a heightmap for a region (used by tests and tools).
func (t *Terrain) SetRegion(region Region, heightmap *Heightmap) {
	t.maps[region] = heightmap
}

// HeightAt samples the terrain height at a local position within a region.
// The local coordinates are clamped to the region border before sampling.
// Returns false when the region has no heightmap.
func (t *Terrain) HeightAt(region Region, x, z float32) (float32, bool) {
	heightmap, ok := t.maps[region]
	if !ok {
		return 0, false
	}
	return heightmap.HeightAt(clampToRegion(x), clampToRegion(z))
}

func clampToRegion(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > RegionSize {
		return RegionSize
	}
	return v
}
