package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RefGold is the gold drop range for a monster level.
type RefGold struct {
	Level uint8  `yaml:"level"`
	Min   uint32 `yaml:"min"`
	Max   uint32 `yaml:"max"`
}

type goldFile struct {
	Gold []RefGold `yaml:"gold"`
}

// GoldMap indexes gold drop ranges by monster level.
type GoldMap struct {
	byLevel map[uint8]*RefGold
}

// NewGoldMap builds a map from already-parsed ranges.
func NewGoldMap(gold []RefGold) *GoldMap {
	m := &GoldMap{byLevel: make(map[uint8]*RefGold, len(gold))}
	for i := range gold {
		g := &gold[i]
		m.byLevel[g.Level] = g
	}
	return m
}

func LoadGoldMap(path string) (*GoldMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gold data %s: %w", path, err)
	}
	var f goldFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse gold data: %w", err)
	}
	m := &GoldMap{byLevel: make(map[uint8]*RefGold, len(f.Gold))}
	for i := range f.Gold {
		g := &f.Gold[i]
		m.byLevel[g.Level] = g
	}
	return m, nil
}

// RangeForLevel returns the [min, max] gold drop range for a level.
// Unknown levels (and level 0) drop nothing.
func (m *GoldMap) RangeForLevel(level uint8) (uint32, uint32) {
	if level == 0 {
		return 0, 0
	}
	if g, ok := m.byLevel[level]; ok {
		return g.Min, g.Max
	}
	return 0, 0
}
