package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RefLevel holds the progression requirements for one level.
type RefLevel struct {
	Level     uint8  `yaml:"level"`
	Exp       uint64 `yaml:"exp"`        // exp required to advance past this level
	MasterySP uint32 `yaml:"mastery_sp"` // sp required to raise a mastery at this level
}

type levelFile struct {
	Levels []RefLevel `yaml:"levels"`
}

// LevelMap indexes level requirements by level.
type LevelMap struct {
	byLevel map[uint8]*RefLevel
}

// NewLevelMap builds a map from already-parsed requirements.
func NewLevelMap(levels []RefLevel) *LevelMap {
	m := &LevelMap{byLevel: make(map[uint8]*RefLevel, len(levels))}
	for i := range levels {
		l := &levels[i]
		m.byLevel[l.Level] = l
	}
	return m
}

func LoadLevelMap(path string) (*LevelMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level data %s: %w", path, err)
	}
	var f levelFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse level data: %w", err)
	}
	m := &LevelMap{byLevel: make(map[uint8]*RefLevel, len(f.Levels))}
	for i := range f.Levels {
		l := &f.Levels[i]
		m.byLevel[l.Level] = l
	}
	return m, nil
}

// ExpForLevel returns the exp required to advance past the given level,
// or 0 when the level is not present (level cap).
func (m *LevelMap) ExpForLevel(level uint8) uint64 {
	if l, ok := m.byLevel[level]; ok {
		return l.Exp
	}
	return 0
}

// MasterySPForLevel returns the sp price for raising a mastery from the
// given level.
func (m *LevelMap) MasterySPForLevel(level uint8) uint32 {
	if l, ok := m.byLevel[level]; ok {
		return l.MasterySP
	}
	return 0
}
