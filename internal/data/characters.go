package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rarity classes for spawnable characters (monsters).
const (
	RarityNormal   = "normal"
	RarityChampion = "champion"
	RarityUnique   = "unique"
	RarityGiant    = "giant"
	RarityElite    = "elite"
	RarityStrong   = "strong"
)

// RefCharacter holds static data for a character type (player archetype or
// monster), loaded from characterdata.yaml.
type RefCharacter struct {
	ID           uint32   `yaml:"id"`
	Name         string   `yaml:"name"`
	Level        uint8    `yaml:"level"`
	HP           uint32   `yaml:"hp"`
	WalkSpeed    float32  `yaml:"walk_speed"`
	RunSpeed     float32  `yaml:"run_speed"`
	BerserkSpeed float32  `yaml:"berserk_speed"`
	Exp          uint64   `yaml:"exp"`     // exp granted when killed
	SPExp        uint64   `yaml:"sp_exp"`  // sp-exp granted when killed
	Rarity       string   `yaml:"rarity"`  // normal, champion, unique, ...
	Skills       []uint32 `yaml:"skills"`  // skill ref ids usable by this character
	AggroRange   float32  `yaml:"aggro_range"`
}

func (c *RefCharacter) IsUnique() bool {
	return c.Rarity == RarityUnique
}

type characterFile struct {
	Characters []RefCharacter `yaml:"characters"`
}

// CharacterMap indexes character definitions by ref id.
type CharacterMap struct {
	byID map[uint32]*RefCharacter
}

// NewCharacterMap builds a map from already-parsed definitions.
func NewCharacterMap(characters []RefCharacter) *CharacterMap {
	m := &CharacterMap{byID: make(map[uint32]*RefCharacter, len(characters))}
	for i := range characters {
		c := &characters[i]
		m.byID[c.ID] = c
	}
	return m
}

func LoadCharacterMap(path string) (*CharacterMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read character data %s: %w", path, err)
	}
	var f characterFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse character data: %w", err)
	}
	m := &CharacterMap{byID: make(map[uint32]*RefCharacter, len(f.Characters))}
	for i := range f.Characters {
		c := &f.Characters[i]
		m.byID[c.ID] = c
	}
	return m, nil
}

func (m *CharacterMap) FindID(id uint32) *RefCharacter {
	return m.byID[id]
}

func (m *CharacterMap) Len() int {
	return len(m.byID)
}
