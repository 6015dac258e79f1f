package data

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PunchSkillID is the weapon-less basic attack.
const PunchSkillID uint32 = 1

// RefSkill holds static data for a skill.
type RefSkill struct {
	ID           uint32        `yaml:"id"`
	Group        uint32        `yaml:"group"`
	Level        uint8         `yaml:"level"`
	Range        float32       `yaml:"range"`
	CastDuration time.Duration `yaml:"cast_duration"`
	Damage       uint32        `yaml:"damage"`
	Weapon       string        `yaml:"weapon"` // required weapon kind name; "" = bare hands
}

type skillFile struct {
	Skills []RefSkill `yaml:"skills"`
}

// SkillMap indexes skill definitions by ref id.
type SkillMap struct {
	byID map[uint32]*RefSkill
}

// NewSkillMap builds a map from already-parsed definitions.
func NewSkillMap(skills []RefSkill) *SkillMap {
	m := &SkillMap{byID: make(map[uint32]*RefSkill, len(skills))}
	for i := range skills {
		s := &skills[i]
		m.byID[s.ID] = s
	}
	return m
}

func LoadSkillMap(path string) (*SkillMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skill data %s: %w", path, err)
	}
	var f skillFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse skill data: %w", err)
	}
	m := &SkillMap{byID: make(map[uint32]*RefSkill, len(f.Skills))}
	for i := range f.Skills {
		s := &f.Skills[i]
		m.byID[s.ID] = s
	}
	return m, nil
}

func (m *SkillMap) FindID(id uint32) *RefSkill {
	return m.byID[id]
}

// AttackSkillFor resolves the basic attack skill for the given weapon.
// A nil weapon resolves to the punch skill.
func (m *SkillMap) AttackSkillFor(weapon *RefItem) (*RefSkill, error) {
	if weapon == nil {
		skill := m.byID[PunchSkillID]
		if skill == nil {
			return nil, fmt.Errorf("punch skill %d not defined", PunchSkillID)
		}
		return skill, nil
	}
	if !weapon.IsWeapon() {
		return nil, fmt.Errorf("item %d is not a weapon", weapon.ID)
	}
	for _, s := range m.byID {
		if s.Weapon == weapon.Name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("no attack skill for weapon %q", weapon.Name)
}
