package data

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Item categories as they appear in itemdata.yaml.
const (
	ItemKindEquipment  = "equipment"
	ItemKindConsumable = "consumable"
	ItemKindCOS        = "cos"
	ItemKindGold       = "gold"
)

// Gold pile ref ids, by amount. Matches the reference data: small piles below
// 1000, medium below 5000, large otherwise.
const (
	goldRefSmall  uint32 = 1
	goldRefMedium uint32 = 2
	goldRefLarge  uint32 = 3

	smallGoldMax  = 1000
	mediumGoldMax = 5000
)

// RefItem holds static data for an item type.
type RefItem struct {
	ID          uint32        `yaml:"id"`
	Name        string        `yaml:"name"`
	Kind        string        `yaml:"kind"`
	RangeBonus  float32       `yaml:"range_bonus"` // weapons: added to skill range
	MaxStack    uint16        `yaml:"max_stack"`
	DespawnTime time.Duration `yaml:"despawn_time"` // ground drop lifetime
}

func (i *RefItem) IsWeapon() bool {
	return i.Kind == ItemKindEquipment && i.RangeBonus > 0
}

type itemFile struct {
	Items []RefItem `yaml:"items"`
}

// ItemMap indexes item definitions by ref id.
type ItemMap struct {
	byID map[uint32]*RefItem
}

// NewItemMap builds a map from already-parsed definitions.
func NewItemMap(items []RefItem) *ItemMap {
	m := &ItemMap{byID: make(map[uint32]*RefItem, len(items))}
	for i := range items {
		item := &items[i]
		m.byID[item.ID] = item
	}
	return m
}

func LoadItemMap(path string) (*ItemMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read item data %s: %w", path, err)
	}
	var f itemFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse item data: %w", err)
	}
	m := &ItemMap{byID: make(map[uint32]*RefItem, len(f.Items))}
	for i := range f.Items {
		item := &f.Items[i]
		m.byID[item.ID] = item
	}
	return m, nil
}

func (m *ItemMap) FindID(id uint32) *RefItem {
	return m.byID[id]
}

// GoldRef returns the gold pile item matching the dropped amount.
func (m *ItemMap) GoldRef(amount uint32) *RefItem {
	switch {
	case amount < smallGoldMax:
		return m.byID[goldRefSmall]
	case amount < mediumGoldMax:
		return m.byID[goldRefMedium]
	default:
		return m.byID[goldRefLarge]
	}
}
