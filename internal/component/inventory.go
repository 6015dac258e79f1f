package component

import (
	"errors"
	"math"

	"github.com/kumpelblase2/agentd/internal/data"
)

var ErrInventoryFull = errors.New("inventory full")

// ItemKind discriminates the item type data variants.
type ItemKind uint8

const (
	ItemEquipment ItemKind = iota
	ItemConsumable
	ItemCOS
)

// Durability ceiling of a fresh piece of equipment: a base pool plus a
// bonus per upgrade level.
const (
	BaseDurability       = 50
	DurabilityPerUpgrade = 5
)

// Item is one inventory slot's content.
type Item struct {
	Reference  *data.RefItem
	Variance   uint64
	Kind       ItemKind
	Upgrade    uint8  // ItemEquipment
	Durability uint16 // ItemEquipment: remaining wear pool
	Amount     uint16 // ItemConsumable
}

func EquipmentItem(ref *data.RefItem, upgrade uint8) Item {
	return Item{
		Reference:  ref,
		Kind:       ItemEquipment,
		Upgrade:    upgrade,
		Durability: BaseDurability + DurabilityPerUpgrade*uint16(upgrade),
	}
}

func ConsumableItem(ref *data.RefItem, amount uint16) Item {
	return Item{Reference: ref, Kind: ItemConsumable, Amount: amount}
}

// WeaponSlot is the fixed equipment slot checked by attack resolution.
const WeaponSlot = 6

// Inventory is a fixed-size slot array.
type Inventory struct {
	slots []*Item
}

func NewInventory(size int) *Inventory {
	return &Inventory{slots: make([]*Item, size)}
}

func (inv *Inventory) Size() int {
	return len(inv.slots)
}

func (inv *Inventory) Get(slot uint8) *Item {
	if int(slot) >= len(inv.slots) {
		return nil
	}
	return inv.slots[slot]
}

func (inv *Inventory) Set(slot uint8, item Item) {
	if int(slot) >= len(inv.slots) {
		return
	}
	inv.slots[slot] = &item
}

// Add places the item in the first free slot.
func (inv *Inventory) Add(item Item) (uint8, error) {
	for i, slot := range inv.slots {
		if slot == nil {
			inv.slots[i] = &item
			return uint8(i), nil
		}
	}
	return 0, ErrInventoryFull
}

func (inv *Inventory) Remove(slot uint8) *Item {
	if int(slot) >= len(inv.slots) {
		return nil
	}
	item := inv.slots[slot]
	inv.slots[slot] = nil
	return item
}

// Weapon returns the equipped weapon's reference, or nil when bare-handed.
func (inv *Inventory) Weapon() *data.RefItem {
	item := inv.Get(WeaponSlot)
	if item == nil {
		return nil
	}
	return item.Reference
}

// Each visits every occupied slot.
func (inv *Inventory) Each(fn func(slot uint8, item *Item)) {
	for i, item := range inv.slots {
		if item != nil {
			fn(uint8(i), item)
		}
	}
}

// GoldPouch is the carried gold amount. Gains and spends saturate.
type GoldPouch struct {
	amount uint64
}

func NewGoldPouch(amount uint64) GoldPouch {
	return GoldPouch{amount: amount}
}

func (g *GoldPouch) Amount() uint64 {
	return g.amount
}

func (g *GoldPouch) Gain(amount uint64) {
	if g.amount > math.MaxUint64-amount {
		g.amount = math.MaxUint64
		return
	}
	g.amount += amount
}

func (g *GoldPouch) Spend(amount uint64) {
	if amount > g.amount {
		g.amount = 0
		return
	}
	g.amount -= amount
}
