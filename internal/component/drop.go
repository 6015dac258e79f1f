package component

import "time"

// ItemDrop is an item lying on the ground. The owner has the exclusive
// pickup right until the despawn timer falls below half its initial value;
// afterwards any nearby player may pick it up.
type ItemDrop struct {
	Owner   *EntityRef
	Item    Item
	Despawn time.Duration
	initial time.Duration
}

func NewItemDrop(item Item, owner *EntityRef, despawn time.Duration) *ItemDrop {
	return &ItemDrop{Owner: owner, Item: item, Despawn: despawn, initial: despawn}
}

// Tick advances the despawn timer; returns true when the drop expired.
func (d *ItemDrop) Tick(delta time.Duration) bool {
	d.Despawn -= delta
	return d.Despawn <= 0
}

// OwnerExclusive reports whether pickup is still restricted to the owner.
func (d *ItemDrop) OwnerExclusive() bool {
	return d.Owner != nil && d.Despawn > d.initial/2
}

// MayPickup checks the ownership window for the given entity.
func (d *ItemDrop) MayPickup(who EntityRef) bool {
	if !d.OwnerExclusive() {
		return true
	}
	return d.Owner.Entity == who.Entity
}
