package component

// Visibility tracks the entities inside an observer's interest radius. The
// set is stable across ticks; Added/Removed are per-tick deltas appended
// during collection and consumed (then cleared) during distribution.
type Visibility struct {
	Radius  float32
	Set     map[EntityRef]struct{}
	Added   []EntityRef
	Removed []EntityRef
}

func NewVisibility(radius float32) *Visibility {
	return &Visibility{
		Radius: radius,
		Set:    make(map[EntityRef]struct{}, 32),
	}
}

func (v *Visibility) Contains(ref EntityRef) bool {
	_, ok := v.Set[ref]
	return ok
}

// Drop removes a despawned entity from the set and records the removal
// delta exactly once.
func (v *Visibility) Drop(ref EntityRef) {
	if _, ok := v.Set[ref]; !ok {
		return
	}
	delete(v.Set, ref)
	v.Removed = append(v.Removed, ref)
}

func (v *Visibility) ClearDeltas() {
	v.Added = v.Added[:0]
	v.Removed = v.Removed[:0]
}
