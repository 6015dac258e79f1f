package system

import (
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/world"
)

// VisibilitySystem recomputes every observer's interest set from the
// region buckets (own region plus 8 neighbours) and produces the add and
// remove deltas consumed by distribution. Phase 4, before collection.
type VisibilitySystem struct {
	stores *world.Stores
	seen   map[component.EntityRef]struct{} // scratch, reused across entities
}

func NewVisibilitySystem(stores *world.Stores) *VisibilitySystem {
	return &VisibilitySystem{
		stores: stores,
		seen:   make(map[component.EntityRef]struct{}, 64),
	}
}

func (s *VisibilitySystem) Phase() coresys.Phase { return coresys.PhaseCollection }

func (s *VisibilitySystem) Update(_ time.Duration) {
	stores := s.stores
	ecs.Each2(stores.Visibilities, stores.Positions,
		func(observer ecs.EntityID, visibility *component.Visibility, pos *component.Position) {
			clear(s.seen)
			center := pos.Location.ToLocation()

			stores.Grid.EachAround(pos.Region(), func(other ecs.EntityID) {
				if other == observer {
					return
				}
				otherPos, ok := stores.Positions.Get(other)
				if !ok {
					return
				}
				if center.DistanceTo(otherPos.Location.ToLocation()) > visibility.Radius {
					return
				}
				ref, ok := stores.Ref(other)
				if !ok {
					return
				}
				s.seen[ref] = struct{}{}
				if !visibility.Contains(ref) {
					visibility.Set[ref] = struct{}{}
					visibility.Added = append(visibility.Added, ref)
				}
			})

			for ref := range visibility.Set {
				if _, still := s.seen[ref]; !still {
					delete(visibility.Set, ref)
					visibility.Removed = append(visibility.Removed, ref)
				}
			}
		})
}
