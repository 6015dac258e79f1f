package system

import (
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/world"
)

// Regen cadence and fractions. Sitting rests recover twice as fast.
const (
	regenInterval     = 3 * time.Second
	regenHealthDivide = 50 // max/50 per interval
	regenManaDivide   = 25
)

// RegenSystem restores health and mana for living players on a fixed
// cadence. Phase 3.
type RegenSystem struct {
	stores  *world.Stores
	elapsed time.Duration
}

func NewRegenSystem(stores *world.Stores) *RegenSystem {
	return &RegenSystem{stores: stores}
}

func (s *RegenSystem) Phase() coresys.Phase { return coresys.PhaseEffects }

func (s *RegenSystem) Update(dt time.Duration) {
	s.elapsed += dt
	if s.elapsed < regenInterval {
		return
	}
	s.elapsed -= regenInterval

	stores := s.stores
	ecs.Each3(stores.Players, stores.Healths, stores.States,
		func(entity ecs.EntityID, _ *component.Player, health *component.Health, state *component.State) {
			if state.Kind == component.StateDead {
				return
			}
			factor := uint32(1)
			if state.Kind == component.StateSitting {
				factor = 2
			}

			sync, _ := stores.Syncs.Get(entity)
			if health.Current < health.Max {
				gain := health.Max / regenHealthDivide * factor
				if gain == 0 {
					gain = 1
				}
				health.Restore(gain)
				if sync != nil {
					current := health.Current
					sync.Health = &current
				}
			}
			if mana, ok := stores.Manas.Get(entity); ok && mana.Current < mana.Max {
				gain := mana.Max / regenManaDivide * factor
				if gain == 0 {
					gain = 1
				}
				mana.Restore(gain)
				if sync != nil {
					current := mana.Current
					sync.Mana = &current
				}
			}
		})
}
