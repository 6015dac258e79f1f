package system

import (
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/handler"
	"github.com/kumpelblase2/agentd/internal/net"
	"github.com/kumpelblase2/agentd/internal/world"
)

// DistributionSystem flushes the collected messages to each client —
// spawns for visibility additions, despawns for removals, neighbour
// updates for everything still in the set, then the client's own updates —
// and resets every per-tick change buffer. Phase 5.
type DistributionSystem struct {
	stores *world.Stores
	buffer *UpdateBuffer
}

func NewDistributionSystem(stores *world.Stores, buffer *UpdateBuffer) *DistributionSystem {
	return &DistributionSystem{stores: stores, buffer: buffer}
}

func (s *DistributionSystem) Phase() coresys.Phase { return coresys.PhaseDistribution }

func (s *DistributionSystem) Update(_ time.Duration) {
	stores := s.stores

	ecs.Each2(stores.Sessions, stores.Visibilities,
		func(entity ecs.EntityID, sess *net.Session, visibility *component.Visibility) {
			for _, ref := range visibility.Added {
				if desc, ok := s.describe(ref); ok {
					sess.Send(handler.BuildSpawn(desc))
				}
			}
			for _, ref := range visibility.Removed {
				sess.Send(handler.BuildDespawn(ref.UniqueID))
			}
			for ref := range visibility.Set {
				for _, frame := range s.buffer.Others[ref.Entity] {
					sess.Send(frame)
				}
			}
			for _, frame := range s.buffer.Others[entity] {
				sess.Send(frame)
			}
			for _, frame := range s.buffer.Self[entity] {
				sess.Send(frame)
			}
		})

	// Reset every per-tick change buffer.
	s.buffer.Reset()
	stores.Syncs.Each(func(_ ecs.EntityID, sync *component.Synchronize) {
		sync.Clear()
	})
	stores.Visibilities.Each(func(_ ecs.EntityID, visibility *component.Visibility) {
		visibility.ClearDeltas()
	})
	stores.Experiences.Each(func(_ ecs.EntityID, experienced *component.Experienced) {
		experienced.ResetGains()
	})
	stores.Levels.Each(func(_ ecs.EntityID, leveled *component.Leveled) {
		leveled.ResetChange()
	})
	stores.Masteries.Each(func(_ ecs.EntityID, masteries *component.MasteryKnowledge) {
		masteries.ResetChange()
	})
}

// describe builds the spawn description of an entity entering visibility.
func (s *DistributionSystem) describe(ref component.EntityRef) (handler.SpawnDescription, bool) {
	stores := s.stores
	entity := ref.Entity
	if !stores.ECS.Alive(entity) {
		return handler.SpawnDescription{}, false
	}
	ge, ok := stores.GameEntities.Get(entity)
	if !ok {
		return handler.SpawnDescription{}, false
	}
	pos, ok := stores.Positions.Get(entity)
	if !ok {
		return handler.SpawnDescription{}, false
	}

	desc := handler.SpawnDescription{
		UniqueID: ge.UniqueID,
		RefID:    ge.RefID,
		Position: pos.Location.ToLocal(),
		Rotation: pos.Rotation,
		Alive:    component.AliveAlive,
	}
	if state, ok := stores.States.Get(entity); ok && state.Kind == component.StateDead {
		desc.Alive = component.AliveDead
	}
	if player, ok := stores.Players.Get(entity); ok {
		desc.Name = player.Name
	}
	if monster, ok := stores.Monsters.Get(entity); ok {
		desc.Rarity = monster.Rarity
	}
	return desc, true
}
