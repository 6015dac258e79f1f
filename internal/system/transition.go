package system

import (
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/world"
)

// TransitionSystem drains the per-entity transition queues once per tick:
// interruptable states are replaced unconditionally by the best queued
// transition, a running Action only by a strictly higher one. Entities
// without a state marker get Idle. Phase 1.
type TransitionSystem struct {
	stores *world.Stores
}

func NewTransitionSystem(stores *world.Stores) *TransitionSystem {
	return &TransitionSystem{stores: stores}
}

func (s *TransitionSystem) Phase() coresys.Phase { return coresys.PhaseTransition }

func (s *TransitionSystem) Update(_ time.Duration) {
	stores := s.stores
	ecs.Each2(stores.States, stores.Queues, func(entity ecs.EntityID, state *component.State, queue *component.StateTransitionQueue) {
		switch state.Kind {
		case component.StateDead:
			// Terminal: discard anything still queued.
			queue.Clear()
		case component.StateAction:
			queue.TransitionToHigherState(state)
		default:
			queue.TransitionToNewState(state)
		}
	})

	// Backfill: an agent without a marker at the end of the phase is Idle.
	ecs.Each2(stores.Agents, stores.Queues, func(entity ecs.EntityID, _ *component.Agent, _ *component.StateTransitionQueue) {
		if !stores.States.Has(entity) {
			idle := component.IdleState()
			stores.States.Set(entity, &idle)
		}
	})
}
