package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseIngress      Phase = iota // 0: drain packet queues, accept/evict sessions
	PhaseTransition                // 1: drain state transition queues
	PhaseExecute                   // 2: advance active states (movement, actions, combat)
	PhaseEffects                   // 3: regen, spawners, death/reward resolution
	PhaseCollection                // 4: gather per-entity Synchronize envelopes
	PhaseDistribution               // 5: flush envelopes + WAL/batch save
	PhaseCleanup                   // 6: destroy queued entities
)

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
