package system

import (
	"testing"
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
)

func TestIdleBackfill(t *testing.T) {
	deps := newTestDeps(t)
	stores := deps.Stores

	entity := stores.ECS.CreateEntity()
	agent := component.DefaultAgent()
	stores.Agents.Set(entity, &agent)
	stores.Queues.Set(entity, &component.StateTransitionQueue{})

	NewTransitionSystem(stores).Update(tick)

	state, ok := stores.States.Get(entity)
	if !ok || state.Kind != component.StateIdle {
		t.Fatalf("agent without a marker must become Idle, got %v", state)
	}
}

func TestActionNotPreemptedByEqualPriority(t *testing.T) {
	deps := newTestDeps(t)
	entity := spawnTestAgent(deps, "caster", component.GlobalPosition{})
	stores := deps.Stores

	state, _ := stores.States.Get(entity)
	*state = component.ActionState(component.ActionIntent{Skill: 1}, time.Second)

	queue, _ := stores.Queues.Get(entity)
	queue.Request(component.MovingState(component.LocationGoal(component.GlobalLocation{X: 5})))

	NewTransitionSystem(stores).Update(tick)
	if state.Kind != component.StateAction {
		t.Fatalf("action interrupted by priority 1 transition: %s", state.Kind)
	}
}

func TestInterruptableReplacedUnconditionally(t *testing.T) {
	deps := newTestDeps(t)
	entity := spawnTestAgent(deps, "sitter", component.GlobalPosition{})
	stores := deps.Stores

	state, _ := stores.States.Get(entity)
	*state = component.SittingState(time.Minute)

	queue, _ := stores.Queues.Get(entity)
	queue.Request(component.IdleState()) // lower priority still applies

	NewTransitionSystem(stores).Update(tick)
	if state.Kind != component.StateIdle {
		t.Fatalf("sitting should accept the stand request, got %s", state.Kind)
	}
}

func TestDeadIsTerminal(t *testing.T) {
	deps := newTestDeps(t)
	entity := spawnTestAgent(deps, "corpse", component.GlobalPosition{})
	stores := deps.Stores

	state, _ := stores.States.Get(entity)
	*state = component.DeadPlayerState()

	queue, _ := stores.Queues.Get(entity)
	queue.Request(component.MovingState(component.LocationGoal(component.GlobalLocation{X: 5})))
	queue.Request(component.ActionState(component.ActionIntent{Skill: 1}, time.Second))

	NewTransitionSystem(stores).Update(tick)
	if state.Kind != component.StateDead {
		t.Fatalf("dead must never transition, got %s", state.Kind)
	}
	if queue.Len() != 0 {
		t.Fatal("queued transitions must be discarded for the dead")
	}
}

// Every living agent ends the tick with exactly one non-Dead marker.
func TestExactlyOneStateMarker(t *testing.T) {
	deps := newTestDeps(t)
	entity := spawnTestAgent(deps, "one", component.GlobalPosition{})
	stores := deps.Stores

	queue, _ := stores.Queues.Get(entity)
	queue.Request(component.MovingState(component.LocationGoal(component.GlobalLocation{X: 5})))
	queue.Request(component.SittingState(time.Second))

	NewTransitionSystem(stores).Update(tick)

	state, ok := stores.States.Get(entity)
	if !ok {
		t.Fatal("marker missing")
	}
	if state.Kind == component.StateDead {
		t.Fatal("living entity turned up dead")
	}
	if health, _ := stores.Healths.Get(entity); health.IsDead() {
		t.Fatal("health changed by transitions")
	}
}
