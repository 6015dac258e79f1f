package system

import (
	"testing"

	"github.com/kumpelblase2/agentd/internal/component"
)

func TestAttackOutOfRangeMovesFirst(t *testing.T) {
	deps := newTestDeps(t)
	stores := deps.Stores

	attacker := spawnTestAgent(deps, "a", component.GlobalPosition{X: 0, Z: 0})
	monster := spawnTestMonster(deps, 100, 10, component.GlobalPosition{X: 50, Z: 0})
	monsterGE, _ := stores.GameEntities.Get(monster)

	input, _ := stores.Inputs.Get(attacker)
	input.Action = &component.ActionInput{
		Kind:         component.ActionAttack,
		Skill:        1,
		TargetUnique: monsterGE.UniqueID,
	}

	NewIntentSystem(deps).Update(tick)
	NewTransitionSystem(stores).Update(tick)

	state, _ := stores.States.Get(attacker)
	if state.Kind != component.StateMoveToAction {
		t.Fatalf("distance 50 > range 3 should walk first, got %s", state.Kind)
	}
	if state.Action.Skill != 1 {
		t.Fatalf("intent lost: %+v", state.Action)
	}
}

func TestAttackInRangeCastsImmediately(t *testing.T) {
	deps := newTestDeps(t)
	stores := deps.Stores

	attacker := spawnTestAgent(deps, "a", component.GlobalPosition{X: 0, Z: 0})
	monster := spawnTestMonster(deps, 100, 10, component.GlobalPosition{X: 2, Z: 0})
	monsterGE, _ := stores.GameEntities.Get(monster)

	input, _ := stores.Inputs.Get(attacker)
	input.Action = &component.ActionInput{
		Kind:         component.ActionAttack,
		Skill:        1,
		TargetUnique: monsterGE.UniqueID,
	}

	NewIntentSystem(deps).Update(tick)
	NewTransitionSystem(stores).Update(tick)

	state, _ := stores.States.Get(attacker)
	if state.Kind != component.StateAction {
		t.Fatalf("in range should enter Action, got %s", state.Kind)
	}
}

func TestAttackOnDeadTargetIgnored(t *testing.T) {
	deps := newTestDeps(t)
	stores := deps.Stores

	attacker := spawnTestAgent(deps, "a", component.GlobalPosition{X: 0, Z: 0})
	monster := spawnTestMonster(deps, 100, 10, component.GlobalPosition{X: 2, Z: 0})
	stores.RequestDead(monster, true)
	monsterGE, _ := stores.GameEntities.Get(monster)

	input, _ := stores.Inputs.Get(attacker)
	input.Action = &component.ActionInput{
		Kind:         component.ActionAttack,
		Skill:        1,
		TargetUnique: monsterGE.UniqueID,
	}

	NewIntentSystem(deps).Update(tick)
	queue, _ := stores.Queues.Get(attacker)
	if queue.Len() != 0 {
		t.Fatal("attacks on dead targets must not queue a transition")
	}
}

func TestMasteryRequiresSP(t *testing.T) {
	deps := newTestDeps(t)
	stores := deps.Stores
	entity := spawnTestAgent(deps, "student", component.GlobalPosition{})

	masteries, _ := stores.Masteries.Get(entity)

	// A fresh mastery (level 0) has no SP price in the level table.
	input, _ := stores.Inputs.Get(entity)
	input.Mastery = &component.MasteryInput{Mastery: 300, Amount: 1}
	NewIntentSystem(deps).Update(tick)
	if masteries.LevelOf(300) != 1 {
		t.Fatalf("free raise failed, level %d", masteries.LevelOf(300))
	}

	// Raising from level 1 costs 1 SP; the pool is empty.
	input2, _ := stores.Inputs.Get(entity)
	input2.Mastery = &component.MasteryInput{Mastery: 300, Amount: 1}
	NewIntentSystem(deps).Update(tick)
	if masteries.LevelOf(300) != 1 {
		t.Fatal("raise succeeded without SP")
	}

	sp, _ := stores.SPs.Get(entity)
	sp.Gain(5)
	input3, _ := stores.Inputs.Get(entity)
	input3.Mastery = &component.MasteryInput{Mastery: 300, Amount: 1}
	NewIntentSystem(deps).Update(tick)
	if masteries.LevelOf(300) != 2 {
		t.Fatalf("funded raise failed, level %d", masteries.LevelOf(300))
	}
	if sp.Current() != 4 {
		t.Fatalf("1 SP should have been spent, %d left", sp.Current())
	}
}

func TestSitThenStand(t *testing.T) {
	deps := newTestDeps(t)
	stores := deps.Stores
	entity := spawnTestAgent(deps, "rester", component.GlobalPosition{})

	input, _ := stores.Inputs.Get(entity)
	input.Action = &component.ActionInput{Kind: component.ActionSit}
	intent := NewIntentSystem(deps)
	transition := NewTransitionSystem(stores)
	intent.Update(tick)
	transition.Update(tick)

	state, _ := stores.States.Get(entity)
	if state.Kind != component.StateSitting {
		t.Fatalf("expected Sitting, got %s", state.Kind)
	}

	input2, _ := stores.Inputs.Get(entity)
	input2.Action = &component.ActionInput{Kind: component.ActionStand}
	intent.Update(tick)
	transition.Update(tick)
	if state.Kind != component.StateIdle {
		t.Fatalf("expected Idle after standing, got %s", state.Kind)
	}
}
