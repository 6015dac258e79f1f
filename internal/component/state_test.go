package component

import (
	"testing"
	"time"
)

func TestPriorities(t *testing.T) {
	cases := []struct {
		kind          StateKind
		priority      int
		interruptable bool
	}{
		{StateIdle, 0, true},
		{StateMoving, 1, true},
		{StateSitting, 1, true},
		{StateMoveToAction, 1, true},
		{StateMoveToPickup, 1, true},
		{StateAction, 2, false},
	}
	for _, tc := range cases {
		if got := tc.kind.Priority(); got != tc.priority {
			t.Errorf("%s: priority %d, want %d", tc.kind, got, tc.priority)
		}
		if got := tc.kind.Interruptable(); got != tc.interruptable {
			t.Errorf("%s: interruptable %v, want %v", tc.kind, got, tc.interruptable)
		}
	}
	if StateDead.Interruptable() {
		t.Error("dead must not be interruptable")
	}
}

func TestTransitionPicksHighestPriority(t *testing.T) {
	var queue StateTransitionQueue
	queue.Request(IdleState())
	queue.Request(ActionState(ActionIntent{Skill: 1}, time.Second))
	queue.Request(MovingState(LocationGoal(GlobalLocation{X: 10})))

	current := IdleState()
	if !queue.TransitionToNewState(&current) {
		t.Fatal("expected a transition")
	}
	if current.Kind != StateAction {
		t.Fatalf("expected Action to win, got %s", current.Kind)
	}
	if queue.Len() != 0 {
		t.Fatalf("queue should be drained, %d left", queue.Len())
	}
}

func TestTransitionTiesKeepInsertionOrder(t *testing.T) {
	var queue StateTransitionQueue
	queue.Request(MovingState(LocationGoal(GlobalLocation{X: 1})))
	queue.Request(SittingState(time.Second))

	current := IdleState()
	queue.TransitionToNewState(&current)
	if current.Kind != StateMoving {
		t.Fatalf("first-inserted equal-priority transition should win, got %s", current.Kind)
	}
}

func TestHigherStateRequiresStrictlyGreater(t *testing.T) {
	var queue StateTransitionQueue
	queue.Request(MovingState(LocationGoal(GlobalLocation{X: 1})))

	current := ActionState(ActionIntent{Skill: 1}, time.Second)
	if queue.TransitionToHigherState(&current) {
		t.Fatal("priority 1 must not preempt a running action")
	}
	if current.Kind != StateAction {
		t.Fatalf("state changed to %s", current.Kind)
	}
	// The queue was drained regardless.
	if queue.Len() != 0 {
		t.Fatalf("queue should be drained, %d left", queue.Len())
	}
}

func TestDeadMonsterDespawnTimer(t *testing.T) {
	state := DeadMonsterState()
	if !state.HasDespawn || state.Despawn != MonsterDespawnDelay {
		t.Fatalf("monster corpse should start the %v timer", MonsterDespawnDelay)
	}
	if player := DeadPlayerState(); player.HasDespawn {
		t.Fatal("dead players wait indefinitely")
	}
}
