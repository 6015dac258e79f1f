package component

import (
	"sort"
	"time"
)

// StateKind discriminates the behavioural state of an agent entity. An agent
// carries exactly one state at a time.
type StateKind uint8

const (
	StateIdle StateKind = iota
	StateMoving
	StateSitting
	StateAction
	StateMoveToAction
	StateMoveToPickup
	StateDead
)

// MonsterDespawnDelay is how long a dead monster stays visible as a corpse.
const MonsterDespawnDelay = 5 * time.Second

// Priority orders preemption: a queued transition only replaces an
// interruptable state of strictly lower priority. Dead is terminal.
func (k StateKind) Priority() int {
	switch k {
	case StateIdle:
		return 0
	case StateAction:
		return 2
	case StateDead:
		return 100
	default:
		return 1
	}
}

func (k StateKind) Interruptable() bool {
	return k != StateAction && k != StateDead
}

func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "Idle"
	case StateMoving:
		return "Moving"
	case StateSitting:
		return "Sitting"
	case StateAction:
		return "Action"
	case StateMoveToAction:
		return "MoveToAction"
	case StateMoveToPickup:
		return "MoveToPickup"
	case StateDead:
		return "Dead"
	default:
		return "Unknown"
	}
}

// ActionIntent is the payload of an Action (or MoveToAction) state.
type ActionIntent struct {
	Skill    uint32
	Target   EntityRef
	Instance uint32
}

// State is the tagged-variant state marker plus its per-variant data.
type State struct {
	Kind StateKind

	Goal      MovementGoal // Moving, MoveToAction, MoveToPickup
	Announced bool         // Moving: StartMove already collected

	Remaining time.Duration // Sitting duration / Action cast countdown
	Action    ActionIntent  // Action, MoveToAction
	Pickup    EntityRef     // MoveToPickup

	Despawn      time.Duration // Dead: monster corpse countdown
	HasDespawn   bool          // Dead: false for players (await resurrection)
	RewardsGiven bool          // Dead: kill rewards already distributed
}

func IdleState() State {
	return State{Kind: StateIdle}
}

func MovingState(goal MovementGoal) State {
	return State{Kind: StateMoving, Goal: goal}
}

func SittingState(duration time.Duration) State {
	return State{Kind: StateSitting, Remaining: duration}
}

func ActionState(intent ActionIntent, cast time.Duration) State {
	return State{Kind: StateAction, Action: intent, Remaining: cast}
}

func MoveToActionState(intent ActionIntent, target GlobalLocation) State {
	return State{Kind: StateMoveToAction, Action: intent, Goal: LocationGoal(target)}
}

func MoveToPickupState(target EntityRef, location GlobalLocation) State {
	return State{Kind: StateMoveToPickup, Pickup: target, Goal: LocationGoal(location)}
}

func DeadPlayerState() State {
	return State{Kind: StateDead}
}

func DeadMonsterState() State {
	return State{Kind: StateDead, Despawn: MonsterDespawnDelay, HasDespawn: true}
}

// StateTransition is one queued transition proposal.
type StateTransition struct {
	State    State
	Priority int
}

// StateTransitionQueue collects proposed transitions; the transition phase
// drains it once per tick.
type StateTransitionQueue struct {
	pending []StateTransition
}

func (q *StateTransitionQueue) Request(s State) {
	q.pending = append(q.pending, StateTransition{State: s, Priority: s.Kind.Priority()})
}

func (q *StateTransitionQueue) Len() int {
	return len(q.pending)
}

func (q *StateTransitionQueue) Clear() {
	q.pending = q.pending[:0]
}

// TransitionToNewState unconditionally replaces the current state with the
// highest-priority queued transition (ties keep insertion order). Used when
// the executing state has completed or is freely interruptable.
func (q *StateTransitionQueue) TransitionToNewState(current *State) bool {
	if len(q.pending) == 0 {
		return false
	}
	transitions := q.drain()
	sort.SliceStable(transitions, func(i, j int) bool {
		return transitions[i].Priority > transitions[j].Priority
	})
	*current = transitions[0].State
	return true
}

// TransitionToHigherState replaces the current state only with a queued
// transition of strictly higher priority. Used while a non-interruptable
// state is still executing.
func (q *StateTransitionQueue) TransitionToHigherState(current *State) bool {
	if len(q.pending) == 0 {
		return false
	}
	transitions := q.drain()
	higher := transitions[:0]
	for _, t := range transitions {
		if t.Priority > current.Kind.Priority() {
			higher = append(higher, t)
		}
	}
	if len(higher) == 0 {
		return false
	}
	sort.SliceStable(higher, func(i, j int) bool {
		return higher[i].Priority > higher[j].Priority
	})
	*current = higher[0].State
	return true
}

func (q *StateTransitionQueue) drain() []StateTransition {
	drained := make([]StateTransition, len(q.pending))
	copy(drained, q.pending)
	q.pending = q.pending[:0]
	return drained
}
