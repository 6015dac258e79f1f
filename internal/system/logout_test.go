package system

import (
	"testing"
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/net/packet"
)

// Scenario: logout requested at t=0, duration 2 s. At t=2 s the client
// receives LogoutFinished and the entity is removed by the sweep.
func TestLogoutFlow(t *testing.T) {
	deps := newTestDeps(t)
	stores := deps.Stores

	entity := spawnTestAgent(deps, "leaver", component.GlobalPosition{X: 10, Z: 10})
	sess := newTestSession(t, 1)
	stores.Sessions.Set(entity, sess)
	stores.Lookup.AddSession(sess.ID, entity)

	observer := spawnTestAgent(deps, "observer", component.GlobalPosition{X: 20, Z: 10})

	// The observer already has the leaver in its set.
	NewVisibilitySystem(stores).Update(tick)
	observerVis, _ := stores.Visibilities.Get(observer)
	observerVis.ClearDeltas()

	stores.Logouts.Set(entity, &component.Logout{Remaining: 2 * time.Second})

	logout := NewLogoutSystem(deps)
	logout.Update(time.Second)
	if len(stores.ECS.PendingDestruction()) != 0 {
		t.Fatal("logout finished a second early")
	}

	logout.Update(time.Second)

	opcodes := drainOutQueue(sess)
	found := false
	for _, op := range opcodes {
		if op == packet.S_OPCODE_LOGOUT_FINISHED {
			found = true
		}
	}
	if !found {
		t.Fatalf("LogoutFinished not sent, got %#v", opcodes)
	}
	if !sess.IsClosed() {
		t.Fatal("connection should be closed")
	}
	if len(stores.ECS.PendingDestruction()) != 1 {
		t.Fatal("entity should be queued for the end-of-tick sweep")
	}

	// The sweep prunes the leaver from the observer's set exactly once.
	leaverRef, _ := stores.Ref(entity)
	NewCleanupSystem(deps).Update(tick)

	if stores.ECS.Alive(entity) {
		t.Fatal("entity survived the sweep")
	}
	if observerVis.Contains(leaverRef) {
		t.Fatal("observer still sees the departed entity")
	}
	removed := 0
	for _, ref := range observerVis.Removed {
		if ref == leaverRef {
			removed++
		}
	}
	if removed != 1 {
		t.Fatalf("despawn delta recorded %d times, want exactly once", removed)
	}
}

// Movement does not cancel a running logout.
func TestMovementDoesNotCancelLogout(t *testing.T) {
	deps := newTestDeps(t)
	stores := deps.Stores
	entity := spawnTestAgent(deps, "leaver", component.GlobalPosition{X: 10, Z: 10})
	stores.Logouts.Set(entity, &component.Logout{Remaining: 2 * time.Second})

	input, _ := stores.Inputs.Get(entity)
	input.Movement = &component.MovementInput{
		Goal: component.LocationGoal(component.GlobalLocation{X: 500, Z: 10}),
	}
	NewIntentSystem(deps).Update(tick)
	NewTransitionSystem(stores).Update(tick)

	if !stores.Logouts.Has(entity) {
		t.Fatal("logout timer must survive movement input")
	}
	state, _ := stores.States.Get(entity)
	if state.Kind != component.StateMoving {
		t.Fatalf("movement still works during logout, got %s", state.Kind)
	}
}

func TestIDReuseWaitsOneSweep(t *testing.T) {
	deps := newTestDeps(t)
	stores := deps.Stores

	entity := spawnTestAgent(deps, "ghost", component.GlobalPosition{X: 10, Z: 10})
	ref, _ := stores.Ref(entity)
	stores.Despawn(entity)

	cleanup := NewCleanupSystem(deps)
	cleanup.Update(tick)

	// The freed id is parked: a fresh request must not hand it out yet.
	if got := stores.IDPool.Request(); got == ref.UniqueID {
		t.Fatal("unique id reused before despawn was observable")
	}

	cleanup.Update(tick)
	// After the second sweep the parked id is available again.
	seen := false
	for i := 0; i < 10; i++ {
		if stores.IDPool.Request() == ref.UniqueID {
			seen = true
			break
		}
	}
	if !seen {
		t.Fatal("parked id never released")
	}
}
