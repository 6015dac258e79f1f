package system

import (
	"math"
	"testing"
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	"github.com/kumpelblase2/agentd/internal/worlddata"
)

func TestIntegrateStraightLine(t *testing.T) {
	pos := component.GlobalPosition{X: 100, Y: 0, Z: 100}
	target := component.GlobalLocation{X: 1000, Z: 100}
	dt := time.Second / 30

	for i := 0; i < 60; i++ {
		result := Integrate(pos, target, 50, dt, nil)
		if result.Finished {
			t.Fatalf("finished after %d ticks, way too early", i)
		}
		pos = result.Position
	}

	// 60 ticks at 50 units/s and 30 Hz advance 100 units.
	if math.Abs(float64(pos.X-200)) > 0.5 {
		t.Fatalf("x = %v, want ≈200", pos.X)
	}
	if pos.Z != 100 {
		t.Fatalf("z drifted to %v", pos.Z)
	}
}

func TestIntegrateSnapsToTarget(t *testing.T) {
	pos := component.GlobalPosition{X: 0, Y: 0, Z: 0}
	target := component.GlobalLocation{X: 1, Z: 0}

	result := Integrate(pos, target, 50, time.Second, nil)
	if !result.Finished {
		t.Fatal("should snap within one step")
	}
	if result.Position.X != 1 || result.Position.Z != 0 {
		t.Fatalf("snapped to %v", result.Position)
	}
}

func TestIntegrateHeightSampling(t *testing.T) {
	terrain := worlddata.NewTerrain()
	terrain.SetRegion(worlddata.RegionFromXY(0, 0), worlddata.FlatHeightmap(25))

	pos := component.GlobalPosition{X: 0, Y: 7, Z: 0}
	result := Integrate(pos, component.GlobalLocation{X: 100, Z: 0}, 50, time.Second/30, terrain)
	if result.Position.Y != 25 {
		t.Fatalf("height should sample 25, got %v", result.Position.Y)
	}

	// Outside any loaded region the previous height is retained.
	far := component.GlobalPosition{X: 5 * 1920, Y: 7, Z: 5 * 1920}
	result = Integrate(far, component.GlobalLocation{X: 5*1920 + 100, Z: 5 * 1920}, 50, time.Second/30, terrain)
	if result.Position.Y != 7 {
		t.Fatalf("undefined sample must keep y, got %v", result.Position.Y)
	}
}

func TestMovementFinishEmitsStopAndIdles(t *testing.T) {
	deps := newTestDeps(t)
	entity := spawnTestAgent(deps, "walker", component.GlobalPosition{X: 10, Z: 10})

	state, _ := deps.Stores.States.Get(entity)
	*state = component.MovingState(component.LocationGoal(component.GlobalLocation{X: 11, Z: 10}))

	movement := NewMovementSystem(deps)
	transition := NewTransitionSystem(deps.Stores)
	movement.Update(time.Second) // covers the whole remaining distance

	sync, _ := deps.Stores.Syncs.Get(entity)
	if sync.Movement == nil || sync.Movement.Kind != component.MoveStop {
		t.Fatalf("expected StopMove, got %+v", sync.Movement)
	}

	transition.Update(tick)
	if state.Kind != component.StateIdle {
		t.Fatalf("expected Idle after arrival, got %s", state.Kind)
	}
}

func TestMovementAnnouncesStartOnce(t *testing.T) {
	deps := newTestDeps(t)
	entity := spawnTestAgent(deps, "walker", component.GlobalPosition{X: 0, Z: 0})

	state, _ := deps.Stores.States.Get(entity)
	*state = component.MovingState(component.LocationGoal(component.GlobalLocation{X: 1000, Z: 0}))

	movement := NewMovementSystem(deps)
	movement.Update(tick)

	sync, _ := deps.Stores.Syncs.Get(entity)
	if sync.Movement == nil || sync.Movement.Kind != component.MoveStart {
		t.Fatalf("expected StartMove, got %+v", sync.Movement)
	}

	sync.Clear()
	movement.Update(tick)
	if sync.Movement != nil {
		t.Fatal("StartMove must only be announced once per goal")
	}
}

func TestRegionBoundaryCrossing(t *testing.T) {
	deps := newTestDeps(t)
	start := component.GlobalPosition{X: 64*1920 + 1918, Z: 64*1920 + 100}
	entity := spawnTestAgent(deps, "crosser", start)

	state, _ := deps.Stores.States.Get(entity)
	*state = component.MovingState(component.LocationGoal(component.GlobalLocation{
		X: start.X + 200, Z: start.Z,
	}))

	movement := NewMovementSystem(deps)
	pos, _ := deps.Stores.Positions.Get(entity)

	crossed := -1
	for i := 1; i <= 3; i++ {
		movement.Update(tick) // 50 units/s -> ~1.67 units per tick
		if pos.Region().X() == 65 {
			crossed = i
			break
		}
	}
	if crossed < 0 || crossed > 2 {
		t.Fatalf("expected crossing within 2 ticks, got %d", crossed)
	}
	if pos.Region().ID()&0xFF != 0x41 {
		t.Fatalf("new region low byte %#02x, want 0x41", pos.Region().ID()&0xFF)
	}
	if pos.Region().Y() != 64 {
		t.Fatalf("crossing must change exactly one axis, y became %d", pos.Region().Y())
	}

	// The grid re-bucketed the entity under the new region.
	found := false
	deps.Stores.Grid.EachAround(pos.Region(), func(id ecs.EntityID) {
		if id == entity {
			found = true
		}
	})
	if !found {
		t.Fatal("entity not re-bucketed after region cross")
	}
}

func TestNewGoalReplacesCurrent(t *testing.T) {
	deps := newTestDeps(t)
	entity := spawnTestAgent(deps, "walker", component.GlobalPosition{X: 0, Z: 0})

	state, _ := deps.Stores.States.Get(entity)
	*state = component.MovingState(component.LocationGoal(component.GlobalLocation{X: 1000, Z: 0}))

	movement := NewMovementSystem(deps)
	transition := NewTransitionSystem(deps.Stores)
	movement.Update(tick)

	// Fresh goal arrives mid-move.
	queue, _ := deps.Stores.Queues.Get(entity)
	queue.Request(component.MovingState(component.LocationGoal(component.GlobalLocation{X: 0, Z: 1000})))
	transition.Update(tick)

	if state.Kind != component.StateMoving {
		t.Fatalf("still moving expected, got %s", state.Kind)
	}
	if state.Goal.Target.Z != 1000 {
		t.Fatalf("goal not replaced: %+v", state.Goal)
	}
	if state.Announced {
		t.Fatal("replacement goal must announce a fresh StartMove")
	}
}
