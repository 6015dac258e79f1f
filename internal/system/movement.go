package system

import (
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/handler"
	"github.com/kumpelblase2/agentd/internal/worlddata"
)

// TerrainSampler provides the height lookup the integration step needs.
type TerrainSampler interface {
	HeightAt(region worlddata.Region, x, z float32) (float32, bool)
}

// StepResult is the outcome of one integration step.
type StepResult struct {
	Position component.GlobalPosition
	Finished bool
}

// Integrate advances straight-line motion toward the target by speed*dt.
// When the remaining distance fits into the step, the position snaps to the
// target. The y component is sampled from the terrain at the advanced
// position; an undefined sample keeps the previous height.
func Integrate(pos component.GlobalPosition, target component.GlobalLocation, speed float32, dt time.Duration, terrain TerrainSampler) StepResult {
	current := pos.ToLocation()
	distance := current.DistanceTo(target)
	step := speed * float32(dt.Seconds())

	var next component.GlobalLocation
	finished := false
	if distance <= step {
		next = target
		finished = true
	} else {
		dirX := (target.X - current.X) / distance
		dirZ := (target.Z - current.Z) / distance
		next = component.GlobalLocation{
			X: current.X + dirX*step,
			Z: current.Z + dirZ*step,
		}
	}

	return StepResult{
		Position: next.WithY(sampleHeight(terrain, next, pos.Y)),
		Finished: finished,
	}
}

// IntegrateDirection advances motion along a heading with no target; the
// goal only ends on new input.
func IntegrateDirection(pos component.GlobalPosition, heading component.Heading, speed float32, dt time.Duration, terrain TerrainSampler) StepResult {
	step := speed * float32(dt.Seconds())
	dirX, dirZ := heading.Vector()
	next := component.GlobalLocation{
		X: pos.X + dirX*step,
		Z: pos.Z + dirZ*step,
	}
	return StepResult{Position: next.WithY(sampleHeight(terrain, next, pos.Y))}
}

func sampleHeight(terrain TerrainSampler, at component.GlobalLocation, previous float32) float32 {
	if terrain == nil {
		return previous
	}
	local := at.ToLocal()
	if height, ok := terrain.HeightAt(local.Region, local.X, local.Z); ok {
		return height
	}
	return previous
}

// MovementSystem integrates every moving agent, announces start/stop, and
// re-buckets entities on region boundary crossings. Phase 2.
type MovementSystem struct {
	deps *handler.Deps
}

func NewMovementSystem(deps *handler.Deps) *MovementSystem {
	return &MovementSystem{deps: deps}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseExecute }

func (s *MovementSystem) Update(dt time.Duration) {
	stores := s.deps.Stores
	ecs.Each4(stores.States, stores.Positions, stores.Agents, stores.Movements,
		func(entity ecs.EntityID, state *component.State, pos *component.Position, agent *component.Agent, movement *component.MovementState) {
			switch state.Kind {
			case component.StateMoving, component.StateMoveToAction, component.StateMoveToPickup:
			default:
				return
			}

			speed := agent.SpeedValue(movement.Speed)
			switch state.Goal.Kind {
			case component.GoalLocation:
				s.stepToward(entity, state, pos, speed, dt)
			case component.GoalDirection:
				s.stepAlong(entity, state, pos, speed, dt)
			case component.GoalTurn:
				s.turn(entity, state, pos)
			}
		})
}

func (s *MovementSystem) stepToward(entity ecs.EntityID, state *component.State, pos *component.Position, speed float32, dt time.Duration) {
	stores := s.deps.Stores
	oldLocal := pos.Location.ToLocal()
	result := Integrate(pos.Location, state.Goal.Target, speed, dt, s.deps.Terrain)

	s.applyPosition(entity, pos, result.Position)

	sync, _ := stores.Syncs.Get(entity)
	if result.Finished {
		if sync != nil {
			sync.Movement = &component.MovementUpdate{
				Kind:    component.MoveStop,
				From:    pos.Location.ToLocal(),
				Heading: pos.Rotation,
			}
		}
		state.Goal = component.MovementGoal{}
		state.Announced = false
		s.arrive(entity, state)
	} else if !state.Announced {
		state.Announced = true
		if sync != nil {
			sync.Movement = &component.MovementUpdate{
				Kind: component.MoveStart,
				From: oldLocal,
				To:   state.Goal.Target.WithY(result.Position.Y).ToLocal(),
			}
		}
	}
}

func (s *MovementSystem) stepAlong(entity ecs.EntityID, state *component.State, pos *component.Position, speed float32, dt time.Duration) {
	oldLocal := pos.Location.ToLocal()
	result := IntegrateDirection(pos.Location, state.Goal.Heading, speed, dt, s.deps.Terrain)
	pos.Rotation = state.Goal.Heading
	s.applyPosition(entity, pos, result.Position)

	if !state.Announced {
		state.Announced = true
		if sync, ok := s.deps.Stores.Syncs.Get(entity); ok {
			sync.Movement = &component.MovementUpdate{
				Kind:    component.MoveStartDirection,
				From:    oldLocal,
				Heading: state.Goal.Heading,
			}
		}
	}
}

func (s *MovementSystem) turn(entity ecs.EntityID, state *component.State, pos *component.Position) {
	pos.Rotation = state.Goal.Heading
	if sync, ok := s.deps.Stores.Syncs.Get(entity); ok {
		sync.Movement = &component.MovementUpdate{
			Kind:    component.MoveTurn,
			Heading: state.Goal.Heading,
		}
	}
	state.Goal = component.MovementGoal{}
	if queue, ok := s.deps.Stores.Queues.Get(entity); ok {
		queue.Request(component.IdleState())
	}
}

// applyPosition moves the entity and re-buckets it when the region changed.
// Crossing a region boundary has no special cost.
func (s *MovementSystem) applyPosition(entity ecs.EntityID, pos *component.Position, next component.GlobalPosition) {
	oldRegion := pos.Region()
	pos.Location = next
	newRegion := pos.Region()
	if oldRegion != newRegion {
		s.deps.Stores.Grid.Move(entity, oldRegion, newRegion)
	}
}

// arrive finishes a movement state: plain moves idle out, chained moves
// continue into their action or pickup.
func (s *MovementSystem) arrive(entity ecs.EntityID, state *component.State) {
	stores := s.deps.Stores
	queue, ok := stores.Queues.Get(entity)
	if !ok {
		return
	}

	switch state.Kind {
	case component.StateMoving:
		queue.Request(component.IdleState())
	case component.StateMoveToAction:
		cast := time.Duration(0)
		if skill := s.deps.Tables.Skills.FindID(state.Action.Skill); skill != nil {
			cast = skill.CastDuration
		}
		queue.Request(component.ActionState(state.Action, cast))
	case component.StateMoveToPickup:
		performPickup(s.deps, entity, state.Pickup)
		queue.Request(component.IdleState())
	}
}
