package system

import (
	"math/rand"
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	"github.com/kumpelblase2/agentd/internal/core/event"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/handler"
	"github.com/kumpelblase2/agentd/internal/world"
	"go.uber.org/zap"
)

// MonsterVisibilityRadius is the interest radius of spawned monsters.
const MonsterVisibilityRadius = 500.0

// Stroll tuning for idle monsters.
const (
	strollRadius  = 300.0
	strollMinWait = 10 * time.Second
	strollMaxWait = 60 * time.Second
)

// SpawnerSystem recomputes player activity, advances active spawners,
// materializes requested spawns and hands idle monsters their stroll
// goals. Phase 3.
type SpawnerSystem struct {
	deps *handler.Deps
}

func NewSpawnerSystem(deps *handler.Deps) *SpawnerSystem {
	return &SpawnerSystem{deps: deps}
}

func (s *SpawnerSystem) Phase() coresys.Phase { return coresys.PhaseEffects }

func (s *SpawnerSystem) Update(dt time.Duration) {
	stores := s.deps.Stores

	// Regions touched by any player this tick.
	stores.Activity.Reset()
	ecs.Each2(stores.Players, stores.Positions, func(_ ecs.EntityID, _ *component.Player, pos *component.Position) {
		stores.Activity.Touch(pos.Region())
	})

	// Spawn rolls. A spawner without player presence in its surroundings
	// pauses entirely.
	ecs.Each2(stores.Spawners, stores.Positions, func(entity ecs.EntityID, spawner *component.Spawner, pos *component.Position) {
		spawner.Active = stores.Activity.AnyOf(pos.Region().Neighbours())
		if !spawner.Active || !spawner.HasSpotsAvailable() {
			return
		}
		if !spawner.ShouldCheck(dt) {
			return
		}
		if !s.deps.Scripting.RollSpawnCheck(spawner.CurrentAmount, spawner.TargetAmount) {
			return
		}
		// Spawners are server-internal: no network identity, just the handle.
		ref := component.EntityRef{Entity: entity}
		stores.Events.PushSpawn(world.SpawnMonsterEvent{
			RefID:    spawner.RefID,
			Location: component.RandomLocationAround(pos.Location.ToLocation(), spawner.Radius),
			Spawner:  &ref,
		})
	})

	for _, spawn := range stores.Events.DrainSpawns() {
		s.spawnMonster(spawn)
	}

	// Idle monsters wander around their spawn point.
	ecs.Each3(stores.Monsters, stores.States, stores.Strolls,
		func(entity ecs.EntityID, _ *component.Monster, state *component.State, stroll *component.RandomStroll) {
			if state.Kind != component.StateIdle || !stroll.ShouldMove(dt) {
				return
			}
			stroll.Rearm()
			if queue, ok := stores.Queues.Get(entity); ok {
				queue.Request(component.MovingState(component.LocationGoal(stroll.NextTarget())))
			}
		})
}

func (s *SpawnerSystem) spawnMonster(spawn world.SpawnMonsterEvent) {
	stores := s.deps.Stores
	charData := s.deps.Tables.Characters.FindID(spawn.RefID)
	if charData == nil {
		s.deps.Log.Error("生成請求缺少角色定義", zap.Uint32("ref_id", spawn.RefID))
		return
	}

	height := float32(0)
	local := spawn.Location.ToLocal()
	if h, ok := s.deps.Terrain.HeightAt(local.Region, local.X, local.Z); ok {
		height = h
	}

	entity := stores.ECS.CreateEntity()
	uniqueID := stores.IDPool.Request()
	stores.GameEntities.Set(entity, &component.GameEntity{UniqueID: uniqueID, RefID: spawn.RefID})

	position := &component.Position{
		Location: spawn.Location.WithY(height),
		Rotation: component.Heading(rand.Float32() * 360),
	}
	stores.Positions.Set(entity, position)

	agent := component.AgentFromCharacterData(charData)
	stores.Agents.Set(entity, &agent)
	movement := component.DefaultMonsterMovement()
	stores.Movements.Set(entity, &movement)

	idle := component.IdleState()
	stores.States.Set(entity, &idle)
	stores.Queues.Set(entity, &component.StateTransitionQueue{})

	health := component.NewHealth(charData.HP)
	stores.Healths.Set(entity, &health)
	leveled := component.NewLeveled(charData.Level)
	stores.Levels.Set(entity, &leveled)

	stores.Visibilities.Set(entity, component.NewVisibility(MonsterVisibilityRadius))
	stores.Syncs.Set(entity, &component.Synchronize{})
	stores.Damages.Set(entity, component.NewDamageReceiver())

	stores.Monsters.Set(entity, &component.Monster{Rarity: charData.Rarity})
	if spawn.Spawner != nil {
		stores.SpawnedBys.Set(entity, &component.SpawnedBy{Spawner: spawn.Spawner.Entity})
		if spawner, ok := stores.Spawners.Get(spawn.Spawner.Entity); ok {
			spawner.CurrentAmount++
		}
	}
	stores.Strolls.Set(entity, component.NewRandomStroll(
		position.Location.ToLocation(), strollRadius, strollMinWait, strollMaxWait))

	stores.Lookup.AddEntity(uniqueID, entity)
	stores.Grid.Add(entity, position.Region())

	if charData.IsUnique() {
		event.Emit(s.deps.Bus, event.UniqueSpawned{RefID: spawn.RefID})
	}
}
