package system

import (
	"testing"
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
)

func TestSpawnerPausesWithoutPlayers(t *testing.T) {
	deps := newTestDeps(t)
	stores := deps.Stores

	spawnerEntity := stores.ECS.CreateEntity()
	stores.Positions.Set(spawnerEntity, &component.Position{Location: component.GlobalPosition{X: 100, Z: 100}})
	stores.Spawners.Set(spawnerEntity, component.NewSpawner(100, 50, 5))

	system := NewSpawnerSystem(deps)
	for i := 0; i < 120; i++ {
		system.Update(time.Second)
	}

	spawner, _ := stores.Spawners.Get(spawnerEntity)
	if spawner.Active {
		t.Fatal("spawner must stay inactive without player activity")
	}
	if spawner.CurrentAmount != 0 || stores.Monsters.Len() != 0 {
		t.Fatalf("spawned %d monsters off-screen", stores.Monsters.Len())
	}
}

func TestSpawnerFillsUpToTarget(t *testing.T) {
	deps := newTestDeps(t)
	stores := deps.Stores

	spawnerEntity := stores.ECS.CreateEntity()
	stores.Positions.Set(spawnerEntity, &component.Position{Location: component.GlobalPosition{X: 100, Z: 100}})
	stores.Spawners.Set(spawnerEntity, component.NewSpawner(100, 50, 3))

	// A player in the spawner's region activates it.
	spawnTestAgent(deps, "activator", component.GlobalPosition{X: 120, Z: 120})

	system := NewSpawnerSystem(deps)
	spawner, _ := stores.Spawners.Get(spawnerEntity)
	for i := 0; i < 300; i++ {
		system.Update(time.Second)
		if spawner.CurrentAmount > spawner.TargetAmount {
			t.Fatalf("population %d exceeded target %d", spawner.CurrentAmount, spawner.TargetAmount)
		}
	}

	if !spawner.Active {
		t.Fatal("spawner should be active with a player nearby")
	}
	if spawner.CurrentAmount != spawner.TargetAmount {
		t.Fatalf("expected the spawner to saturate after 300 checks, at %d/%d",
			spawner.CurrentAmount, spawner.TargetAmount)
	}
	if stores.Monsters.Len() != spawner.TargetAmount {
		t.Fatalf("monster count %d != population %d", stores.Monsters.Len(), spawner.CurrentAmount)
	}
}

func TestMonsterDeathFreesSpawnerSlot(t *testing.T) {
	deps := newTestDeps(t)
	stores := deps.Stores

	spawnerEntity := stores.ECS.CreateEntity()
	stores.Positions.Set(spawnerEntity, &component.Position{Location: component.GlobalPosition{X: 100, Z: 100}})
	stores.Spawners.Set(spawnerEntity, component.NewSpawner(100, 50, 5))
	spawnTestAgent(deps, "activator", component.GlobalPosition{X: 120, Z: 120})

	system := NewSpawnerSystem(deps)
	var monster ecs.EntityID
	for i := 0; i < 300 && monster == 0; i++ {
		system.Update(time.Second)
		stores.Monsters.Each(func(entity ecs.EntityID, _ *component.Monster) {
			if monster == 0 {
				monster = entity
			}
		})
	}
	if monster == 0 {
		t.Fatal("no monster spawned in 300 checks")
	}

	spawner, _ := stores.Spawners.Get(spawnerEntity)
	before := spawner.CurrentAmount

	stores.RequestDead(monster, true)
	NewDeathSystem(deps).Update(tick)

	if spawner.CurrentAmount != before-1 {
		t.Fatalf("death should free a slot: %d -> %d", before, spawner.CurrentAmount)
	}

	spawned, _ := stores.SpawnedBys.Get(monster)
	if spawned.Spawner != spawnerEntity {
		t.Fatal("monster not linked to its spawner")
	}
}
