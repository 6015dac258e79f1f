package system

import (
	"net"
	"testing"
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/config"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	"github.com/kumpelblase2/agentd/internal/core/event"
	"github.com/kumpelblase2/agentd/internal/data"
	"github.com/kumpelblase2/agentd/internal/handler"
	gonet "github.com/kumpelblase2/agentd/internal/net"
	"github.com/kumpelblase2/agentd/internal/scripting"
	"github.com/kumpelblase2/agentd/internal/world"
	"github.com/kumpelblase2/agentd/internal/worlddata"
	"go.uber.org/zap"
)

const tick = time.Second / 30

func newTestDeps(t *testing.T) *handler.Deps {
	t.Helper()

	engine, err := scripting.NewEngine("testdata/missing-scripts", zap.NewNop())
	if err != nil {
		t.Fatalf("scripting engine: %v", err)
	}
	t.Cleanup(engine.Close)

	tables := &data.Tables{
		Characters: data.NewCharacterMap([]data.RefCharacter{
			{ID: 100, Name: "Mangyang", Level: 5, HP: 10, WalkSpeed: 16, RunSpeed: 40, BerserkSpeed: 80, Exp: 1000, SPExp: 400, Rarity: data.RarityNormal},
		}),
		Items: data.NewItemMap([]data.RefItem{
			{ID: 1, Name: "GoldSmall", Kind: data.ItemKindGold},
			{ID: 2, Name: "GoldMedium", Kind: data.ItemKindGold},
			{ID: 3, Name: "GoldLarge", Kind: data.ItemKindGold},
			{ID: 50, Name: "Sword", Kind: data.ItemKindEquipment, RangeBonus: 1.5},
		}),
		Skills: data.NewSkillMap([]data.RefSkill{
			{ID: 1, Group: 1, Level: 1, Range: 3, CastDuration: 0, Damage: 5},
			{ID: 2, Group: 2, Level: 1, Range: 2, CastDuration: time.Second, Damage: 10, Weapon: "Sword"},
		}),
		Levels: data.NewLevelMap([]data.RefLevel{
			{Level: 1, Exp: 500, MasterySP: 1},
			{Level: 2, Exp: 1200, MasterySP: 2},
			{Level: 3, Exp: 2500, MasterySP: 3},
		}),
		Gold: data.NewGoldMap([]data.RefGold{
			{Level: 5, Min: 40, Max: 60},
		}),
	}

	return &handler.Deps{
		Config: &config.Config{
			Game: config.GameConfig{
				MaxLevel:       110,
				ClientTimeout:  30 * time.Second,
				LogoutDuration: 2 * time.Second,
				DesiredTicks:   30,
				AutosaveEvery:  time.Minute,
			},
		},
		Stores:    world.NewStores(),
		Tables:    tables,
		Terrain:   worlddata.NewTerrain(),
		Bus:       event.NewBus(),
		Scripting: engine,
		Log:       zap.NewNop(),
	}
}

// spawnTestAgent creates an in-world entity with the full agent aspect set.
func spawnTestAgent(deps *handler.Deps, name string, pos component.GlobalPosition) ecs.EntityID {
	stores := deps.Stores
	entity := stores.ECS.CreateEntity()
	uniqueID := stores.IDPool.Request()

	stores.GameEntities.Set(entity, &component.GameEntity{UniqueID: uniqueID, RefID: 1907})
	stores.Positions.Set(entity, &component.Position{Location: pos})
	agent := component.DefaultAgent()
	stores.Agents.Set(entity, &agent)
	movement := component.DefaultPlayerMovement()
	stores.Movements.Set(entity, &movement)
	state := component.IdleState()
	stores.States.Set(entity, &state)
	stores.Queues.Set(entity, &component.StateTransitionQueue{})
	health := component.NewHealth(200)
	stores.Healths.Set(entity, &health)
	mana := component.NewMana(200)
	stores.Manas.Set(entity, &mana)
	stats := component.DefaultStats()
	stores.BaseStats.Set(entity, &stats)
	stores.Visibilities.Set(entity, component.NewVisibility(500))
	stores.Syncs.Set(entity, &component.Synchronize{})
	experienced := component.NewExperienced(0, 0)
	stores.Experiences.Set(entity, &experienced)
	leveled := component.NewLeveled(1)
	stores.Levels.Set(entity, &leveled)
	sp := component.NewSP(0)
	stores.SPs.Set(entity, &sp)
	stores.Masteries.Set(entity, component.NewMasteryKnowledge(nil))
	stores.SkillBooks.Set(entity, component.NewSkillBook(nil))
	stores.Damages.Set(entity, component.NewDamageReceiver())
	stores.Inventories.Set(entity, component.NewInventory(handler.PlayerInventorySize))
	gold := component.NewGoldPouch(0)
	stores.Golds.Set(entity, &gold)
	stores.Players.Set(entity, &component.Player{CharacterID: uint32(uniqueID), Name: name, MaxLevel: 1})
	stores.Inputs.Set(entity, &component.PlayerInput{})

	stores.Lookup.AddPlayer(name, uniqueID, entity)
	pc := component.Position{Location: pos}
	stores.Grid.Add(entity, pc.Region())
	return entity
}

// spawnTestMonster creates a monster entity with the given health.
func spawnTestMonster(deps *handler.Deps, refID, hp uint32, pos component.GlobalPosition) ecs.EntityID {
	stores := deps.Stores
	entity := stores.ECS.CreateEntity()
	uniqueID := stores.IDPool.Request()

	stores.GameEntities.Set(entity, &component.GameEntity{UniqueID: uniqueID, RefID: refID})
	stores.Positions.Set(entity, &component.Position{Location: pos})
	agent := component.DefaultAgent()
	stores.Agents.Set(entity, &agent)
	movement := component.DefaultMonsterMovement()
	stores.Movements.Set(entity, &movement)
	state := component.IdleState()
	stores.States.Set(entity, &state)
	stores.Queues.Set(entity, &component.StateTransitionQueue{})
	health := component.NewHealth(hp)
	stores.Healths.Set(entity, &health)
	leveled := component.NewLeveled(5)
	stores.Levels.Set(entity, &leveled)
	stores.Visibilities.Set(entity, component.NewVisibility(500))
	stores.Syncs.Set(entity, &component.Synchronize{})
	stores.Damages.Set(entity, component.NewDamageReceiver())
	stores.Monsters.Set(entity, &component.Monster{Rarity: data.RarityNormal})

	stores.Lookup.AddEntity(uniqueID, entity)
	pc := component.Position{Location: pos}
	stores.Grid.Add(entity, pc.Region())
	return entity
}

// newTestSession builds a session whose OutQueue can be inspected without
// network goroutines.
func newTestSession(t *testing.T, id uint64) *gonet.Session {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return gonet.NewSession(server, id, 32, 64, zap.NewNop())
}

// drainOutQueue collects the opcodes queued on a session.
func drainOutQueue(sess *gonet.Session) []uint16 {
	var opcodes []uint16
	for {
		select {
		case frame := <-sess.OutQueue:
			opcodes = append(opcodes, frame.Opcode)
		default:
			return opcodes
		}
	}
}
