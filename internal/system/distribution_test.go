package system

import (
	"testing"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/net/packet"
)

func TestDistributionFlushesAndResets(t *testing.T) {
	deps := newTestDeps(t)
	stores := deps.Stores

	observer := spawnTestAgent(deps, "observer", component.GlobalPosition{X: 100, Z: 100})
	sess := newTestSession(t, 1)
	stores.Sessions.Set(observer, sess)

	monster := spawnTestMonster(deps, 100, 10, component.GlobalPosition{X: 150, Z: 100})

	// The monster moved this tick.
	monsterSync, _ := stores.Syncs.Get(monster)
	monsterSync.Movement = &component.MovementUpdate{
		Kind: component.MoveStart,
		From: component.GlobalPosition{X: 150, Z: 100}.ToLocal(),
		To:   component.GlobalPosition{X: 160, Z: 100}.ToLocal(),
	}

	buffer := NewUpdateBuffer()
	NewVisibilitySystem(stores).Update(tick)
	NewCollectionSystem(stores, buffer).Update(tick)
	NewDistributionSystem(stores, buffer).Update(tick)

	opcodes := drainOutQueue(sess)
	var spawns, movements int
	for _, op := range opcodes {
		switch op {
		case packet.S_OPCODE_ENTITY_SPAWN:
			spawns++
		case packet.S_OPCODE_MOVEMENT:
			movements++
		}
	}
	if spawns != 1 {
		t.Fatalf("newcomer should produce one spawn message, got %d", spawns)
	}
	if movements != 1 {
		t.Fatalf("neighbour movement should be relayed once, got %d", movements)
	}

	// Every per-tick buffer is cleared afterwards.
	if monsterSync.Dirty() {
		t.Fatal("envelope not cleared")
	}
	visibility, _ := stores.Visibilities.Get(observer)
	if len(visibility.Added) != 0 || len(visibility.Removed) != 0 {
		t.Fatal("visibility deltas not cleared")
	}
	if len(buffer.Self) != 0 || len(buffer.Others) != 0 {
		t.Fatal("update buffer not reset")
	}
}

func TestSelfUpdatesReachOwnClient(t *testing.T) {
	deps := newTestDeps(t)
	stores := deps.Stores

	player := spawnTestAgent(deps, "self", component.GlobalPosition{X: 100, Z: 100})
	sess := newTestSession(t, 1)
	stores.Sessions.Set(player, sess)

	sync, _ := stores.Syncs.Get(player)
	level := uint8(2)
	sync.Level = &level
	sync.Exp = append(sync.Exp, component.ExpNotice{Exp: 700, Leveled: true})

	buffer := NewUpdateBuffer()
	NewCollectionSystem(stores, buffer).Update(tick)
	NewDistributionSystem(stores, buffer).Update(tick)

	opcodes := drainOutQueue(sess)
	var expUpdates, levelEffects int
	for _, op := range opcodes {
		switch op {
		case packet.S_OPCODE_EXP_UPDATE:
			expUpdates++
		case packet.S_OPCODE_LEVELUP_EFFECT:
			levelEffects++
		}
	}
	if expUpdates != 1 {
		t.Fatalf("own exp update missing, opcodes %#v", opcodes)
	}
	if levelEffects != 1 {
		t.Fatalf("level-up effect missing, opcodes %#v", opcodes)
	}
}
