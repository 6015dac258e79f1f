package world

import (
	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/data"
)

// Same-tick effect queues. Execute-phase systems append, effect-phase
// systems drain — within the same tick, in insertion order. Cross-tick
// notifications use the event bus instead.

// DamageEvent is one resolved hit, buffered until the effects phase so the
// attacker observes the target's pre-tick health.
type DamageEvent struct {
	Source   component.EntityRef
	Target   component.EntityRef
	Skill    *data.RefSkill
	Instance uint32
	Amount   uint32
}

// SpawnMonsterEvent requests a monster spawn at a location.
type SpawnMonsterEvent struct {
	RefID    uint32
	Location component.GlobalLocation
	Spawner  *component.EntityRef
}

// SpawnDropEvent requests an item drop near a position.
type SpawnDropEvent struct {
	Item     component.Item
	Around   component.GlobalLocation
	Owner    *component.EntityRef
}

// GameEvents carries the per-tick queues.
type GameEvents struct {
	Damage []DamageEvent
	Spawns []SpawnMonsterEvent
	Drops  []SpawnDropEvent
}

func NewGameEvents() *GameEvents {
	return &GameEvents{}
}

func (e *GameEvents) PushDamage(ev DamageEvent) {
	e.Damage = append(e.Damage, ev)
}

func (e *GameEvents) PushSpawn(ev SpawnMonsterEvent) {
	e.Spawns = append(e.Spawns, ev)
}

func (e *GameEvents) PushDrop(ev SpawnDropEvent) {
	e.Drops = append(e.Drops, ev)
}

// DrainDamage returns and clears the damage queue.
func (e *GameEvents) DrainDamage() []DamageEvent {
	drained := e.Damage
	e.Damage = nil
	return drained
}

func (e *GameEvents) DrainSpawns() []SpawnMonsterEvent {
	drained := e.Spawns
	e.Spawns = nil
	return drained
}

func (e *GameEvents) DrainDrops() []SpawnDropEvent {
	drained := e.Drops
	e.Drops = nil
	return drained
}
