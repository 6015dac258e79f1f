package world

import (
	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	"github.com/kumpelblase2/agentd/internal/net"
)

// Stores aggregates the ECS world, every component store and the shared
// spatial/index structures. Single-goroutine access only (game loop), except
// the login queue which the HTTP task reaches through its own mutex.
type Stores struct {
	ECS *ecs.World

	Sessions     *ecs.PtrComponentStore[net.Session]
	GameEntities *ecs.PtrComponentStore[component.GameEntity]
	Positions    *ecs.PtrComponentStore[component.Position]
	Agents       *ecs.PtrComponentStore[component.Agent]
	Movements    *ecs.PtrComponentStore[component.MovementState]
	States       *ecs.PtrComponentStore[component.State]
	Queues       *ecs.PtrComponentStore[component.StateTransitionQueue]
	Healths      *ecs.PtrComponentStore[component.Health]
	Manas        *ecs.PtrComponentStore[component.Mana]
	BaseStats    *ecs.PtrComponentStore[component.Stats]
	Visibilities *ecs.PtrComponentStore[component.Visibility]
	Syncs        *ecs.PtrComponentStore[component.Synchronize]
	Experiences  *ecs.PtrComponentStore[component.Experienced]
	Levels       *ecs.PtrComponentStore[component.Leveled]
	SPs          *ecs.PtrComponentStore[component.SP]
	Masteries    *ecs.PtrComponentStore[component.MasteryKnowledge]
	SkillBooks   *ecs.PtrComponentStore[component.SkillBook]
	Damages      *ecs.PtrComponentStore[component.DamageReceiver]
	Inventories  *ecs.PtrComponentStore[component.Inventory]
	Golds        *ecs.PtrComponentStore[component.GoldPouch]
	Drops        *ecs.PtrComponentStore[component.ItemDrop]
	Monsters     *ecs.PtrComponentStore[component.Monster]
	SpawnedBys   *ecs.PtrComponentStore[component.SpawnedBy]
	Strolls      *ecs.PtrComponentStore[component.RandomStroll]
	Spawners     *ecs.PtrComponentStore[component.Spawner]
	Players      *ecs.PtrComponentStore[component.Player]
	Logins       *ecs.PtrComponentStore[component.Login]
	Playings     *ecs.PtrComponentStore[component.Playing]
	LastActions  *ecs.PtrComponentStore[component.LastAction]
	Logouts      *ecs.PtrComponentStore[component.Logout]
	Disconnects  *ecs.PtrComponentStore[component.Disconnecting]
	Persistables *ecs.PtrComponentStore[component.Persistable]
	Inputs       *ecs.PtrComponentStore[component.PlayerInput]

	Lookup   *Lookup
	IDPool   *IDPool
	Grid     *Grid
	Activity *PlayerActivity
	Events   *GameEvents
}

func NewStores() *Stores {
	w := ecs.NewWorld()
	s := &Stores{
		ECS:          w,
		Sessions:     ecs.NewPtrComponentStore[net.Session](),
		GameEntities: ecs.NewPtrComponentStore[component.GameEntity](),
		Positions:    ecs.NewPtrComponentStore[component.Position](),
		Agents:       ecs.NewPtrComponentStore[component.Agent](),
		Movements:    ecs.NewPtrComponentStore[component.MovementState](),
		States:       ecs.NewPtrComponentStore[component.State](),
		Queues:       ecs.NewPtrComponentStore[component.StateTransitionQueue](),
		Healths:      ecs.NewPtrComponentStore[component.Health](),
		Manas:        ecs.NewPtrComponentStore[component.Mana](),
		BaseStats:    ecs.NewPtrComponentStore[component.Stats](),
		Visibilities: ecs.NewPtrComponentStore[component.Visibility](),
		Syncs:        ecs.NewPtrComponentStore[component.Synchronize](),
		Experiences:  ecs.NewPtrComponentStore[component.Experienced](),
		Levels:       ecs.NewPtrComponentStore[component.Leveled](),
		SPs:          ecs.NewPtrComponentStore[component.SP](),
		Masteries:    ecs.NewPtrComponentStore[component.MasteryKnowledge](),
		SkillBooks:   ecs.NewPtrComponentStore[component.SkillBook](),
		Damages:      ecs.NewPtrComponentStore[component.DamageReceiver](),
		Inventories:  ecs.NewPtrComponentStore[component.Inventory](),
		Golds:        ecs.NewPtrComponentStore[component.GoldPouch](),
		Drops:        ecs.NewPtrComponentStore[component.ItemDrop](),
		Monsters:     ecs.NewPtrComponentStore[component.Monster](),
		SpawnedBys:   ecs.NewPtrComponentStore[component.SpawnedBy](),
		Strolls:      ecs.NewPtrComponentStore[component.RandomStroll](),
		Spawners:     ecs.NewPtrComponentStore[component.Spawner](),
		Players:      ecs.NewPtrComponentStore[component.Player](),
		Logins:       ecs.NewPtrComponentStore[component.Login](),
		Playings:     ecs.NewPtrComponentStore[component.Playing](),
		LastActions:  ecs.NewPtrComponentStore[component.LastAction](),
		Logouts:      ecs.NewPtrComponentStore[component.Logout](),
		Disconnects:  ecs.NewPtrComponentStore[component.Disconnecting](),
		Persistables: ecs.NewPtrComponentStore[component.Persistable](),
		Inputs:       ecs.NewPtrComponentStore[component.PlayerInput](),

		Lookup:   NewLookup(),
		IDPool:   NewIDPool(),
		Grid:     NewGrid(),
		Activity: NewPlayerActivity(),
		Events:   NewGameEvents(),
	}

	reg := w.Registry()
	reg.Register(s.Sessions)
	reg.Register(s.GameEntities)
	reg.Register(s.Positions)
	reg.Register(s.Agents)
	reg.Register(s.Movements)
	reg.Register(s.States)
	reg.Register(s.Queues)
	reg.Register(s.Healths)
	reg.Register(s.Manas)
	reg.Register(s.BaseStats)
	reg.Register(s.Visibilities)
	reg.Register(s.Syncs)
	reg.Register(s.Experiences)
	reg.Register(s.Levels)
	reg.Register(s.SPs)
	reg.Register(s.Masteries)
	reg.Register(s.SkillBooks)
	reg.Register(s.Damages)
	reg.Register(s.Inventories)
	reg.Register(s.Golds)
	reg.Register(s.Drops)
	reg.Register(s.Monsters)
	reg.Register(s.SpawnedBys)
	reg.Register(s.Strolls)
	reg.Register(s.Spawners)
	reg.Register(s.Players)
	reg.Register(s.Logins)
	reg.Register(s.Playings)
	reg.Register(s.LastActions)
	reg.Register(s.Logouts)
	reg.Register(s.Disconnects)
	reg.Register(s.Persistables)
	reg.Register(s.Inputs)

	return s
}

// Ref builds the cross-entity handle for an entity.
func (s *Stores) Ref(entity ecs.EntityID) (component.EntityRef, bool) {
	ge, ok := s.GameEntities.Get(entity)
	if !ok {
		return component.EntityRef{}, false
	}
	return component.EntityRef{Entity: entity, UniqueID: ge.UniqueID}, true
}

// RequestDead forces the Dead state onto an entity this tick, bypassing
// interruptability. Motion aborts with a StopMove announcement.
func (s *Stores) RequestDead(entity ecs.EntityID, monster bool) {
	state, ok := s.States.Get(entity)
	if !ok || state.Kind == component.StateDead {
		return
	}
	if sync, ok := s.Syncs.Get(entity); ok {
		if state.Kind == component.StateMoving && state.Announced {
			if pos, ok := s.Positions.Get(entity); ok {
				local := pos.Location.ToLocal()
				sync.Movement = &component.MovementUpdate{
					Kind:    component.MoveStop,
					From:    local,
					Heading: pos.Rotation,
				}
			}
		}
		sync.States = append(sync.States, component.AliveDead)
	}
	if monster {
		*state = component.DeadMonsterState()
	} else {
		*state = component.DeadPlayerState()
	}
	if queue, ok := s.Queues.Get(entity); ok {
		queue.Clear()
	}
}

// Despawn schedules the entity for the end-of-tick sweep.
func (s *Stores) Despawn(entity ecs.EntityID) {
	s.ECS.MarkForDestruction(entity)
}
