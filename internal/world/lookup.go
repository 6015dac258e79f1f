package world

import "github.com/kumpelblase2/agentd/internal/core/ecs"

// IDPool hands out reusable network unique ids. Freed ids are parked for one
// cleanup cycle before they can be claimed again, so every client consumes
// the despawn delta carrying the old id first.
type IDPool struct {
	next   uint32
	free   []uint32
	parked []uint32
}

func NewIDPool() *IDPool {
	return &IDPool{next: 1}
}

func (p *IDPool) Request() uint32 {
	if len(p.free) > 0 {
		id := p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		return id
	}
	id := p.next
	p.next++
	return id
}

// Return parks a freed id until the next Release call.
func (p *IDPool) Return(id uint32) {
	p.parked = append(p.parked, id)
}

// Release moves parked ids into the free list. Called once per tick after
// distribution has flushed all despawn deltas.
func (p *IDPool) Release() {
	p.free = append(p.free, p.parked...)
	p.parked = p.parked[:0]
}

// Lookup resolves entities by player name, network unique id and session id.
type Lookup struct {
	byName    map[string]ecs.EntityID
	byUnique  map[uint32]ecs.EntityID
	bySession map[uint64]ecs.EntityID
}

func NewLookup() *Lookup {
	return &Lookup{
		byName:    make(map[string]ecs.EntityID),
		byUnique:  make(map[uint32]ecs.EntityID),
		bySession: make(map[uint64]ecs.EntityID),
	}
}

func (l *Lookup) AddEntity(uniqueID uint32, entity ecs.EntityID) {
	l.byUnique[uniqueID] = entity
}

func (l *Lookup) AddPlayer(name string, uniqueID uint32, entity ecs.EntityID) {
	l.byName[name] = entity
	l.byUnique[uniqueID] = entity
}

func (l *Lookup) AddSession(sessionID uint64, entity ecs.EntityID) {
	l.bySession[sessionID] = entity
}

func (l *Lookup) ByName(name string) (ecs.EntityID, bool) {
	e, ok := l.byName[name]
	return e, ok
}

func (l *Lookup) ByUnique(uniqueID uint32) (ecs.EntityID, bool) {
	e, ok := l.byUnique[uniqueID]
	return e, ok
}

func (l *Lookup) BySession(sessionID uint64) (ecs.EntityID, bool) {
	e, ok := l.bySession[sessionID]
	return e, ok
}

// Remove drops every index entry pointing at the entity.
func (l *Lookup) Remove(entity ecs.EntityID) {
	for name, e := range l.byName {
		if e == entity {
			delete(l.byName, name)
		}
	}
	for id, e := range l.byUnique {
		if e == entity {
			delete(l.byUnique, id)
		}
	}
	for id, e := range l.bySession {
		if e == entity {
			delete(l.bySession, id)
		}
	}
}
