package component

import "github.com/kumpelblase2/agentd/internal/core/ecs"

// GameEntity is the network-facing identity of an entity. unique_id comes
// from the reusable id pool; ref_id references static game data.
type GameEntity struct {
	UniqueID uint32
	RefID    uint32
}

// EntityRef is a non-owning cross-entity handle. It keeps the unique id so a
// despawn can still be announced after the entity itself is gone.
type EntityRef struct {
	Entity   ecs.EntityID
	UniqueID uint32
}
