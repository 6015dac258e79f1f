package event

import "github.com/kumpelblase2/agentd/internal/core/ecs"

// Cross-tick notifications. Same-tick effects (damage, spawns, drops) go
// through the world's per-tick queues instead — see internal/world/events.go.

type ClientConnected struct {
	EntityID ecs.EntityID
}

type ClientDisconnected struct {
	EntityID  ecs.EntityID
	SessionID uint64
}

type PlayerLevelUp struct {
	EntityID ecs.EntityID
	NewLevel uint8
}

type UniqueSpawned struct {
	RefID uint32
}

type UniqueKilled struct {
	RefID  uint32
	Player string
}
