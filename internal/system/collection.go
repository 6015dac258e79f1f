package system

import (
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/handler"
	"github.com/kumpelblase2/agentd/internal/net/packet"
	"github.com/kumpelblase2/agentd/internal/world"
)

// UpdateBuffer carries the per-entity messages from collection to
// distribution. Serialization happens once per dirty entity, not once per
// observer.
type UpdateBuffer struct {
	Self   map[ecs.EntityID][]packet.Raw
	Others map[ecs.EntityID][]packet.Raw
}

func NewUpdateBuffer() *UpdateBuffer {
	return &UpdateBuffer{
		Self:   make(map[ecs.EntityID][]packet.Raw),
		Others: make(map[ecs.EntityID][]packet.Raw),
	}
}

func (b *UpdateBuffer) Reset() {
	clear(b.Self)
	clear(b.Others)
}

// CollectionSystem turns dirty Synchronize envelopes into serialized self
// and others messages. Phase 4, after visibility.
type CollectionSystem struct {
	stores *world.Stores
	buffer *UpdateBuffer
}

func NewCollectionSystem(stores *world.Stores, buffer *UpdateBuffer) *CollectionSystem {
	return &CollectionSystem{stores: stores, buffer: buffer}
}

func (s *CollectionSystem) Phase() coresys.Phase { return coresys.PhaseCollection }

func (s *CollectionSystem) Update(_ time.Duration) {
	stores := s.stores
	ecs.Each2(stores.Syncs, stores.GameEntities,
		func(entity ecs.EntityID, sync *component.Synchronize, ge *component.GameEntity) {
			if !sync.Dirty() {
				return
			}

			var others []packet.Raw
			if sync.Movement != nil {
				others = append(others, handler.BuildMovement(ge.UniqueID, sync.Movement))
			}
			if len(sync.Damage) > 0 || len(sync.States) > 0 || sync.Health != nil || sync.Speed != nil {
				others = append(others, handler.BuildEntityUpdate(ge.UniqueID, sync))
			}
			if sync.Level != nil {
				others = append(others, handler.BuildLevelUpEffect(ge.UniqueID))
			}
			if len(others) > 0 {
				s.buffer.Others[entity] = others
			}

			if sync.Mana != nil || len(sync.Exp) > 0 || sync.Level != nil || sync.SP != nil {
				s.buffer.Self[entity] = append(s.buffer.Self[entity], handler.BuildSelfUpdate(sync))
			}
		})
}
