package system

import (
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/handler"
)

// CleanupSystem is the deferred destruction sweep: it prunes every
// despawned entity out of the visibility sets (recording the removal delta
// exactly once), releases its indices and population slot, and only then
// destroys it. Freed unique ids stay parked until the next sweep so all
// clients observed the despawn first. Phase 6.
type CleanupSystem struct {
	deps *handler.Deps
}

func NewCleanupSystem(deps *handler.Deps) *CleanupSystem {
	return &CleanupSystem{deps: deps}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	stores := s.deps.Stores

	// Ids parked by the previous sweep: their despawns have been flushed.
	stores.IDPool.Release()

	for _, entity := range stores.ECS.PendingDestruction() {
		ref, hasRef := stores.Ref(entity)
		if hasRef {
			stores.Visibilities.Each(func(_ ecs.EntityID, visibility *component.Visibility) {
				visibility.Drop(ref)
			})
			stores.IDPool.Return(ref.UniqueID)
		}

		if pos, ok := stores.Positions.Get(entity); ok {
			stores.Grid.Remove(entity, pos.Region())
		}
		if playing, ok := stores.Playings.Get(entity); ok {
			playing.Token.Release()
		}
		if s.deps.CharLoads != nil {
			s.deps.CharLoads.Forget(entity)
		}
		stores.Lookup.Remove(entity)
	}

	stores.ECS.FlushDestroyQueue()
}
