package system

import (
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/handler"
	"github.com/kumpelblase2/agentd/internal/world"
)

// DropRadius is how far from the corpse a drop may land.
const DropRadius = 2.0

// DefaultDropLifetime is used when the item has no despawn time configured.
const DefaultDropLifetime = 60 * time.Second

// DropSystem materializes requested drops at a random terrain-snapped
// position near their origin and expires lingering ones. Runs after
// DeathSystem in Phase 3.
type DropSystem struct {
	deps *handler.Deps
}

func NewDropSystem(deps *handler.Deps) *DropSystem {
	return &DropSystem{deps: deps}
}

func (s *DropSystem) Phase() coresys.Phase { return coresys.PhaseEffects }

func (s *DropSystem) Update(dt time.Duration) {
	stores := s.deps.Stores

	for _, request := range stores.Events.DrainDrops() {
		s.createDrop(request)
	}

	stores.Drops.Each(func(entity ecs.EntityID, drop *component.ItemDrop) {
		if drop.Tick(dt) {
			stores.Despawn(entity)
		}
	})
}

func (s *DropSystem) createDrop(request world.SpawnDropEvent) {
	stores := s.deps.Stores

	location := component.RandomLocationAround(request.Around, DropRadius)
	height := float32(0)
	local := location.ToLocal()
	if h, ok := s.deps.Terrain.HeightAt(local.Region, local.X, local.Z); ok {
		height = h
	}

	lifetime := DefaultDropLifetime
	if request.Item.Reference != nil && request.Item.Reference.DespawnTime > 0 {
		lifetime = request.Item.Reference.DespawnTime
	}

	entity := stores.ECS.CreateEntity()
	uniqueID := stores.IDPool.Request()
	refID := uint32(0)
	if request.Item.Reference != nil {
		refID = request.Item.Reference.ID
	}
	stores.GameEntities.Set(entity, &component.GameEntity{UniqueID: uniqueID, RefID: refID})
	position := &component.Position{Location: location.WithY(height)}
	stores.Positions.Set(entity, position)
	stores.Drops.Set(entity, component.NewItemDrop(request.Item, request.Owner, lifetime))

	stores.Lookup.AddEntity(uniqueID, entity)
	stores.Grid.Add(entity, position.Region())
}
