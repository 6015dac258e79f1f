package system

import (
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/handler"
	"github.com/kumpelblase2/agentd/internal/persist"
	"github.com/kumpelblase2/agentd/internal/world"
)

// PersistenceSystem snapshots dirty players on their autosave cadence and
// immediately on disconnect, then hands the rows to the saver goroutine.
// The expired mall-key sweep rides the same cadence. Phase 5, after
// distribution.
type PersistenceSystem struct {
	deps      *handler.Deps
	mallSweep time.Duration
}

func NewPersistenceSystem(deps *handler.Deps) *PersistenceSystem {
	return &PersistenceSystem{deps: deps}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhaseDistribution }

func (s *PersistenceSystem) Update(dt time.Duration) {
	if s.deps.Saver == nil {
		return
	}
	stores := s.deps.Stores

	ecs.Each2(stores.Persistables, stores.Players,
		func(entity ecs.EntityID, persistable *component.Persistable, player *component.Player) {
			due := persistable.ShouldPersist(dt)
			if !due && !stores.Disconnects.Has(entity) {
				return
			}
			if row := snapshotCharacter(stores, entity, player); row != nil {
				s.deps.Saver.QueueCharacterSave(row)
			}
		})

	s.mallSweep += dt
	if s.mallSweep >= s.deps.Config.Game.AutosaveEvery {
		s.mallSweep = 0
		s.deps.Saver.QueueMallSweep()
	}
}

// snapshotCharacter copies the persistable state out of the components so
// the save task owns its data.
func snapshotCharacter(stores *world.Stores, entity ecs.EntityID, player *component.Player) *persist.CharacterRow {
	pos, ok := stores.Positions.Get(entity)
	if !ok {
		return nil
	}
	health, ok := stores.Healths.Get(entity)
	if !ok {
		return nil
	}

	row := &persist.CharacterRow{
		ID:       player.CharacterID,
		Name:     player.Name,
		MaxLevel: player.MaxLevel,
		HP:       health.Current,
	}
	if mana, ok := stores.Manas.Get(entity); ok {
		row.MP = mana.Current
	}
	if leveled, ok := stores.Levels.Get(entity); ok {
		row.Level = leveled.Current()
	}
	if experienced, ok := stores.Experiences.Get(entity); ok {
		row.Exp = experienced.Experience()
	}
	if sp, ok := stores.SPs.Get(entity); ok {
		row.SP = sp.Current()
	}
	if gold, ok := stores.Golds.Get(entity); ok {
		row.Gold = gold.Amount()
	}

	local := pos.Location.ToLocal()
	row.X = pos.Location.X
	row.Y = pos.Location.Y
	row.Z = pos.Location.Z
	row.Region = local.Region.ID()
	row.Rotation = pos.Rotation.ToU16()
	return row
}
