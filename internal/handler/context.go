package handler

import (
	"context"
	"time"

	"github.com/kumpelblase2/agentd/internal/config"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	"github.com/kumpelblase2/agentd/internal/core/event"
	"github.com/kumpelblase2/agentd/internal/data"
	"github.com/kumpelblase2/agentd/internal/login"
	"github.com/kumpelblase2/agentd/internal/net"
	"github.com/kumpelblase2/agentd/internal/persist"
	"github.com/kumpelblase2/agentd/internal/scripting"
	"github.com/kumpelblase2/agentd/internal/world"
	"github.com/kumpelblase2/agentd/internal/worlddata"
	"go.uber.org/zap"
)

// Deps bundles everything handlers and systems need. Built once in main.
type Deps struct {
	Config    *config.Config
	Stores    *world.Stores
	Tables    *data.Tables
	Terrain   *worlddata.Terrain
	Queue     *login.Queue
	Bus       *event.Bus
	Scripting *scripting.Engine
	CharRepo  *persist.CharacterRepo
	CharLoads *CharacterLoads
	Saver     *persist.Saver
	Log       *zap.Logger
}

// EntityOf resolves the entity behind a dispatched session.
func (d *Deps) EntityOf(sess *net.Session) (ecs.EntityID, bool) {
	return d.Stores.Lookup.BySession(sess.ID)
}

// CharacterLoadResult crosses back into the core through the channel polled
// at tick start.
type CharacterLoadResult struct {
	Entity    ecs.EntityID
	Rows      []persist.CharacterRow
	Masteries map[uint32]map[uint32]uint8
	Err       error
}

// CharacterLoads runs character queries off the core thread. The core never
// blocks on the database; it polls Drain once per tick. The loaded map is
// only touched from the core thread.
type CharacterLoads struct {
	repo      *persist.CharacterRepo
	serverID  uint16
	results   chan CharacterLoadResult
	loaded    map[ecs.EntityID][]persist.CharacterRow
	masteries map[uint32]map[uint32]uint8 // character id -> mastery levels
}

func NewCharacterLoads(repo *persist.CharacterRepo, serverID uint16) *CharacterLoads {
	return &CharacterLoads{
		repo:      repo,
		serverID:  serverID,
		results:   make(chan CharacterLoadResult, 16),
		loaded:    make(map[ecs.EntityID][]persist.CharacterRow),
		masteries: make(map[uint32]map[uint32]uint8),
	}
}

// Start fires the load task for an entity's user.
func (c *CharacterLoads) Start(entity ecs.EntityID, userID uint32) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rows, err := c.repo.LoadByUser(ctx, userID, c.serverID)
		result := CharacterLoadResult{Entity: entity, Rows: rows, Err: err}
		if err == nil {
			result.Masteries = make(map[uint32]map[uint32]uint8, len(rows))
			for _, row := range rows {
				m, merr := c.repo.LoadMasteries(ctx, row.ID)
				if merr != nil {
					result.Err = merr
					break
				}
				result.Masteries[row.ID] = m
			}
		}
		select {
		case c.results <- result:
		default:
			// Receiver gone or saturated; the result is discarded and the
			// client retries its character list request.
		}
	}()
}

// Drain returns all completed loads without blocking.
func (c *CharacterLoads) Drain() []CharacterLoadResult {
	var out []CharacterLoadResult
	for {
		select {
		case r := <-c.results:
			out = append(out, r)
		default:
			return out
		}
	}
}

// SetLoaded caches a finished load for the character select handlers.
func (c *CharacterLoads) SetLoaded(entity ecs.EntityID, rows []persist.CharacterRow, masteries map[uint32]map[uint32]uint8) {
	c.loaded[entity] = rows
	for id, m := range masteries {
		c.masteries[id] = m
	}
}

// Rows returns the cached characters of an entity, if loaded.
func (c *CharacterLoads) Rows(entity ecs.EntityID) ([]persist.CharacterRow, bool) {
	rows, ok := c.loaded[entity]
	return rows, ok
}

// MasteriesOf returns the cached mastery levels of a character.
func (c *CharacterLoads) MasteriesOf(characterID uint32) map[uint32]uint8 {
	return c.masteries[characterID]
}

// Forget drops cached state when an entity leaves character select.
func (c *CharacterLoads) Forget(entity ecs.EntityID) {
	delete(c.loaded, entity)
}
