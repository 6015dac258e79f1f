package system

import (
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	"github.com/kumpelblase2/agentd/internal/core/event"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/handler"
)

// LogoutSystem ticks running logout timers. Completion sends the finished
// packet, closes the connection and schedules the end-of-tick sweep.
// Phase 2.
type LogoutSystem struct {
	deps *handler.Deps
}

func NewLogoutSystem(deps *handler.Deps) *LogoutSystem {
	return &LogoutSystem{deps: deps}
}

func (s *LogoutSystem) Phase() coresys.Phase { return coresys.PhaseExecute }

func (s *LogoutSystem) Update(dt time.Duration) {
	stores := s.deps.Stores
	stores.Logouts.Each(func(entity ecs.EntityID, logout *component.Logout) {
		if !logout.Tick(dt) {
			return
		}
		sess, ok := stores.Sessions.Get(entity)
		if ok {
			handler.SendLogoutFinished(sess)
			sess.Close()
		}
		if !stores.Disconnects.Has(entity) {
			stores.Disconnects.Set(entity, &component.Disconnecting{})
			stores.Despawn(entity)
			if ok {
				event.Emit(s.deps.Bus, event.ClientDisconnected{EntityID: entity, SessionID: sess.ID})
			}
		}
	})
}
