package system

import (
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	"github.com/kumpelblase2/agentd/internal/core/event"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/handler"
	"github.com/kumpelblase2/agentd/internal/net"
	"github.com/kumpelblase2/agentd/internal/net/packet"
	"go.uber.org/zap"
)

// IngressSystem accepts new connections into the Login lifecycle, drains
// per-session packet queues into handlers, absorbs keep-alives and evicts
// timed-out or dead sessions. Phase 0.
type IngressSystem struct {
	netServer  *net.Server
	registry   *packet.Registry
	deps       *handler.Deps
	sessions   map[uint64]*net.Session
	maxPerTick int
	log        *zap.Logger
}

func NewIngressSystem(netServer *net.Server, registry *packet.Registry, deps *handler.Deps, maxPerTick int, log *zap.Logger) *IngressSystem {
	return &IngressSystem{
		netServer:  netServer,
		registry:   registry,
		deps:       deps,
		sessions:   make(map[uint64]*net.Session),
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *IngressSystem) Phase() coresys.Phase { return coresys.PhaseIngress }

func (s *IngressSystem) Update(_ time.Duration) {
	now := time.Now()
	stores := s.deps.Stores

	// Lapsed reservations expire silently.
	if s.deps.Queue != nil {
		s.deps.Queue.Tick()
	}

	// Accept new sessions into the Login lifecycle.
	for {
		select {
		case sess := <-s.netServer.NewSessions():
			s.sessions[sess.ID] = sess
			entity := stores.ECS.CreateEntity()
			stores.Sessions.Set(entity, sess)
			stores.Logins.Set(entity, &component.Login{})
			stores.LastActions.Set(entity, &component.LastAction{At: now})
			stores.Lookup.AddSession(sess.ID, entity)
			event.Emit(s.deps.Bus, event.ClientConnected{EntityID: entity})
		default:
			goto doneNew
		}
	}
doneNew:

	// Sessions whose I/O goroutines died.
	for {
		select {
		case id := <-s.netServer.DeadSessions():
			delete(s.sessions, id)
		default:
			goto doneDead
		}
	}
doneDead:

	// Drain packets from each session, up to maxPerTick per session.
	for id, sess := range s.sessions {
		entity, known := stores.Lookup.BySession(id)

		if sess.IsClosed() {
			if known {
				s.scheduleDisconnect(entity, sess)
			}
			s.netServer.NotifyDead(id)
			delete(s.sessions, id)
			continue
		}

		active := false
		for i := 0; i < s.maxPerTick; i++ {
			select {
			case frame := <-sess.InQueue:
				active = true
				if frame.Opcode == packet.C_OPCODE_KEEPALIVE {
					continue // absorbed: only refreshes LastAction
				}
				if err := s.registry.Dispatch(sess, sess.State(), frame); err != nil {
					s.log.Debug("封包分派錯誤",
						zap.Uint64("session", sess.ID),
						zap.Error(err),
					)
				}
			default:
				goto drained
			}
		}
	drained:
		if !known {
			continue
		}
		last, ok := stores.LastActions.Get(entity)
		if !ok {
			continue
		}
		if active {
			last.At = now
		} else if now.Sub(last.At) > s.deps.Config.Game.ClientTimeout {
			s.log.Info("連線逾時", zap.Uint64("session", sess.ID))
			s.scheduleDisconnect(entity, sess)
			sess.Close()
			delete(s.sessions, id)
		}
	}
}

// scheduleDisconnect marks the entity for the end-of-tick sweep; the sweep
// broadcasts the despawn to every observer and releases the playing slot.
func (s *IngressSystem) scheduleDisconnect(entity ecs.EntityID, sess *net.Session) {
	stores := s.deps.Stores
	if stores.Disconnects.Has(entity) {
		return
	}
	stores.Disconnects.Set(entity, &component.Disconnecting{})
	stores.Despawn(entity)
	event.Emit(s.deps.Bus, event.ClientDisconnected{EntityID: entity, SessionID: sess.ID})
}

// SessionCount returns the current number of tracked sessions.
func (s *IngressSystem) SessionCount() int {
	return len(s.sessions)
}
