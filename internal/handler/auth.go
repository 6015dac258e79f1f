package handler

import (
	"errors"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/login"
	"github.com/kumpelblase2/agentd/internal/net"
	"github.com/kumpelblase2/agentd/internal/net/packet"
	"go.uber.org/zap"
)

// HandleIdentity answers the module identification exchange.
func HandleIdentity(deps *Deps) packet.HandlerFunc {
	return func(s any, r *packet.Reader) {
		sess := s.(*net.Session)
		_ = r.ReadS() // client module name
		_ = r.ReadC()
		SendIdentity(sess, "AgentServer")
	}
}

// HandleAuthRequest redeems a reservation token. Success moves the entity
// from the Login lifecycle to Playing and swaps the queue slot for a
// playing slot, leaving the population counter unchanged.
func HandleAuthRequest(deps *Deps) packet.HandlerFunc {
	return func(s any, r *packet.Reader) {
		sess := s.(*net.Session)
		token := r.ReadD()

		entity, ok := deps.EntityOf(sess)
		if !ok {
			return
		}
		if !deps.Stores.Logins.Has(entity) {
			deps.Log.Warn("重複的認證請求", zap.Uint64("session", sess.ID))
			return
		}

		playing, user, err := deps.Queue.HandInReservation(token)
		if err != nil {
			switch {
			case errors.Is(err, login.ErrNoSuchToken), errors.Is(err, login.ErrAlreadyHasReservation):
				SendAuthResponse(sess, packet.AuthInvalidData)
			default:
				SendAuthResponse(sess, packet.AuthServerFull)
			}
			return
		}

		deps.Log.Debug("接受認證權杖",
			zap.Uint64("session", sess.ID),
			zap.Uint32("token", token),
			zap.String("user", user.Username),
		)

		deps.Stores.Logins.Remove(entity)
		deps.Stores.Playings.Set(entity, &component.Playing{User: user, Token: playing})
		sess.SetState(packet.StateCharacterSelect)
		SendAuthResponse(sess, packet.AuthSuccess)

		if deps.CharLoads != nil {
			deps.CharLoads.Start(entity, user.ID)
		}
	}
}
