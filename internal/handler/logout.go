package handler

import (
	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/net"
	"github.com/kumpelblase2/agentd/internal/net/packet"
)

// HandleLogoutRequest queues the logout intent; the logout system starts
// the timer and replies with the configured duration.
func HandleLogoutRequest(deps *Deps) packet.HandlerFunc {
	return func(s any, r *packet.Reader) {
		sess := s.(*net.Session)
		entity, ok := deps.EntityOf(sess)
		if !ok {
			return
		}
		input, ok := deps.Stores.Inputs.Get(entity)
		if !ok {
			return
		}
		input.Logout = &component.LogoutInput{Mode: r.ReadC()}
	}
}
