package handler

import (
	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/net"
	"github.com/kumpelblase2/agentd/internal/net/packet"
)

// HandleLevelUpMastery queues an SP-priced mastery raise.
func HandleLevelUpMastery(deps *Deps) packet.HandlerFunc {
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
		mastery := r.ReadD()
		amount := r.ReadC()
		if amount == 0 {
			amount = 1
		}
		input.Mastery = &component.MasteryInput{Mastery: mastery, Amount: amount}
	}
}
