package handler

import (
	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/net"
	"github.com/kumpelblase2/agentd/internal/net/packet"
)

// Perform-action kinds on the wire.
const (
	actionKindAttack byte = 1
	actionKindPickup byte = 2
	actionKindSit    byte = 3
	actionKindStand  byte = 4
)

// HandlePerformAction decodes attack, pickup and sit requests into the
// entity's input buffer. Validation happens in the action system.
func HandlePerformAction(deps *Deps) packet.HandlerFunc {
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

		switch kind := r.ReadC(); kind {
		case actionKindAttack:
			skill := r.ReadD()
			target := r.ReadD()
			input.Action = &component.ActionInput{
				Kind:         component.ActionAttack,
				Skill:        skill,
				TargetUnique: target,
			}
		case actionKindPickup:
			target := r.ReadD()
			input.Action = &component.ActionInput{
				Kind:         component.ActionPickup,
				TargetUnique: target,
			}
		case actionKindSit:
			input.Action = &component.ActionInput{Kind: component.ActionSit}
		case actionKindStand:
			input.Action = &component.ActionInput{Kind: component.ActionStand}
		}
	}
}
