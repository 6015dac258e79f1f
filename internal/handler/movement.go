package handler

import (
	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/net"
	"github.com/kumpelblase2/agentd/internal/net/packet"
	"github.com/kumpelblase2/agentd/internal/worlddata"
)

// Movement request flags.
const (
	moveToLocation  byte = 1
	moveInDirection byte = 0
)

// HandleMovement decodes a movement request into the entity's input buffer.
// A new goal replaces the current one; the movement system emits the fresh
// StartMove.
func HandleMovement(deps *Deps) packet.HandlerFunc {
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

		switch flag := r.ReadC(); flag {
		case moveToLocation:
			region := worlddata.Region(r.ReadH())
			x := float32(r.ReadH())
			_ = r.ReadH() // y is terrain-sampled server-side
			z := float32(r.ReadH())
			target := component.LocalLocation{Region: region, X: x, Z: z}.ToGlobal()
			input.Movement = &component.MovementInput{Goal: component.LocationGoal(target)}
		case moveInDirection:
			_ = r.ReadC() // unknown client flag
			heading := component.HeadingFromU16(r.ReadH())
			input.Movement = &component.MovementInput{Goal: component.DirectionGoal(heading)}
		}
	}
}

// HandleRotation decodes a turn-in-place request.
func HandleRotation(deps *Deps) packet.HandlerFunc {
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
		heading := component.HeadingFromU16(r.ReadH())
		input.Rotation = &heading
	}
}
