package handler

import "github.com/kumpelblase2/agentd/internal/net/packet"

// RegisterAll wires every opcode the core consumes into the dispatch
// registry, with the lifecycles each one is allowed in. Keep-alive frames
// never reach the registry; ingress absorbs them.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	allStates := []packet.SessionState{
		packet.StateLogin,
		packet.StateCharacterSelect,
		packet.StateInWorld,
	}

	reg.Register(packet.C_OPCODE_IDENTITY, allStates, HandleIdentity(deps))
	reg.Register(packet.C_OPCODE_AUTH_REQUEST,
		[]packet.SessionState{packet.StateLogin}, HandleAuthRequest(deps))

	reg.Register(packet.C_OPCODE_CHARACTER_LIST,
		[]packet.SessionState{packet.StateCharacterSelect}, HandleCharacterList(deps))
	reg.Register(packet.C_OPCODE_CHARACTER_JOIN,
		[]packet.SessionState{packet.StateCharacterSelect}, HandleCharacterJoin(deps))

	inWorld := []packet.SessionState{packet.StateInWorld}
	reg.Register(packet.C_OPCODE_MOVEMENT, inWorld, HandleMovement(deps))
	reg.Register(packet.C_OPCODE_ROTATION, inWorld, HandleRotation(deps))
	reg.Register(packet.C_OPCODE_PERFORM_ACTION, inWorld, HandlePerformAction(deps))
	reg.Register(packet.C_OPCODE_LOGOUT_REQUEST, inWorld, HandleLogoutRequest(deps))
	reg.Register(packet.C_OPCODE_LEVELUP_MASTERY, inWorld, HandleLevelUpMastery(deps))
	reg.Register(packet.C_OPCODE_LEARN_SKILL, inWorld, HandleLearnSkill(deps))
	reg.Register(packet.C_OPCODE_OPEN_MALL, inWorld, HandleOpenMall(deps))
}
