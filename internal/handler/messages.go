package handler

import (
	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/net"
	"github.com/kumpelblase2/agentd/internal/net/packet"
	"github.com/kumpelblase2/agentd/internal/persist"
)

// Outgoing message builders. Collection serializes envelopes through the
// Build* functions once per tick; the Send* wrappers are for direct replies.

func SendIdentity(sess *net.Session, module string) {
	w := packet.NewWriter(packet.S_OPCODE_IDENTITY)
	w.WriteS(module)
	w.WriteC(0)
	sess.Send(w.Packet())
}

func SendAuthResponse(sess *net.Session, result byte) {
	w := packet.NewWriter(packet.S_OPCODE_AUTH_RESPONSE)
	w.WriteC(result)
	sess.Send(w.Packet())
}

func SendCharacterList(sess *net.Session, rows []persist.CharacterRow) {
	w := packet.NewWriter(packet.S_OPCODE_CHARACTER_LIST)
	w.WriteC(byte(len(rows)))
	for _, row := range rows {
		w.WriteD(row.ID)
		w.WriteS(row.Name)
		w.WriteC(row.Level)
		w.WriteQ(row.Exp)
		w.WriteH(row.Region)
		w.WriteF(row.X)
		w.WriteF(row.Y)
		w.WriteF(row.Z)
	}
	sess.Send(w.Packet())
}

func SendJoinResult(sess *net.Session, ok bool) {
	w := packet.NewWriter(packet.S_OPCODE_CHARACTER_JOIN)
	if ok {
		w.WriteC(1)
	} else {
		w.WriteC(0)
	}
	sess.Send(w.Packet())
}

func SendCharacterStats(sess *net.Session, health component.Health, mana component.Mana, level uint8, exp uint64, sp uint32) {
	w := packet.NewWriter(packet.S_OPCODE_STAT_UPDATE)
	w.WriteD(health.Current)
	w.WriteD(health.Max)
	w.WriteD(mana.Current)
	w.WriteD(mana.Max)
	w.WriteC(level)
	w.WriteQ(exp)
	w.WriteD(sp)
	sess.Send(w.Packet())
}

func SendLogoutResponse(sess *net.Session, seconds uint32, mode byte) {
	w := packet.NewWriter(packet.S_OPCODE_LOGOUT_RESPONSE)
	w.WriteC(1) // success
	w.WriteD(seconds)
	w.WriteC(mode)
	sess.Send(w.Packet())
}

func SendLogoutFinished(sess *net.Session) {
	w := packet.NewWriter(packet.S_OPCODE_LOGOUT_FINISHED)
	sess.Send(w.Packet())
}

func SendNotification(sess *net.Session, text string) {
	w := packet.NewWriter(packet.S_OPCODE_NOTIFICATION)
	w.WriteS(text)
	sess.Send(w.Packet())
}

func SendMasteryResult(sess *net.Session, masteryID uint32, newLevel uint8, ok bool) {
	w := packet.NewWriter(packet.S_OPCODE_LEVELUP_MASTERY)
	if ok {
		w.WriteC(1)
	} else {
		w.WriteC(0)
	}
	w.WriteD(masteryID)
	w.WriteC(newLevel)
	sess.Send(w.Packet())
}

// BuildActionUpdate announces an attack result to the attacker's client.
func BuildActionUpdate(skillID, sourceID, targetID, instance, amount uint32, kind byte) packet.Raw {
	w := packet.NewWriter(packet.S_OPCODE_ACTION_UPDATE)
	w.WriteD(skillID)
	w.WriteD(sourceID)
	w.WriteD(targetID)
	w.WriteD(instance)
	w.WriteC(kind)
	w.WriteD(amount)
	return w.Packet()
}

// BuildMovement serializes a movement announcement for an entity.
func BuildMovement(uniqueID uint32, update *component.MovementUpdate) packet.Raw {
	w := packet.NewWriter(packet.S_OPCODE_MOVEMENT)
	w.WriteD(uniqueID)
	w.WriteC(byte(update.Kind))
	switch update.Kind {
	case component.MoveStart:
		writeLocal(w, update.To)
		writeLocal(w, update.From)
	case component.MoveStartDirection:
		w.WriteH(update.Heading.ToU16())
		writeLocal(w, update.From)
	case component.MoveStop:
		writeLocal(w, update.From)
	case component.MoveTurn:
		w.WriteH(update.Heading.ToU16())
	}
	return w.Packet()
}

func writeLocal(w *packet.Writer, pos component.LocalPosition) {
	w.WriteH(pos.Region.ID())
	w.WriteH(uint16(pos.X))
	w.WriteH(uint16(pos.Y))
	w.WriteH(uint16(pos.Z))
}

// BuildEntityUpdate serializes the broadcastable part of an envelope:
// damage received, life state changes, health ratio and speed selection.
func BuildEntityUpdate(uniqueID uint32, sync *component.Synchronize) packet.Raw {
	w := packet.NewWriter(packet.S_OPCODE_ENTITY_UPDATE)
	w.WriteD(uniqueID)

	var mask byte
	if len(sync.Damage) > 0 {
		mask |= 0x01
	}
	if len(sync.States) > 0 {
		mask |= 0x02
	}
	if sync.Health != nil {
		mask |= 0x04
	}
	if sync.Speed != nil {
		mask |= 0x08
	}
	w.WriteC(mask)

	if mask&0x01 != 0 {
		w.WriteC(byte(len(sync.Damage)))
		for _, d := range sync.Damage {
			w.WriteD(d.Amount)
			if d.Crit {
				w.WriteC(1)
			} else {
				w.WriteC(0)
			}
		}
	}
	if mask&0x02 != 0 {
		w.WriteC(byte(len(sync.States)))
		for _, s := range sync.States {
			w.WriteC(byte(s))
		}
	}
	if mask&0x04 != 0 {
		w.WriteD(*sync.Health)
	}
	if mask&0x08 != 0 {
		w.WriteC(byte(*sync.Speed))
	}
	return w.Packet()
}

// BuildSelfUpdate serializes the owner-only part of an envelope: mana, exp
// gains, level and sp changes.
func BuildSelfUpdate(sync *component.Synchronize) packet.Raw {
	w := packet.NewWriter(packet.S_OPCODE_EXP_UPDATE)

	var mask byte
	if sync.Mana != nil {
		mask |= 0x01
	}
	if len(sync.Exp) > 0 {
		mask |= 0x02
	}
	if sync.Level != nil {
		mask |= 0x04
	}
	if sync.SP != nil {
		mask |= 0x08
	}
	w.WriteC(mask)

	if mask&0x01 != 0 {
		w.WriteD(*sync.Mana)
	}
	if mask&0x02 != 0 {
		w.WriteC(byte(len(sync.Exp)))
		for _, gain := range sync.Exp {
			w.WriteQ(gain.Exp)
			w.WriteQ(gain.SPExp)
			if gain.From != nil {
				w.WriteD(gain.From.UniqueID)
			} else {
				w.WriteD(0)
			}
			if gain.Leveled {
				w.WriteC(1)
			} else {
				w.WriteC(0)
			}
		}
	}
	if mask&0x04 != 0 {
		w.WriteC(*sync.Level)
	}
	if mask&0x08 != 0 {
		w.WriteD(*sync.SP)
	}
	return w.Packet()
}

// BuildLevelUpEffect announces the level-up flash around an entity.
func BuildLevelUpEffect(uniqueID uint32) packet.Raw {
	w := packet.NewWriter(packet.S_OPCODE_LEVELUP_EFFECT)
	w.WriteD(uniqueID)
	return w.Packet()
}

// SpawnDescription is what an observer needs to materialize an entity.
type SpawnDescription struct {
	UniqueID uint32
	RefID    uint32
	Position component.LocalPosition
	Rotation component.Heading
	Alive    component.AliveState
	Name     string // players only
	Rarity   string // monsters only
}

// BuildSpawn serializes a spawn description for a newcomer in visibility.
func BuildSpawn(desc SpawnDescription) packet.Raw {
	w := packet.NewWriter(packet.S_OPCODE_ENTITY_SPAWN)
	w.WriteD(desc.UniqueID)
	w.WriteD(desc.RefID)
	writeLocal(w, desc.Position)
	w.WriteH(desc.Rotation.ToU16())
	w.WriteC(byte(desc.Alive))
	w.WriteS(desc.Name)
	w.WriteS(desc.Rarity)
	return w.Packet()
}

// BuildDespawn serializes the removal of an entity from an observer.
func BuildDespawn(uniqueID uint32) packet.Raw {
	w := packet.NewWriter(packet.S_OPCODE_ENTITY_DESPAWN)
	w.WriteD(uniqueID)
	return w.Packet()
}
