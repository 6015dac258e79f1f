package handler

import (
	"github.com/kumpelblase2/agentd/internal/net"
	"github.com/kumpelblase2/agentd/internal/net/packet"
)

// HandleLearnSkill learns a skill for SP. The price is the skill's level in
// skill points; already-known levels are rejected without mutation.
func HandleLearnSkill(deps *Deps) packet.HandlerFunc {
	return func(s any, r *packet.Reader) {
		sess := s.(*net.Session)
		skillID := r.ReadD()

		entity, ok := deps.EntityOf(sess)
		if !ok {
			return
		}
		book, ok := deps.Stores.SkillBooks.Get(entity)
		if !ok {
			return
		}
		sp, ok := deps.Stores.SPs.Get(entity)
		if !ok {
			return
		}

		skill := deps.Tables.Skills.FindID(skillID)
		if skill == nil {
			sendLearnSkillResult(sess, skillID, false)
			return
		}
		if book.Knows(skill.Group, skill.Level) {
			sendLearnSkillResult(sess, skillID, false)
			return
		}
		if !sp.Spend(uint32(skill.Level)) {
			sendLearnSkillResult(sess, skillID, false)
			return
		}

		book.Learn(skill.Group, skill.Level)
		if sync, ok := deps.Stores.Syncs.Get(entity); ok {
			current := sp.Current()
			sync.SP = &current
		}
		sendLearnSkillResult(sess, skillID, true)

		if deps.Saver != nil {
			if player, ok := deps.Stores.Players.Get(entity); ok {
				deps.Saver.QueueSkillUpsert(player.CharacterID, skill.Group, skill.Level)
			}
		}
	}
}

func sendLearnSkillResult(sess *net.Session, skillID uint32, ok bool) {
	w := packet.NewWriter(packet.S_OPCODE_LEARN_SKILL)
	if ok {
		w.WriteC(1)
	} else {
		w.WriteC(0)
	}
	w.WriteD(skillID)
	sess.Send(w.Packet())
}
