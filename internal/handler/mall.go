package handler

import (
	"math/rand"

	"github.com/kumpelblase2/agentd/internal/net"
	"github.com/kumpelblase2/agentd/internal/net/packet"
	"go.uber.org/zap"
)

const mallTokenSize = 30

const mallTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// HandleOpenMall issues a short-lived item-mall access key: the key is
// handed to the client and inserted with its expiry by the saver task.
func HandleOpenMall(deps *Deps) packet.HandlerFunc {
	return func(s any, r *packet.Reader) {
		sess := s.(*net.Session)
		entity, ok := deps.EntityOf(sess)
		if !ok {
			return
		}
		playing, ok := deps.Stores.Playings.Get(entity)
		if !ok {
			return
		}
		player, ok := deps.Stores.Players.Get(entity)
		if !ok {
			return
		}

		token := make([]byte, mallTokenSize)
		for i := range token {
			token[i] = mallTokenAlphabet[rand.Intn(len(mallTokenAlphabet))]
		}
		key := string(token)

		if deps.Saver != nil {
			deps.Saver.QueueMallKey(playing.User.ID, player.CharacterID, key)
		}
		deps.Log.Debug("發放商城金鑰", zap.String("user", playing.User.Username))

		w := packet.NewWriter(packet.S_OPCODE_OPEN_MALL)
		w.WriteC(1)
		w.WriteD(playing.User.ID)
		w.WriteS(key)
		sess.Send(w.Packet())
	}
}
