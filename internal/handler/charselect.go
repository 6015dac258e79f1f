package handler

import (
	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	"github.com/kumpelblase2/agentd/internal/net"
	"github.com/kumpelblase2/agentd/internal/net/packet"
	"github.com/kumpelblase2/agentd/internal/persist"
	"go.uber.org/zap"
)

// PlayerVisibilityRadius is the interest radius of player entities.
const PlayerVisibilityRadius = 500.0

// PlayerInventorySize is the slot count of a player inventory.
const PlayerInventorySize = 45

// HandleCharacterList replies with the loaded characters, or silently waits
// for the async load to land (the client retries).
func HandleCharacterList(deps *Deps) packet.HandlerFunc {
	return func(s any, r *packet.Reader) {
		sess := s.(*net.Session)
		entity, ok := deps.EntityOf(sess)
		if !ok {
			return
		}
		rows, loaded := deps.CharLoads.Rows(entity)
		if !loaded {
			return
		}
		SendCharacterList(sess, rows)
	}
}

// HandleCharacterJoin materializes the selected character as a full agent
// entity and moves the session in-world.
func HandleCharacterJoin(deps *Deps) packet.HandlerFunc {
	return func(s any, r *packet.Reader) {
		sess := s.(*net.Session)
		name := r.ReadS()

		entity, ok := deps.EntityOf(sess)
		if !ok {
			return
		}
		rows, loaded := deps.CharLoads.Rows(entity)
		if !loaded {
			SendJoinResult(sess, false)
			return
		}
		var row *persist.CharacterRow
		for i := range rows {
			if rows[i].Name == name {
				row = &rows[i]
				break
			}
		}
		if row == nil {
			deps.Log.Warn("選擇了未知角色",
				zap.Uint64("session", sess.ID),
				zap.String("name", name),
			)
			SendJoinResult(sess, false)
			return
		}

		EnterWorld(deps, sess, entity, row)
	}
}

// EnterWorld attaches every in-world aspect of the selected character to
// the entity. Also used by the login scenario tests.
func EnterWorld(deps *Deps, sess *net.Session, entity ecs.EntityID, row *persist.CharacterRow) {
	stores := deps.Stores

	uniqueID := stores.IDPool.Request()
	stores.GameEntities.Set(entity, &component.GameEntity{UniqueID: uniqueID, RefID: row.RefID})

	position := &component.Position{
		Location: component.GlobalPosition{X: row.X, Y: row.Y, Z: row.Z},
		Rotation: component.HeadingFromU16(row.Rotation),
	}
	stores.Positions.Set(entity, position)

	agent := component.DefaultAgent()
	if charData := deps.Tables.Characters.FindID(row.RefID); charData != nil {
		agent = component.AgentFromCharacterData(charData)
	}
	stores.Agents.Set(entity, &agent)

	movement := component.DefaultPlayerMovement()
	stores.Movements.Set(entity, &movement)

	state := component.IdleState()
	stores.States.Set(entity, &state)
	stores.Queues.Set(entity, &component.StateTransitionQueue{})

	stats := component.Stats{Strength: row.Strength, Intelligence: row.Intelligence}
	stores.BaseStats.Set(entity, &stats)

	health := component.Health{Current: row.HP, Max: stats.MaxHealth(row.Level)}
	if health.Current > health.Max {
		health.Current = health.Max
	}
	stores.Healths.Set(entity, &health)

	mana := component.Mana{Current: row.MP, Max: stats.MaxMana(row.Level)}
	if mana.Current > mana.Max {
		mana.Current = mana.Max
	}
	stores.Manas.Set(entity, &mana)

	stores.Visibilities.Set(entity, component.NewVisibility(PlayerVisibilityRadius))
	stores.Syncs.Set(entity, &component.Synchronize{})

	experience := component.NewExperienced(row.Exp, row.SPExp)
	stores.Experiences.Set(entity, &experience)
	leveled := component.NewLeveled(row.Level)
	stores.Levels.Set(entity, &leveled)
	sp := component.NewSP(row.SP)
	stores.SPs.Set(entity, &sp)
	stores.Masteries.Set(entity, component.NewMasteryKnowledge(deps.CharLoads.MasteriesOf(row.ID)))
	stores.SkillBooks.Set(entity, component.NewSkillBook(nil))

	stores.Damages.Set(entity, component.NewDamageReceiver())
	stores.Inventories.Set(entity, component.NewInventory(PlayerInventorySize))
	gold := component.NewGoldPouch(row.Gold)
	stores.Golds.Set(entity, &gold)

	stores.Players.Set(entity, &component.Player{
		CharacterID: row.ID,
		Name:        row.Name,
		MaxLevel:    row.MaxLevel,
	})
	stores.Inputs.Set(entity, &component.PlayerInput{})
	persistable := component.NewPersistable(deps.Config.Game.AutosaveEvery)
	stores.Persistables.Set(entity, &persistable)

	stores.Lookup.AddPlayer(row.Name, uniqueID, entity)
	stores.Grid.Add(entity, position.Region())

	deps.CharLoads.Forget(entity)
	sess.SetState(packet.StateInWorld)

	SendJoinResult(sess, true)
	SendCharacterStats(sess, health, mana, row.Level, row.Exp, row.SP)
	sess.Send(BuildSpawn(SpawnDescription{
		UniqueID: uniqueID,
		RefID:    row.RefID,
		Position: position.Location.ToLocal(),
		Rotation: position.Rotation,
		Alive:    component.AliveAlive,
		Name:     row.Name,
	}))

	if notice := deps.Config.Game.JoinNotice; notice != "" {
		SendNotification(sess, notice)
	}

	deps.Log.Info("玩家進入世界",
		zap.String("name", row.Name),
		zap.Uint32("unique_id", uniqueID),
		zap.String("region", position.Region().String()),
	)
}
