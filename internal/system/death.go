package system

import (
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	"github.com/kumpelblase2/agentd/internal/core/event"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/handler"
	"github.com/kumpelblase2/agentd/internal/world"
	"go.uber.org/zap"
)

// DeathSystem distributes kill rewards on the death-transition tick and
// ticks monster corpse timers until despawn. Runs after CombatSystem in
// Phase 3 so a same-tick killing blow is rewarded immediately.
type DeathSystem struct {
	deps *handler.Deps
}

func NewDeathSystem(deps *handler.Deps) *DeathSystem {
	return &DeathSystem{deps: deps}
}

func (s *DeathSystem) Phase() coresys.Phase { return coresys.PhaseEffects }

func (s *DeathSystem) Update(dt time.Duration) {
	stores := s.deps.Stores
	stores.States.Each(func(entity ecs.EntityID, state *component.State) {
		if state.Kind != component.StateDead {
			return
		}
		if !state.RewardsGiven {
			state.RewardsGiven = true
			if stores.Monsters.Has(entity) {
				s.distributeRewards(entity)
			}
		}
		if state.HasDespawn {
			state.Despawn -= dt
			if state.Despawn <= 0 {
				state.HasDespawn = false
				stores.Despawn(entity)
			}
		}
	})
}

// distributeRewards splits the monster's exp pro-rata over every recorded
// attacker, converts sp-exp, rolls the gold drop and decrements the
// owning spawner.
func (s *DeathSystem) distributeRewards(entity ecs.EntityID) {
	stores := s.deps.Stores
	ge, ok := stores.GameEntities.Get(entity)
	if !ok {
		return
	}
	charData := s.deps.Tables.Characters.FindID(ge.RefID)
	if charData == nil {
		return
	}

	deadRef, _ := stores.Ref(entity)
	var killerName string
	var topDamage uint64
	var owner *component.EntityRef

	if receiver, ok := stores.Damages.Get(entity); ok {
		total := receiver.Total()
		if total > 0 {
			for _, attackerID := range receiver.Attackers() {
				attacker, found := stores.Lookup.ByUnique(attackerID)
				if !found || !stores.ECS.Alive(attacker) {
					continue
				}
				dealt := receiver.TotalOf(attackerID)
				expShare := charData.Exp * dealt / total
				spExpShare := charData.SPExp * dealt / total
				s.grantExperience(attacker, expShare, spExpShare, &deadRef)

				if dealt > topDamage {
					topDamage = dealt
					ref, _ := stores.Ref(attacker)
					owner = &ref
					if player, ok := stores.Players.Get(attacker); ok {
						killerName = player.Name
					}
				}
			}
		}
	}

	s.rollGoldDrop(entity, charData.Level, owner)

	if spawnedBy, ok := stores.SpawnedBys.Get(entity); ok {
		if spawner, ok := stores.Spawners.Get(spawnedBy.Spawner); ok && spawner.CurrentAmount > 0 {
			spawner.CurrentAmount--
		}
	}

	if charData.IsUnique() {
		event.Emit(s.deps.Bus, event.UniqueKilled{RefID: ge.RefID, Player: killerName})
	}

	s.deps.Log.Debug("怪物死亡",
		zap.Uint32("ref_id", ge.RefID),
		zap.String("killer", killerName),
	)
}

// grantExperience applies a gain, runs the level-up loop against the level
// table and records everything in the envelope.
func (s *DeathSystem) grantExperience(entity ecs.EntityID, exp, spExp uint64, from *component.EntityRef) {
	stores := s.deps.Stores
	experienced, ok := stores.Experiences.Get(entity)
	if !ok {
		return
	}
	experienced.Receive(exp, spExp, from)

	sync, _ := stores.Syncs.Get(entity)
	leveled, hasLevel := stores.Levels.Get(entity)

	leveledUp := false
	if hasLevel {
		maxLevel := uint8(s.deps.Config.Game.MaxLevel)
		for leveled.Current() < maxLevel {
			required := s.deps.Tables.Levels.ExpForLevel(leveled.Current())
			if !experienced.TryLevelUp(required) {
				break
			}
			leveled.LevelUp()
			leveledUp = true
			s.applyLevelUp(entity, leveled.Current())
		}
	}

	if sp, ok := stores.SPs.Get(entity); ok {
		if gained := experienced.ConvertSP(); gained > 0 {
			sp.Gain(gained)
			if sync != nil {
				current := sp.Current()
				sync.SP = &current
			}
		}
	}

	if sync != nil {
		sync.Exp = append(sync.Exp, component.ExpNotice{
			Exp:     exp,
			SPExp:   spExp,
			From:    from,
			Leveled: leveledUp,
		})
		if leveledUp && hasLevel {
			level := leveled.Current()
			sync.Level = &level
		}
	}
}

// applyLevelUp raises base stats and rederives the health/mana ceilings.
func (s *DeathSystem) applyLevelUp(entity ecs.EntityID, newLevel uint8) {
	stores := s.deps.Stores
	if stats, ok := stores.BaseStats.Get(entity); ok {
		gain := s.deps.Scripting.CalcLevelUpGain(newLevel)
		stats.Strength += gain.Strength
		stats.Intelligence += gain.Intelligence
		if health, ok := stores.Healths.Get(entity); ok {
			health.SetMax(stats.MaxHealth(newLevel))
			health.Current = health.Max
		}
		if mana, ok := stores.Manas.Get(entity); ok {
			mana.SetMax(stats.MaxMana(newLevel))
			mana.Current = mana.Max
		}
	}

	if player, ok := stores.Players.Get(entity); ok {
		if newLevel > player.MaxLevel {
			player.MaxLevel = newLevel
		}
		// High levels grant a freely allocatable bonus stat point.
		if newLevel >= component.BonusStatLevel {
			player.BonusStats++
			if sess, ok := stores.Sessions.Get(entity); ok {
				handler.SendNotification(sess, "bonus stat point available")
			}
		}
	}

	event.Emit(s.deps.Bus, event.PlayerLevelUp{EntityID: entity, NewLevel: newLevel})
}

// rollGoldDrop rolls the gold amount for the monster level and requests
// the drop next to the corpse.
func (s *DeathSystem) rollGoldDrop(entity ecs.EntityID, level uint8, owner *component.EntityRef) {
	stores := s.deps.Stores
	minGold, maxGold := s.deps.Tables.Gold.RangeForLevel(level)
	if maxGold == 0 {
		return
	}
	amount := s.deps.Scripting.RollGoldAmount(minGold, maxGold)
	if amount == 0 {
		return
	}
	goldRef := s.deps.Tables.Items.GoldRef(amount)
	if goldRef == nil {
		return
	}
	pos, ok := stores.Positions.Get(entity)
	if !ok {
		return
	}
	stores.Events.PushDrop(world.SpawnDropEvent{
		Item: component.Item{
			Reference: goldRef,
			Variance:  uint64(amount),
			Kind:      component.ItemConsumable,
		},
		Around: pos.Location.ToLocation(),
		Owner:  owner,
	})
}
