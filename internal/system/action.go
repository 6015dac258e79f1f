package system

import (
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/data"
	"github.com/kumpelblase2/agentd/internal/handler"
	"github.com/kumpelblase2/agentd/internal/persist"
	"github.com/kumpelblase2/agentd/internal/scripting"
	"github.com/kumpelblase2/agentd/internal/world"
	"go.uber.org/zap"
)

// ActionSystem advances Action casts and Sitting rests. A completed cast
// resolves into a damage event buffered for the effects phase, so the
// target's health is observed pre-tick. Phase 2.
type ActionSystem struct {
	deps *handler.Deps
}

func NewActionSystem(deps *handler.Deps) *ActionSystem {
	return &ActionSystem{deps: deps}
}

func (s *ActionSystem) Phase() coresys.Phase { return coresys.PhaseExecute }

func (s *ActionSystem) Update(dt time.Duration) {
	stores := s.deps.Stores
	stores.States.Each(func(entity ecs.EntityID, state *component.State) {
		switch state.Kind {
		case component.StateAction:
			state.Remaining -= dt
			if state.Remaining > 0 {
				return
			}
			s.resolveAction(entity, state)
			if queue, ok := stores.Queues.Get(entity); ok {
				queue.Request(component.IdleState())
			}
		case component.StateSitting:
			state.Remaining -= dt
			if state.Remaining <= 0 {
				if queue, ok := stores.Queues.Get(entity); ok {
					queue.Request(component.IdleState())
				}
			}
		}
	})
}

// resolveAction validates range and life state at the instant of resolution
// and emits the damage event.
func (s *ActionSystem) resolveAction(entity ecs.EntityID, state *component.State) {
	stores := s.deps.Stores
	skill := s.deps.Tables.Skills.FindID(state.Action.Skill)
	if skill == nil {
		return
	}

	target := state.Action.Target.Entity
	if !stores.ECS.Alive(target) {
		return
	}
	targetState, ok := stores.States.Get(target)
	if !ok || targetState.Kind == component.StateDead {
		return
	}

	pos, ok := stores.Positions.Get(entity)
	if !ok {
		return
	}
	targetPos, ok := stores.Positions.Get(target)
	if !ok {
		return
	}

	attackRange := skill.Range + weaponRangeBonus(s.deps, entity)
	if pos.Location.ToLocation().DistanceTo(targetPos.Location.ToLocation()) > attackRange {
		s.deps.Log.Debug("攻擊距離不足", zap.Uint32("skill", skill.ID))
		return
	}

	sourceRef, ok := stores.Ref(entity)
	if !ok {
		return
	}

	attackerLevel, targetLevel := levelOf(stores, entity), levelOf(stores, target)
	amount := s.deps.Scripting.CalcAttackDamage(scripting.AttackContext{
		SkillDamage:   skill.Damage,
		AttackerLevel: attackerLevel,
		TargetLevel:   targetLevel,
	})

	stores.Events.PushDamage(world.DamageEvent{
		Source:   sourceRef,
		Target:   state.Action.Target,
		Skill:    skill,
		Instance: state.Action.Instance,
		Amount:   amount,
	})
}

func levelOf(stores *world.Stores, entity ecs.EntityID) uint8 {
	if leveled, ok := stores.Levels.Get(entity); ok {
		return leveled.Current()
	}
	return 1
}

// performPickup applies the ownership window and moves the item into the
// picker's inventory (gold goes into the pouch).
func performPickup(deps *handler.Deps, entity ecs.EntityID, target component.EntityRef) {
	stores := deps.Stores
	dropEntity := target.Entity
	if !stores.ECS.Alive(dropEntity) {
		return
	}
	drop, ok := stores.Drops.Get(dropEntity)
	if !ok {
		return
	}
	selfRef, ok := stores.Ref(entity)
	if !ok {
		// Pickers without a network identity (shouldn't happen) still obey
		// the ownership window via the zero ref.
		selfRef = component.EntityRef{Entity: entity}
	}
	if !drop.MayPickup(selfRef) {
		return
	}

	if drop.Item.Reference != nil && drop.Item.Reference.Kind == data.ItemKindGold {
		if gold, ok := stores.Golds.Get(entity); ok {
			gold.Gain(drop.Item.Variance)
		}
	} else if inv, ok := stores.Inventories.Get(entity); ok {
		if _, err := inv.Add(drop.Item); err != nil {
			if sess, ok := stores.Sessions.Get(entity); ok {
				handler.SendNotification(sess, "inventory full")
			}
			return
		}
	}

	// Journal the grant before the next autosave can land it.
	if deps.Saver != nil {
		if player, ok := stores.Players.Get(entity); ok {
			entry := persist.WALEntry{TxType: "pickup", CharacterID: player.CharacterID}
			if drop.Item.Reference != nil {
				entry.ItemRefID = drop.Item.Reference.ID
				if drop.Item.Reference.Kind == data.ItemKindGold {
					entry.GoldAmount = drop.Item.Variance
				} else {
					entry.Amount = uint32(drop.Item.Amount)
				}
			}
			deps.Saver.QueueWAL([]persist.WALEntry{entry})
		}
	}

	stores.Despawn(dropEntity)
}
