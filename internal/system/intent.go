package system

import (
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/handler"
	"github.com/kumpelblase2/agentd/internal/persist"
	"go.uber.org/zap"
)

// SitDuration is how long a sitting rest lasts before auto-completing.
const SitDuration = 30 * time.Second

// IntentSystem turns the per-entity input buffers into state transitions
// and immediate authoritative mutations. Registered in PhaseTransition
// before the transition drain so requests land in the same tick.
type IntentSystem struct {
	deps     *handler.Deps
	instance uint32
}

func NewIntentSystem(deps *handler.Deps) *IntentSystem {
	return &IntentSystem{deps: deps}
}

func (s *IntentSystem) Phase() coresys.Phase { return coresys.PhaseTransition }

func (s *IntentSystem) Update(_ time.Duration) {
	stores := s.deps.Stores
	stores.Inputs.Each(func(entity ecs.EntityID, input *component.PlayerInput) {
		defer input.Reset()

		state, hasState := stores.States.Get(entity)
		if !hasState || state.Kind == component.StateDead {
			return
		}
		queue, ok := stores.Queues.Get(entity)
		if !ok {
			return
		}

		if input.Movement != nil {
			queue.Request(component.MovingState(input.Movement.Goal))
		}

		if input.Rotation != nil {
			// Turn updates rotation only; no state change.
			if pos, ok := stores.Positions.Get(entity); ok {
				pos.Rotation = *input.Rotation
				if sync, ok := stores.Syncs.Get(entity); ok {
					sync.Movement = &component.MovementUpdate{
						Kind:    component.MoveTurn,
						Heading: *input.Rotation,
					}
				}
			}
		}

		if input.Action != nil {
			s.handleAction(entity, input.Action, queue)
		}

		if input.Logout != nil {
			s.handleLogout(entity, input.Logout)
		}

		if input.Mastery != nil {
			s.handleMastery(entity, input.Mastery)
		}
	})
}

func (s *IntentSystem) handleAction(entity ecs.EntityID, action *component.ActionInput, queue *component.StateTransitionQueue) {
	stores := s.deps.Stores

	switch action.Kind {
	case component.ActionSit:
		queue.Request(component.SittingState(SitDuration))
	case component.ActionStand:
		queue.Request(component.IdleState())
	case component.ActionAttack:
		s.handleAttack(entity, action, queue)
	case component.ActionPickup:
		target, ok := stores.Lookup.ByUnique(action.TargetUnique)
		if !ok {
			return
		}
		dropPos, ok := stores.Positions.Get(target)
		if !ok || !stores.Drops.Has(target) {
			return
		}
		ref, _ := stores.Ref(target)
		queue.Request(component.MoveToPickupState(ref, dropPos.Location.ToLocation()))
	}
}

func (s *IntentSystem) handleAttack(entity ecs.EntityID, action *component.ActionInput, queue *component.StateTransitionQueue) {
	stores := s.deps.Stores

	skillID := action.Skill
	if skillID == 0 {
		skillID = weaponSkillID(s.deps, entity)
	}
	skill := s.deps.Tables.Skills.FindID(skillID)
	if skill == nil {
		s.deps.Log.Warn("未知技能", zap.Uint32("skill", action.Skill))
		return
	}

	target, ok := stores.Lookup.ByUnique(action.TargetUnique)
	if !ok {
		return
	}
	targetState, ok := stores.States.Get(target)
	if !ok || targetState.Kind == component.StateDead {
		return
	}
	targetPos, ok := stores.Positions.Get(target)
	if !ok {
		return
	}
	pos, ok := stores.Positions.Get(entity)
	if !ok {
		return
	}

	targetRef, _ := stores.Ref(target)
	s.instance++
	intent := component.ActionIntent{
		Skill:    skill.ID,
		Target:   targetRef,
		Instance: s.instance,
	}

	attackRange := skill.Range + weaponRangeBonus(s.deps, entity)
	distance := pos.Location.ToLocation().DistanceTo(targetPos.Location.ToLocation())
	if distance > attackRange {
		queue.Request(component.MoveToActionState(intent, targetPos.Location.ToLocation()))
	} else {
		queue.Request(component.ActionState(intent, skill.CastDuration))
	}
}

func weaponSkillID(deps *handler.Deps, entity ecs.EntityID) uint32 {
	inv, ok := deps.Stores.Inventories.Get(entity)
	if !ok {
		return 0
	}
	skill, err := deps.Tables.Skills.AttackSkillFor(inv.Weapon())
	if err != nil {
		return 0
	}
	return skill.ID
}

func weaponRangeBonus(deps *handler.Deps, entity ecs.EntityID) float32 {
	inv, ok := deps.Stores.Inventories.Get(entity)
	if !ok {
		return 0
	}
	weapon := inv.Weapon()
	if weapon == nil {
		return 0
	}
	return weapon.RangeBonus
}

func (s *IntentSystem) handleLogout(entity ecs.EntityID, input *component.LogoutInput) {
	stores := s.deps.Stores
	if stores.Logouts.Has(entity) {
		return
	}
	duration := s.deps.Config.Game.LogoutDuration
	stores.Logouts.Set(entity, &component.Logout{Remaining: duration, Mode: input.Mode})
	if sess, ok := stores.Sessions.Get(entity); ok {
		handler.SendLogoutResponse(sess, uint32(duration.Seconds()), input.Mode)
	}
}

func (s *IntentSystem) handleMastery(entity ecs.EntityID, input *component.MasteryInput) {
	stores := s.deps.Stores
	sess, _ := stores.Sessions.Get(entity)
	masteries, ok := stores.Masteries.Get(entity)
	if !ok {
		return
	}
	sp, ok := stores.SPs.Get(entity)
	if !ok {
		return
	}

	currentLevel := masteries.LevelOf(input.Mastery)
	required := s.deps.Tables.Levels.MasterySPForLevel(currentLevel)
	if !sp.Spend(required) {
		if sess != nil {
			handler.SendMasteryResult(sess, input.Mastery, currentLevel, false)
		}
		return
	}

	masteries.LevelBy(input.Mastery, input.Amount)
	newLevel := masteries.LevelOf(input.Mastery)
	if sync, ok := stores.Syncs.Get(entity); ok {
		current := sp.Current()
		sync.SP = &current
	}
	if sess != nil {
		handler.SendMasteryResult(sess, input.Mastery, newLevel, true)
	}
	if s.deps.Saver != nil {
		if player, ok := stores.Players.Get(entity); ok {
			s.deps.Saver.QueueMasteryUpsert(player.CharacterID, input.Mastery, newLevel)
			s.deps.Saver.QueueWAL([]persist.WALEntry{{
				TxType:      "mastery",
				CharacterID: player.CharacterID,
				ItemRefID:   input.Mastery,
				Amount:      uint32(input.Amount),
			}})
		}
	}
}
