package system

import (
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/handler"
	"github.com/kumpelblase2/agentd/internal/net/packet"
	"github.com/kumpelblase2/agentd/internal/scripting"
)

// CombatSystem applies the damage events buffered during the execute
// phase, in insertion order. A target crossing 0 hp is forced Dead in the
// same tick; rewards follow in the death system. Phase 3.
type CombatSystem struct {
	deps *handler.Deps
}

func NewCombatSystem(deps *handler.Deps) *CombatSystem {
	return &CombatSystem{deps: deps}
}

func (s *CombatSystem) Phase() coresys.Phase { return coresys.PhaseEffects }

func (s *CombatSystem) Update(_ time.Duration) {
	stores := s.deps.Stores

	for _, damage := range stores.Events.DrainDamage() {
		target := damage.Target.Entity
		if !stores.ECS.Alive(target) {
			continue
		}
		health, ok := stores.Healths.Get(target)
		if !ok || health.IsDead() {
			continue
		}

		health.Reduce(damage.Amount)

		if sync, ok := stores.Syncs.Get(target); ok {
			sync.Damage = append(sync.Damage, component.DamageNotice{Amount: damage.Amount})
			current := health.Current
			sync.Health = &current
		}
		if receiver, ok := stores.Damages.Get(target); ok {
			receiver.Record(damage.Source.UniqueID, uint64(damage.Amount))
		}

		kind := packet.DamageDefault
		if health.IsDead() {
			kind = packet.DamageKillingBlow
			stores.RequestDead(target, stores.Monsters.Has(target))
		}

		s.degradeWeapon(damage.Source.Entity)

		// The attacker's client sees the resolved hit immediately.
		if sess, ok := stores.Sessions.Get(damage.Source.Entity); ok {
			sess.Send(handler.BuildActionUpdate(
				damage.Skill.ID,
				damage.Source.UniqueID,
				damage.Target.UniqueID,
				damage.Instance,
				damage.Amount,
				kind,
			))
		}
	}
}

// degradeWeapon rolls wear on the attacker's equipped weapon for a landed
// hit. Bare hands and already-broken weapons are untouched.
func (s *CombatSystem) degradeWeapon(attacker ecs.EntityID) {
	stores := s.deps.Stores
	inv, ok := stores.Inventories.Get(attacker)
	if !ok {
		return
	}
	weapon := inv.Get(component.WeaponSlot)
	if weapon == nil || weapon.Kind != component.ItemEquipment || weapon.Durability == 0 {
		return
	}

	result := s.deps.Scripting.CalcDurabilityDamage(scripting.DurabilityContext{
		Upgrade: weapon.Upgrade,
		Current: weapon.Durability,
	})
	if !result.ShouldDamage {
		return
	}

	weapon.Durability--
	if weapon.Durability == 0 {
		if sess, ok := stores.Sessions.Get(attacker); ok {
			handler.SendNotification(sess, "weapon damaged beyond use")
		}
	}
}
