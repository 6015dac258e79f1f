package scripting

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for the tunable game formulas: damage
// rolls, level-up stat gains, and gold drop amounts. Single-goroutine access
// only (game loop). Missing script functions fall back to built-in formulas,
// so a bare data directory still boots.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory (non-recursive; missing directory is fine).
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// AttackContext holds pre-packed data for a damage roll.
type AttackContext struct {
	SkillDamage   uint32
	AttackerLevel uint8
	TargetLevel   uint8
}

// CalcAttackDamage calls Lua calc_attack_damage(ctx); without a script the
// built-in roll is skill damage plus a level-scaled spread.
func (e *Engine) CalcAttackDamage(ctx AttackContext) uint32 {
	fn := e.vm.GetGlobal("calc_attack_damage")
	if fn == lua.LNil {
		spread := uint32(ctx.AttackerLevel)/2 + 1
		return ctx.SkillDamage + uint32(rand.Intn(int(spread)))
	}

	t := e.vm.NewTable()
	t.RawSetString("skill_damage", lua.LNumber(ctx.SkillDamage))
	t.RawSetString("attacker_level", lua.LNumber(ctx.AttackerLevel))
	t.RawSetString("target_level", lua.LNumber(ctx.TargetLevel))

	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, t); err != nil {
		e.log.Error("lua calc_attack_damage error", zap.Error(err))
		return ctx.SkillDamage
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	damage := uint32(lua.LVAsNumber(result))
	if damage == 0 {
		damage = 1
	}
	return damage
}

// RollGoldAmount calls Lua roll_gold_amount(min, max); the built-in roll is
// uniform over [min, max].
func (e *Engine) RollGoldAmount(minAmount, maxAmount uint32) uint32 {
	if maxAmount <= minAmount {
		return minAmount
	}
	fn := e.vm.GetGlobal("roll_gold_amount")
	if fn == lua.LNil {
		return minAmount + uint32(rand.Intn(int(maxAmount-minAmount+1)))
	}

	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
		lua.LNumber(minAmount), lua.LNumber(maxAmount)); err != nil {
		e.log.Error("lua roll_gold_amount error", zap.Error(err))
		return minAmount
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	amount := uint32(lua.LVAsNumber(result))
	if amount < minAmount {
		amount = minAmount
	}
	if amount > maxAmount {
		amount = maxAmount
	}
	return amount
}

// RollSpawnCheck calls Lua calc_spawn_roll(current, target) for a spawner's
// per-check decision; the built-in roll is uniform [0,1) > 0.5.
func (e *Engine) RollSpawnCheck(current, target int) bool {
	fn := e.vm.GetGlobal("calc_spawn_roll")
	if fn == lua.LNil {
		return rand.Float32() > 0.5
	}

	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
		lua.LNumber(current), lua.LNumber(target)); err != nil {
		e.log.Error("lua calc_spawn_roll error", zap.Error(err))
		return false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return result == lua.LTrue
}

// DurabilityContext holds pre-packed data for a weapon wear roll.
type DurabilityContext struct {
	Upgrade uint8
	Current uint16
}

// DurabilityResult is returned by the Lua durability function.
type DurabilityResult struct {
	ShouldDamage bool
	Max          uint16
}

// CalcDurabilityDamage calls Lua calc_durability_damage(ctx); without a
// script a hit wears the weapon once in twenty swings, with the ceiling
// scaling off the upgrade level.
func (e *Engine) CalcDurabilityDamage(ctx DurabilityContext) DurabilityResult {
	fallback := DurabilityResult{
		ShouldDamage: rand.Intn(20) == 0,
		Max:          50 + 5*uint16(ctx.Upgrade),
	}
	fn := e.vm.GetGlobal("calc_durability_damage")
	if fn == lua.LNil {
		return fallback
	}

	t := e.vm.NewTable()
	t.RawSetString("upgrade", lua.LNumber(ctx.Upgrade))
	t.RawSetString("durability", lua.LNumber(ctx.Current))

	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, t); err != nil {
		e.log.Error("lua calc_durability_damage error", zap.Error(err))
		return DurabilityResult{Max: fallback.Max}
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return DurabilityResult{Max: fallback.Max}
	}
	return DurabilityResult{
		ShouldDamage: rt.RawGetString("should_damage") == lua.LTrue,
		Max:          uint16(lua.LVAsNumber(rt.RawGetString("max_durability"))),
	}
}

// LevelUpGain holds the stat increases of one level-up.
type LevelUpGain struct {
	Strength     uint16
	Intelligence uint16
}

// CalcLevelUpGain calls Lua calc_level_up_gain(level); the built-in gain is
// one point each.
func (e *Engine) CalcLevelUpGain(newLevel uint8) LevelUpGain {
	fn := e.vm.GetGlobal("calc_level_up_gain")
	if fn == lua.LNil {
		return LevelUpGain{Strength: 1, Intelligence: 1}
	}

	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
		lua.LNumber(newLevel)); err != nil {
		e.log.Error("lua calc_level_up_gain error", zap.Error(err))
		return LevelUpGain{Strength: 1, Intelligence: 1}
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return LevelUpGain{Strength: 1, Intelligence: 1}
	}
	return LevelUpGain{
		Strength:     uint16(lua.LVAsNumber(rt.RawGetString("str"))),
		Intelligence: uint16(lua.LVAsNumber(rt.RawGetString("int"))),
	}
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
