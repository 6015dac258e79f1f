package scripting

import (
	"testing"

	"go.uber.org/zap"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine("testdata/does-not-exist", zap.NewNop())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestGoldRollStaysInRange(t *testing.T) {
	e := newEngine(t)
	for i := 0; i < 100; i++ {
		got := e.RollGoldAmount(40, 60)
		if got < 40 || got > 60 {
			t.Fatalf("roll %d outside [40,60]", got)
		}
	}
	if got := e.RollGoldAmount(10, 10); got != 10 {
		t.Fatalf("degenerate range should return min, got %d", got)
	}
}

func TestDamageFallbackNeverZero(t *testing.T) {
	e := newEngine(t)
	for i := 0; i < 50; i++ {
		got := e.CalcAttackDamage(AttackContext{SkillDamage: 5, AttackerLevel: 10, TargetLevel: 5})
		if got < 5 {
			t.Fatalf("damage %d below the skill base", got)
		}
	}
}

func TestSpawnRollDefaultIsProbabilistic(t *testing.T) {
	e := newEngine(t)
	var hits int
	for i := 0; i < 200; i++ {
		if e.RollSpawnCheck(0, 10) {
			hits++
		}
	}
	// A fair >0.5 roll passes sometimes and fails sometimes.
	if hits == 0 || hits == 200 {
		t.Fatalf("spawn roll degenerate: %d/200", hits)
	}
}

func TestDurabilityDefaults(t *testing.T) {
	e := newEngine(t)
	result := e.CalcDurabilityDamage(DurabilityContext{Upgrade: 2, Current: 30})
	if result.Max != 60 {
		t.Fatalf("upgrade 2 ceiling should be 60, got %d", result.Max)
	}
	var wears int
	for i := 0; i < 500; i++ {
		if e.CalcDurabilityDamage(DurabilityContext{Current: 30}).ShouldDamage {
			wears++
		}
	}
	if wears == 0 || wears == 500 {
		t.Fatalf("wear roll degenerate: %d/500", wears)
	}
}

func TestLevelUpGainDefaults(t *testing.T) {
	e := newEngine(t)
	gain := e.CalcLevelUpGain(10)
	if gain.Strength != 1 || gain.Intelligence != 1 {
		t.Fatalf("default gain should be one point each, got %+v", gain)
	}
}
