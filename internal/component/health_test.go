package component

import (
	"math"
	"testing"
)

func TestMaxHealthDerivation(t *testing.T) {
	stats := DefaultStats()
	if got := stats.MaxHealth(1); got != 200 {
		t.Fatalf("level 1: got %d, want 200", got)
	}
	if got := stats.MaxMana(1); got != 200 {
		t.Fatalf("level 1 mana: got %d, want 200", got)
	}
	// One level multiplies by 1.02.
	if got := stats.MaxHealth(2); got != 204 {
		t.Fatalf("level 2: got %d, want 204", got)
	}
}

func TestHealthNeverLeavesRange(t *testing.T) {
	h := NewHealth(100)
	h.Reduce(40)
	if h.Current != 60 {
		t.Fatalf("got %d, want 60", h.Current)
	}
	h.Reduce(1000)
	if h.Current != 0 || !h.IsDead() {
		t.Fatalf("overkill should clamp to 0 and be dead, got %d", h.Current)
	}
	h.Restore(5000)
	if h.Current != h.Max {
		t.Fatalf("restore should clamp to max, got %d", h.Current)
	}
	h.SetMax(40)
	if h.Current != 40 {
		t.Fatalf("lowering max must clamp current, got %d", h.Current)
	}
}

func TestManaSpend(t *testing.T) {
	m := NewMana(50)
	if m.Spend(60) {
		t.Fatal("cannot spend more than current")
	}
	if !m.Spend(50) || m.Current != 0 {
		t.Fatalf("full spend failed, current %d", m.Current)
	}
}

func TestGoldPouchSaturates(t *testing.T) {
	g := NewGoldPouch(math.MaxUint64 - 5)
	g.Gain(100)
	if g.Amount() != math.MaxUint64 {
		t.Fatalf("gain should saturate, got %d", g.Amount())
	}
	g.Spend(math.MaxUint64)
	g.Spend(1)
	if g.Amount() != 0 {
		t.Fatalf("spend should floor at 0, got %d", g.Amount())
	}
}
