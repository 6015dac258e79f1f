package component

import (
	"math"
	"testing"
)

func TestGlobalLocalRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		pos  GlobalPosition
	}{
		{"origin region", GlobalPosition{X: 100, Y: 5, Z: 100}},
		{"mid world", GlobalPosition{X: 64*1920 + 123.5, Y: -20, Z: 64*1920 + 1800.25}},
		{"region border", GlobalPosition{X: 1919.9, Y: 0, Z: 1920.1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			back := tc.pos.ToLocal().ToGlobal()
			if math.Abs(float64(back.X-tc.pos.X)) > 1e-3 ||
				math.Abs(float64(back.Y-tc.pos.Y)) > 1e-3 ||
				math.Abs(float64(back.Z-tc.pos.Z)) > 1e-3 {
				t.Fatalf("round trip drifted: %+v -> %+v", tc.pos, back)
			}
		})
	}
}

func TestRegionDerivation(t *testing.T) {
	loc := GlobalLocation{X: 64*1920 + 100, Z: 64 * 1920}
	local := loc.ToLocal()
	if local.Region.X() != 64 || local.Region.Y() != 64 {
		t.Fatalf("expected region (64,64), got (%d,%d)", local.Region.X(), local.Region.Y())
	}
	// Low byte = x, high byte = y.
	if local.Region.ID() != uint16(64)<<8|64 {
		t.Fatalf("unexpected packed id %#04x", local.Region.ID())
	}
}

func TestHeadingRoundTrip(t *testing.T) {
	ulp := 360.0 / float64(math.MaxUint16)
	// math.MaxUint16 itself maps onto 360° ≡ 0° and is excluded: equality
	// holds modulo 360.
	for _, raw := range []uint16{0, 1, 1000, 16384, 32768, 65000} {
		heading := HeadingFromU16(raw)
		back := heading.ToU16()
		diffRaw := int(raw) - int(back)
		if diffRaw < 0 {
			diffRaw = -diffRaw
		}
		if diffRaw > 1 {
			t.Fatalf("u16 %d -> %.4f° -> %d", raw, float64(heading), back)
		}
		// Degrees preserved within one step of the encoding.
		if math.Abs(float64(HeadingFromU16(back))-float64(heading)) > ulp {
			t.Fatalf("degrees drifted for %d", raw)
		}
	}
}

func TestHeadingNormalizesNegative(t *testing.T) {
	h := Heading(-90)
	if got := h.ToU16(); got != Heading(270).ToU16() {
		t.Fatalf("expected -90° == 270°, got %d vs %d", got, Heading(270).ToU16())
	}
}
