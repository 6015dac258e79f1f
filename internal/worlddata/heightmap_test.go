package worlddata

import "testing"

func TestBilinearInterpolation(t *testing.T) {
	// 2x2 grid, 20-unit spacing: corners 0, 10, 20, 30.
	h := NewHeightmap([]float32{0, 10, 20, 30}, 2, 20)

	cases := []struct {
		x, z float32
		want float32
	}{
		{0, 0, 0},
		{20, 0, 10},
		{0, 20, 20},
		{20, 20, 30},
		{10, 0, 5},
		{0, 10, 10},
		{10, 10, 15}, // center averages all four
	}
	for _, tc := range cases {
		got, ok := h.HeightAt(tc.x, tc.z)
		if !ok {
			t.Fatalf("(%v,%v): unexpectedly outside", tc.x, tc.z)
		}
		if diff := got - tc.want; diff > 1e-4 || diff < -1e-4 {
			t.Errorf("(%v,%v): got %v, want %v", tc.x, tc.z, got, tc.want)
		}
	}
}

func TestHeightOutsideGrid(t *testing.T) {
	h := FlatHeightmap(12)
	if _, ok := h.HeightAt(-1, 0); ok {
		t.Fatal("negative coordinates are undefined")
	}
	if _, ok := h.HeightAt(0, RegionSize+1); ok {
		t.Fatal("beyond the grid is undefined")
	}
	if got, ok := h.HeightAt(500, 1300); !ok || got != 12 {
		t.Fatalf("flat map should sample 12 anywhere inside, got %v ok=%v", got, ok)
	}
}

func TestTerrainClampsToBorder(t *testing.T) {
	terrain := NewTerrain()
	region := RegionFromXY(3, 4)
	terrain.SetRegion(region, FlatHeightmap(7))

	if got, ok := terrain.HeightAt(region, -50, 99999); !ok || got != 7 {
		t.Fatalf("border clamp failed: %v ok=%v", got, ok)
	}
	if _, ok := terrain.HeightAt(RegionFromXY(9, 9), 0, 0); ok {
		t.Fatal("unknown region has no height")
	}
}

func TestRegionPacking(t *testing.T) {
	r := RegionFromXY(0x41, 0x40)
	if r.ID() != 0x4041 {
		t.Fatalf("packed id %#04x, want 0x4041", r.ID())
	}
	if r.IsDungeon() {
		t.Fatal("bit 15 clear means overworld")
	}
	if !Region(0x8001).IsDungeon() {
		t.Fatal("bit 15 set means dungeon")
	}
	neighbours := RegionFromXY(5, 5).Neighbours()
	if len(neighbours) != 9 || neighbours[4] != RegionFromXY(5, 5) {
		t.Fatalf("neighbours should be self plus 8: %v", neighbours)
	}
}
