package world

import (
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	"github.com/kumpelblase2/agentd/internal/worlddata"
)

// Grid buckets entities by region so interest queries only touch a region
// and its 8 neighbours instead of the whole world.
type Grid struct {
	cells map[worlddata.Region]map[ecs.EntityID]struct{}
}

func NewGrid() *Grid {
	return &Grid{cells: make(map[worlddata.Region]map[ecs.EntityID]struct{})}
}

func (g *Grid) Add(entity ecs.EntityID, region worlddata.Region) {
	cell := g.cells[region]
	if cell == nil {
		cell = make(map[ecs.EntityID]struct{}, 8)
		g.cells[region] = cell
	}
	cell[entity] = struct{}{}
}

func (g *Grid) Remove(entity ecs.EntityID, region worlddata.Region) {
	cell := g.cells[region]
	if cell == nil {
		return
	}
	delete(cell, entity)
	if len(cell) == 0 {
		delete(g.cells, region)
	}
}

// Move re-buckets an entity after a region boundary crossing.
func (g *Grid) Move(entity ecs.EntityID, from, to worlddata.Region) {
	if from == to {
		return
	}
	g.Remove(entity, from)
	g.Add(entity, to)
}

// EachAround visits every entity bucketed in the region or one of its 8
// neighbours.
func (g *Grid) EachAround(region worlddata.Region, fn func(ecs.EntityID)) {
	for _, r := range region.Neighbours() {
		for entity := range g.cells[r] {
			fn(entity)
		}
	}
}
