package world

import "github.com/kumpelblase2/agentd/internal/worlddata"

// PlayerActivity is the set of regions touched by any player this tick.
// Spawners only advance while one of their overlapping regions is in it.
type PlayerActivity struct {
	set map[worlddata.Region]struct{}
}

func NewPlayerActivity() *PlayerActivity {
	return &PlayerActivity{set: make(map[worlddata.Region]struct{}, 16)}
}

func (a *PlayerActivity) Reset() {
	clear(a.set)
}

func (a *PlayerActivity) Touch(region worlddata.Region) {
	a.set[region] = struct{}{}
}

func (a *PlayerActivity) Contains(region worlddata.Region) bool {
	_, ok := a.set[region]
	return ok
}

// AnyOf reports whether any of the given regions saw player activity.
func (a *PlayerActivity) AnyOf(regions [9]worlddata.Region) bool {
	for _, r := range regions {
		if a.Contains(r) {
			return true
		}
	}
	return false
}
