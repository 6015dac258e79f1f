package component

import (
	"math/rand"
	"time"

	"github.com/kumpelblase2/agentd/internal/core/ecs"
)

// Monster marks a server-controlled combat entity.
type Monster struct {
	Target ecs.EntityID
	Rarity string
}

// SpawnedBy links a monster back to the spawner that produced it, so the
// spawner's population count can drop when the monster dies.
type SpawnedBy struct {
	Spawner ecs.EntityID
}

// RandomStroll gives idle monsters a wander goal around their spawn point.
type RandomStroll struct {
	Origin   GlobalLocation
	Radius   float32
	Cooldown time.Duration
	minWait  time.Duration
	maxWait  time.Duration
}

func NewRandomStroll(origin GlobalLocation, radius float32, minWait, maxWait time.Duration) *RandomStroll {
	s := &RandomStroll{Origin: origin, Radius: radius, minWait: minWait, maxWait: maxWait}
	s.Rearm()
	return s
}

// ShouldMove advances the cooldown; returns true when a new stroll is due.
func (s *RandomStroll) ShouldMove(delta time.Duration) bool {
	s.Cooldown -= delta
	return s.Cooldown <= 0
}

// Rearm resets the cooldown to a random wait in [minWait, maxWait).
func (s *RandomStroll) Rearm() {
	spread := s.maxWait - s.minWait
	if spread <= 0 {
		s.Cooldown = s.minWait
		return
	}
	s.Cooldown = s.minWait + time.Duration(rand.Int63n(int64(spread)))
}

// NextTarget picks a random point within the stroll radius.
func (s *RandomStroll) NextTarget() GlobalLocation {
	return RandomLocationAround(s.Origin, s.Radius)
}

// RandomLocationAround samples a uniform random point in the given radius.
func RandomLocationAround(origin GlobalLocation, radius float32) GlobalLocation {
	dx := (rand.Float32()*2 - 1) * radius
	dz := (rand.Float32()*2 - 1) * radius
	return GlobalLocation{X: origin.X + dx, Z: origin.Z + dz}
}
