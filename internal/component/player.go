package component

import (
	"time"

	"github.com/kumpelblase2/agentd/internal/login"
)

// Login marks a connection that has not redeemed its reservation yet.
// Non-auth packets are rejected in this lifecycle.
type Login struct{}

// Playing marks an admitted connection; the playing token holds its
// population slot until disconnect.
type Playing struct {
	User  login.ServerUser
	Token *login.PlayingToken
}

// BonusStatLevel is the level from which each level-up grants a freely
// allocatable bonus stat point.
const BonusStatLevel = 51

// Player carries the selected character of a playing connection.
type Player struct {
	CharacterID uint32
	Name        string
	MaxLevel    uint8
	BonusStats  uint16 // unallocated bonus points from levels 51+
}

// LastAction is the activity timestamp driving the client timeout.
type LastAction struct {
	At time.Time
}

// Logout is the countdown started by a logout request. Movement or damage
// does not cancel it.
type Logout struct {
	Remaining time.Duration
	Mode      uint8
}

// Tick advances the countdown; returns true when the logout completes.
func (l *Logout) Tick(delta time.Duration) bool {
	l.Remaining -= delta
	return l.Remaining <= 0
}

// Disconnecting marks an entity scheduled for the end-of-tick sweep.
type Disconnecting struct{}

// Persistable schedules periodic autosaves for a player entity.
type Persistable struct {
	until time.Duration
	every time.Duration
}

func NewPersistable(every time.Duration) Persistable {
	return Persistable{until: every, every: every}
}

// ShouldPersist advances the timer; returns true once per interval.
func (p *Persistable) ShouldPersist(delta time.Duration) bool {
	p.until -= delta
	if p.until > 0 {
		return false
	}
	p.until += p.every
	return true
}
