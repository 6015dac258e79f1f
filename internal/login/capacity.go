package login

import "sync/atomic"

// CapacityController counts queued and playing clients against the server's
// population ceiling. Shared between the game loop and the HTTP task.
type CapacityController struct {
	max     uint32
	queued  atomic.Int32
	playing atomic.Int32
}

func NewCapacityController(max int) *CapacityController {
	return &CapacityController{max: uint32(max)}
}

// Usage is (queued + playing) / max as a fraction.
func (c *CapacityController) Usage() float64 {
	current := float64(c.queued.Load() + c.playing.Load())
	return current / float64(c.max)
}

func (c *CapacityController) canQueue() bool {
	return c.Usage() < 1.0
}

// AddQueue claims a queue slot. Returns nil when the server is full.
func (c *CapacityController) AddQueue() *QueueToken {
	if !c.canQueue() {
		return nil
	}
	c.queued.Add(1)
	return &QueueToken{controller: c}
}

// AddPlaying claims a playing slot unconditionally; admission control
// already happened when the queue slot was granted.
func (c *CapacityController) AddPlaying() *PlayingToken {
	c.playing.Add(1)
	return &PlayingToken{controller: c}
}

// QueueToken holds one queued population slot until released.
type QueueToken struct {
	controller *CapacityController
	released   atomic.Bool
}

func (t *QueueToken) Release() {
	if t.released.CompareAndSwap(false, true) {
		t.controller.queued.Add(-1)
	}
}

// Promote converts the queue slot into a playing slot, keeping the total
// population count unchanged.
func (t *QueueToken) Promote() *PlayingToken {
	playing := t.controller.AddPlaying()
	t.Release()
	return playing
}

// PlayingToken holds one playing population slot until released.
type PlayingToken struct {
	controller *CapacityController
	released   atomic.Bool
}

func (t *PlayingToken) Release() {
	if t.released.CompareAndSwap(false, true) {
		t.controller.playing.Add(-1)
	}
}
