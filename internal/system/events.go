package system

import (
	"time"

	"github.com/kumpelblase2/agentd/internal/core/event"
	coresys "github.com/kumpelblase2/agentd/internal/core/system"
)

// EventDispatchSystem rotates the double-buffered bus and delivers last
// tick's events to their subscribers. Registered first in PhaseIngress.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhaseIngress }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
