package packet

import (
	"fmt"

	"go.uber.org/zap"
)

// SessionState represents the session's current protocol lifecycle.
type SessionState int32

const (
	StateLogin SessionState = iota
	StateCharacterSelect
	StateInWorld
	StateDisconnecting
)

func (s SessionState) String() string {
	switch s {
	case StateLogin:
		return "Login"
	case StateCharacterSelect:
		return "CharacterSelect"
	case StateInWorld:
		return "InWorld"
	case StateDisconnecting:
		return "Disconnecting"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(s))
	}
}

// HandlerFunc is the callback signature for packet handlers. The session
// pointer is passed as an opaque interface to avoid import cycles.
type HandlerFunc func(sess any, r *Reader)

type handlerEntry struct {
	fn            HandlerFunc
	allowedStates map[SessionState]bool
}

// Registry maps opcodes to handlers with state-based access control.
type Registry struct {
	handlers map[uint16]*handlerEntry
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[uint16]*handlerEntry),
		log:      log,
	}
}

// Register maps an opcode to a handler, restricted to the given states.
func (reg *Registry) Register(opcode uint16, states []SessionState, fn HandlerFunc) {
	allowed := make(map[SessionState]bool, len(states))
	for _, s := range states {
		allowed[s] = true
	}
	reg.handlers[opcode] = &handlerEntry{
		fn:            fn,
		allowedStates: allowed,
	}
}

// Dispatch finds the handler for the frame's opcode, validates the session
// state and calls the handler. Unknown opcodes are dropped silently; an
// opcode arriving in the wrong lifecycle is warned and dropped, keeping the
// connection.
func (reg *Registry) Dispatch(sess any, state SessionState, frame Raw) error {
	entry, ok := reg.handlers[frame.Opcode]
	if !ok {
		reg.log.Debug("未知操作碼",
			zap.String("op", fmt.Sprintf("0x%04X", frame.Opcode)),
			zap.String("state", state.String()),
		)
		return nil
	}

	if !entry.allowedStates[state] {
		reg.log.Warn("操作碼在此狀態下不允許",
			zap.String("op", fmt.Sprintf("0x%04X", frame.Opcode)),
			zap.String("state", state.String()),
		)
		return nil
	}

	return reg.safeCall(entry.fn, sess, NewReader(frame.Data), frame.Opcode)
}

// safeCall executes a handler with panic recovery so a single bad packet
// cannot crash the game loop.
func (reg *Registry) safeCall(fn HandlerFunc, sess any, r *Reader, opcode uint16) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("處理器 panic 已恢復",
				zap.String("op", fmt.Sprintf("0x%04X", opcode)),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("handler panic for opcode 0x%04X: %v", opcode, rec)
		}
	}()
	fn(sess, r)
	return nil
}
