package system

import (
	"time"

	coresys "github.com/kumpelblase2/agentd/internal/core/system"
	"github.com/kumpelblase2/agentd/internal/handler"
	"go.uber.org/zap"
)

// CharLoadSystem polls the async character-load results at tick start and
// pushes the finished lists to their clients. Phase 0, after ingress.
type CharLoadSystem struct {
	deps *handler.Deps
}

func NewCharLoadSystem(deps *handler.Deps) *CharLoadSystem {
	return &CharLoadSystem{deps: deps}
}

func (s *CharLoadSystem) Phase() coresys.Phase { return coresys.PhaseIngress }

func (s *CharLoadSystem) Update(_ time.Duration) {
	if s.deps.CharLoads == nil {
		return
	}
	for _, result := range s.deps.CharLoads.Drain() {
		if !s.deps.Stores.ECS.Alive(result.Entity) {
			continue
		}
		if result.Err != nil {
			s.deps.Log.Error("角色載入失敗", zap.Error(result.Err))
			continue
		}
		s.deps.CharLoads.SetLoaded(result.Entity, result.Rows, result.Masteries)
		if sess, ok := s.deps.Stores.Sessions.Get(result.Entity); ok {
			handler.SendCharacterList(sess, result.Rows)
		}
	}
}
