package handler

import (
	"net"
	"testing"
	"time"

	"github.com/kumpelblase2/agentd/internal/component"
	"github.com/kumpelblase2/agentd/internal/config"
	"github.com/kumpelblase2/agentd/internal/core/ecs"
	"github.com/kumpelblase2/agentd/internal/core/event"
	"github.com/kumpelblase2/agentd/internal/login"
	gonet "github.com/kumpelblase2/agentd/internal/net"
	"github.com/kumpelblase2/agentd/internal/net/packet"
	"github.com/kumpelblase2/agentd/internal/world"
	"go.uber.org/zap"
)

func newAuthDeps(t *testing.T) (*Deps, *login.CapacityController) {
	t.Helper()
	capacity := login.NewCapacityController(10)
	return &Deps{
		Config: &config.Config{
			Game: config.GameConfig{LogoutDuration: 2 * time.Second},
		},
		Stores: world.NewStores(),
		Queue:  login.NewQueue(capacity, 10),
		Bus:    event.NewBus(),
		Log:    zap.NewNop(),
	}, capacity
}

func newLoginEntity(t *testing.T, deps *Deps, sessionID uint64) (ecs.EntityID, *gonet.Session) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	sess := gonet.NewSession(server, sessionID, 32, 64, zap.NewNop())

	entity := deps.Stores.ECS.CreateEntity()
	deps.Stores.Sessions.Set(entity, sess)
	deps.Stores.Logins.Set(entity, &component.Login{})
	deps.Stores.LastActions.Set(entity, &component.LastAction{At: time.Now()})
	deps.Stores.Lookup.AddSession(sessionID, entity)
	return entity, sess
}

func authRequest(token uint32) *packet.Reader {
	w := packet.NewWriter(packet.C_OPCODE_AUTH_REQUEST)
	w.WriteD(token)
	return packet.NewReader(w.Packet().Data)
}

func popAuthResult(t *testing.T, sess *gonet.Session) byte {
	t.Helper()
	select {
	case frame := <-sess.OutQueue:
		if frame.Opcode != packet.S_OPCODE_AUTH_RESPONSE {
			t.Fatalf("expected auth response, got %#04x", frame.Opcode)
		}
		return frame.Data[0]
	default:
		t.Fatal("no auth response queued")
		return 0
	}
}

// Scenario: the HTTP task reserved token 42 for user U; the client hands
// the token in. The entity moves Login -> Playing, the population counter
// stays unchanged and the reservation is gone.
func TestAuthAcceptsReservation(t *testing.T) {
	deps, capacity := newAuthDeps(t)
	entity, sess := newLoginEntity(t, deps, 1)

	token, _, err := deps.Queue.ReserveSpot(login.ServerUser{ID: 7, Username: "U"})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	usageBefore := capacity.Usage()

	HandleAuthRequest(deps)(sess, authRequest(token))

	if got := popAuthResult(t, sess); got != packet.AuthSuccess {
		t.Fatalf("result %d, want success", got)
	}
	if deps.Stores.Logins.Has(entity) {
		t.Fatal("login marker should be gone")
	}
	playing, ok := deps.Stores.Playings.Get(entity)
	if !ok || playing.User.ID != 7 {
		t.Fatalf("playing lifecycle missing: %+v", playing)
	}
	if capacity.Usage() != usageBefore {
		t.Fatalf("queue->playing swap changed the population: %v -> %v", usageBefore, capacity.Usage())
	}
	if sess.State() != packet.StateCharacterSelect {
		t.Fatalf("session state %s, want CharacterSelect", sess.State())
	}

	// The reservation was consumed.
	if _, _, err := deps.Queue.HandInReservation(token); err == nil {
		t.Fatal("token redeemable twice")
	}
}

func TestAuthUnknownToken(t *testing.T) {
	deps, _ := newAuthDeps(t)
	entity, sess := newLoginEntity(t, deps, 1)

	HandleAuthRequest(deps)(sess, authRequest(42))

	if got := popAuthResult(t, sess); got != packet.AuthInvalidData {
		t.Fatalf("result %d, want InvalidData", got)
	}
	if !deps.Stores.Logins.Has(entity) {
		t.Fatal("failed auth must keep the Login lifecycle")
	}
}

func TestAuthIgnoredOutsideLogin(t *testing.T) {
	deps, _ := newAuthDeps(t)
	entity, sess := newLoginEntity(t, deps, 1)
	deps.Stores.Logins.Remove(entity) // already authenticated

	HandleAuthRequest(deps)(sess, authRequest(42))

	select {
	case frame := <-sess.OutQueue:
		t.Fatalf("unexpected reply %#04x", frame.Opcode)
	default:
	}
}
