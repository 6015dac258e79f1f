package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kumpelblase2/agentd/internal/login"
	"go.uber.org/zap"
)

// UserFetcher resolves a front-door user id into this shard's server user.
type UserFetcher interface {
	FetchServerUser(ctx context.Context, userID uint32, username string) (*login.ServerUser, error)
}

// StatusReport is the body of GET /status.
type StatusReport struct {
	Healthy    bool   `json:"healthy"`
	Population string `json:"population"`
}

// ReserveRequest is the body of POST /request.
type ReserveRequest struct {
	UserID   uint32 `json:"user_id"`
	Username string `json:"username"`
}

// ReserveResponse is the body of a successful POST /request.
type ReserveResponse struct {
	Token     uint32 `json:"token"`
	IP        string `json:"ip"`
	Port      uint16 `json:"port"`
	AliveSecs uint64 `json:"alive_secs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server exposes the capacity status and reservation endpoints consumed by
// the gateway. It writes the reservation table the game loop redeems from.
type Server struct {
	queue        *login.Queue
	capacity     *login.CapacityController
	users        UserFetcher
	externalAddr string
	gamePort     uint16
	listenPort   uint16
	log          *zap.Logger
}

func NewServer(
	queue *login.Queue,
	capacity *login.CapacityController,
	users UserFetcher,
	externalAddr string,
	gamePort uint16,
	listenPort uint16,
	log *zap.Logger,
) *Server {
	return &Server{
		queue:        queue,
		capacity:     capacity,
		users:        users,
		externalAddr: externalAddr,
		gamePort:     gamePort,
		listenPort:   listenPort,
		log:          log,
	}
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("POST /request", s.handleRequest)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.listenPort),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("reservation api: %w", err)
	}
	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusReport{
		Healthy:    true,
		Population: PopulationFromUsage(s.capacity.Usage()),
	})
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	var req ReserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request"})
		return
	}

	user, err := s.users.FetchServerUser(r.Context(), req.UserID, req.Username)
	if err != nil {
		s.log.Error("伺服器使用者查詢失敗", zap.Uint32("user", req.UserID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "user lookup failed"})
		return
	}

	token, ttl, err := s.queue.ReserveSpot(*user)
	if err != nil {
		writeJSON(w, http.StatusOK, errorResponse{
			Error: fmt.Sprintf("No more spots available. %v", err),
		})
		return
	}

	writeJSON(w, http.StatusOK, ReserveResponse{
		Token:     token,
		IP:        s.externalAddr,
		Port:      s.gamePort,
		AliveSecs: uint64(ttl.Seconds()),
	})
}

// PopulationFromUsage buckets the usage fraction into the gateway's
// population labels.
func PopulationFromUsage(usage float64) string {
	switch {
	case usage < 0.25:
		return "Easy"
	case usage < 0.60:
		return "Populated"
	case usage < 0.98:
		return "Crowded"
	default:
		return "Full"
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
