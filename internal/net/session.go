package net

import (
	"fmt"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kumpelblase2/agentd/internal/net/packet"
	"go.uber.org/zap"
)

// Session represents a single client connection. Network I/O runs in
// dedicated goroutines; game state is accessed only from the game loop.
type Session struct {
	ID   uint64
	conn net.Conn

	cipher *Cipher
	state  atomic.Int32 // packet.SessionState
	mu     sync.Mutex   // protects conn writes during handshake

	InQueue  chan packet.Raw // game loop reads frames from here
	OutQueue chan packet.Raw // writer goroutine reads from here

	IP string

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	log *zap.Logger
}

func NewSession(conn net.Conn, id uint64, inSize, outSize int, log *zap.Logger) *Session {
	s := &Session{
		ID:       id,
		conn:     conn,
		InQueue:  make(chan packet.Raw, inSize),
		OutQueue: make(chan packet.Raw, outSize),
		IP:       conn.RemoteAddr().String(),
		closeCh:  make(chan struct{}),
		log:      log.With(zap.Uint64("session", id)),
	}
	s.state.Store(int32(packet.StateLogin))
	return s
}

func (s *Session) State() packet.SessionState {
	return packet.SessionState(s.state.Load())
}

func (s *Session) SetState(st packet.SessionState) {
	s.state.Store(int32(st))
}

// Start sends the plaintext handshake frame carrying the cipher seed,
// initializes the cipher, and launches the reader and writer goroutines.
func (s *Session) Start() {
	var seed [8]byte
	for i := range seed {
		seed[i] = byte(rand.Intn(256))
	}

	// Handshake is the only plaintext frame on the wire.
	handshake := packet.Raw{Opcode: packet.S_OPCODE_HANDSHAKE, Data: seed[:]}
	s.mu.Lock()
	err := WriteFrame(s.conn, handshake, nil)
	s.mu.Unlock()
	if err != nil {
		s.log.Error("握手封包發送失敗", zap.Error(err))
		s.Close()
		return
	}

	cipher, err := NewCipher(seed)
	if err != nil {
		s.log.Error("加密初始化失敗", zap.Error(err))
		s.Close()
		return
	}
	s.cipher = cipher

	go s.readLoop()
	go s.writeLoop()
}

// Send queues a frame for sending. Non-blocking: when OutQueue is full, the
// session is disconnected (backpressure).
func (s *Session) Send(frame packet.Raw) {
	if s.closed.Load() {
		return
	}
	select {
	case s.OutQueue <- frame:
	default:
		s.log.Warn("輸出佇列已滿，斷開慢速連線")
		s.Close()
	}
}

// Close gracefully shuts down the session.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.SetState(packet.StateDisconnecting)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// readLoop reads frames from the TCP connection, decrypts them, and pushes
// them onto InQueue for the game loop to consume.
func (s *Session) readLoop() {
	defer s.Close()

	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		frame, err := ReadFrame(s.conn, s.cipher)
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("讀取錯誤", zap.Error(err))
			}
			return
		}

		// Block until InQueue has space or the session closes. The readLoop
		// goroutine is per-session, so blocking only stalls this client —
		// dropping movement frames would desync the server-tracked position.
		select {
		case s.InQueue <- frame:
		case <-s.closeCh:
			return
		}
	}
}

// writeLoop reads frames from OutQueue, encrypts them, and writes them to
// the TCP connection.
func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case frame := <-s.OutQueue:
			s.log.Debug("TX",
				zap.String("op", fmt.Sprintf("0x%04X", frame.Opcode)),
				zap.Int("len", len(frame.Data)),
			)

			s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := WriteFrame(s.conn, frame, s.cipher); err != nil {
				if !s.closed.Load() {
					s.log.Debug("寫入錯誤", zap.Error(err))
				}
				return
			}
		case <-s.closeCh:
			return
		}
	}
}
