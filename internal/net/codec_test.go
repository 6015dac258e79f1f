package net

import (
	"bytes"
	"testing"

	"github.com/kumpelblase2/agentd/internal/net/packet"
)

func TestFrameRoundTripPlaintext(t *testing.T) {
	var buf bytes.Buffer
	frame := packet.Raw{Opcode: 0x2001, Data: []byte{1, 2, 3, 4, 5}}
	if err := WriteFrame(&buf, frame, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadFrame(&buf, nil)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Opcode != frame.Opcode || !bytes.Equal(got.Data, frame.Data) {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, frame)
	}
}

func TestFrameRoundTripEncrypted(t *testing.T) {
	seed := [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	sender, err := NewCipher(seed)
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}
	receiver, err := NewCipher(seed)
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}

	var buf bytes.Buffer
	frame := packet.Raw{Opcode: 0x6103, Data: []byte{0xAA, 0xBB, 0xCC}}
	if err := WriteFrame(&buf, frame, sender); err != nil {
		t.Fatalf("write: %v", err)
	}

	// The body must not appear in clear on the wire.
	if bytes.Contains(buf.Bytes(), frame.Data) {
		t.Fatal("payload leaked unencrypted")
	}

	got, err := ReadFrame(&buf, receiver)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Opcode != frame.Opcode || !bytes.Equal(got.Data, frame.Data) {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, frame)
	}
}

func TestEncryptedFrameWithoutCipher(t *testing.T) {
	seed := [8]byte{9, 9, 9, 9, 9, 9, 9, 9}
	cipher, _ := NewCipher(seed)
	var buf bytes.Buffer
	if err := WriteFrame(&buf, packet.Raw{Opcode: 1, Data: []byte{1}}, cipher); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadFrame(&buf, nil); err == nil {
		t.Fatal("encrypted frame before handshake must error")
	}
}
