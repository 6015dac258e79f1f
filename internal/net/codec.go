package net

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/kumpelblase2/agentd/internal/net/packet"
)

// Frame layout:
//
//	[2B LE length][2B LE opcode][1B count][1B crc][payload]
//
// length is the payload length; bit 15 marks an encrypted frame. For
// encrypted frames everything after the length field is blowfish-encrypted,
// zero-padded to the cipher block size.
const (
	frameHeaderSize = 6
	encryptedFlag   = 0x8000
	maxPayload      = 0x7FFF - 4
)

// ReadFrame reads one frame from r, decrypting the body when flagged.
func ReadFrame(r io.Reader, cipher *Cipher) (packet.Raw, error) {
	var lengthField [2]byte
	if _, err := io.ReadFull(r, lengthField[:]); err != nil {
		return packet.Raw{}, fmt.Errorf("read frame length: %w", err)
	}

	raw := binary.LittleEndian.Uint16(lengthField[:])
	encrypted := raw&encryptedFlag != 0
	payloadLen := int(raw &^ encryptedFlag)
	if payloadLen > maxPayload {
		return packet.Raw{}, fmt.Errorf("invalid frame length: %d", payloadLen)
	}

	bodyLen := payloadLen + 4 // opcode + count + crc + payload
	readLen := bodyLen
	if encrypted {
		if cipher == nil {
			return packet.Raw{}, fmt.Errorf("encrypted frame before handshake")
		}
		readLen = roundUp(bodyLen, cipher.BlockSize())
	}

	body := make([]byte, readLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return packet.Raw{}, fmt.Errorf("read frame body (%d bytes): %w", readLen, err)
	}
	if encrypted {
		cipher.Decrypt(body)
	}

	return packet.Raw{
		Opcode: binary.LittleEndian.Uint16(body[0:2]),
		Data:   body[4:bodyLen],
	}, nil
}

// WriteFrame writes one frame to w, encrypting the body when a cipher is
// given.
func WriteFrame(w io.Writer, frame packet.Raw, cipher *Cipher) error {
	payloadLen := len(frame.Data)
	if payloadLen > maxPayload {
		return fmt.Errorf("payload too large: %d", payloadLen)
	}

	bodyLen := payloadLen + 4
	writeLen := bodyLen
	lengthField := uint16(payloadLen)
	if cipher != nil {
		writeLen = roundUp(bodyLen, cipher.BlockSize())
		lengthField |= encryptedFlag
	}

	buf := make([]byte, 2+writeLen)
	binary.LittleEndian.PutUint16(buf[0:2], lengthField)
	binary.LittleEndian.PutUint16(buf[2:4], frame.Opcode)
	// count and crc stay zero; the security counters are a handshake-layer
	// concern this server does not enforce.
	copy(buf[6:], frame.Data)

	if cipher != nil {
		cipher.Encrypt(buf[2:])
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func roundUp(n, multiple int) int {
	remainder := n % multiple
	if remainder == 0 {
		return n
	}
	return n + multiple - remainder
}
