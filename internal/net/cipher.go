package net

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blowfish"
)

// Cipher encrypts frame bodies with blowfish in 8-byte blocks. Both sides
// derive the key from the seed the server sends in the handshake frame.
type Cipher struct {
	block *blowfish.Cipher
}

// NewCipher builds the cipher from the 8-byte handshake seed. The seed is
// expanded the same way on both ends before keying blowfish.
func NewCipher(seed [8]byte) (*Cipher, error) {
	key := expandSeed(seed)
	block, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init blowfish: %w", err)
	}
	return &Cipher{block: block}, nil
}

// expandSeed stretches the 8-byte seed into a 16-byte blowfish key by
// mixing it with a rolling counter, mirroring the client's derivation.
func expandSeed(seed [8]byte) []byte {
	key := make([]byte, 16)
	copy(key, seed[:])
	state := binary.LittleEndian.Uint64(seed[:])
	for i := 8; i < 16; i++ {
		state = state*6364136223846793005 + 1442695040888963407
		key[i] = byte(state >> 56)
	}
	return key
}

// BlockSize returns the cipher block length.
func (c *Cipher) BlockSize() int {
	return blowfish.BlockSize
}

// Encrypt encrypts data in place. len(data) must be a multiple of the block
// size; callers pad with zeros first.
func (c *Cipher) Encrypt(data []byte) {
	for off := 0; off+blowfish.BlockSize <= len(data); off += blowfish.BlockSize {
		c.block.Encrypt(data[off:off+blowfish.BlockSize], data[off:off+blowfish.BlockSize])
	}
}

// Decrypt decrypts data in place.
func (c *Cipher) Decrypt(data []byte) {
	for off := 0; off+blowfish.BlockSize <= len(data); off += blowfish.BlockSize {
		c.block.Decrypt(data[off:off+blowfish.BlockSize], data[off:off+blowfish.BlockSize])
	}
}
