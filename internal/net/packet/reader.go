package packet

import (
	"encoding/binary"
	"math"

	"golang.org/x/text/encoding/korean"
)

// Raw is one decoded frame: opcode plus payload bytes.
type Raw struct {
	Opcode uint16
	Data   []byte
}

// Reader reads packet fields from a frame payload. All multi-byte fields
// are little-endian.
type Reader struct {
	data []byte
	off  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadC reads 1 unsigned byte.
func (r *Reader) ReadC() byte {
	if r.off >= len(r.data) {
		return 0
	}
	v := r.data[r.off]
	r.off++
	return v
}

// ReadH reads 2 bytes as little-endian uint16.
func (r *Reader) ReadH() uint16 {
	if r.off+2 > len(r.data) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

// ReadD reads 4 bytes as little-endian uint32.
func (r *Reader) ReadD() uint32 {
	if r.off+4 > len(r.data) {
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

// ReadQ reads 8 bytes as little-endian uint64.
func (r *Reader) ReadQ() uint64 {
	if r.off+8 > len(r.data) {
		return 0
	}
	v := binary.LittleEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v
}

// ReadF reads 4 bytes as a little-endian float32.
func (r *Reader) ReadF() float32 {
	return math.Float32frombits(r.ReadD())
}

// ReadS reads a length-prefixed (u16) EUC-KR string and returns UTF-8.
func (r *Reader) ReadS() string {
	length := int(r.ReadH())
	if r.off+length > len(r.data) {
		length = len(r.data) - r.off
	}
	raw := r.data[r.off : r.off+length]
	r.off += length
	return eucKRToUTF8(raw)
}

// eucKRToUTF8 converts EUC-KR bytes to a UTF-8 string. Pure ASCII passes
// through unchanged; only multi-byte sequences are decoded.
func eucKRToUTF8(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	allASCII := true
	for _, b := range raw {
		if b >= 0x80 {
			allASCII = false
			break
		}
	}
	if allASCII {
		return string(raw)
	}
	decoded, err := korean.EUCKR.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw) // fallback to raw bytes
	}
	return string(decoded)
}

// ReadBytes reads n raw bytes.
func (r *Reader) ReadBytes(n int) []byte {
	if r.off+n > len(r.data) {
		remaining := r.data[r.off:]
		r.off = len(r.data)
		return remaining
	}
	b := make([]byte, n)
	copy(b, r.data[r.off:r.off+n])
	r.off += n
	return b
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}
