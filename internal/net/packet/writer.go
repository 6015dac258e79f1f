package packet

import (
	"encoding/binary"
	"math"

	"golang.org/x/text/encoding/korean"
)

// Writer builds a server packet payload. All multi-byte writes are
// little-endian.
type Writer struct {
	opcode uint16
	buf    []byte
}

func NewWriter(opcode uint16) *Writer {
	return &Writer{opcode: opcode, buf: make([]byte, 0, 64)}
}

// WriteC writes 1 byte.
func (w *Writer) WriteC(v byte) {
	w.buf = append(w.buf, v)
}

// WriteH writes 2 bytes little-endian.
func (w *Writer) WriteH(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteD writes 4 bytes little-endian.
func (w *Writer) WriteD(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteQ writes 8 bytes little-endian.
func (w *Writer) WriteQ(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteF writes a float32 little-endian.
func (w *Writer) WriteF(v float32) {
	w.WriteD(math.Float32bits(v))
}

// WriteS writes a length-prefixed (u16) string, converting UTF-8 to EUC-KR.
func (w *Writer) WriteS(s string) {
	encoded, err := korean.EUCKR.NewEncoder().Bytes([]byte(s))
	if err != nil {
		// Fallback: raw bytes (correct for pure ASCII)
		encoded = []byte(s)
	}
	w.WriteH(uint16(len(encoded)))
	w.buf = append(w.buf, encoded...)
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// Packet returns the finished frame content.
func (w *Writer) Packet() Raw {
	return Raw{Opcode: w.opcode, Data: w.buf}
}

// Len returns the current payload length.
func (w *Writer) Len() int {
	return len(w.buf)
}
