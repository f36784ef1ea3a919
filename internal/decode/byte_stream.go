package decode

import "encoding/binary"

// ByteStream reads bytes sequentially from a byte slice.
//
// When the stream is exhausted, all reads return zero values, so the same
// input always produces the same sequence of values.
type ByteStream struct {
	bytes []byte
	pos   int
}

// NewByteStream creates a stream over the given bytes.
func NewByteStream(b []byte) *ByteStream {
	return &ByteStream{bytes: b}
}

// Remaining returns the number of unread bytes.
func (s *ByteStream) Remaining() int {
	return len(s.bytes) - s.pos
}

// NextByte returns the next byte, or 0 if exhausted.
func (s *ByteStream) NextByte() byte {
	if s.pos >= len(s.bytes) {
		return 0
	}

	v := s.bytes[s.pos]
	s.pos++

	return v
}

// NextUint64 reads 8 bytes as a little-endian uint64.
func (s *ByteStream) NextUint64() uint64 {
	var raw [8]byte
	for i := range raw {
		raw[i] = s.NextByte()
	}

	return binary.LittleEndian.Uint64(raw[:])
}
