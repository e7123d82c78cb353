package midifile

import (
	"errors"
	"io"
)

// MaxVLQ is the largest value a variable-length quantity can hold in the
// four bytes a Standard MIDI File allows.
const MaxVLQ = 0x0FFFFFFF

var ErrVLQTooLong = errors.New("midifile: variable-length quantity longer than 4 bytes")

// AppendVLQ appends the variable-length encoding of v to b. Values above
// MaxVLQ are truncated to their low 28 bits.
func AppendVLQ(b []byte, v uint32) []byte {
	v &= MaxVLQ
	var buf [4]byte
	i := len(buf) - 1
	buf[i] = byte(v & 0x7F)
	for v >>= 7; v > 0; v >>= 7 {
		i--
		buf[i] = byte(v&0x7F) | 0x80
	}
	return append(b, buf[i:]...)
}

// ReadVLQ decodes a variable-length quantity from the beginning of b and
// returns it with the number of bytes read. A fourth byte that still has the
// continuation bit set gives ErrVLQTooLong; running out of bytes gives
// io.ErrUnexpectedEOF.
func ReadVLQ(b []byte) (v uint32, n int, err error) {
	for i := 0; i < 4; i++ {
		if i >= len(b) {
			return 0, i, io.ErrUnexpectedEOF
		}
		c := b[i]
		v = v<<7 | uint32(c&0x7F)
		if c&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 4, ErrVLQTooLong
}
