package tx

import "fmt"

// Compact-u16 is the variable-length unsigned integer encoding used to prefix
// arrays in the wire format. It is not a general varint: values are capped at
// 16 bits, so an encoding is at most 3 bytes.
//
//	0..127       1 byte
//	128..16383   2 bytes (7 low bits + continuation, then the remaining 7)
//	16384..      3 bytes

// AppendCompactU16 appends the compact-u16 encoding of v to buf
func AppendCompactU16(buf []byte, v uint16) []byte {
	switch {
	case v < 0x80:
		return append(buf, byte(v))
	case v < 0x4000:
		return append(buf, byte(v&0x7F)|0x80, byte(v>>7))
	default:
		return append(buf, byte(v&0x7F)|0x80, byte((v>>7)&0x7F)|0x80, byte(v>>14))
	}
}

// DecodeCompactU16 reads a compact-u16 from the front of buf, returning the
// value and the number of bytes consumed.
func DecodeCompactU16(buf []byte) (uint16, int, error) {
	var v uint32
	for i := 0; i < 3; i++ {
		if i >= len(buf) {
			return 0, 0, fmt.Errorf("%w: truncated compact-u16", ErrBuildError)
		}
		b := buf[i]
		if i == 2 {
			// the third byte carries the remaining bits raw, no continuation flag
			v |= uint32(b) << 14
			if v > 0xFFFF {
				return 0, 0, fmt.Errorf("%w: compact-u16 out of range", ErrBuildError)
			}
			return uint16(v), 3, nil
		}
		v |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return uint16(v), i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: malformed compact-u16", ErrBuildError)
}
