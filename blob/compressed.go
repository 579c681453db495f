package blob

import (
	"github.com/wippyai/decompiler/errors"
)

// Compressed integer limits (ECMA-335 II.23.2).
const (
	MaxCompressedUint32 = 0x1FFFFFFF
	MaxCompressedInt32  = 1<<28 - 1
	MinCompressedInt32  = -(1 << 28)
)

// DecodeCompressedUint32 decodes an ECMA-335 compressed unsigned integer
// from the start of b. It returns the value and the number of bytes used.
func DecodeCompressedUint32(b []byte) (uint32, int, error) {
	return decodeCompressedUint32(b, 0)
}

func decodeCompressedUint32(b []byte, base int) (uint32, int, error) {
	if len(b) == 0 {
		return 0, 0, errors.Truncated(errors.PhaseBlob, base, 1, 0)
	}

	b0 := b[0]
	switch {
	case b0&0x80 == 0:
		return uint32(b0), 1, nil
	case b0&0xC0 == 0x80:
		if len(b) < 2 {
			return 0, 0, errors.Truncated(errors.PhaseBlob, base, 2, len(b))
		}
		return uint32(b0&0x3F)<<8 | uint32(b[1]), 2, nil
	case b0&0xE0 == 0xC0:
		if len(b) < 4 {
			return 0, 0, errors.Truncated(errors.PhaseBlob, base, 4, len(b))
		}
		return uint32(b0&0x1F)<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), 4, nil
	default:
		return 0, 0, errors.New(errors.PhaseBlob, errors.KindMalformed).
			Offset(base).
			Value(b0).
			Detail("invalid compressed integer lead byte 0x%02x", b0).
			Build()
	}
}

// DecodeCompressedInt32 decodes an ECMA-335 compressed signed integer.
// The sign bit is rotated into the least significant bit of the unsigned form.
func DecodeCompressedInt32(b []byte) (int32, int, error) {
	return decodeCompressedInt32(b, 0)
}

func decodeCompressedInt32(b []byte, base int) (int32, int, error) {
	u, n, err := decodeCompressedUint32(b, base)
	if err != nil {
		return 0, 0, err
	}

	v := int32(u >> 1)
	if u&1 == 0 {
		return v, n, nil
	}

	switch n {
	case 1:
		return v | -0x40, n, nil
	case 2:
		return v | -0x2000, n, nil
	default:
		return v | -0x10000000, n, nil
	}
}

// CompressedUint32Size returns the encoded width of v, or 0 if v cannot be encoded.
func CompressedUint32Size(v uint32) int {
	switch {
	case v <= 0x7F:
		return 1
	case v <= 0x3FFF:
		return 2
	case v <= MaxCompressedUint32:
		return 4
	default:
		return 0
	}
}

// EncodeCompressedUint32 encodes v in the ECMA-335 compressed form.
func EncodeCompressedUint32(v uint32) ([]byte, error) {
	switch CompressedUint32Size(v) {
	case 1:
		return []byte{byte(v)}, nil
	case 2:
		return []byte{0x80 | byte(v>>8), byte(v)}, nil
	case 4:
		return []byte{0xC0 | byte(v>>24), byte(v >> 16), byte(v >> 8), byte(v)}, nil
	default:
		return nil, errors.Overflow(errors.PhaseBlob, v, "compressed uint32")
	}
}

// EncodeCompressedInt32 encodes v in the ECMA-335 compressed signed form.
func EncodeCompressedInt32(v int32) ([]byte, error) {
	const (
		b6  int32 = 1<<6 - 1
		b13 int32 = 1<<13 - 1
		b28 int32 = 1<<28 - 1
	)

	sign := v >> 31
	switch {
	case v&^b6 == sign&^b6:
		n := (v&b6)<<1 | sign&1
		return []byte{byte(n)}, nil
	case v&^b13 == sign&^b13:
		n := uint16((v&b13)<<1|sign&1) | 0x8000
		return []byte{byte(n >> 8), byte(n)}, nil
	case v&^b28 == sign&^b28:
		n := uint32((v&b28)<<1|sign&1) | 0xC0000000
		return []byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}, nil
	default:
		return nil, errors.Overflow(errors.PhaseBlob, v, "compressed int32")
	}
}
