// Package blob implements the byte cursor used by every metadata decoder,
// together with ECMA-335 compressed integer encoding (Partition II, 23.2).
//
// A compressed unsigned integer occupies 1, 2 or 4 bytes; the top bits of
// the first byte select the width:
//
//	0xxxxxxx                    0x00 .. 0x7F
//	10xxxxxx xxxxxxxx           0x80 .. 0x3FFF
//	110xxxxx xxxxxxxx x.. x..   0x4000 .. 0x1FFFFFFF
//
// Any other lead byte is a malformed-binary error. Signed integers rotate
// the sign into the low bit before compressing.
//
// All fixed-width reads are little-endian. Reads past the end of the blob
// fail with a malformed-binary error wrapping io.ErrUnexpectedEOF.
package blob
