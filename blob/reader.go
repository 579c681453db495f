package blob

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/decompiler/errors"
)

// Reader is a forward-only cursor over a borrowed byte slice.
// Reader values are cheap to copy; a copy is an independent cursor over
// the same bytes.
type Reader struct {
	data []byte
	pos  int
	base int
}

// NewReader creates a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// NewReaderAt creates a Reader whose error offsets are reported relative to
// base, for blobs that live inside a larger heap or image.
func NewReaderAt(data []byte, base int) *Reader {
	return &Reader{data: data, base: base}
}

// Offset returns the current position relative to the start of the blob.
func (r *Reader) Offset() int {
	return r.pos
}

// AbsoluteOffset returns the current position including the reader's base.
func (r *Reader) AbsoluteOffset() int {
	return r.base + r.pos
}

// Len returns the total length of the blob.
func (r *Reader) Len() int {
	return len(r.data)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Bytes returns the unread bytes without copying.
func (r *Reader) Bytes() []byte {
	return r.data[r.pos:]
}

// Seek moves the cursor to an offset inside the blob.
func (r *Reader) Seek(off int) error {
	if off < 0 || off > len(r.data) {
		return errors.New(errors.PhaseBlob, errors.KindOutOfBounds).
			Offset(r.base + off).
			Detail("seek to %d outside blob of length %d", off, len(r.data)).
			Build()
	}
	r.pos = off
	return nil
}

// Slice returns a reader over n bytes starting at the current position and
// advances past them.
func (r *Reader) Slice(n int) (*Reader, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	sub := &Reader{data: r.data[r.pos : r.pos+n], base: r.base + r.pos}
	r.pos += n
	return sub, nil
}

func (r *Reader) need(n int) error {
	if n < 0 || r.Remaining() < n {
		return errors.Truncated(errors.PhaseBlob, r.base+r.pos, n, r.Remaining())
	}
	return nil
}

// PeekByte returns the next byte without advancing.
func (r *Reader) PeekByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	return r.data[r.pos], nil
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes. The result aliases the blob.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadInt8 reads a signed byte.
func (r *Reader) ReadInt8() (int8, error) {
	b, err := r.ReadByte()
	return int8(b), err
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint64 reads a little-endian uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadInt32 reads a little-endian int32.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads a little-endian int64.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadFloat32 reads an IEEE 754 single.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads an IEEE 754 double.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadCompressedUint32 reads an ECMA-335 compressed unsigned integer.
func (r *Reader) ReadCompressedUint32() (uint32, error) {
	v, n, err := decodeCompressedUint32(r.data[r.pos:], r.base+r.pos)
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

// ReadCompressedInt32 reads an ECMA-335 compressed signed integer.
func (r *Reader) ReadCompressedInt32() (int32, error) {
	v, n, err := decodeCompressedInt32(r.data[r.pos:], r.base+r.pos)
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}
