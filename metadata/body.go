package metadata

import (
	"github.com/wippyai/decompiler/blob"
	"github.com/wippyai/decompiler/errors"
	"github.com/wippyai/decompiler/handle"
	"github.com/wippyai/decompiler/ir"
)

// Method body header and section flags (ECMA-335 II.25.4).
const (
	headerFormatMask = 0x03
	headerTiny       = 0x02
	headerFat        = 0x03
	headerMoreSects  = 0x08
	headerInitLocals = 0x10
	fatHeaderDwords  = 3

	sectEHTable    = 0x01
	sectFatFormat  = 0x40
	sectMoreSects  = 0x80
	smallClauseLen = 12
	fatClauseLen   = 24

	tinyMaxStack = 8
)

// MethodBody is a parsed method body.
type MethodBody struct {
	// IL aliases the bytes the body was parsed from.
	IL []byte
	// LocalSignature is the StandAloneSig token of the locals, or nil.
	LocalSignature   handle.Handle
	ExceptionRegions []ir.ExceptionRegion
	MaxStack         int
	// Size is the number of bytes the header, code and sections occupy.
	Size       int
	InitLocals bool
}

// ParseMethodBody parses a tiny or fat method body, including exception
// handling sections. b starts at the body's RVA.
func ParseMethodBody(b []byte) (*MethodBody, error) {
	r := blob.NewReader(b)
	first, err := r.PeekByte()
	if err != nil {
		return nil, bodyError(err, "read header")
	}

	switch first & headerFormatMask {
	case headerTiny:
		_, _ = r.ReadByte()
		n := int(first >> 2)
		code, err := r.ReadBytes(n)
		if err != nil {
			return nil, bodyError(err, "tiny body code")
		}
		return &MethodBody{IL: code, MaxStack: tinyMaxStack, Size: 1 + n}, nil
	case headerFat:
		return parseFat(r)
	}
	return nil, errors.Malformed(errors.PhaseBody, 0, "invalid method header format 0x%x", first&headerFormatMask)
}

func parseFat(r *blob.Reader) (*MethodBody, error) {
	flags, err := r.ReadUint16()
	if err != nil {
		return nil, bodyError(err, "fat header")
	}
	if n := flags >> 12; n != fatHeaderDwords {
		return nil, errors.Malformed(errors.PhaseBody, 0, "fat header size %d dwords, want %d", n, fatHeaderDwords)
	}
	maxStack, err := r.ReadUint16()
	if err != nil {
		return nil, bodyError(err, "max stack")
	}
	codeSize, err := r.ReadUint32()
	if err != nil {
		return nil, bodyError(err, "code size")
	}
	localSig, err := r.ReadUint32()
	if err != nil {
		return nil, bodyError(err, "local signature token")
	}
	if uint64(codeSize) > uint64(r.Remaining()) {
		return nil, errors.New(errors.PhaseBody, errors.KindMalformed).
			Offset(r.Offset()).
			Value(codeSize).
			Detail("code size %d exceeds the %d bytes left in the body", codeSize, r.Remaining()).
			Build()
	}
	code, _ := r.ReadBytes(int(codeSize))

	body := &MethodBody{
		IL:             code,
		LocalSignature: handle.Handle(localSig),
		MaxStack:       int(maxStack),
		InitLocals:     flags&headerInitLocals != 0,
	}

	more := flags&headerMoreSects != 0
	for more {
		if err := r.Seek(align4(r.Offset())); err != nil {
			return nil, bodyError(err, "section alignment")
		}
		more, err = parseSection(r, body)
		if err != nil {
			return nil, err
		}
	}
	body.Size = r.Offset()
	return body, nil
}

func align4(n int) int {
	return (n + 3) &^ 3
}

// parseSection reads one data section and reports whether another follows.
func parseSection(r *blob.Reader, body *MethodBody) (bool, error) {
	start := r.Offset()
	kind, err := r.ReadByte()
	if err != nil {
		return false, bodyError(err, "section kind")
	}

	var size int
	if kind&sectFatFormat != 0 {
		b, err := r.ReadBytes(3)
		if err != nil {
			return false, bodyError(err, "fat section size")
		}
		size = int(b[0]) | int(b[1])<<8 | int(b[2])<<16
	} else {
		b, err := r.ReadBytes(3)
		if err != nil {
			return false, bodyError(err, "small section size")
		}
		size = int(b[0])
	}
	if size < 4 || size-4 > r.Remaining() {
		return false, errors.Malformed(errors.PhaseBody, start, "section size %d out of range", size)
	}

	data, err := r.Slice(size - 4)
	if err != nil {
		return false, bodyError(err, "section data")
	}
	if kind&sectEHTable == 0 {
		// other section kinds carry nothing we use
		return kind&sectMoreSects != 0, nil
	}

	clauseLen := smallClauseLen
	if kind&sectFatFormat != 0 {
		clauseLen = fatClauseLen
	}
	if (size-4)%clauseLen != 0 {
		return false, errors.Malformed(errors.PhaseBody, start, "EH section of %d bytes is not a multiple of %d", size-4, clauseLen)
	}

	for data.Remaining() > 0 {
		var region ir.ExceptionRegion
		if clauseLen == fatClauseLen {
			region, err = readFatClause(data)
		} else {
			region, err = readSmallClause(data)
		}
		if err != nil {
			return false, bodyError(err, "exception clause")
		}
		body.ExceptionRegions = append(body.ExceptionRegions, region)
	}
	return kind&sectMoreSects != 0, nil
}

func readSmallClause(r *blob.Reader) (ir.ExceptionRegion, error) {
	var c ir.ExceptionRegion
	flags, _ := r.ReadUint16()
	tryOff, _ := r.ReadUint16()
	tryLen, _ := r.ReadByte()
	hOff, _ := r.ReadUint16()
	hLen, _ := r.ReadByte()
	extra, err := r.ReadUint32()
	if err != nil {
		return c, err
	}
	c = ir.ExceptionRegion{
		Kind:          ir.HandlerKind(flags),
		TryOffset:     int(tryOff),
		TryLength:     int(tryLen),
		HandlerOffset: int(hOff),
		HandlerLength: int(hLen),
	}
	setClauseExtra(&c, extra)
	return c, nil
}

func readFatClause(r *blob.Reader) (ir.ExceptionRegion, error) {
	var c ir.ExceptionRegion
	var v [6]uint32
	for k := range v {
		n, err := r.ReadUint32()
		if err != nil {
			return c, err
		}
		v[k] = n
	}
	c = ir.ExceptionRegion{
		Kind:          ir.HandlerKind(v[0]),
		TryOffset:     int(v[1]),
		TryLength:     int(v[2]),
		HandlerOffset: int(v[3]),
		HandlerLength: int(v[4]),
	}
	setClauseExtra(&c, v[5])
	return c, nil
}

func setClauseExtra(c *ir.ExceptionRegion, extra uint32) {
	switch c.Kind {
	case ir.HandlerCatch:
		c.CatchType = handle.Handle(extra)
	case ir.HandlerFilter:
		c.FilterOffset = int(extra)
	}
}

func bodyError(err error, what string) error {
	return errors.Wrap(errors.PhaseBody, errors.KindMalformed, err, what)
}
