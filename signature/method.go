package signature

import (
	"strconv"
	"strings"

	"github.com/wippyai/decompiler/blob"
	"github.com/wippyai/decompiler/errors"
)

// Method is a decoded method signature. It holds no reference to the blob
// it was decoded from.
type Method struct {
	ReturnType        Type
	Params            Collection
	GenericParamCount uint32
	Header            Header
}

// CallingConvention returns the calling convention from the header.
func (m *Method) CallingConvention() CallingConvention { return m.Header.CallingConvention() }

// HasThis reports whether the method has an implicit this argument.
func (m *Method) HasThis() bool { return m.Header.HasThis() }

// ExplicitThis reports whether this is the first declared parameter.
func (m *Method) ExplicitThis() bool { return m.Header.ExplicitThis() }

// IsGeneric reports whether the method declares generic parameters.
func (m *Method) IsGeneric() bool { return m.Header.IsGeneric() }

// IsVarArg reports whether the method uses the vararg calling convention.
func (m *Method) IsVarArg() bool { return m.CallingConvention() == ConvVarArg }

// ArgumentCount is the number of stack slots a call consumes for arguments,
// including an implicit this.
func (m *Method) ArgumentCount() int {
	n := m.Params.Count()
	if m.HasThis() && !m.ExplicitThis() {
		n++
	}
	return n
}

func (m *Method) String() string {
	var b strings.Builder
	m.format(&b, "")
	return b.String()
}

func (m *Method) format(b *strings.Builder, name string) {
	if m.HasThis() {
		b.WriteString("instance ")
	}
	if m.ExplicitThis() {
		b.WriteString("explicit ")
	}
	if cc := m.CallingConvention(); cc != ConvDefault {
		b.WriteString(cc.String())
		b.WriteByte(' ')
	}
	if m.ReturnType != nil {
		b.WriteString(m.ReturnType.String())
	}
	b.WriteByte(' ')
	b.WriteString(name)
	if m.IsGeneric() {
		b.WriteString("<[")
		b.WriteString(strconv.FormatUint(uint64(m.GenericParamCount), 10))
		b.WriteString("]>")
	}
	b.WriteByte('(')
	b.WriteString(m.Params.joined(", "))
	b.WriteByte(')')
}

// DecodeMethod decodes a method signature: header, optional generic
// parameter count, parameter count, return type and parameters.
func DecodeMethod(r *blob.Reader) (*Method, error) {
	return decodeMethod(r, 0)
}

// DecodeMethodBytes decodes a method signature from a standalone blob.
func DecodeMethodBytes(b []byte) (*Method, error) {
	return DecodeMethod(blob.NewReader(b))
}

func decodeMethod(r *blob.Reader, depth int) (*Method, error) {
	if depth > MaxDepth {
		return nil, tooDeep(r)
	}

	// The header is data. Property signatures share the method layout and
	// decode here as well.
	hb, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	m := &Method{Header: Header(hb)}
	if m.Header.IsGeneric() {
		if m.GenericParamCount, err = r.ReadCompressedUint32(); err != nil {
			return nil, err
		}
	}

	count, err := r.ReadCompressedUint32()
	if err != nil {
		return nil, err
	}

	if m.ReturnType, err = decodeType(r, depth+1); err != nil {
		return nil, err
	}

	if m.Params, err = decodeCollection(r, count, depth+1); err != nil {
		return nil, err
	}

	return m, nil
}

// DecodeLocals decodes a LocalVarSig: the 0x07 header, a count and that
// many local variable types.
func DecodeLocals(r *blob.Reader) (Collection, error) {
	off := r.AbsoluteOffset()
	hb, err := r.ReadByte()
	if err != nil {
		return Collection{}, err
	}
	if KindOf(hb) != KindLocalVariables || hb&^byte(headerKindMask) != 0 {
		return Collection{}, errors.Malformed(errors.PhaseSignature, off,
			"invalid local variable signature header 0x%02x", hb)
	}

	count, err := r.ReadCompressedUint32()
	if err != nil {
		return Collection{}, err
	}
	return decodeCollection(r, count, 0)
}

// DecodeField decodes a FieldSig: the 0x06 header followed by a type.
func DecodeField(r *blob.Reader) (Type, error) {
	off := r.AbsoluteOffset()
	hb, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if KindOf(hb) != KindField || hb&^byte(headerKindMask) != 0 {
		return nil, errors.Malformed(errors.PhaseSignature, off,
			"invalid field signature header 0x%02x", hb)
	}
	return DecodeType(r)
}
