package signature

import (
	"github.com/wippyai/decompiler/blob"
	"github.com/wippyai/decompiler/errors"
	"github.com/wippyai/decompiler/handle"
)

// MaxDepth bounds the nesting of type and method signatures.
const MaxDepth = 64

// DecodeType decodes one type signature and leaves r positioned exactly
// after it.
func DecodeType(r *blob.Reader) (Type, error) {
	return decodeType(r, 0)
}

// DecodeTypeBytes decodes a type signature from the start of b and returns
// the number of bytes it occupies.
func DecodeTypeBytes(b []byte) (Type, int, error) {
	r := blob.NewReader(b)
	t, err := DecodeType(r)
	if err != nil {
		return nil, 0, err
	}
	return t, r.Offset(), nil
}

// SkipModifiers consumes any leading custom modifiers and decodes the
// first unmodified type.
func SkipModifiers(r *blob.Reader) (Type, error) {
	for {
		b, err := r.PeekByte()
		if err != nil {
			return nil, err
		}
		if !TypeCode(b).IsModifier() {
			break
		}
		_, _ = r.ReadByte()
		if _, err := readTypeHandle(r); err != nil {
			return nil, err
		}
	}
	return DecodeType(r)
}

func readTypeHandle(r *blob.Reader) (handle.Handle, error) {
	off := r.AbsoluteOffset()
	v, err := r.ReadCompressedUint32()
	if err != nil {
		return 0, err
	}
	h, err := handle.DecodeTypeDefOrRefOrSpec(v)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			e.Offset = off
		}
		return 0, err
	}
	return h, nil
}

func tooDeep(r *blob.Reader) error {
	return errors.Malformed(errors.PhaseSignature, r.AbsoluteOffset(),
		"signature nesting exceeds %d levels", MaxDepth)
}

func decodeType(r *blob.Reader, depth int) (Type, error) {
	if depth > MaxDepth {
		return nil, tooDeep(r)
	}

	start := r.AbsoluteOffset()
	b, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	code := TypeCode(b)
	switch code {
	case CodeVoid, CodeBoolean, CodeChar, CodeSByte, CodeByte, CodeInt16, CodeUInt16,
		CodeInt32, CodeUInt32, CodeInt64, CodeUInt64, CodeSingle, CodeDouble, CodeString,
		CodeTypedReference, CodeIntPtr, CodeUIntPtr, CodeObject, CodeSentinel:
		return &Primitive{Code: code}, nil

	case CodePointer, CodeByReference, CodePinned, CodeSZArray:
		elem, err := decodeType(r, depth+1)
		if err != nil {
			return nil, err
		}
		switch code {
		case CodePointer:
			return &Pointer{Elem: elem}, nil
		case CodeByReference:
			return &ByReference{Elem: elem}, nil
		case CodePinned:
			return &Pinned{Elem: elem}, nil
		default:
			return &SZArray{Elem: elem}, nil
		}

	case CodeGenericTypeParameter, CodeGenericMethodParameter:
		idx, err := r.ReadCompressedUint32()
		if err != nil {
			return nil, err
		}
		if code == CodeGenericTypeParameter {
			return &GenericParameter{Index: idx}, nil
		}
		return &GenericMethodParameter{Index: idx}, nil

	case CodeGenericTypeInstance:
		return decodeGenericInstance(r, depth)

	case CodeFunctionPointer:
		m, err := decodeMethod(r, depth+1)
		if err != nil {
			return nil, err
		}
		return &FunctionPointer{Method: m}, nil

	case CodeArray:
		return decodeArray(r, depth)

	case CodeRequiredModifier, CodeOptionalModifier:
		mod, err := readTypeHandle(r)
		if err != nil {
			return nil, err
		}
		elem, err := decodeType(r, depth+1)
		if err != nil {
			return nil, err
		}
		return &Modified{Modifier: mod, Required: code == CodeRequiredModifier, Elem: elem}, nil

	case CodeClass, CodeValueType:
		h, err := readTypeHandle(r)
		if err != nil {
			return nil, err
		}
		return &TypeHandle{Handle: h, IsValueType: code == CodeValueType}, nil
	}

	return nil, errors.New(errors.PhaseSignature, errors.KindMalformed).
		Offset(start).
		Value(b).
		Detail("invalid type signature code 0x%02x", b).
		Build()
}

func decodeGenericInstance(r *blob.Reader, depth int) (Type, error) {
	kind, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	generic, err := readTypeHandle(r)
	if err != nil {
		return nil, err
	}

	arity, err := r.ReadCompressedUint32()
	if err != nil {
		return nil, err
	}

	args := make([]Type, 0, boundedCap(arity, r))
	for i := uint32(0); i < arity; i++ {
		argOff := r.AbsoluteOffset()
		arg, err := decodeType(r, depth+1)
		if err != nil {
			return nil, err
		}
		if IsSentinel(arg) {
			return nil, errors.Malformed(errors.PhaseSignature, argOff,
				"sentinel in generic argument list")
		}
		args = append(args, arg)
	}

	return &GenericInstance{
		Kind:        TypeCode(kind),
		IsValueType: TypeCode(kind) == CodeValueType,
		Generic:     generic,
		Args:        args,
	}, nil
}

func decodeArray(r *blob.Reader, depth int) (Type, error) {
	elem, err := decodeType(r, depth+1)
	if err != nil {
		return nil, err
	}

	rank, err := r.ReadCompressedUint32()
	if err != nil {
		return nil, err
	}

	numSizes, err := r.ReadCompressedUint32()
	if err != nil {
		return nil, err
	}
	sizes := make([]uint32, 0, boundedCap(numSizes, r))
	for i := uint32(0); i < numSizes; i++ {
		v, err := r.ReadCompressedUint32()
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, v)
	}

	numBounds, err := r.ReadCompressedUint32()
	if err != nil {
		return nil, err
	}
	bounds := make([]int32, 0, boundedCap(numBounds, r))
	for i := uint32(0); i < numBounds; i++ {
		v, err := r.ReadCompressedInt32()
		if err != nil {
			return nil, err
		}
		bounds = append(bounds, v)
	}

	return &Array{Elem: elem, Rank: rank, Sizes: sizes, LowerBounds: bounds}, nil
}

// boundedCap limits preallocation by the bytes left, since every encoded
// element takes at least one byte.
func boundedCap(n uint32, r *blob.Reader) int {
	if rem := r.Remaining(); int64(n) > int64(rem) {
		return rem
	}
	return int(n)
}
