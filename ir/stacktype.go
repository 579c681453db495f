package ir

import (
	"github.com/wippyai/decompiler/signature"
)

// StackType is a coarse evaluation stack category. Only equality is
// meaningful.
type StackType byte

// Stack types
const (
	StackUnknown StackType = iota
	StackI4                // 32-bit integer
	StackI8                // 64-bit integer
	StackI                 // native-size integer
	StackF                 // floating point
	StackO                 // objects, value types, function pointers
	StackRef               // managed pointer
	StackVoid              // no stack slot
)

var stackTypeNames = [...]string{"unknown", "i4", "i8", "i", "f", "o", "ref", "void"}

func (s StackType) String() string {
	if int(s) < len(stackTypeNames) {
		return stackTypeNames[s]
	}
	return "invalid"
}

// ParseStackType is the inverse of StackType.String.
func ParseStackType(s string) (StackType, bool) {
	for k, name := range stackTypeNames {
		if name == s {
			return StackType(k), true
		}
	}
	return StackUnknown, false
}

// StackTypeOf classifies a signature type code. Codes outside the integer,
// float, pointer, by-ref and void families are O.
func StackTypeOf(code signature.TypeCode) StackType {
	switch code {
	case signature.CodeBoolean, signature.CodeChar,
		signature.CodeSByte, signature.CodeByte,
		signature.CodeInt16, signature.CodeUInt16,
		signature.CodeInt32, signature.CodeUInt32:
		return StackI4
	case signature.CodeInt64, signature.CodeUInt64:
		return StackI8
	case signature.CodeIntPtr, signature.CodeUIntPtr, signature.CodePointer:
		return StackI
	case signature.CodeSingle, signature.CodeDouble:
		return StackF
	case signature.CodeByReference:
		return StackRef
	case signature.CodeVoid:
		return StackVoid
	default:
		return StackO
	}
}

// StackTypeOfSignature classifies a decoded type after stripping custom
// modifiers and the pinned wrapper of a local. A nil type is Unknown.
func StackTypeOfSignature(t signature.Type) StackType {
	for {
		switch v := t.(type) {
		case nil:
			return StackUnknown
		case *signature.Modified:
			t = v.Elem
		case *signature.Pinned:
			t = v.Elem
		default:
			return StackTypeOf(t.TypeCode())
		}
	}
}

// StackTypes classifies every element of a collection. The sentinel does
// not occupy a slot.
func StackTypes(c signature.Collection) []StackType {
	out := make([]StackType, 0, c.Count())
	_ = c.Each(func(_ int, t signature.Type) error {
		out = append(out, StackTypeOfSignature(t))
		return nil
	})
	return out
}

// PrimitiveType is the target of a conversion. Values are the matching
// signature type codes.
type PrimitiveType byte

// Primitive types
const (
	PrimNone PrimitiveType = PrimitiveType(signature.CodeInvalid)
	PrimI1   PrimitiveType = PrimitiveType(signature.CodeSByte)
	PrimI2   PrimitiveType = PrimitiveType(signature.CodeInt16)
	PrimI4   PrimitiveType = PrimitiveType(signature.CodeInt32)
	PrimI8   PrimitiveType = PrimitiveType(signature.CodeInt64)
	PrimR4   PrimitiveType = PrimitiveType(signature.CodeSingle)
	PrimR8   PrimitiveType = PrimitiveType(signature.CodeDouble)
	PrimU1   PrimitiveType = PrimitiveType(signature.CodeByte)
	PrimU2   PrimitiveType = PrimitiveType(signature.CodeUInt16)
	PrimU4   PrimitiveType = PrimitiveType(signature.CodeUInt32)
	PrimU8   PrimitiveType = PrimitiveType(signature.CodeUInt64)
	PrimI    PrimitiveType = PrimitiveType(signature.CodeIntPtr)
	PrimU    PrimitiveType = PrimitiveType(signature.CodeUIntPtr)
)

var primitiveTypeNames = map[PrimitiveType]string{
	PrimNone: "none",
	PrimI1:   "i1",
	PrimI2:   "i2",
	PrimI4:   "i4",
	PrimI8:   "i8",
	PrimR4:   "r4",
	PrimR8:   "r8",
	PrimU1:   "u1",
	PrimU2:   "u2",
	PrimU4:   "u4",
	PrimU8:   "u8",
	PrimI:    "i",
	PrimU:    "u",
}

// TypeCode returns the signature type code p stands for.
func (p PrimitiveType) TypeCode() signature.TypeCode {
	return signature.TypeCode(p)
}

// StackType returns the stack category a value of type p occupies.
func (p PrimitiveType) StackType() StackType {
	return StackTypeOf(p.TypeCode())
}

func (p PrimitiveType) String() string {
	if name, ok := primitiveTypeNames[p]; ok {
		return name
	}
	return "invalid"
}

// OverflowMode selects checked and unsigned behavior of arithmetic and
// conversions.
type OverflowMode byte

// Overflow modes
const (
	OverflowNone  OverflowMode = 0 // unchecked, signed
	OverflowOvf   OverflowMode = 1 // checked, signed
	OverflowUn    OverflowMode = 2 // unchecked, unsigned
	OverflowOvfUn OverflowMode = 3 // checked, unsigned
)

// Checked reports whether overflow raises an exception.
func (m OverflowMode) Checked() bool { return m&OverflowOvf != 0 }

// Unsigned reports whether operands are treated as unsigned.
func (m OverflowMode) Unsigned() bool { return m&OverflowUn != 0 }

// String returns the IL suffix for the mode, such as ".ovf.un".
func (m OverflowMode) String() string {
	s := ""
	if m.Checked() {
		s += ".ovf"
	}
	if m.Unsigned() {
		s += ".un"
	}
	return s
}
