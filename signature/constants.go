package signature

import "strconv"

// TypeCode is the leading byte of an encoded type (ECMA-335 II.23.1.16).
type TypeCode byte

// Type codes
const (
	CodeInvalid                TypeCode = 0x00
	CodeVoid                   TypeCode = 0x01
	CodeBoolean                TypeCode = 0x02
	CodeChar                   TypeCode = 0x03
	CodeSByte                  TypeCode = 0x04 // int8
	CodeByte                   TypeCode = 0x05 // uint8
	CodeInt16                  TypeCode = 0x06
	CodeUInt16                 TypeCode = 0x07
	CodeInt32                  TypeCode = 0x08
	CodeUInt32                 TypeCode = 0x09
	CodeInt64                  TypeCode = 0x0A
	CodeUInt64                 TypeCode = 0x0B
	CodeSingle                 TypeCode = 0x0C // float32
	CodeDouble                 TypeCode = 0x0D // float64
	CodeString                 TypeCode = 0x0E
	CodePointer                TypeCode = 0x0F // followed by type
	CodeByReference            TypeCode = 0x10 // followed by type
	CodeValueType              TypeCode = 0x11 // followed by TypeDefOrRefOrSpecEncoded
	CodeClass                  TypeCode = 0x12 // followed by TypeDefOrRefOrSpecEncoded
	CodeGenericTypeParameter   TypeCode = 0x13 // followed by ordinal
	CodeArray                  TypeCode = 0x14 // type rank sizes lobounds
	CodeGenericTypeInstance    TypeCode = 0x15 // kind handle arity args
	CodeTypedReference         TypeCode = 0x16
	CodeIntPtr                 TypeCode = 0x18 // native int
	CodeUIntPtr                TypeCode = 0x19 // native unsigned int
	CodeFunctionPointer        TypeCode = 0x1B // followed by method signature
	CodeObject                 TypeCode = 0x1C
	CodeSZArray                TypeCode = 0x1D // single-dim zero-based array
	CodeGenericMethodParameter TypeCode = 0x1E // followed by ordinal
	CodeRequiredModifier       TypeCode = 0x1F // modreq handle type
	CodeOptionalModifier       TypeCode = 0x20 // modopt handle type
	CodeTypeHandle             TypeCode = 0x40 // decoded class or valuetype reference
	CodeSentinel               TypeCode = 0x41 // start of vararg parameters
	CodePinned                 TypeCode = 0x45 // followed by type, locals only
)

var primitiveNames = map[TypeCode]string{
	CodeVoid:           "void",
	CodeBoolean:        "bool",
	CodeChar:           "char",
	CodeSByte:          "int8",
	CodeByte:           "uint8",
	CodeInt16:          "int16",
	CodeUInt16:         "uint16",
	CodeInt32:          "int32",
	CodeUInt32:         "uint32",
	CodeInt64:          "int64",
	CodeUInt64:         "uint64",
	CodeSingle:         "float32",
	CodeDouble:         "float64",
	CodeString:         "string",
	CodeTypedReference: "typedref",
	CodeIntPtr:         "native int",
	CodeUIntPtr:        "native unsigned int",
	CodeObject:         "object",
	CodeSentinel:       "...",
}

// IsPrimitive reports whether the code is a complete type on its own.
func (c TypeCode) IsPrimitive() bool {
	_, ok := primitiveNames[c]
	return ok
}

// IsModifier reports whether the code introduces a custom modifier.
func (c TypeCode) IsModifier() bool {
	return c == CodeRequiredModifier || c == CodeOptionalModifier
}

func (c TypeCode) String() string {
	if name, ok := primitiveNames[c]; ok {
		return name
	}
	switch c {
	case CodePointer:
		return "ptr"
	case CodeByReference:
		return "byref"
	case CodeValueType:
		return "valuetype"
	case CodeClass:
		return "class"
	case CodeGenericTypeParameter:
		return "var"
	case CodeArray:
		return "array"
	case CodeGenericTypeInstance:
		return "genericinst"
	case CodeFunctionPointer:
		return "fnptr"
	case CodeSZArray:
		return "szarray"
	case CodeGenericMethodParameter:
		return "mvar"
	case CodeRequiredModifier:
		return "modreq"
	case CodeOptionalModifier:
		return "modopt"
	case CodeTypeHandle:
		return "typehandle"
	case CodePinned:
		return "pinned"
	}
	return "invalid"
}

// Header is the first byte of a method, field, property or locals signature.
type Header byte

// Header flag bits
const (
	HeaderGeneric      Header = 0x10
	HeaderHasThis      Header = 0x20
	HeaderExplicitThis Header = 0x40

	headerKindMask Header = 0x0F
)

// CallingConvention is the low nibble of a method signature header.
type CallingConvention byte

// Calling conventions
const (
	ConvDefault    CallingConvention = 0x0
	ConvC          CallingConvention = 0x1
	ConvStdCall    CallingConvention = 0x2
	ConvThisCall   CallingConvention = 0x3
	ConvFastCall   CallingConvention = 0x4
	ConvVarArg     CallingConvention = 0x5
	ConvUnmanaged  CallingConvention = 0x9
	convKindField  CallingConvention = 0x6
	convKindLocals CallingConvention = 0x7
	convKindProp   CallingConvention = 0x8
	convKindSpec   CallingConvention = 0xA
)

func (c CallingConvention) String() string {
	switch c {
	case ConvDefault:
		return "default"
	case ConvC:
		return "unmanaged cdecl"
	case ConvStdCall:
		return "unmanaged stdcall"
	case ConvThisCall:
		return "unmanaged thiscall"
	case ConvFastCall:
		return "unmanaged fastcall"
	case ConvVarArg:
		return "vararg"
	case ConvUnmanaged:
		return "unmanaged"
	case convKindProp:
		return "property"
	}
	return "callconv(" + strconv.Itoa(int(c)) + ")"
}

// Kind classifies what a signature blob describes.
type Kind byte

// Signature kinds
const (
	KindInvalid Kind = iota
	KindMethod
	KindField
	KindLocalVariables
	KindProperty
	KindMethodSpecification
)

func (k Kind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	case KindLocalVariables:
		return "locals"
	case KindProperty:
		return "property"
	case KindMethodSpecification:
		return "methodspec"
	}
	return "invalid"
}

// KindOf classifies a signature by its header byte.
func KindOf(b byte) Kind {
	switch CallingConvention(Header(b) & headerKindMask) {
	case ConvDefault, ConvC, ConvStdCall, ConvThisCall, ConvFastCall, ConvVarArg, ConvUnmanaged:
		return KindMethod
	case convKindField:
		return KindField
	case convKindLocals:
		return KindLocalVariables
	case convKindProp:
		return KindProperty
	case convKindSpec:
		return KindMethodSpecification
	}
	return KindInvalid
}

// CallingConvention returns the low nibble of the header.
func (h Header) CallingConvention() CallingConvention {
	return CallingConvention(h & headerKindMask)
}

// IsGeneric reports whether a generic parameter count follows the header.
func (h Header) IsGeneric() bool { return h&HeaderGeneric != 0 }

// HasThis reports whether the method takes an implicit this argument.
func (h Header) HasThis() bool { return h&HeaderHasThis != 0 }

// ExplicitThis reports whether this is passed as the first declared parameter.
func (h Header) ExplicitThis() bool { return h&HeaderExplicitThis != 0 }
