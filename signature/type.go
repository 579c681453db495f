package signature

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/decompiler/handle"
)

// Type is a decoded type signature. The set of implementations is closed;
// switch on the concrete pointer types to inspect one.
type Type interface {
	TypeCode() TypeCode
	String() string
	isType()
}

// Primitive is a type that carries only its type code: void, the integer
// and float widths, string, object, typedref, native ints and the vararg
// sentinel.
type Primitive struct {
	Code TypeCode
}

// Pointer is an unmanaged pointer to Elem.
type Pointer struct {
	Elem Type
}

// ByReference is a managed pointer to Elem.
type ByReference struct {
	Elem Type
}

// Pinned marks a local variable of type Elem as pinned.
type Pinned struct {
	Elem Type
}

// SZArray is a single-dimensional zero-based array.
type SZArray struct {
	Elem Type
}

// Array is a general array. Sizes and LowerBounds may be shorter than Rank;
// their lengths are not checked against it.
type Array struct {
	Elem        Type
	Sizes       []uint32
	LowerBounds []int32
	Rank        uint32
}

// GenericInstance is a generic type applied to type arguments. Kind is the
// discriminator byte as read; only CodeValueType sets IsValueType.
type GenericInstance struct {
	Args        []Type
	Generic     handle.Handle
	Kind        TypeCode
	IsValueType bool
}

// GenericParameter refers to a type-level generic parameter by ordinal.
type GenericParameter struct {
	Index uint32
}

// GenericMethodParameter refers to a method-level generic parameter by ordinal.
type GenericMethodParameter struct {
	Index uint32
}

// FunctionPointer embeds a full method signature.
type FunctionPointer struct {
	Method *Method
}

// Modified wraps Elem with a custom modifier.
type Modified struct {
	Elem     Type
	Modifier handle.Handle
	Required bool
}

// TypeHandle refers to a class or value type by handle. Both encodings
// report CodeTypeHandle.
type TypeHandle struct {
	Handle      handle.Handle
	IsValueType bool
}

func (*Primitive) isType()              {}
func (*Pointer) isType()                {}
func (*ByReference) isType()            {}
func (*Pinned) isType()                 {}
func (*SZArray) isType()                {}
func (*Array) isType()                  {}
func (*GenericInstance) isType()        {}
func (*GenericParameter) isType()       {}
func (*GenericMethodParameter) isType() {}
func (*FunctionPointer) isType()        {}
func (*Modified) isType()               {}
func (*TypeHandle) isType()             {}

func (t *Primitive) TypeCode() TypeCode            { return t.Code }
func (*Pointer) TypeCode() TypeCode                { return CodePointer }
func (*ByReference) TypeCode() TypeCode            { return CodeByReference }
func (*Pinned) TypeCode() TypeCode                 { return CodePinned }
func (*SZArray) TypeCode() TypeCode                { return CodeSZArray }
func (*Array) TypeCode() TypeCode                  { return CodeArray }
func (*GenericInstance) TypeCode() TypeCode        { return CodeGenericTypeInstance }
func (*GenericParameter) TypeCode() TypeCode       { return CodeGenericTypeParameter }
func (*GenericMethodParameter) TypeCode() TypeCode { return CodeGenericMethodParameter }
func (*FunctionPointer) TypeCode() TypeCode        { return CodeFunctionPointer }
func (*TypeHandle) TypeCode() TypeCode             { return CodeTypeHandle }

func (t *Modified) TypeCode() TypeCode {
	if t.Required {
		return CodeRequiredModifier
	}
	return CodeOptionalModifier
}

// IsSentinel reports whether t is the vararg sentinel marker.
func IsSentinel(t Type) bool {
	p, ok := t.(*Primitive)
	return ok && p.Code == CodeSentinel
}

// Unwrap strips custom modifiers from an already decoded type.
func Unwrap(t Type) Type {
	for {
		m, ok := t.(*Modified)
		if !ok {
			return t
		}
		t = m.Elem
	}
}

func (t *Primitive) String() string {
	return t.Code.String()
}

func (t *Pointer) String() string     { return t.Elem.String() + "*" }
func (t *ByReference) String() string { return t.Elem.String() + "&" }
func (t *Pinned) String() string      { return t.Elem.String() + " pinned" }
func (t *SZArray) String() string     { return t.Elem.String() + "[]" }

func (t *Array) String() string {
	if t.Rank == 0 || t.Rank > 32 {
		return fmt.Sprintf("%s[rank %d]", t.Elem, t.Rank)
	}
	dims := make([]string, t.Rank)
	for i := range dims {
		hasSize := i < len(t.Sizes)
		hasLow := i < len(t.LowerBounds)
		switch {
		case hasSize && hasLow:
			lo := int64(t.LowerBounds[i])
			dims[i] = fmt.Sprintf("%d...%d", lo, lo+int64(t.Sizes[i])-1)
		case hasLow:
			dims[i] = fmt.Sprintf("%d...", t.LowerBounds[i])
		case hasSize:
			dims[i] = strconv.FormatUint(uint64(t.Sizes[i]), 10)
		}
	}
	if t.Rank == 1 && dims[0] == "" {
		dims[0] = "..."
	}
	return t.Elem.String() + "[" + strings.Join(dims, ",") + "]"
}

func (t *GenericInstance) String() string {
	var b strings.Builder
	if t.IsValueType {
		b.WriteString("valuetype ")
	} else {
		b.WriteString("class ")
	}
	b.WriteString(t.Generic.String())
	b.WriteByte('<')
	for i, a := range t.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte('>')
	return b.String()
}

func (t *GenericParameter) String() string {
	return "!" + strconv.FormatUint(uint64(t.Index), 10)
}

func (t *GenericMethodParameter) String() string {
	return "!!" + strconv.FormatUint(uint64(t.Index), 10)
}

func (t *FunctionPointer) String() string {
	var b strings.Builder
	b.WriteString("method ")
	t.Method.format(&b, "*")
	return b.String()
}

func (t *Modified) String() string {
	kw := "modopt"
	if t.Required {
		kw = "modreq"
	}
	return fmt.Sprintf("%s %s(%s)", t.Elem, kw, t.Modifier)
}

func (t *TypeHandle) String() string {
	if t.IsValueType {
		return "valuetype " + t.Handle.String()
	}
	return "class " + t.Handle.String()
}
