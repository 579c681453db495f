package signature

import (
	"fmt"

	"github.com/wippyai/decompiler/blob"
	"github.com/wippyai/decompiler/errors"
	"github.com/wippyai/decompiler/handle"
)

// EncodeType writes t in its binary form.
func EncodeType(w *blob.Writer, t Type) error {
	switch t := t.(type) {
	case *Primitive:
		if !t.Code.IsPrimitive() {
			return errors.InvalidInput(errors.PhaseSignature,
				fmt.Sprintf("type code 0x%02x is not a primitive", byte(t.Code)))
		}
		w.Byte(byte(t.Code))
		return nil
	case *Pointer:
		w.Byte(byte(CodePointer))
		return EncodeType(w, t.Elem)
	case *ByReference:
		w.Byte(byte(CodeByReference))
		return EncodeType(w, t.Elem)
	case *Pinned:
		w.Byte(byte(CodePinned))
		return EncodeType(w, t.Elem)
	case *SZArray:
		w.Byte(byte(CodeSZArray))
		return EncodeType(w, t.Elem)
	case *Array:
		return encodeArray(w, t)
	case *GenericInstance:
		w.Byte(byte(CodeGenericTypeInstance))
		switch {
		case t.Kind != 0:
			w.Byte(byte(t.Kind))
		case t.IsValueType:
			w.Byte(byte(CodeValueType))
		default:
			w.Byte(byte(CodeClass))
		}
		if err := writeTypeHandle(w, t.Generic); err != nil {
			return err
		}
		if err := w.WriteCompressedUint32(uint32(len(t.Args))); err != nil {
			return err
		}
		for _, a := range t.Args {
			if err := EncodeType(w, a); err != nil {
				return err
			}
		}
		return nil
	case *GenericParameter:
		w.Byte(byte(CodeGenericTypeParameter))
		return w.WriteCompressedUint32(t.Index)
	case *GenericMethodParameter:
		w.Byte(byte(CodeGenericMethodParameter))
		return w.WriteCompressedUint32(t.Index)
	case *FunctionPointer:
		w.Byte(byte(CodeFunctionPointer))
		return EncodeMethod(w, t.Method)
	case *Modified:
		w.Byte(byte(t.TypeCode()))
		if err := writeTypeHandle(w, t.Modifier); err != nil {
			return err
		}
		return EncodeType(w, t.Elem)
	case *TypeHandle:
		if t.IsValueType {
			w.Byte(byte(CodeValueType))
		} else {
			w.Byte(byte(CodeClass))
		}
		return writeTypeHandle(w, t.Handle)
	case nil:
		return errors.InvalidInput(errors.PhaseSignature, "nil type")
	}
	return errors.InvalidInput(errors.PhaseSignature, fmt.Sprintf("unknown type %T", t))
}

func encodeArray(w *blob.Writer, t *Array) error {
	w.Byte(byte(CodeArray))
	if err := EncodeType(w, t.Elem); err != nil {
		return err
	}
	if err := w.WriteCompressedUint32(t.Rank); err != nil {
		return err
	}
	if err := w.WriteCompressedUint32(uint32(len(t.Sizes))); err != nil {
		return err
	}
	for _, s := range t.Sizes {
		if err := w.WriteCompressedUint32(s); err != nil {
			return err
		}
	}
	if err := w.WriteCompressedUint32(uint32(len(t.LowerBounds))); err != nil {
		return err
	}
	for _, lb := range t.LowerBounds {
		if err := w.WriteCompressedInt32(lb); err != nil {
			return err
		}
	}
	return nil
}

func writeTypeHandle(w *blob.Writer, h handle.Handle) error {
	v, err := handle.EncodeTypeDefOrRefOrSpec(h)
	if err != nil {
		return err
	}
	return w.WriteCompressedUint32(v)
}

// EncodeMethod writes m in its binary form, reinserting the sentinel.
func EncodeMethod(w *blob.Writer, m *Method) error {
	w.Byte(byte(m.Header))
	if m.IsGeneric() {
		if err := w.WriteCompressedUint32(m.GenericParamCount); err != nil {
			return err
		}
	}
	if err := w.WriteCompressedUint32(uint32(m.Params.Count())); err != nil {
		return err
	}
	if err := EncodeType(w, m.ReturnType); err != nil {
		return err
	}
	return encodeCollection(w, m.Params)
}

// EncodeLocals writes a LocalVarSig.
func EncodeLocals(w *blob.Writer, c Collection) error {
	w.Byte(byte(convKindLocals))
	if err := w.WriteCompressedUint32(uint32(c.Count())); err != nil {
		return err
	}
	return encodeCollection(w, c)
}

func encodeCollection(w *blob.Writer, c Collection) error {
	for i, t := range c.items {
		if c.hasSentinel && i == c.sentinel {
			w.Byte(byte(CodeSentinel))
		}
		if err := EncodeType(w, t); err != nil {
			return err
		}
	}
	return nil
}
