// Package handle defines metadata tokens and the coded indices that appear
// inside signatures.
package handle

import (
	"fmt"

	"github.com/wippyai/decompiler/errors"
)

// Table identifies a metadata table (the high byte of a token).
type Table byte

// Metadata tables referenced by the decoders (ECMA-335 II.22).
const (
	TableModule        Table = 0x00
	TableTypeRef       Table = 0x01
	TableTypeDef       Table = 0x02
	TableField         Table = 0x04
	TableMethodDef     Table = 0x06
	TableParam         Table = 0x08
	TableMemberRef     Table = 0x0A
	TableStandAloneSig Table = 0x11
	TableTypeSpec      Table = 0x1B
	TableAssemblyRef   Table = 0x23
	TableMethodSpec    Table = 0x2B
	TableUserString    Table = 0x70
)

var tableNames = map[Table]string{
	TableModule:        "Module",
	TableTypeRef:       "TypeRef",
	TableTypeDef:       "TypeDef",
	TableField:         "Field",
	TableMethodDef:     "MethodDef",
	TableParam:         "Param",
	TableMemberRef:     "MemberRef",
	TableStandAloneSig: "StandAloneSig",
	TableTypeSpec:      "TypeSpec",
	TableAssemblyRef:   "AssemblyRef",
	TableMethodSpec:    "MethodSpec",
	TableUserString:    "UserString",
}

func (t Table) String() string {
	if name, ok := tableNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Table(0x%02x)", byte(t))
}

// Handle is a metadata token: table in the high byte, 1-based row below.
// The zero row is the nil handle of its table.
type Handle uint32

// New builds a handle from a table and a row.
func New(t Table, row uint32) Handle {
	return Handle(uint32(t)<<24 | row&0x00FFFFFF)
}

// Table returns the table the handle refers to.
func (h Handle) Table() Table {
	return Table(h >> 24)
}

// Row returns the 1-based row number.
func (h Handle) Row() uint32 {
	return uint32(h) & 0x00FFFFFF
}

// IsNil reports whether the handle has no row.
func (h Handle) IsNil() bool {
	return h.Row() == 0
}

// String formats the handle as a hexadecimal token.
func (h Handle) String() string {
	return fmt.Sprintf("0x%08x", uint32(h))
}

// IsType reports whether the handle can stand for a type in a signature.
func (h Handle) IsType() bool {
	switch h.Table() {
	case TableTypeDef, TableTypeRef, TableTypeSpec:
		return true
	}
	return false
}

// Blob is an offset into a module's #Blob heap.
type Blob uint32

// IsNil reports whether the handle is the empty blob.
func (b Blob) IsNil() bool {
	return b == 0
}

func (b Blob) String() string {
	return fmt.Sprintf("blob:0x%x", uint32(b))
}

var typeDefOrRefTables = [...]Table{TableTypeDef, TableTypeRef, TableTypeSpec}

// DecodeTypeDefOrRefOrSpec converts a TypeDefOrRefOrSpecEncoded value
// (ECMA-335 II.23.2.8) into a handle. The unused tag 3 yields the nil
// handle.
func DecodeTypeDefOrRefOrSpec(v uint32) (Handle, error) {
	tag := v & 0x3
	if int(tag) >= len(typeDefOrRefTables) {
		return 0, nil
	}
	return New(typeDefOrRefTables[tag], v>>2), nil
}

// EncodeTypeDefOrRefOrSpec is the inverse of DecodeTypeDefOrRefOrSpec.
func EncodeTypeDefOrRefOrSpec(h Handle) (uint32, error) {
	for tag, t := range typeDefOrRefTables {
		if h.Table() == t {
			return h.Row()<<2 | uint32(tag), nil
		}
	}
	return 0, errors.InvalidInput(errors.PhaseSignature,
		fmt.Sprintf("handle %s is not a TypeDef, TypeRef or TypeSpec", h))
}
