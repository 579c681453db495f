package metadata

import (
	"github.com/wippyai/decompiler/blob"
	"github.com/wippyai/decompiler/handle"
	"github.com/wippyai/decompiler/ir"
	"github.com/wippyai/decompiler/signature"
)

// Reader is the view of a loaded module that the decoders consume.
type Reader interface {
	// BlobBytes returns the contents of a #Blob heap entry. The slice
	// aliases the heap.
	BlobBytes(h handle.Blob) ([]byte, error)
	// BlobReader returns a cursor over a #Blob heap entry whose error
	// offsets are heap-relative.
	BlobReader(h handle.Blob) (*blob.Reader, error)
	// MethodBody parses the method body stored at rva.
	MethodBody(rva uint32) (*MethodBody, error)
	// LocalVariableTypes decodes the locals signature a body refers to.
	LocalVariableTypes(body *MethodBody) (signature.Collection, error)
}

var (
	_ Reader      = (*Module)(nil)
	_ ir.Resolver = (*Module)(nil)
)
