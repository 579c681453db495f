package metadata

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/wippyai/decompiler/blob"
	"github.com/wippyai/decompiler/errors"
	"github.com/wippyai/decompiler/handle"
	"github.com/wippyai/decompiler/signature"
)

// Options controls how a module is loaded and scanned.
type Options struct {
	// CopyImageToMemory copies caller-provided bytes instead of aliasing
	// them. Without it the caller must not modify the bytes while the
	// module is in use.
	CopyImageToMemory bool
	// ApplyWindowsRuntimeProjections is recorded on the module. No
	// projections are applied.
	ApplyWindowsRuntimeProjections bool
	// Parallelism bounds the number of method bodies scanned at once by
	// Usages. Zero or less means one.
	Parallelism int
	// FailFast makes Usages return the first per-method error instead of
	// marking the method undecodable.
	FailFast bool
}

// MethodDef is a row of the MethodDef table.
type MethodDef struct {
	Name      string
	Signature handle.Blob
	// RVA locates the method body. Zero means the method has none.
	RVA uint32
}

// MemberRef is a row of the MemberRef table.
type MemberRef struct {
	Name      string
	Parent    handle.Handle
	Signature handle.Blob
}

// FieldDef is a row of the Field table.
type FieldDef struct {
	Name      string
	Signature handle.Blob
}

// Module is an in-memory metadata module: a #Blob heap, the tables the
// decoders resolve tokens against and method bodies addressed by RVA.
// Build one with NewModule and the Add methods or load it from a fixture.
// A module must not be modified once it is shared between goroutines.
type Module struct {
	Name       string
	Mvid       uuid.UUID
	Generation int

	opts       Options
	blobs      []byte
	methods    []MethodDef
	memberRefs []MemberRef
	fields     []FieldDef
	standAlone []handle.Blob
	typeSpecs  []handle.Blob
	bodies     map[uint32][]byte

	usageOnce sync.Once
	usages    *UsageTable
	usageErr  error
}

// NewModule creates an empty module. Offset 0 of its blob heap holds the
// empty blob.
func NewModule(name string, opts Options) *Module {
	return &Module{
		Name:   name,
		Mvid:   uuid.New(),
		opts:   opts,
		blobs:  []byte{0},
		bodies: make(map[uint32][]byte),
	}
}

// Options returns the options the module was created with.
func (m *Module) Options() Options {
	return m.opts
}

func (m *Module) own(b []byte) []byte {
	if !m.opts.CopyImageToMemory {
		return b
	}
	return append([]byte(nil), b...)
}

// SetBlobHeap replaces the #Blob heap with raw heap bytes. Existing blob
// handles become meaningless.
func (m *Module) SetBlobHeap(heap []byte) {
	m.blobs = m.own(heap)
}

// AddBlob appends a length-prefixed entry to the blob heap. The empty blob
// is always at offset 0.
func (m *Module) AddBlob(b []byte) (handle.Blob, error) {
	if len(b) == 0 {
		return 0, nil
	}
	prefix, err := blob.EncodeCompressedUint32(uint32(len(b)))
	if err != nil {
		return 0, err
	}
	h := handle.Blob(len(m.blobs))
	m.blobs = append(m.blobs, prefix...)
	m.blobs = append(m.blobs, b...)
	return h, nil
}

// AddMethod appends a MethodDef row.
func (m *Module) AddMethod(def MethodDef) handle.Handle {
	m.methods = append(m.methods, def)
	return handle.New(handle.TableMethodDef, uint32(len(m.methods)))
}

// AddMethodBody stores a raw method body, header included, at rva.
func (m *Module) AddMethodBody(rva uint32, body []byte) error {
	if rva == 0 {
		return errors.InvalidInput(errors.PhaseLoad, "method body at RVA 0")
	}
	if _, ok := m.bodies[rva]; ok {
		return errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("duplicate method body at RVA 0x%x", rva))
	}
	m.bodies[rva] = m.own(body)
	return nil
}

// AddMemberRef appends a MemberRef row.
func (m *Module) AddMemberRef(ref MemberRef) handle.Handle {
	m.memberRefs = append(m.memberRefs, ref)
	return handle.New(handle.TableMemberRef, uint32(len(m.memberRefs)))
}

// AddField appends a Field row.
func (m *Module) AddField(def FieldDef) handle.Handle {
	m.fields = append(m.fields, def)
	return handle.New(handle.TableField, uint32(len(m.fields)))
}

// AddStandAloneSig appends a StandAloneSig row.
func (m *Module) AddStandAloneSig(sig handle.Blob) handle.Handle {
	m.standAlone = append(m.standAlone, sig)
	return handle.New(handle.TableStandAloneSig, uint32(len(m.standAlone)))
}

// AddTypeSpec appends a TypeSpec row.
func (m *Module) AddTypeSpec(sig handle.Blob) handle.Handle {
	m.typeSpecs = append(m.typeSpecs, sig)
	return handle.New(handle.TableTypeSpec, uint32(len(m.typeSpecs)))
}

// MethodHandles returns the handles of every MethodDef row in order.
func (m *Module) MethodHandles() []handle.Handle {
	out := make([]handle.Handle, len(m.methods))
	for k := range m.methods {
		out[k] = handle.New(handle.TableMethodDef, uint32(k+1))
	}
	return out
}

// Method returns a MethodDef row.
func (m *Module) Method(h handle.Handle) (MethodDef, error) {
	row, err := lookupRow(h, handle.TableMethodDef, len(m.methods))
	if err != nil {
		return MethodDef{}, err
	}
	return m.methods[row], nil
}

// MemberRef returns a MemberRef row.
func (m *Module) MemberRef(h handle.Handle) (MemberRef, error) {
	row, err := lookupRow(h, handle.TableMemberRef, len(m.memberRefs))
	if err != nil {
		return MemberRef{}, err
	}
	return m.memberRefs[row], nil
}

// lookupRow converts a handle into a zero-based index into a table of n rows.
func lookupRow(h handle.Handle, t handle.Table, n int) (int, error) {
	if h.Table() != t {
		return 0, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Value(h).
			Detail("handle %s is not a %s handle", h, t).
			Build()
	}
	if h.IsNil() || int(h.Row()) > n {
		return 0, errors.NotFound(errors.PhaseLoad, t.String()+" row", h.String())
	}
	return int(h.Row()) - 1, nil
}

// BlobBytes returns a #Blob heap entry. The slice aliases the heap.
func (m *Module) BlobBytes(h handle.Blob) ([]byte, error) {
	off := int(h)
	if off >= len(m.blobs) {
		return nil, errors.OutOfBounds(errors.PhaseBlob, "blob offset", off, len(m.blobs))
	}
	n, size, err := blob.DecodeCompressedUint32(m.blobs[off:])
	if err != nil {
		return nil, errors.New(errors.PhaseBlob, errors.KindMalformed).
			Offset(off).
			Cause(err).
			Detail("blob length prefix").
			Build()
	}
	start := off + size
	if uint64(n) > uint64(len(m.blobs)-start) {
		return nil, errors.Truncated(errors.PhaseBlob, start, int(n), len(m.blobs)-start)
	}
	return m.blobs[start : start+int(n) : start+int(n)], nil
}

// CopyBlob returns a copy of a #Blob heap entry.
func (m *Module) CopyBlob(h handle.Blob) ([]byte, error) {
	b, err := m.BlobBytes(h)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// BlobReader returns a cursor over a #Blob heap entry.
func (m *Module) BlobReader(h handle.Blob) (*blob.Reader, error) {
	b, err := m.BlobBytes(h)
	if err != nil {
		return nil, err
	}
	return blob.NewReaderAt(b, int(h)+blob.CompressedUint32Size(uint32(len(b)))), nil
}

// MethodBody parses the method body stored at rva.
func (m *Module) MethodBody(rva uint32) (*MethodBody, error) {
	raw, ok := m.bodies[rva]
	if !ok {
		return nil, errors.NotFound(errors.PhaseBody, "method body at RVA", fmt.Sprintf("0x%x", rva))
	}
	return ParseMethodBody(raw)
}

// LocalVariableTypes decodes the locals signature of body. A body without
// one has no locals.
func (m *Module) LocalVariableTypes(body *MethodBody) (signature.Collection, error) {
	if body.LocalSignature.IsNil() {
		return signature.Collection{}, nil
	}
	sig, err := m.standAloneBlob(body.LocalSignature)
	if err != nil {
		return signature.Collection{}, err
	}
	r, err := m.BlobReader(sig)
	if err != nil {
		return signature.Collection{}, err
	}
	return signature.DecodeLocals(r)
}

func (m *Module) standAloneBlob(h handle.Handle) (handle.Blob, error) {
	row, err := lookupRow(h, handle.TableStandAloneSig, len(m.standAlone))
	if err != nil {
		return 0, err
	}
	return m.standAlone[row], nil
}

// StandAloneSignature decodes a StandAloneSig used as a calli site
// signature.
func (m *Module) StandAloneSignature(h handle.Handle) (*signature.Method, error) {
	sig, err := m.standAloneBlob(h)
	if err != nil {
		return nil, err
	}
	return m.decodeMethod(sig)
}

// TypeSpecSignature decodes the type signature of a TypeSpec row.
func (m *Module) TypeSpecSignature(h handle.Handle) (signature.Type, error) {
	row, err := lookupRow(h, handle.TableTypeSpec, len(m.typeSpecs))
	if err != nil {
		return nil, err
	}
	r, err := m.BlobReader(m.typeSpecs[row])
	if err != nil {
		return nil, err
	}
	return signature.DecodeType(r)
}

// MethodSignature resolves a MethodDef, MemberRef or StandAloneSig token to
// its method signature.
func (m *Module) MethodSignature(h handle.Handle) (*signature.Method, error) {
	switch h.Table() {
	case handle.TableMethodDef:
		def, err := m.Method(h)
		if err != nil {
			return nil, err
		}
		return m.decodeMethod(def.Signature)
	case handle.TableMemberRef:
		ref, err := m.MemberRef(h)
		if err != nil {
			return nil, err
		}
		return m.decodeMethod(ref.Signature)
	case handle.TableStandAloneSig:
		return m.StandAloneSignature(h)
	}
	return nil, errors.Unsupported(errors.PhaseLoad, fmt.Sprintf("method signature of %s handle %s", h.Table(), h))
}

// FieldSignature resolves a Field or MemberRef token to the field type.
func (m *Module) FieldSignature(h handle.Handle) (signature.Type, error) {
	var sig handle.Blob
	switch h.Table() {
	case handle.TableField:
		row, err := lookupRow(h, handle.TableField, len(m.fields))
		if err != nil {
			return nil, err
		}
		sig = m.fields[row].Signature
	case handle.TableMemberRef:
		ref, err := m.MemberRef(h)
		if err != nil {
			return nil, err
		}
		sig = ref.Signature
	default:
		return nil, errors.Unsupported(errors.PhaseLoad, fmt.Sprintf("field signature of %s handle %s", h.Table(), h))
	}
	r, err := m.BlobReader(sig)
	if err != nil {
		return nil, err
	}
	return signature.DecodeField(r)
}

func (m *Module) decodeMethod(sig handle.Blob) (*signature.Method, error) {
	r, err := m.BlobReader(sig)
	if err != nil {
		return nil, err
	}
	return signature.DecodeMethod(r)
}
