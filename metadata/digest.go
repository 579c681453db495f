package metadata

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"slices"
)

// Digest returns a SHA-256 over the module's content: the blob heap, every
// table row and every method body. Two modules with equal digests scan to
// the same usage table.
func (m *Module) Digest() []byte {
	d := digester{h: sha256.New()}

	d.bytes(m.blobs)

	d.uint(uint32(len(m.methods)))
	for _, md := range m.methods {
		d.string(md.Name)
		d.uint(uint32(md.Signature))
		d.uint(md.RVA)
	}
	d.uint(uint32(len(m.memberRefs)))
	for _, mr := range m.memberRefs {
		d.string(mr.Name)
		d.uint(uint32(mr.Parent))
		d.uint(uint32(mr.Signature))
	}
	d.uint(uint32(len(m.fields)))
	for _, fd := range m.fields {
		d.string(fd.Name)
		d.uint(uint32(fd.Signature))
	}
	d.uint(uint32(len(m.standAlone)))
	for _, b := range m.standAlone {
		d.uint(uint32(b))
	}
	d.uint(uint32(len(m.typeSpecs)))
	for _, b := range m.typeSpecs {
		d.uint(uint32(b))
	}

	rvas := make([]uint32, 0, len(m.bodies))
	for rva := range m.bodies {
		rvas = append(rvas, rva)
	}
	slices.Sort(rvas)
	d.uint(uint32(len(rvas)))
	for _, rva := range rvas {
		d.uint(rva)
		d.bytes(m.bodies[rva])
	}

	return d.h.Sum(nil)
}

// digester writes length-prefixed fields so that adjacent fields cannot
// collide.
type digester struct {
	h   hash.Hash
	buf [4]byte
}

func (d *digester) uint(v uint32) {
	binary.LittleEndian.PutUint32(d.buf[:], v)
	d.h.Write(d.buf[:])
}

func (d *digester) bytes(b []byte) {
	d.uint(uint32(len(b)))
	d.h.Write(b)
}

func (d *digester) string(s string) {
	d.bytes([]byte(s))
}
