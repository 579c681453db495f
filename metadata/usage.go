package metadata

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/decompiler/errors"
	"github.com/wippyai/decompiler/handle"
	"github.com/wippyai/decompiler/il"
	"github.com/wippyai/decompiler/signature"
)

var usageEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("metadata: failed to create CBOR enc mode: %v", err))
	}
	usageEncMode = em
}

// UsageTable records, for every handle referenced from a method body, the
// methods that reference it. Module, Mvid, Generation and Digest identify
// the module content the table was scanned from.
type UsageTable struct {
	Module string `cbor:"1,keyasint"`
	// Uses maps a referenced handle to the sorted MethodDef handles that
	// reference it.
	Uses map[handle.Handle][]handle.Handle `cbor:"2,keyasint"`
	// Undecodable lists methods whose bodies could not be scanned.
	Undecodable []handle.Handle `cbor:"3,keyasint,omitempty"`
	Mvid        uuid.UUID       `cbor:"4,keyasint"`
	Generation  int             `cbor:"5,keyasint"`
	Digest      []byte          `cbor:"6,keyasint"`
}

// Describes reports whether the table was scanned from m as it is now.
func (t *UsageTable) Describes(m *Module) bool {
	return t.Module == m.Name &&
		t.Mvid == m.Mvid &&
		t.Generation == m.Generation &&
		bytes.Equal(t.Digest, m.Digest())
}

// UsedBy returns the methods that reference h.
func (t *UsageTable) UsedBy(h handle.Handle) []handle.Handle {
	return t.Uses[h]
}

// Handles returns every referenced handle in ascending order.
func (t *UsageTable) Handles() []handle.Handle {
	out := make([]handle.Handle, 0, len(t.Uses))
	for h := range t.Uses {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

// WriteTo writes the table as canonical CBOR.
func (t *UsageTable) WriteTo(w io.Writer) (int64, error) {
	data, err := usageEncMode.Marshal(t)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseScan, errors.KindInvalidInput, err, "encode usage table")
	}
	n, err := w.Write(data)
	return int64(n), err
}

// ReadUsageTable reads a table written by WriteTo.
func ReadUsageTable(r io.Reader) (*UsageTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var t UsageTable
	if err := cbor.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(errors.PhaseScan, errors.KindMalformed, err, "decode usage table")
	}
	if t.Uses == nil {
		t.Uses = make(map[handle.Handle][]handle.Handle)
	}
	return &t, nil
}

// Usages returns the module's usage table, scanning every method body on
// the first call. Later and concurrent calls share the first result; the
// context of the first caller governs the scan.
func (m *Module) Usages(ctx context.Context) (*UsageTable, error) {
	m.usageOnce.Do(func() {
		m.usages, m.usageErr = m.scanUsages(ctx)
	})
	return m.usages, m.usageErr
}

func (m *Module) scanUsages(ctx context.Context) (*UsageTable, error) {
	table := &UsageTable{
		Module:     m.Name,
		Mvid:       m.Mvid,
		Generation: m.Generation,
		Digest:     m.Digest(),
		Uses:       make(map[handle.Handle][]handle.Handle),
	}

	limit := m.opts.Parallelism
	if limit <= 0 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var mu sync.Mutex
	for _, h := range m.MethodHandles() {
		if gctx.Err() != nil {
			break
		}
		def, _ := m.Method(h)
		if def.RVA == 0 {
			continue
		}

		g.Go(func() error {
			used, err := m.scanMethod(def)
			if err != nil {
				if m.opts.FailFast {
					return errors.New(errors.PhaseScan, errors.KindMalformed).
						Cause(err).
						Detail("method %s (%s)", h, def.Name).
						Build()
				}
				Logger().Warn("method body is undecodable",
					zap.String("method", def.Name),
					zap.Stringer("handle", h),
					zap.Error(err),
				)
				mu.Lock()
				table.Undecodable = append(table.Undecodable, h)
				mu.Unlock()
				return nil
			}

			mu.Lock()
			for u := range used {
				table.Uses[u] = append(table.Uses[u], h)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, users := range table.Uses {
		slices.Sort(users)
	}
	slices.Sort(table.Undecodable)

	Logger().Debug("scanned handle usages",
		zap.String("module", m.Name),
		zap.Int("handles", len(table.Uses)),
		zap.Int("undecodable", len(table.Undecodable)),
	)
	return table, nil
}

// scanMethod collects every handle a method body references: catch types,
// local variable types and token operands. TypeSpec handles are expanded
// into the handles of their signatures.
func (m *Module) scanMethod(def MethodDef) (map[handle.Handle]struct{}, error) {
	body, err := m.MethodBody(def.RVA)
	if err != nil {
		return nil, err
	}

	used := make(map[handle.Handle]struct{})
	var add func(h handle.Handle) error
	add = func(h handle.Handle) error {
		if h.IsNil() {
			return nil
		}
		if _, ok := used[h]; ok {
			return nil
		}
		used[h] = struct{}{}
		if h.Table() != handle.TableTypeSpec {
			return nil
		}
		t, err := m.TypeSpecSignature(h)
		if err != nil {
			return err
		}
		return signatureHandles(t, add)
	}

	for _, region := range body.ExceptionRegions {
		if err := add(region.CatchType); err != nil {
			return nil, err
		}
	}

	if err := add(body.LocalSignature); err != nil {
		return nil, err
	}
	locals, err := m.LocalVariableTypes(body)
	if err != nil {
		return nil, err
	}
	if err := locals.Each(func(_ int, t signature.Type) error {
		return signatureHandles(t, add)
	}); err != nil {
		return nil, err
	}

	code, err := il.DecodeInstructions(body.IL)
	if err != nil {
		return nil, err
	}
	for _, inst := range code {
		tok, ok := inst.Token()
		if !ok || tok.Table() == handle.TableUserString {
			continue
		}
		if err := add(tok); err != nil {
			return nil, err
		}
	}
	return used, nil
}

// signatureHandles calls fn for every handle that appears in t.
func signatureHandles(t signature.Type, fn func(handle.Handle) error) error {
	switch t := t.(type) {
	case *signature.TypeHandle:
		return fn(t.Handle)
	case *signature.Modified:
		if err := fn(t.Modifier); err != nil {
			return err
		}
		return signatureHandles(t.Elem, fn)
	case *signature.GenericInstance:
		if err := fn(t.Generic); err != nil {
			return err
		}
		for _, arg := range t.Args {
			if err := signatureHandles(arg, fn); err != nil {
				return err
			}
		}
	case *signature.Pointer:
		return signatureHandles(t.Elem, fn)
	case *signature.ByReference:
		return signatureHandles(t.Elem, fn)
	case *signature.Pinned:
		return signatureHandles(t.Elem, fn)
	case *signature.SZArray:
		return signatureHandles(t.Elem, fn)
	case *signature.Array:
		return signatureHandles(t.Elem, fn)
	case *signature.FunctionPointer:
		if t.Method == nil {
			return nil
		}
		if err := signatureHandles(t.Method.ReturnType, fn); err != nil {
			return err
		}
		return t.Method.Params.Each(func(_ int, p signature.Type) error {
			return signatureHandles(p, fn)
		})
	}
	return nil
}
