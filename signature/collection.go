package signature

import (
	"strings"

	"github.com/wippyai/decompiler/blob"
	"github.com/wippyai/decompiler/errors"
)

// Collection is an ordered list of types that may have contained a vararg
// sentinel. The sentinel occupies no slot: Count excludes it and
// SentinelIndex is the logical position it appeared at. The zero value is
// an empty collection.
type Collection struct {
	items       []Type
	sentinel    int
	hasSentinel bool
}

// NewCollection builds a collection from decoded types. The sentinel, if
// any, precedes types[sentinelIndex]; an index outside the slice means no
// sentinel.
func NewCollection(types []Type, sentinelIndex int) Collection {
	c := Collection{items: append([]Type(nil), types...)}
	if sentinelIndex >= 0 && sentinelIndex < len(types) {
		c.sentinel = sentinelIndex
		c.hasSentinel = true
	}
	return c
}

// DecodeCollection decodes n logical entries. A sentinel consumes bytes but
// not an entry; a second sentinel is malformed.
func DecodeCollection(r *blob.Reader, n uint32) (Collection, error) {
	return decodeCollection(r, n, 0)
}

func decodeCollection(r *blob.Reader, n uint32, depth int) (Collection, error) {
	var c Collection
	if n == 0 {
		return c, nil
	}
	c.items = make([]Type, 0, boundedCap(n, r))

	for i := uint32(0); i < n; {
		off := r.AbsoluteOffset()
		t, err := decodeType(r, depth)
		if err != nil {
			return Collection{}, err
		}
		if IsSentinel(t) {
			if c.hasSentinel {
				return Collection{}, errors.Malformed(errors.PhaseSignature, off, "found multiple sentinels")
			}
			c.hasSentinel = true
			c.sentinel = int(i)
			continue
		}
		c.items = append(c.items, t)
		i++
	}
	return c, nil
}

// Count returns the number of types, excluding any sentinel.
func (c Collection) Count() int {
	return len(c.items)
}

// SentinelIndex returns the logical index of the sentinel, or Count when
// there is none.
func (c Collection) SentinelIndex() int {
	if !c.hasSentinel {
		return len(c.items)
	}
	return c.sentinel
}

// HasSentinel reports whether a sentinel was present.
func (c Collection) HasSentinel() bool {
	return c.hasSentinel
}

// At returns the i-th type.
func (c Collection) At(i int) Type {
	return c.items[i]
}

// Types returns a copy of the types in order.
func (c Collection) Types() []Type {
	return append([]Type(nil), c.items...)
}

// Each calls fn for every type in order, stopping at the first error.
func (c Collection) Each(fn func(i int, t Type) error) error {
	for i, t := range c.items {
		if err := fn(i, t); err != nil {
			return err
		}
	}
	return nil
}

func (c Collection) String() string {
	return "(" + c.joined(", ") + ")"
}

func (c Collection) joined(sep string) string {
	parts := make([]string, 0, len(c.items)+1)
	for i, t := range c.items {
		if c.hasSentinel && i == c.sentinel {
			parts = append(parts, "...")
		}
		parts = append(parts, t.String())
	}
	return strings.Join(parts, sep)
}

// Stream is a collection that keeps only its starting cursor and decodes
// its types again on every traversal. It suits one-pass consumers that do
// not want to hold decoded types.
type Stream struct {
	start    blob.Reader
	count    int
	sentinel int
}

// NewStream validates n entries starting at r, advances r past them and
// returns a stream that can re-decode them.
func NewStream(r *blob.Reader, n uint32) (*Stream, error) {
	s := &Stream{start: *r}
	c, err := decodeCollection(r, n, 0)
	if err != nil {
		return nil, err
	}
	s.count = c.Count()
	s.sentinel = c.SentinelIndex()
	return s, nil
}

// Count returns the number of types, excluding any sentinel.
func (s *Stream) Count() int {
	return s.count
}

// SentinelIndex returns the logical index of the sentinel, or Count.
func (s *Stream) SentinelIndex() int {
	return s.sentinel
}

// Each decodes the types again from the stored cursor and calls fn for each.
func (s *Stream) Each(fn func(i int, t Type) error) error {
	r := s.start
	for i := 0; i < s.count; {
		t, err := DecodeType(&r)
		if err != nil {
			return err
		}
		if IsSentinel(t) {
			continue
		}
		if err := fn(i, t); err != nil {
			return err
		}
		i++
	}
	return nil
}
