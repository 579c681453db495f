package metadata

import (
	"strings"

	"github.com/wippyai/decompiler/errors"
)

// TypeName is a reflection-style type name: an optional namespace, a
// top-level type and a chain of nested types, as in
// "System.Collections.Generic.Dictionary`2+Enumerator".
type TypeName struct {
	Namespace string
	// Names holds the top-level type followed by each nested type.
	Names []string
}

// NewTypeName creates the name of a top-level type.
func NewTypeName(namespace, name string) TypeName {
	return TypeName{Namespace: namespace, Names: []string{name}}
}

// ParseTypeName parses "Namespace.Type+Nested+Nested". The namespace ends at
// the last dot before the first '+'.
func ParseTypeName(s string) (TypeName, error) {
	if s == "" {
		return TypeName{}, errors.InvalidInput(errors.PhaseLoad, "empty type name")
	}
	outer, nested, isNested := strings.Cut(s, "+")

	var tn TypeName
	if i := strings.LastIndexByte(outer, '.'); i >= 0 {
		if i == 0 {
			return TypeName{}, errors.InvalidInput(errors.PhaseLoad, "type name "+s+" has an empty namespace")
		}
		tn.Namespace = outer[:i]
		outer = outer[i+1:]
	}
	tn.Names = append(tn.Names, outer)
	if isNested {
		tn.Names = append(tn.Names, strings.Split(nested, "+")...)
	}

	for _, n := range tn.Names {
		if n == "" {
			return TypeName{}, errors.InvalidInput(errors.PhaseLoad, "type name "+s+" has an empty component")
		}
	}
	if strings.HasPrefix(tn.Namespace, ".") || strings.HasSuffix(tn.Namespace, ".") || strings.Contains(tn.Namespace, "..") {
		return TypeName{}, errors.InvalidInput(errors.PhaseLoad, "type name "+s+" has an empty namespace component")
	}
	return tn, nil
}

// Name returns the innermost type name.
func (t TypeName) Name() string {
	if len(t.Names) == 0 {
		return ""
	}
	return t.Names[len(t.Names)-1]
}

// IsNested reports whether the type is declared inside another type.
func (t TypeName) IsNested() bool {
	return len(t.Names) > 1
}

// DeclaringType returns the enclosing type of a nested type.
func (t TypeName) DeclaringType() (TypeName, bool) {
	if !t.IsNested() {
		return TypeName{}, false
	}
	return TypeName{Namespace: t.Namespace, Names: t.Names[:len(t.Names)-1:len(t.Names)-1]}, true
}

// Nested returns the name of a type nested in t.
func (t TypeName) Nested(name string) TypeName {
	names := make([]string, len(t.Names), len(t.Names)+1)
	copy(names, t.Names)
	return TypeName{Namespace: t.Namespace, Names: append(names, name)}
}

// Equal reports whether two names denote the same type.
func (t TypeName) Equal(o TypeName) bool {
	if t.Namespace != o.Namespace || len(t.Names) != len(o.Names) {
		return false
	}
	for k := range t.Names {
		if t.Names[k] != o.Names[k] {
			return false
		}
	}
	return true
}

func (t TypeName) String() string {
	var b strings.Builder
	if t.Namespace != "" {
		b.WriteString(t.Namespace)
		b.WriteByte('.')
	}
	b.WriteString(strings.Join(t.Names, "+"))
	return b.String()
}
