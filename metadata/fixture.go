package metadata

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/decompiler/errors"
	"github.com/wippyai/decompiler/handle"
)

// Fixture is the YAML form of a module. Byte fields are hex strings;
// whitespace between digits is ignored.
//
//	name: Sample.dll
//	methods:
//	  - name: Main
//	    signature: "00 00 01"
//	    rva: 0x2050
//	    body: "0A 00 2A"
type Fixture struct {
	Name           string          `yaml:"name"`
	Mvid           string          `yaml:"mvid,omitempty"`
	Generation     int             `yaml:"generation,omitempty"`
	Methods        []FixtureMethod `yaml:"methods"`
	MemberRefs     []FixtureMember `yaml:"member_refs,omitempty"`
	Fields         []FixtureField  `yaml:"fields,omitempty"`
	StandAloneSigs []Hex           `yaml:"standalone_sigs,omitempty"`
	TypeSpecs      []Hex           `yaml:"type_specs,omitempty"`
}

// FixtureMethod is a MethodDef row with its body.
type FixtureMethod struct {
	Name      string `yaml:"name"`
	Signature Hex    `yaml:"signature"`
	RVA       uint32 `yaml:"rva,omitempty"`
	// Body is the raw method body, header included.
	Body Hex `yaml:"body,omitempty"`
}

// FixtureMember is a MemberRef row.
type FixtureMember struct {
	Name      string `yaml:"name"`
	Parent    uint32 `yaml:"parent,omitempty"`
	Signature Hex    `yaml:"signature"`
}

// FixtureField is a Field row.
type FixtureField struct {
	Name      string `yaml:"name"`
	Signature Hex    `yaml:"signature"`
}

// Hex is a byte string written as hexadecimal in YAML.
type Hex []byte

// UnmarshalYAML decodes a hex scalar such as "07 02 08 0E".
func (h *Hex) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: hex bytes must be a scalar", value.Line)
	}
	b, err := ParseHex(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*h = b
	return nil
}

// ParseHex decodes hex digit pairs, ignoring whitespace.
func ParseHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	return b, nil
}

// MarshalYAML encodes the bytes as space separated hex pairs.
func (h Hex) MarshalYAML() (any, error) {
	return FormatHex(h), nil
}

// FormatHex renders bytes as upper-case hex pairs separated by spaces.
func FormatHex(b []byte) string {
	var sb strings.Builder
	for k, c := range b {
		if k > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", c)
	}
	return sb.String()
}

// ParseFixture decodes a YAML fixture. Unknown keys are rejected.
func ParseFixture(data []byte) (*Fixture, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var f Fixture
	if err := decoder.Decode(&f); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "parse fixture")
	}
	return &f, nil
}

// LoadFixture reads a YAML fixture file and builds its module.
func LoadFixture(path string, opts Options) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindNotFound, err, "read fixture "+path)
	}
	f, err := ParseFixture(data)
	if err != nil {
		return nil, err
	}
	return FromFixture(f, opts)
}

// FromFixture builds a module from a decoded fixture.
func FromFixture(f *Fixture, opts Options) (*Module, error) {
	m := NewModule(f.Name, opts)
	m.Generation = f.Generation
	if f.Mvid != "" {
		id, err := uuid.Parse(f.Mvid)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "fixture mvid")
		}
		m.Mvid = id
	}

	for k, fm := range f.Methods {
		sig, err := m.AddBlob(fm.Signature)
		if err != nil {
			return nil, err
		}
		m.AddMethod(MethodDef{Name: fm.Name, Signature: sig, RVA: fm.RVA})

		switch {
		case fm.RVA == 0 && len(fm.Body) > 0:
			return nil, errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("method %d (%s) has a body but no rva", k, fm.Name))
		case fm.RVA != 0 && len(fm.Body) == 0:
			return nil, errors.InvalidInput(errors.PhaseLoad, fmt.Sprintf("method %d (%s) has an rva but no body", k, fm.Name))
		case fm.RVA != 0:
			if err := m.AddMethodBody(fm.RVA, fm.Body); err != nil {
				return nil, err
			}
		}
	}

	for _, mr := range f.MemberRefs {
		sig, err := m.AddBlob(mr.Signature)
		if err != nil {
			return nil, err
		}
		m.AddMemberRef(MemberRef{Name: mr.Name, Parent: handle.Handle(mr.Parent), Signature: sig})
	}
	for _, fd := range f.Fields {
		sig, err := m.AddBlob(fd.Signature)
		if err != nil {
			return nil, err
		}
		m.AddField(FieldDef{Name: fd.Name, Signature: sig})
	}
	for _, s := range f.StandAloneSigs {
		sig, err := m.AddBlob(s)
		if err != nil {
			return nil, err
		}
		m.AddStandAloneSig(sig)
	}
	for _, s := range f.TypeSpecs {
		sig, err := m.AddBlob(s)
		if err != nil {
			return nil, err
		}
		m.AddTypeSpec(sig)
	}

	Logger().Debug("loaded fixture module",
		zap.String("module", m.Name),
		zap.Int("methods", len(m.methods)),
		zap.Int("member_refs", len(m.memberRefs)),
		zap.Int("type_specs", len(m.typeSpecs)),
	)
	return m, nil
}
