package errors

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseSignature,
				Kind:   KindMalformed,
				Path:   []string{"params", "2"},
				Offset: 7,
				Detail: "invalid type signature code 0xff",
			},
			contains: []string{"[signature]", "malformed_binary", "params.2", "at offset 7", "0xff"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase:  PhaseBlob,
				Kind:   KindOutOfBounds,
				Offset: -1,
			},
			contains: []string{"[blob]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseScan,
				Kind:   KindMalformed,
				Detail: "method 0x06000001",
				Offset: -1,
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[scan]", "malformed_binary", "method 0x06000001", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_NoOffset(t *testing.T) {
	err := Unsupported(PhaseIR, "calli without resolver")
	if strings.Contains(err.Error(), "offset") {
		t.Errorf("unexpected offset in %q", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseBody,
		Kind:  KindMalformed,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseSignature,
		Kind:  KindMalformed,
		Path:  []string{"ret"},
	}

	if !err.Is(&Error{Phase: PhaseSignature, Kind: KindMalformed}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseOpcode, Kind: KindMalformed}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseSignature, Kind: KindOverflow}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseSignature, Kind: KindMalformed}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseOpcode, KindMalformed).
		Path("IL_0004").
		Offset(4).
		Value(0x24).
		Cause(cause).
		Detail("unknown opcode 0x%02x", 0x24).
		Build()

	if err.Phase != PhaseOpcode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseOpcode)
	}
	if err.Kind != KindMalformed {
		t.Errorf("Kind = %v, want %v", err.Kind, KindMalformed)
	}
	if len(err.Path) != 1 || err.Path[0] != "IL_0004" {
		t.Errorf("Path = %v, want [IL_0004]", err.Path)
	}
	if err.Offset != 4 {
		t.Errorf("Offset = %d, want 4", err.Offset)
	}
	if err.Value != 0x24 {
		t.Errorf("Value = %v, want 0x24", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "unknown opcode 0x24" {
		t.Errorf("Detail = %v, want 'unknown opcode 0x24'", err.Detail)
	}
}

func TestBuilder_DefaultOffset(t *testing.T) {
	err := New(PhaseLoad, KindNotFound).Build()
	if err.Offset != -1 {
		t.Errorf("Offset = %d, want -1", err.Offset)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("Malformed", func(t *testing.T) {
		err := Malformed(PhaseSignature, 3, "bad code 0x%02x", 0xff)
		if err.Kind != KindMalformed {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMalformed)
		}
		if err.Offset != 3 || err.Detail != "bad code 0xff" {
			t.Errorf("Offset=%d Detail=%q", err.Offset, err.Detail)
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		err := Truncated(PhaseBlob, 10, 4, 2)
		if err.Kind != KindMalformed {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMalformed)
		}
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Error("Truncated should wrap io.ErrUnexpectedEOF")
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseIR, "switch")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseLoad, "blob", 10, 5)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseBlob, uint32(0x20000000), "compressed uint32")
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseLoad, "method body at rva", "0x2050")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
		if !strings.Contains(err.Error(), "0x2050") {
			t.Errorf("Error() = %q, want rva", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("disk")
		err := Wrap(PhaseLoad, KindInvalidInput, cause, "read fixture")
		if !errors.Is(err, cause) {
			t.Error("Wrap should keep the cause")
		}
	})
}

func TestIsMalformed(t *testing.T) {
	inner := Malformed(PhaseBlob, 0, "invalid compressed integer")
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("x"), false},
		{"direct", inner, true},
		{"wrapped by Error", Wrap(PhaseScan, KindInvalidInput, inner, "method"), true},
		{"wrapped by fmt", fmt.Errorf("ctx: %w", inner), true},
		{"other kind", Unsupported(PhaseIR, "x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMalformed(tt.err); got != tt.want {
				t.Errorf("IsMalformed() = %v, want %v", got, tt.want)
			}
		})
	}
}
