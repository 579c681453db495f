package metadata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/decompiler/errors"
	"github.com/wippyai/decompiler/handle"
	"github.com/wippyai/decompiler/ir"
	"github.com/wippyai/decompiler/metadata"
)

func TestParseTinyBody(t *testing.T) {
	body, err := metadata.ParseMethodBody([]byte{0x0A, 0x00, 0x2A, 0xFF})
	require.NoError(t, err)

	assert.Equal(t, []byte{0x00, 0x2A}, body.IL)
	assert.Equal(t, 8, body.MaxStack)
	assert.Equal(t, 3, body.Size)
	assert.True(t, body.LocalSignature.IsNil())
	assert.False(t, body.InitLocals)
	assert.Empty(t, body.ExceptionRegions)
}

func TestParseFatBody(t *testing.T) {
	raw := []byte{
		0x13, 0x30, // fat, init locals, 3 dwords
		0x02, 0x00, // max stack
		0x02, 0x00, 0x00, 0x00, // code size
		0x01, 0x00, 0x00, 0x11, // locals
		0x00, 0x2A,
	}
	body, err := metadata.ParseMethodBody(raw)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x00, 0x2A}, body.IL)
	assert.Equal(t, 2, body.MaxStack)
	assert.Equal(t, 14, body.Size)
	assert.True(t, body.InitLocals)
	assert.Equal(t, handle.New(handle.TableStandAloneSig, 1), body.LocalSignature)
}

func TestParseSmallExceptionSection(t *testing.T) {
	raw := []byte{
		0x1B, 0x30, 0x01, 0x00,
		0x06, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x2A,
		0x00, 0x00, // padding to 4
		0x01, 0x10, 0x00, 0x00, // small EH table, 16 bytes
		0x00, 0x00, 0x00, 0x00, 0x02, 0x02, 0x00, 0x03,
		0x05, 0x00, 0x00, 0x01,
	}
	body, err := metadata.ParseMethodBody(raw)
	require.NoError(t, err)

	assert.Len(t, body.IL, 6)
	assert.Equal(t, 36, body.Size)
	assert.Equal(t, []ir.ExceptionRegion{{
		CatchType:     handle.New(handle.TableTypeRef, 5),
		Kind:          ir.HandlerCatch,
		TryOffset:     0,
		TryLength:     2,
		HandlerOffset: 2,
		HandlerLength: 3,
	}}, body.ExceptionRegions)
}

func TestParseFatExceptionSection(t *testing.T) {
	raw := []byte{
		0x0B, 0x30, 0x01, 0x00,
		0x04, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x2A,
		0x41, 0x34, 0x00, 0x00, // fat EH table, 52 bytes
		// finally
		0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		// filter
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00,
	}
	body, err := metadata.ParseMethodBody(raw)
	require.NoError(t, err)

	require.Len(t, body.ExceptionRegions, 2)
	assert.Equal(t, ir.ExceptionRegion{
		Kind:          ir.HandlerFinally,
		TryLength:     1,
		HandlerOffset: 1,
		HandlerLength: 2,
	}, body.ExceptionRegions[0])
	assert.Equal(t, ir.ExceptionRegion{
		Kind:          ir.HandlerFilter,
		TryLength:     1,
		HandlerOffset: 3,
		HandlerLength: 1,
		FilterOffset:  2,
	}, body.ExceptionRegions[1])
	assert.Equal(t, len(raw), body.Size)
}

func TestParseChainedSections(t *testing.T) {
	raw := []byte{
		0x0B, 0x30, 0x01, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x2A, 0x00, 0x00, 0x00,
		0x80, 0x08, 0x00, 0x00, 0xAA, 0xBB, 0xCC, 0xDD, // unknown section, more follow
		0x01, 0x10, 0x00, 0x00,
		0x04, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	body, err := metadata.ParseMethodBody(raw)
	require.NoError(t, err)

	require.Len(t, body.ExceptionRegions, 1)
	assert.Equal(t, ir.HandlerFault, body.ExceptionRegions[0].Kind)
	assert.True(t, body.ExceptionRegions[0].CatchType.IsNil())
	assert.Equal(t, len(raw), body.Size)
}

func TestParseMethodBodyMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"format 0", []byte{0x00}},
		{"format 1", []byte{0x01}},
		{"tiny truncated", []byte{0x0E, 0x00}},
		{"fat header truncated", []byte{0x03, 0x30, 0x08}},
		{"fat header size", []byte{0x03, 0x20, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"fat code truncated", []byte{0x03, 0x30, 0x08, 0x00, 0x64, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x2A}},
		{"missing section", []byte{0x0B, 0x30, 0x08, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x2A}},
		{"section too short", []byte{
			0x0B, 0x30, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x01, 0x02, 0x00, 0x00,
		}},
		{"section past end", []byte{
			0x0B, 0x30, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x01, 0x10, 0x00, 0x00, 0x00,
		}},
		{"partial clause", []byte{
			0x0B, 0x30, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x01, 0x0A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := metadata.ParseMethodBody(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.IsMalformed(err), "got %v", err)
		})
	}
}
