package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/decompiler/errors"
)

func TestSigMethod(t *testing.T) {
	out, err := execute(t, "sig", "method", "20 01 01 08")
	require.NoError(t, err)
	assertGolden(t, "sig_method", out)
}

func TestSigLocalsJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "sig", "locals", "07 02 08 12 09")
	require.NoError(t, err)
	assertGolden(t, "sig_locals_json", out)
}

func TestSigVarArgSentinel(t *testing.T) {
	// vararg void (int32, ..., float64)
	out, err := execute(t, "sig", "method", "05 02 01 08 41 0D")
	require.NoError(t, err)
	assert.Contains(t, out, "convention: vararg\n")
	assert.Contains(t, out, "slots: [i4 f]\n")
	assert.Contains(t, out, "sentinel: 1\n")
	assert.Contains(t, out, "arguments: 2\n")
}

func TestSigFieldYAML(t *testing.T) {
	out, err := execute(t, "--format", "yaml", "sig", "field", "06 0A")
	require.NoError(t, err)

	var res sigResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, sigResult{Kind: "field", Signature: "int64", StackType: "i8", Size: 2}, res)
}

func TestSigTrailingBytes(t *testing.T) {
	out, err := execute(t, "sig", "type", "08 FF FF")
	require.NoError(t, err)
	assert.Equal(t, "type: int32\nstack: i4\nsize: 1\ntrailing: 2\n", out)
}

func TestSigFromFile(t *testing.T) {
	dir := t.TempDir()
	hexPath := filepath.Join(dir, "sig.hex")
	rawPath := filepath.Join(dir, "sig.bin")
	require.NoError(t, os.WriteFile(hexPath, []byte("1D 08\n"), 0o644))
	require.NoError(t, os.WriteFile(rawPath, []byte{0x1D, 0x08}, 0o644))

	for _, path := range []string{hexPath, rawPath} {
		out, err := execute(t, "sig", "type", "@"+path)
		require.NoError(t, err, path)
		assert.Contains(t, out, "type: int32[]\n", path)
	}
}

func TestSigErrors(t *testing.T) {
	_, err := execute(t, "sig", "method", "06 08")
	require.Error(t, err)
	assert.True(t, errors.IsMalformed(err), "method signature without a return type: %v", err)

	_, err = execute(t, "sig", "type", "0G")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid hex")

	_, err = execute(t, "sig", "locals", "07 02 08")
	require.Error(t, err, "locals count beyond the data")

	_, err = execute(t, "sig", "type")
	require.Error(t, err, "argument is required")
}
