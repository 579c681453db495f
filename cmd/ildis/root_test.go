package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns what it wrote to
// stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func assertGolden(t *testing.T, name, got string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(got))
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand()

	assert.Equal(t, "ildis", cmd.Use)
	for _, name := range []string{"config", "format", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing --%s", name)
	}
	assert.Equal(t, "text", cmd.PersistentFlags().Lookup("format").DefValue)
	assert.Equal(t, "v", cmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestRootCommandSubcommands(t *testing.T) {
	cmd := newRootCommand()

	for _, path := range [][]string{
		{"sig", "type"},
		{"sig", "method"},
		{"sig", "locals"},
		{"sig", "field"},
		{"il"},
		{"scan"},
	} {
		found, _, err := cmd.Find(path)
		require.NoError(t, err, "%v", path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}

func TestRootInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "sig", "type", "08")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootConfigFile(t *testing.T) {
	out, err := execute(t, "--config", "testdata/ildis.toml", "sig", "type", "08")
	require.NoError(t, err)
	assert.Contains(t, out, `"signature": "int32"`, "format comes from the config file")

	out, err = execute(t, "--config", "testdata/ildis.toml", "--format", "text", "sig", "type", "08")
	require.NoError(t, err)
	assert.Equal(t, "type: int32\nstack: i4\nsize: 1\n", out, "flag overrides the file")
}

func TestRootMissingConfig(t *testing.T) {
	_, err := execute(t, "--config", "testdata/missing.toml", "sig", "type", "08")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read")
}
