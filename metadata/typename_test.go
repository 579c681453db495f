package metadata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/decompiler/metadata"
)

func TestParseTypeName(t *testing.T) {
	tests := []struct {
		in        string
		namespace string
		names     []string
	}{
		{"Object", "", []string{"Object"}},
		{"System.Object", "System", []string{"Object"}},
		{"A.B+C+D", "A", []string{"B", "C", "D"}},
		{"System.Collections.Generic.Dictionary`2+Enumerator", "System.Collections.Generic", []string{"Dictionary`2", "Enumerator"}},
		{"Outer+Inner.Dotted", "", []string{"Outer", "Inner.Dotted"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tn, err := metadata.ParseTypeName(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.namespace, tn.Namespace)
			assert.Equal(t, tt.names, tn.Names)
			assert.Equal(t, tt.in, tn.String())
		})
	}
}

func TestParseTypeNameInvalid(t *testing.T) {
	for _, in := range []string{"", "A+", "+B", "A++B", "System.", ".Object", "A..B.C"} {
		_, err := metadata.ParseTypeName(in)
		assert.Error(t, err, "ParseTypeName(%q)", in)
	}
}

func TestTypeNameNesting(t *testing.T) {
	tn, err := metadata.ParseTypeName("A.B+C+D")
	require.NoError(t, err)

	assert.Equal(t, "D", tn.Name())
	assert.True(t, tn.IsNested())

	outer, ok := tn.DeclaringType()
	require.True(t, ok)
	assert.Equal(t, "A.B+C", outer.String())

	top, ok := outer.DeclaringType()
	require.True(t, ok)
	assert.True(t, top.Equal(metadata.NewTypeName("A", "B")))
	assert.False(t, top.IsNested())

	_, ok = top.DeclaringType()
	assert.False(t, ok)

	// appending to a declaring type must not clobber the original chain
	sibling := outer.Nested("E")
	assert.Equal(t, "A.B+C+E", sibling.String())
	assert.Equal(t, "A.B+C+D", tn.String())
	assert.False(t, sibling.Equal(tn))
	assert.True(t, outer.Nested("D").Equal(tn))
}
