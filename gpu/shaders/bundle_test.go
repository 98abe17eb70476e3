package shaders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBundleBracesBalance(t *testing.T) {
	src := New().Source
	depth := 0
	for _, r := range src {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
		require.GreaterOrEqual(t, depth, 0, "unbalanced closing brace")
	}
	require.Equal(t, 0, depth, "unbalanced opening brace")
}

func TestBundleContainsEveryComputeEntryPoint(t *testing.T) {
	src := New().Source
	for _, name := range []string{
		"fn pass_a(",
		"fn pass_bi1(",
		"fn pass_bi2(",
		"fn pass_c(",
		"fn pass_d(",
		"fn pass_e(",
	} {
		require.Contains(t, src, name)
	}

	require.Equal(t, 6, strings.Count(src, "@compute"))
}

func TestBundleDeclaresSharedTypesOnce(t *testing.T) {
	src := New().Source
	require.Equal(t, 1, strings.Count(src, "struct Limbs256"))
	require.Equal(t, 1, strings.Count(src, "fn gte_256("))
}

func TestDefaultMatchesNew(t *testing.T) {
	require.Equal(t, New(), Default)
}
