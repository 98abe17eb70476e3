package testgen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate("msm-four-million", 50)
	b := Generate("msm-four-million", 50)
	require.Equal(t, a, b)
}

func TestGenerateVariesWithSeed(t *testing.T) {
	a := Generate("seed-one", 10)
	b := Generate("seed-two", 10)
	require.NotEqual(t, a.Scalars, b.Scalars)
}

func TestGenerateLength(t *testing.T) {
	v := Generate("length-check", 37)
	require.Len(t, v.Scalars, 37)
	require.Len(t, v.Points, 37)
}

func TestGenerateDistinctValuesAcrossIndices(t *testing.T) {
	v := Generate("distinctness", 5)
	for i := 1; i < len(v.Scalars); i++ {
		require.NotEqual(t, v.Scalars[0], v.Scalars[i])
	}
}
