package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases and trims", "  Arsenal  ", "arsenal"},
		{"folds accents", "Atlético Madrid", "atletico madrid"},
		{"collapses punctuation runs", "St.--Pauli!!1910", "st pauli 1910"},
		{"alias via compact form", "P.S.G.", "paris saint germain"},
		{"alias lowercase", "psg", "paris saint germain"},
		{"non alias untouched", "Real Madrid", "real madrid"},
		{"blank", "   ", ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"Paris Saint-Germain", "Atlético Madrid", "Man Utd", "borussia mönchengladbach"} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestVariants(t *testing.T) {
	t.Parallel()

	got := Variants("Manchester United FC")
	require.NotEmpty(t, got)
	assert.Contains(t, got, "manchester united fc")
	assert.Contains(t, got, "manchester united")
	assert.Contains(t, got, "manchesterunitedfc")
	assert.Contains(t, got, "manchesterunited")

	// Deterministic: two calls yield the same slice.
	assert.Equal(t, got, Variants("Manchester United FC"))
}

func TestVariantsStripsNoiseTokens(t *testing.T) {
	t.Parallel()

	assert.Contains(t, Variants("Arsenal Women U21"), "arsenal")
	assert.Contains(t, Variants("St Mirren"), "saint mirren")
	assert.Contains(t, Variants("Newcastle Utd"), "newcastle united")
}

func TestVariantsBlankInput(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Variants(""))
	assert.Nil(t, Variants("  \t "))
	assert.NotEmpty(t, Variants("x"))
}

func TestSlugAndPairKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "saint-pauli-1910", Slug("St. Pauli 1910"))
	assert.Equal(t, "newcastle-united", Slug("Newcastle Utd"))
	// Rewrites expand abbreviations but never drop tokens.
	assert.Equal(t, "liverpool-fc", Slug("Liverpool FC"))
	assert.Equal(t, "real madrid|barcelona", PairKey("Real Madrid", "Barcelona"))
}
