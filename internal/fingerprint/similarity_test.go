package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"same", "same", 0},
		{"résumé", "resume", 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestNormalizedLevenshteinBounds(t *testing.T) {
	// Both empty is perfect agreement, one empty is total disagreement.
	assert.Equal(t, 0.0, NormalizedLevenshtein("", ""))
	assert.Equal(t, 1.0, NormalizedLevenshtein("abc", ""))
	assert.Equal(t, 1.0, NormalizedLevenshtein("", "abc"))

	assert.Equal(t, 0.0, NormalizedLevenshtein("smith", "smith"))
	assert.InDelta(t, 3.0/7.0, NormalizedLevenshtein("kitten", "sitting"), 1e-9)
}

func TestJaroWinklerKnownValues(t *testing.T) {
	// The classic worked example.
	assert.InDelta(t, 0.9611, JaroWinkler("martha", "marhta"), 0.001)

	assert.Equal(t, 1.0, JaroWinkler("smith", "smith"))
	assert.Equal(t, 0.0, JaroWinkler("abc", "xyz"))
	assert.Equal(t, 1.0, JaroWinkler("", ""))
	assert.Equal(t, 0.0, JaroWinkler("abc", ""))
}

func TestJaroWinklerFuzzyNameThreshold(t *testing.T) {
	// Given: the 0.9 detection threshold
	const threshold = 0.9

	// Then: a one-letter misspelling clears it
	assert.GreaterOrEqual(t, JaroWinkler("jonathan smith", "jonathon smith"), threshold)

	// And: a different first name with the same surname does not
	assert.Less(t, JaroWinkler("jonathan smith", "david smith"), threshold)
}

func TestJaroWinklerSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"jonathan smith", "jonathon smith"},
		{"tom cruise", "cruise tom"},
		{"a", "ab"},
	}
	for _, p := range pairs {
		assert.InDelta(t, JaroWinkler(p[0], p[1]), JaroWinkler(p[1], p[0]), 1e-12)
	}
}

func TestEnsembleSimilarity(t *testing.T) {
	// Identical strings score 1.0 under any weight split that sums
	// to one.
	assert.InDelta(t, 1.0,
		EnsembleSimilarity("smith", "smith", DefaultJaroWinklerWeight, DefaultLevenshteinWeight), 1e-9)

	// The blend sits between its two components.
	a, b := "jonathan", "jonathon"
	jw := JaroWinkler(a, b)
	lev := 1.0 - NormalizedLevenshtein(a, b)
	got := EnsembleSimilarity(a, b, DefaultJaroWinklerWeight, DefaultLevenshteinWeight)
	assert.InDelta(t, 0.6*jw+0.4*lev, got, 1e-9)
	assert.LessOrEqual(t, got, max(jw, lev)+1e-9)
	assert.GreaterOrEqual(t, got, min(jw, lev)-1e-9)
}

// Fuzzy-name detection calls this once per candidate pair inside a
// block, so its cost sets the flag pass's ceiling.
func BenchmarkJaroWinkler(b *testing.B) {
	pairs := [][2]string{
		{"jonathan smith", "jonathon smith"},
		{"alexandra fernandez-garcia", "alexandra fernandez garcia"},
		{"tom cruise", "grace hopper"},
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p := pairs[i%len(pairs)]
		JaroWinkler(p[0], p[1])
	}
}
