// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package primer

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePrimer(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "primer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writePrimer(t, "- octopus skin changes color via chromatophores\n- bridges use expansion joints\n- octopus skin changes color via chromatophores\n")

	pool, err := Load(path)
	require.NoError(t, err)

	// Order preserved, duplicates allowed.
	assert.Equal(t, []string{
		"octopus skin changes color via chromatophores",
		"bridges use expansion joints",
		"octopus skin changes color via chromatophores",
	}, pool)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writePrimer(t, "- unclosed: [bracket\n  bad")
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestLoad_NonListDocument(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"mapping", "mechanisms:\n  - one\n"},
		{"scalar", "just a string\n"},
		{"list with non-string entry", "- fine\n- {nested: map}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePrimer(t, tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchema)
			assert.NotErrorIs(t, err, ErrParse)
		})
	}
}

func TestSample(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	rng := rand.New(rand.NewSource(42))

	for k := 1; k <= len(pool); k++ {
		got, err := Sample(pool, k, rng)
		require.NoError(t, err)
		require.Len(t, got, k)

		seen := make(map[string]bool)
		inPool := make(map[string]bool)
		for _, s := range pool {
			inPool[s] = true
		}
		for _, s := range got {
			assert.True(t, inPool[s], "sampled element %q not in pool", s)
			assert.False(t, seen[s], "duplicate element %q in sample", s)
			seen[s] = true
		}
	}
}

func TestSample_Deterministic(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e"}

	first, err := Sample(pool, 3, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	second, err := Sample(pool, 3, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSample_DoesNotMutatePool(t *testing.T) {
	pool := []string{"a", "b", "c", "d"}
	_, err := Sample(pool, 4, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, pool)
}

func TestSample_SizeErrors(t *testing.T) {
	pool := []string{"a", "b"}
	rng := rand.New(rand.NewSource(1))

	_, err := Sample(pool, 3, rng)
	assert.ErrorIs(t, err, ErrSampleSize)

	_, err = Sample(pool, 0, rng)
	assert.ErrorIs(t, err, ErrSampleSize)

	_, err = Sample(pool, -1, rng)
	assert.ErrorIs(t, err, ErrSampleSize)
}
