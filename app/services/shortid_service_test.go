package services

import (
	"testing"

	"github.com/amirphl/Kusanagi-no-Tsurugi/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortIDGeneratorLength(t *testing.T) {
	generator := NewShortIDGenerator()

	urls := []string{
		"https://example.com",
		"https://example.com/a/very/long/path?with=query&and=params",
		"http://localhost:8080",
		"https://example.com/" + string(make([]byte, 2000)),
	}

	for _, u := range urls {
		code, err := generator.Generate(u)
		require.NoError(t, err)
		assert.Len(t, code, utils.ShortIDLength)
	}
}

func TestShortIDGeneratorAlphanumeric(t *testing.T) {
	generator := NewShortIDGenerator()

	for i := 0; i < 100; i++ {
		code, err := generator.Generate("https://example.com/page")
		require.NoError(t, err)
		for j := 0; j < len(code); j++ {
			assert.True(t, isAlphanumeric(code[j]), "code %q contains non-alphanumeric byte at %d", code, j)
		}
	}
}

func TestShortIDGeneratorSaltedPerCall(t *testing.T) {
	generator := NewShortIDGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generator.Generate("https://example.com/same-url")
		require.NoError(t, err)
		seen[code] = true
	}

	// The same URL must not map to a single fixed code
	assert.Greater(t, len(seen), 1)
}
