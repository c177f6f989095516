package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "a/b/c", NormalizePath(`a\b\c`))
	assert.Equal(t, "already/forward", NormalizePath("already/forward"))

	// NFC: "a" + combining-ring-above (U+0061 U+030A) normalizes to the
	// precomposed U+00E5 form, so the same visible name always compares
	// equal regardless of which form the originating filesystem handed us.
	decomposed := "å/file.txt"
	precomposed := "å/file.txt"
	assert.Equal(t, NormalizePath(precomposed), NormalizePath(decomposed))
}

func TestEscapeLikePattern(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLikePattern("100%"))
	assert.Equal(t, `a\_b`, EscapeLikePattern("a_b"))
	assert.Equal(t, `a\\b`, EscapeLikePattern(`a\b`))
}
