package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveAccountKeyDeterministic(t *testing.T) {
	a := DeriveAccountKey("alice@example.com")
	b := DeriveAccountKey("alice@example.com")
	c := DeriveAccountKey("bob@example.com")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, accountKeyLength)
}

func TestDeriveTokenSHA1Deterministic(t *testing.T) {
	a := DeriveTokenSHA1("alice@example.com", "hunter2")
	b := DeriveTokenSHA1("alice@example.com", "hunter2")
	c := DeriveTokenSHA1("alice@example.com", "different")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 20)
}
