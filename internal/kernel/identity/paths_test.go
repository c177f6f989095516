package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureAndPlainDBPathsDiffer(t *testing.T) {
	appdata := "/var/lib/zisync"

	assert.NotEqual(t, SecureDBPath(appdata), PlainDBPath(appdata))
	assert.Contains(t, SecureDBPath(appdata), appdata)
	assert.Contains(t, PlainDBPath(appdata), appdata)
}
