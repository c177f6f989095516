package discover

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoHashKey(t *testing.T) {
	assert.Equal(t, "info:abc123", infoHashKey("abc123"))
}

func TestNewRedisOverlayReturnsOverlay(t *testing.T) {
	o := NewRedisOverlay("127.0.0.1:6379")
	assert.NotNil(t, o)

	rc, ok := o.(*redisOverlay)
	assert.True(t, ok)
	assert.NotNil(t, rc.client)
}

func TestSearchParsesHostPort(t *testing.T) {
	peers, err := parseMembers([]string{"10.0.0.5:4040", "2001:db8::1:9090", "malformed"})
	assert.NoError(t, err)
	assert.Equal(t, []PeerAddr{
		{Host: "10.0.0.5", Port: 4040},
		{Host: "2001:db8::1", Port: 9090},
	}, peers)
}
