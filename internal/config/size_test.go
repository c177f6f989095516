package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize_Empty(t *testing.T) {
	n, err := ParseSize("")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestParseSize_Zero(t *testing.T) {
	n, err := ParseSize("0")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestParseSize_RawBytes(t *testing.T) {
	n, err := ParseSize("512")
	require.NoError(t, err)
	assert.Equal(t, int64(512), n)
}

func TestParseSize_SISuffixes(t *testing.T) {
	n, err := ParseSize("5GB")
	require.NoError(t, err)
	assert.Equal(t, int64(5*gigabyte), n)
}

func TestParseSize_IECSuffixes(t *testing.T) {
	n, err := ParseSize("5GiB")
	require.NoError(t, err)
	assert.Equal(t, int64(5*gibibyte), n)
}

func TestParseSize_Invalid(t *testing.T) {
	_, err := ParseSize("not-a-size")
	assert.Error(t, err)
}

func TestParseSize_Negative(t *testing.T) {
	_, err := ParseSize("-5")
	assert.Error(t, err)
}
