package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordFormat(t *testing.T) {
	stored, err := HashPassword("hunter2")
	require.NoError(t, err)

	parts := strings.Split(stored, ".")
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], scryptKeyLen*2)
	assert.Len(t, parts[1], saltLen*2)
}

func TestVerifyPassword(t *testing.T) {
	stored, err := HashPassword("hunter2")
	require.NoError(t, err)

	match, err := VerifyPassword("hunter2", stored)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = VerifyPassword("hunter3", stored)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestVerifyPasswordUniqueSalts(t *testing.T) {
	first, err := HashPassword("hunter2")
	require.NoError(t, err)
	second, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPasswordMalformed(t *testing.T) {
	_, err := VerifyPassword("hunter2", "not-a-stored-hash")
	assert.Error(t, err)

	_, err = VerifyPassword("hunter2", "zz.zz")
	assert.Error(t, err)
}
