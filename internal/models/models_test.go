package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanModerate(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleMember, false},
		{RoleOldgen, false},
		{RoleModerator, true},
		{RoleAdmin, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanModerate(tt.role), "role %s", tt.role)
	}
}

func TestSafeProjectionHasNoPassword(t *testing.T) {
	user := User{
		ID:           7,
		Username:     "alice",
		PasswordHash: "deadbeef.cafebabe",
		Email:        "alice@example.com",
		Role:         RoleMember,
		Status:       StatusApproved,
	}

	data, err := json.Marshal(user.Safe())
	require.NoError(t, err)

	serialized := strings.ToLower(string(data))
	assert.NotContains(t, serialized, "password")
	assert.NotContains(t, serialized, "deadbeef")
	assert.Contains(t, serialized, "alice")
}

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	user := User{Username: "bob", PasswordHash: "deadbeef.cafebabe"}

	data, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "deadbeef")
}

func TestGhostUser(t *testing.T) {
	ghost := GhostUser()
	assert.Equal(t, int64(0), ghost.ID)
	assert.Equal(t, "Ghost", ghost.Username)
	assert.Equal(t, RoleMember, ghost.Role)
	assert.Equal(t, StatusApproved, ghost.Status)
}
