package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teampulsehq/teampulse-go/internal/domain/user"
)

func TestTokenRoundTrip(t *testing.T) {
	u := &user.User{
		ID:    "01HZX4T9",
		Name:  "Asha Rao",
		Email: "asha@example.com",
		Role:  user.RoleTeamLead,
	}

	token, err := GenerateToken(u, "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, "team_lead", claims.Role)
	assert.Equal(t, u.ID, claims.Subject)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	u := &user.User{ID: "u1", Role: user.RoleTeamMember}

	token, err := GenerateToken(u, "secret-a", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret-b")
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	u := &user.User{ID: "u1", Role: user.RoleTeamMember}

	token, err := GenerateToken(u, "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "test-secret")
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", "test-secret")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}

func TestGenerateULIDIsSortableAndUnique(t *testing.T) {
	a := GenerateULID()
	b := GenerateULID()

	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, a, b)
}
