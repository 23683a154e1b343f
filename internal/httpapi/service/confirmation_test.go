package service

import (
	"testing"

	"reviewhub/internal/httpapi/models"

	"github.com/stretchr/testify/assert"
)

func testUser() *models.User {
	return &models.User{
		ID:       "7b0e3f02-8c3a-4f4e-9a43-1f3a0a3f1a11",
		Username: "bob",
		Email:    "b@x.com",
		Role:     models.RoleUser,
	}
}

func TestCodeFor_Deterministic(t *testing.T) {
	codes := NewConfirmationCodes("test-secret-test-secret-test-secret")
	user := testUser()

	first, err := codes.CodeFor(user)
	assert.NoError(t, err)
	second, err := codes.CodeFor(user)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, codeLength)
}

func TestCodeFor_DiffersPerUser(t *testing.T) {
	codes := NewConfirmationCodes("test-secret-test-secret-test-secret")

	alice := testUser()
	carol := testUser()
	carol.ID = "0f6f1f1c-4a21-4c3e-8d9a-2b1b8d9a2b1b"
	carol.Username = "carol"

	a, _ := codes.CodeFor(alice)
	c, _ := codes.CodeFor(carol)
	assert.NotEqual(t, a, c)
}

func TestVerify_Match(t *testing.T) {
	codes := NewConfirmationCodes("test-secret-test-secret-test-secret")
	user := testUser()

	code, err := codes.CodeFor(user)
	assert.NoError(t, err)
	assert.True(t, codes.Verify(user, code))
}

func TestVerify_Mismatch(t *testing.T) {
	codes := NewConfirmationCodes("test-secret-test-secret-test-secret")
	user := testUser()

	assert.False(t, codes.Verify(user, "definitely-not-the-code"))
	assert.False(t, codes.Verify(user, ""))
}

// A code derived before an identity edit must stop verifying afterwards:
// the fingerprint covers username, email and role.
func TestVerify_StaleAfterStateChange(t *testing.T) {
	codes := NewConfirmationCodes("test-secret-test-secret-test-secret")
	user := testUser()

	code, err := codes.CodeFor(user)
	assert.NoError(t, err)

	user.Email = "new@x.com"
	assert.False(t, codes.Verify(user, code))

	user.Email = "b@x.com"
	assert.True(t, codes.Verify(user, code), "restoring the state restores the code")

	user.Role = models.RoleModerator
	assert.False(t, codes.Verify(user, code))
}

func TestCodeFor_SecretMatters(t *testing.T) {
	user := testUser()

	a, _ := NewConfirmationCodes("secret-one-secret-one-secret-one").CodeFor(user)
	b, _ := NewConfirmationCodes("secret-two-secret-two-secret-two").CodeFor(user)
	assert.NotEqual(t, a, b)
}
