package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestVerifierFromPlaintext(t *testing.T) {
	v, err := NewVerifier("admin", "", "hunter2")
	require.NoError(t, err)

	assert.NoError(t, v.Verify("admin", "hunter2"))
	assert.ErrorIs(t, v.Verify("admin", "wrong"), ErrBadCredentials)
	assert.ErrorIs(t, v.Verify("root", "hunter2"), ErrBadCredentials)
}

func TestVerifierFromHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	v, err := NewVerifier("admin", string(hash), "")
	require.NoError(t, err)

	assert.NoError(t, v.Verify("admin", "hunter2"))
	assert.ErrorIs(t, v.Verify("admin", "hunter3"), ErrBadCredentials)
}

func TestVerifierRequiresSomeCredential(t *testing.T) {
	_, err := NewVerifier("admin", "", "")
	assert.Error(t, err)
}
