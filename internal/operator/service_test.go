package operator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	dErrors "swapsecure/pkg/domain-errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	return New(string(hash), "test-signing-key", time.Hour)
}

func TestLoginAndValidate(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.Login("hunter2", "op-42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	operatorID, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "op-42", operatorID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login("wrong", "op-42")
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestLogin_Unconfigured(t *testing.T) {
	svc := New("", "", time.Hour)

	_, err := svc.Login("anything", "op-42")
	assert.True(t, dErrors.Is(err, dErrors.CodeUnavailable))
}

func TestValidate_GarbageToken(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Validate("not-a-jwt")
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestValidate_WrongKey(t *testing.T) {
	svc := newTestService(t)
	other := New("", "other-signing-key", time.Hour)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	other.passwordHash = []byte(hash)

	token, err := other.Login("hunter2", "op-42")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}
