package jwt_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/jwt"
)

func TestPasswordResetToken_RoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := uuid.New()
	token, err := jwt.GeneratePasswordResetToken(userID)
	require.NoError(t, err)

	got, err := jwt.ValidatePasswordResetToken(token)
	require.NoError(t, err)
	require.Equal(t, userID, got)
}

func TestPasswordResetToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := jwt.GeneratePasswordResetToken(uuid.New())
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = jwt.ValidatePasswordResetToken(token)
	require.Error(t, err)
}

func TestPasswordResetToken_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := jwt.ValidatePasswordResetToken("not-a-token")
	require.Error(t, err)
}
