package jwt

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const purposePasswordReset = "password_reset"

// GeneratePasswordResetToken signs a short-lived token embedded in the
// reset link mailed to the user. The opaque API bearer tokens are stored in
// the database instead; JWT is only used here, where the credential must be
// verifiable without a stored row.
func GeneratePasswordResetToken(userID uuid.UUID) (string, error) {
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))

	claims := jwt.MapClaims{
		"sub":     userID.String(),
		"purpose": purposePasswordReset,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

func ValidatePasswordResetToken(tokenString string) (uuid.UUID, error) {
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})

	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, jwt.ErrInvalidKey
	}

	if purpose, _ := claims["purpose"].(string); purpose != purposePasswordReset {
		return uuid.Nil, errors.New("unexpected token purpose")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("subject missing from token claims")
	}

	return uuid.Parse(sub)
}
