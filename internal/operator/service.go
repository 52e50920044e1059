// Package operator implements the manual-override escape hatch: fraud-desk
// operators authenticate with a shared password and receive a short-lived
// token that authorizes out-of-band session locks.
package operator

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	dErrors "swapsecure/pkg/domain-errors"
)

const roleOperator = "operator"

// Service issues and validates operator tokens.
type Service struct {
	passwordHash []byte
	signingKey   []byte
	tokenTTL     time.Duration
}

// New constructs the operator service. passwordHash is a bcrypt hash of the
// operator password; an empty hash disables operator login entirely.
func New(passwordHash, signingKey string, tokenTTL time.Duration) *Service {
	return &Service{
		passwordHash: []byte(passwordHash),
		signingKey:   []byte(signingKey),
		tokenTTL:     tokenTTL,
	}
}

// Login verifies the operator password and returns a signed token.
func (s *Service) Login(password, operatorID string) (string, error) {
	if len(s.passwordHash) == 0 || len(s.signingKey) == 0 {
		return "", dErrors.New(dErrors.CodeUnavailable, "operator access not configured")
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid operator credentials")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  operatorID,
		"role": roleOperator,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign operator token")
	}
	return signed, nil
}

// Validate checks an operator token and returns the operator ID.
func (s *Service) Validate(tokenString string) (string, error) {
	if len(s.signingKey) == 0 {
		return "", dErrors.New(dErrors.CodeUnavailable, "operator access not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid operator token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid operator token")
	}
	if role, _ := claims["role"].(string); role != roleOperator {
		return "", dErrors.New(dErrors.CodeForbidden, "operator role required")
	}
	sub, _ := claims["sub"].(string)
	return sub, nil
}
