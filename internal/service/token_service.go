package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPurpose binds a signed token to exactly one use. Verification rejects a
// token presented for a different purpose even when the signature is valid.
type TokenPurpose string

const (
	PurposeAccess TokenPurpose = "access"
	PurposeScan   TokenPurpose = "attendance-scan"
	PurposeReset  TokenPurpose = "password-reset"
)

// TokenClaims are the custom claims carried by every token this service signs.
type TokenClaims struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	Purpose   string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed, purpose-bound, expiring
// tokens. Verify has no side effects.
type TokenService struct {
	secret []byte
	clock  Clock
}

func NewTokenService(secret string, clock Clock) *TokenService {
	return &TokenService{secret: []byte(secret), clock: clock}
}

// Issue signs a token binding accountID, purpose, and an absolute expiry.
func (s *TokenService) Issue(accountID uuid.UUID, purpose TokenPurpose, ttl time.Duration) (string, error) {
	return s.issue(&TokenClaims{AccountID: accountID.String(), Purpose: string(purpose)}, ttl)
}

// IssueAccess signs a login token carrying email and role for the auth
// middleware.
func (s *TokenService) IssueAccess(accountID uuid.UUID, email, role string, ttl time.Duration) (string, error) {
	claims := &TokenClaims{
		AccountID: accountID.String(),
		Email:     email,
		Role:      role,
		Purpose:   string(PurposeAccess),
	}
	return s.issue(claims, ttl)
}

func (s *TokenService) issue(claims *TokenClaims, ttl time.Duration) (string, error) {
	now := s.clock.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		// A unique jti keeps two tokens issued in the same second from
		// serializing to the same string.
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature, expiry, and purpose, and returns the claims.
// Errors: ErrTokenExpired, ErrTokenMalformed, ErrWrongPurpose.
func (s *TokenService) Verify(tokenString string, expected TokenPurpose) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.Purpose != string(expected) {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

// NewResetToken generates a high-entropy password-reset token. The raw hex
// value goes out by email; only the SHA-256 digest is ever stored.
func NewResetToken() (raw, hash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	return raw, HashResetToken(raw), nil
}

// HashResetToken returns the hex SHA-256 digest of a raw reset token.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
