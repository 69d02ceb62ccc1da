package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DecodeKind discriminates why a token failed verification. Kinds feed logs
// and metrics only; callers must present every failure to the client as the
// same opaque "invalid or expired token" outcome.
type DecodeKind string

const (
	DecodeMalformed    DecodeKind = "malformed"
	DecodeBadSignature DecodeKind = "bad_signature"
	DecodeExpired      DecodeKind = "expired"
)

// DecodeError wraps a token verification failure with its kind.
type DecodeError struct {
	Kind DecodeKind
	err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("token %s: %v", e.Kind, e.err)
}

func (e *DecodeError) Unwrap() error { return e.err }

// SessionClaims is the signed session payload. Field names are part of the
// external token contract and must not change.
type SessionClaims struct {
	Sub        uint   `json:"sub"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	TenantID   uint   `json:"tenantId"`
	TenantSlug string `json:"tenantSlug"`
	Plan       string `json:"plan"`
	jwt.RegisteredClaims
}

// Config holds JWT configuration.
type Config struct {
	SigningKey      string
	ExpirationHours int
}

// JWTUtil issues and verifies session tokens. It is constructed once at
// startup from process-wide configuration and holds the signing key
// immutably; nothing re-reads the secret per request.
type JWTUtil struct {
	signingKey []byte
	lifetime   time.Duration
}

// New creates a JWTUtil from the given configuration.
func New(cfg *Config) *JWTUtil {
	return &JWTUtil{
		signingKey: []byte(cfg.SigningKey),
		lifetime:   time.Duration(cfg.ExpirationHours) * time.Hour,
	}
}

// Generate creates a signed session token carrying the user's identity and
// tenant context. The embedded plan and role are a snapshot; they can go
// stale relative to storage until the token is re-issued, bounded by the
// token lifetime.
func (j *JWTUtil) Generate(userID uint, email, role string, tenantID uint, tenantSlug, plan string) (string, error) {
	return j.generate(userID, email, role, tenantID, tenantSlug, plan, j.lifetime)
}

// GenerateWithLifetime is Generate with an explicit lifetime, for callers
// that need to synthesize short-lived or already-expired tokens in tests.
func (j *JWTUtil) GenerateWithLifetime(userID uint, email, role string, tenantID uint, tenantSlug, plan string, lifetime time.Duration) (string, error) {
	return j.generate(userID, email, role, tenantID, tenantSlug, plan, lifetime)
}

func (j *JWTUtil) generate(userID uint, email, role string, tenantID uint, tenantSlug, plan string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Sub:        userID,
		Email:      email,
		Role:       role,
		TenantID:   tenantID,
		TenantSlug: tenantSlug,
		Plan:       plan,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.signingKey)
}

// Validate verifies the signature and expiry of a token and returns its
// claims. Failures come back as a *DecodeError; the kind must never reach
// the client.
func (j *JWTUtil) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// HS256 only. A token claiming any other method is rejected
			// before signature verification.
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return j.signingKey, nil
		},
	)

	if err != nil {
		return nil, &DecodeError{Kind: decodeKind(err), err: err}
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, &DecodeError{Kind: DecodeMalformed, err: errors.New("invalid token")}
	}

	return claims, nil
}

func decodeKind(err error) DecodeKind {
	var vErr *jwt.ValidationError
	if !errors.As(err, &vErr) {
		return DecodeMalformed
	}
	switch {
	case vErr.Errors&jwt.ValidationErrorMalformed != 0:
		return DecodeMalformed
	case vErr.Errors&jwt.ValidationErrorExpired != 0:
		return DecodeExpired
	case vErr.Errors&jwt.ValidationErrorSignatureInvalid != 0:
		return DecodeBadSignature
	default:
		return DecodeMalformed
	}
}
