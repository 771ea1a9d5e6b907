package token

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessTTL       = 15 * time.Minute
	RefreshTTL      = 7 * 24 * time.Hour
	VerificationTTL = 24 * time.Hour

	// separate signing domain: verification tokens never validate as
	// access tokens and vice versa
	verificationSalt = "email-verification"
)

var (
	ErrMissingJTI = errors.New("token does not contain a jti field")
)

type UserClaims struct {
	UserUID string `json:"user_uid"`
	Email   string `json:"email_address"`
	Role    string `json:"role"`
}

type Claims struct {
	User    UserClaims `json:"user"`
	Refresh bool       `json:"refresh"`
	jwt.RegisteredClaims
}

type verificationClaims struct {
	Email string `json:"email_address"`
	jwt.RegisteredClaims
}

// Blocklist is the revocation side-store consulted on every authenticated
// request. Entries expire on their own once the token would have expired.
type Blocklist interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Contains(ctx context.Context, jti string) (bool, error)
}

type Service struct {
	secret    []byte
	blocklist Blocklist
}

func NewService(secret []byte, blocklist Blocklist) *Service {
	return &Service{secret: secret, blocklist: blocklist}
}

// Issue signs a token carrying the user claims, an absolute expiry and a
// fresh jti. Access and refresh tokens differ only in the refresh flag and
// the duration passed in.
func (s *Service) Issue(user UserClaims, ttl time.Duration, refresh bool) (string, error) {
	claims := Claims{
		User:    user,
		Refresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies signature and expiry. Expired tokens surface
// jwt.ErrTokenExpired via errors.Is so callers can route to the refresh flow.
func (s *Service) Decode(raw string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !t.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ID == "" {
		return nil, ErrMissingJTI
	}
	return claims, nil
}

// Revoke blocklists the token's jti for its remaining lifetime, bounding
// store growth to what the token could still be replayed for.
func (s *Service) Revoke(ctx context.Context, claims *Claims) error {
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	return s.blocklist.Add(ctx, claims.ID, remaining)
}

func (s *Service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.blocklist.Contains(ctx, jti)
}

func (s *Service) verificationKey() []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(verificationSalt))
	return mac.Sum(nil)
}

func (s *Service) IssueVerification(email string) (string, error) {
	claims := verificationClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(VerificationTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.verificationKey())
	if err != nil {
		return "", fmt.Errorf("sign verification token: %w", err)
	}
	return signed, nil
}

// DecodeVerification returns the email the token was bound to.
func (s *Service) DecodeVerification(raw string) (string, error) {
	claims := &verificationClaims{}
	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return s.verificationKey(), nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid verification token: %w", err)
	}
	if !t.Valid {
		return "", errors.New("invalid verification token")
	}
	if claims.Email == "" {
		return "", errors.New("verification token missing email")
	}
	return claims.Email, nil
}
