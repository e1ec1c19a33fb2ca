package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenSignature covers every reason a presented token is rejected:
// bad signature, wrong algorithm, expiry, or malformed encoding.
var ErrTokenSignature = errors.New("token signature verification failed")

// SessionClaims is the stateless session: the subject is the user id.
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type TokenSigner interface {
	Sign(claims SessionClaims) (string, error)
	Verify(token string) (*SessionClaims, error)
}

type jwtSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTSigner signs HS256 tokens. A ttl of zero or less issues tokens
// without expiry.
func NewJWTSigner(secret string, ttl time.Duration) TokenSigner {
	return &jwtSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *jwtSigner) Sign(claims SessionClaims) (string, error) {
	now := s.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *jwtSigner) Verify(tokenString string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenSignature, err)
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenSignature
	}
	return claims, nil
}
