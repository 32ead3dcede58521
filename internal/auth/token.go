package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/jobfinder-service/internal/domain"
)

// ErrInvalidToken is returned for any token that fails verification: bad
// signature, malformed payload, wrong algorithm or elapsed expiry.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager. TTL defaults to 60 minutes.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims describes the JWT payload.
type Claims struct {
	SubjectID string        `json:"id"`
	Roles     []domain.Role `json:"roles"`
	UserName  string        `json:"userName"`
	jwt.RegisteredClaims
}

// Issue builds and signs a JWT carrying the subject identity, roles and a
// fresh jti. A non-positive ttl falls back to the manager default.
func (tm *TokenManager) Issue(subjectID, userName string, roles []domain.Role, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = tm.ttl
	}
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		SubjectID: subjectID,
		Roles:     roles,
		UserName:  userName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Decode verifies the signature and structure and returns the claims. Every
// failure mode collapses into ErrInvalidToken; callers treat it as
// unauthenticated, never as fatal.
func (tm *TokenManager) Decode(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
