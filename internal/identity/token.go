package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// overrideClaims carries the act-as signals inside a signed token so the
// impersonation cookie cannot be forged client-side.
type overrideClaims struct {
	ActAsUserID int64 `json:"act_as_user_id,omitempty"`
	ActAsRoleID int64 `json:"act_as_role_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and parses override tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager constructs a manager with the given HMAC secret.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token carrying the overrides.
func (m *TokenManager) Issue(ov Overrides) (string, error) {
	now := time.Now()
	claims := overrideClaims{
		ActAsUserID: ov.ActAsUserID,
		ActAsRoleID: ov.ActAsRoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse validates a token and extracts the overrides. Negative ids are
// normalized to absent.
func (m *TokenManager) Parse(tokenString string) (Overrides, error) {
	var claims overrideClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return Overrides{}, err
	}
	if !token.Valid {
		return Overrides{}, errors.New("invalid token")
	}
	ov := Overrides{ActAsUserID: claims.ActAsUserID, ActAsRoleID: claims.ActAsRoleID}
	if ov.ActAsUserID < 0 {
		ov.ActAsUserID = 0
	}
	if ov.ActAsRoleID < 0 {
		ov.ActAsRoleID = 0
	}
	return ov, nil
}
