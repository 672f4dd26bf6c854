package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned when a token's embedded expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for malformed tokens or signature mismatches.
	ErrTokenInvalid = errors.New("invalid token")
)

// OrgClaim identifies one organization the bearer administers.
type OrgClaim struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Claims is the signed payload identifying a caller. It is embedded in every
// issued access token and immutable once signed.
type Claims struct {
	UserID        int64      `json:"userId"`
	LoginID       string     `json:"loginId"`
	IsChurchAdmin bool       `json:"isChurchAdmin,omitempty"`
	Organizations []OrgClaim `json:"organizations,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies access tokens with a single HS256 secret.
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte(secret), TTL: ttl}
}

// Sign produces a token embedding claims plus an expiry of now+TTL.
func (m *JWTManager) Sign(claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(m.TTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.Secret)
}

// Parse verifies the signature and expiry and returns the embedded claims.
// Expired tokens yield ErrTokenExpired; anything else wrong with the token
// yields ErrTokenInvalid.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
