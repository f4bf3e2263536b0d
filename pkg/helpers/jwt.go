package helpers

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

// JWTManager handles generation and validation of JWT tokens.
// Access and refresh tokens are signed with independent secrets.
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	// Leeway is the clock-skew tolerance applied to exp. Zero means a token
	// is rejected as soon as the clock passes its exp second.
	Leeway time.Duration

	now func() time.Time
}

func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &JWTManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// WithClock replaces the time source used for issuing and verifying.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	m.now = now
	return m
}

// TokenSubject is the identity a token is minted for.
type TokenSubject struct {
	UserID int64
	Email  string
	Role   string
}

type Claims struct {
	Email string   `json:"email"`
	Role  string   `json:"role,omitempty"`
	Roles []string `json:"roles,omitempty"`
	Type  string   `json:"typ"`
	jwt.RegisteredClaims
}

// UserID parses the numeric subject.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

func (m *JWTManager) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

func (m *JWTManager) GenerateAccessToken(sub TokenSubject) (string, time.Time, error) {
	return m.sign(sub, TokenTypeAccess, m.AccessTTL, m.AccessSecret)
}

func (m *JWTManager) GenerateRefreshToken(sub TokenSubject) (string, time.Time, error) {
	return m.sign(sub, TokenTypeRefresh, m.RefreshTTL, m.RefreshSecret)
}

func (m *JWTManager) sign(sub TokenSubject, typ string, ttl time.Duration, secret []byte) (string, time.Time, error) {
	now := m.clock()
	exp := now.Add(ttl)
	claims := &Claims{
		Email: sub.Email,
		Role:  sub.Role,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(sub.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(secret)
	return s, exp, err
}

func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, m.AccessSecret, TokenTypeAccess)
}

func (m *JWTManager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, m.RefreshSecret, TokenTypeRefresh)
}

func (m *JWTManager) parse(tokenStr string, secret []byte, typ string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	},
		jwt.WithLeeway(m.Leeway),
		jwt.WithTimeFunc(m.clock),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !tkn.Valid || claims.Type != typ {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
