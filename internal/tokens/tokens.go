package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour

	typeRefresh = "refresh"
)

var ErrNotRefresh = errors.New("not a refresh token")

type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	Role string `json:"role"`
	Typ  string `json:"typ"`
	jwt.RegisteredClaims
}

// Signed is a raw token with its id and expiry.
type Signed struct {
	Raw       string
	JTI       string
	ExpiresAt time.Time
}

// Issuer signs and verifies HS256 tokens. Access and refresh tokens use
// different secrets.
type Issuer struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Now           func() time.Time
}

func (i Issuer) now() time.Time {
	if i.Now == nil {
		return time.Now()
	}
	return i.Now()
}

func (i Issuer) SignAccess(userID uuid.UUID, role string) (Signed, error) {
	now := i.now()
	exp := now.Add(AccessTTL)
	claims := AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.AccessSecret)
	if err != nil {
		return Signed{}, fmt.Errorf("sign access token: %w", err)
	}
	return Signed{Raw: raw, ExpiresAt: exp}, nil
}

func (i Issuer) SignRefresh(userID uuid.UUID, role string) (Signed, error) {
	now := i.now()
	exp := now.Add(RefreshTTL)
	jti := uuid.NewString()
	claims := RefreshClaims{
		Role: role,
		Typ:  typeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.RefreshSecret)
	if err != nil {
		return Signed{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return Signed{Raw: raw, JTI: jti, ExpiresAt: exp}, nil
}

func (i Issuer) ParseAccess(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if _, err := i.parse(raw, claims, i.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (i Issuer) ParseRefresh(raw string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if _, err := i.parse(raw, claims, i.RefreshSecret); err != nil {
		return nil, err
	}
	if claims.Typ != typeRefresh || claims.ID == "" {
		return nil, ErrNotRefresh
	}
	return claims, nil
}

func (i Issuer) parse(raw string, claims jwt.Claims, secret []byte) (*jwt.Token, error) {
	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UserID extracts the subject as a uuid.
func UserID(c jwt.RegisteredClaims) (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
