package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adiwarna/identity-admin/internal"
	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

// User is the authenticated principal carried through request contexts. Its
// permission set is the union of the permissions of the user's active
// functional roles, flattened at login time.
type User struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions,omitempty"`
}

func (u *User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (u *User) HasAnyPermission(permissions []string) bool {
	for _, required := range permissions {
		if u.HasPermission(required) {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasPermission("admin")
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

// Token scopes. An MFA token may only be exchanged for real tokens through
// the second-factor endpoints.
const (
	ScopeAccess  = "access"
	ScopeRefresh = "refresh"
	ScopeMFA     = "mfa"
)

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Scope  string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResult is what a successful password check yields: either a token
// pair, or an MFA challenge token the client must complete first.
type LoginResult struct {
	MFARequired bool        `json:"mfa_required"`
	MFAToken    string      `json:"mfa_token,omitempty"`
	Tokens      *AuthTokens `json:"tokens,omitempty"`
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID, email string) (string, error)
	GenerateRefreshToken(userID, email string) (string, error)
	GenerateMFAToken(userID, email string) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	ValidateMFAToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	MFATokenTTL        time.Duration
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    24 * 7 * time.Hour,
		MFATokenTTL:        5 * time.Minute,
	}
}

var _ TokenGeneratorAPI = (*JWTTokenGenerator)(nil)

func (j *JWTTokenGenerator) sign(userID, email, scope string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Scope:  scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (j *JWTTokenGenerator) GenerateAccessToken(userID, email string) (string, error) {
	return j.sign(userID, email, ScopeAccess, j.AccessTokenTTL, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(userID, email string) (string, error) {
	return j.sign(userID, email, ScopeRefresh, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

// GenerateMFAToken issues the short-lived challenge token returned when a
// password check succeeds but a second factor is still pending. Signed with
// the access secret; the scope claim keeps it out of protected endpoints.
func (j *JWTTokenGenerator) GenerateMFAToken(userID, email string) (string, error) {
	return j.sign(userID, email, ScopeMFA, j.MFATokenTTL, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) validate(tokenString, scope string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Scope != scope {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, ScopeAccess, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, ScopeRefresh, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) ValidateMFAToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, ScopeMFA, j.AccessTokenSecret)
}
