package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret: "test-secret-key-at-least-32-chars",
		Issuer: "test-issuer",
	})
}

func sign(t *testing.T, claims jwt.Claims, method jwt.SigningMethod, key any) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestVerify_RoundTrip(t *testing.T) {
	svc := newTestJWTService()
	id := Identity{UserID: uuid.New(), Username: "alice"}

	token, err := svc.Issue(id, 15*time.Minute)
	require.NoError(t, err)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, *got)
}

func TestVerify_Rejections(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.NewString()
	now := time.Now()

	valid := func() *Claims {
		return &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "test-issuer",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			UserID:   userID,
			Username: "bob",
		}
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
		want  error
	}{
		{
			name: "expired",
			token: func(t *testing.T) string {
				c := valid()
				c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))
				return sign(t, c, jwt.SigningMethodHS256, svc.secret)
			},
			want: ErrExpiredToken,
		},
		{
			name: "not yet valid",
			token: func(t *testing.T) string {
				c := valid()
				c.NotBefore = jwt.NewNumericDate(now.Add(time.Hour))
				return sign(t, c, jwt.SigningMethodHS256, svc.secret)
			},
			want: ErrTokenNotYetValid,
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return sign(t, valid(), jwt.SigningMethodHS256, []byte("another-secret-of-sufficient-size"))
			},
			want: ErrInvalidToken,
		},
		{
			name: "other algorithm",
			token: func(t *testing.T) string {
				return sign(t, valid(), jwt.SigningMethodHS512, svc.secret)
			},
			want: ErrInvalidToken,
		},
		{
			name: "other issuer",
			token: func(t *testing.T) string {
				c := valid()
				c.Issuer = "someone-else"
				return sign(t, c, jwt.SigningMethodHS256, svc.secret)
			},
			want: ErrInvalidToken,
		},
		{
			name: "missing user id",
			token: func(t *testing.T) string {
				c := valid()
				c.UserID = ""
				return sign(t, c, jwt.SigningMethodHS256, svc.secret)
			},
			want: ErrMissingUserID,
		},
		{
			name: "user id is not a uuid",
			token: func(t *testing.T) string {
				c := valid()
				c.UserID = "42"
				return sign(t, c, jwt.SigningMethodHS256, svc.secret)
			},
			want: ErrInvalidToken,
		},
		{
			name:  "garbage",
			token: func(*testing.T) string { return "not.a.token" },
			want:  ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token(t))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestVerify_NoIssuerConfigured(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars"})
	token := sign(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "any"},
		UserID:           uuid.NewString(),
	}, jwt.SigningMethodHS256, svc.secret)

	_, err := svc.Verify(token)
	assert.NoError(t, err)
}
