package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appmonitoring "github.com/supplychain/backend/internal/application/monitoring"
	"github.com/supplychain/backend/internal/infrastructure/auth"
	"github.com/supplychain/backend/internal/infrastructure/logger"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Identity context keys and headers
const (
	UserIDKey     = "user_id"
	UsernameKey   = "username"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
	UserIDHeader  = "X-User-ID"
)

// TokenVerifier verifies a bearer token
type TokenVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

// AuthFailureRecorder receives every rejected token
type AuthFailureRecorder interface {
	RecordAuthFailure(ctx context.Context, f appmonitoring.AuthFailure)
}

// JWTConfig holds configuration for the JWT middleware
type JWTConfig struct {
	Verifier TokenVerifier
	// SkipPaths are paths served without authentication.
	SkipPaths []string
	// AllowHeaderIdentity accepts X-User-ID when no bearer token is sent.
	AllowHeaderIdentity bool
	// Recorder is told about rejected tokens. Optional.
	Recorder AuthFailureRecorder
	Logger   *zap.Logger
}

// JWTAuth resolves the caller from the bearer token and stores it in both
// the gin and request contexts. Requests without a usable identity are
// rejected with 401.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			if cfg.AllowHeaderIdentity {
				if id, err := uuid.Parse(c.GetHeader(UserIDHeader)); err == nil && id != uuid.Nil {
					setIdentity(c, &auth.Identity{UserID: id})
					c.Next()
					return
				}
			}
			abortWithError(c, dto.ErrCodeUnauthorized, "Authentication credentials were not provided")
			return
		}

		token, found := strings.CutPrefix(header, BearerPrefix)
		if !found || token == "" {
			rejectToken(c, cfg, log, auth.ErrInvalidToken)
			return
		}

		identity, err := cfg.Verifier.Verify(token)
		if err != nil {
			rejectToken(c, cfg, log, err)
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// rejectToken records the failure and answers 401
func rejectToken(c *gin.Context, cfg JWTConfig, log *zap.Logger, err error) {
	log.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()),
	)
	if cfg.Recorder != nil {
		cfg.Recorder.RecordAuthFailure(c.Request.Context(), appmonitoring.AuthFailure{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Endpoint:  c.Request.URL.Path,
			Reason:    err.Error(),
		})
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		abortWithError(c, dto.ErrCodeTokenExpired, "Token has expired")
	default:
		abortWithError(c, dto.ErrCodeTokenInvalid, "Given token not valid")
	}
}

func setIdentity(c *gin.Context, identity *auth.Identity) {
	c.Set(UserIDKey, identity.UserID)
	c.Set(UsernameKey, identity.Username)

	ctx := logger.WithUserID(c.Request.Context(), identity.UserID.String())
	c.Request = c.Request.WithContext(ctx)
}

// UserID returns the authenticated identity of the request
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// Username returns the authenticated username, or "" for header identities
func Username(c *gin.Context) string {
	return c.GetString(UsernameKey)
}
