package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"salonbook/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ActorIDKey    = "actorID"
	BusinessIDKey = "businessID"
)

// TokenVerifier turns a bearer token into the id of the staff member
// acting.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// FirebaseVerifier checks Firebase ID tokens.
type FirebaseVerifier struct {
	Client *auth.Client
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (string, error) {
	t, err := v.Client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}
	return t.UID, nil
}

// JWTVerifier checks HS256 tokens signed with Secret.
type JWTVerifier struct {
	Secret []byte
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (string, error) {
	return utils.ExtractIDFromToken(v.Secret, token)
}

var errNoBearer = errors.New("missing or invalid Authorization header")

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", errNoBearer
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", errNoBearer
	}
	return token, nil
}

// IdentityMiddleware rejects requests without a verifiable bearer token
// and stores the actor id for handlers.
func IdentityMiddleware(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Insufficient authorization", Details: err.Error()})
			return
		}
		actor, err := v.Verify(c.Request.Context(), token)
		if err != nil || actor == "" {
			zap.L().Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Insufficient authorization", Details: "invalid token"})
			return
		}
		c.Set(ActorIDKey, actor)
		c.Next()
	}
}

// BusinessScope pins every request to the business this deployment serves.
func BusinessScope(businessID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(BusinessIDKey, businessID)
		c.Next()
	}
}
