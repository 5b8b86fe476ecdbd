package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"invoice_manager/internal/models"
	"invoice_manager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ContextKeyActor holds the resolved services.Actor in the gin context.
const ContextKeyActor = "actor"

// Claims are issued by the identity provider. The subject identifies the user.
type Claims struct {
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs claims for subject with HS256. Used by tooling and tests;
// production tokens come from the identity provider.
func GenerateToken(subject string, companyID uuid.UUID, role models.UserRole, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		CompanyID: companyID.String(),
		Role:      string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}
	return signed, nil
}

// ParseToken verifies an HS256 token and returns its claims.
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid JWT")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// AuthMiddleware authenticates the bearer token and stores the caller's
// services.Actor under ContextKeyActor.
func AuthMiddleware(jwtSecret string, users services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized", "error": "Authorization header required"})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized", "error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := ParseToken(parts[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized", "error": err.Error()})
			return
		}
		companyID, err := uuid.Parse(claims.CompanyID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized", "error": "token has no valid company_id"})
			return
		}

		actor, err := users.ResolveActor(c.Request.Context(), services.Identity{
			Subject:   claims.Subject,
			CompanyID: companyID,
			Role:      models.UserRole(claims.Role),
			Email:     claims.Email,
			Name:      claims.Name,
		})
		switch {
		case errors.Is(err, services.ErrForbidden):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden", "error": err.Error()})
			return
		case err != nil:
			c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}

		c.Set(ContextKeyActor, actor)
		c.Next()
	}
}

// AdminMiddleware only lets admins through. AuthMiddleware must run first.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok || !actor.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden", "error": "Administrator privileges required"})
			return
		}
		c.Next()
	}
}

func ActorFrom(c *gin.Context) (services.Actor, bool) {
	v, ok := c.Get(ContextKeyActor)
	if !ok {
		return services.Actor{}, false
	}
	actor, ok := v.(services.Actor)
	return actor, ok
}
