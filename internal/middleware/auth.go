package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"bakery/internal/models"
)

const actorKey = "actor"

// Actor is the opaque identity attached to every request for auditing.
// Credential checking happens at login; handlers only consume this snapshot.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Anonymous is the actor recorded for unauthenticated requests.
var Anonymous = Actor{Name: "Anonymous", Role: models.RoleAnonymous}

// Identify resolves the request's actor from the Authorization header. When
// auth is disabled the register runs as a single dev admin, matching a
// single-operator deployment. Invalid tokens leave the actor anonymous
// rather than failing the request; role checks happen in RequireRole.
func Identify(secret string, authEnabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authEnabled {
			c.Set(actorKey, Actor{Name: "Dev", Role: models.RoleAdmin})
			c.Next()
			return
		}

		actor, err := actorFromHeader(c.GetHeader("Authorization"), secret)
		if err != nil {
			c.Set(actorKey, Anonymous)
			c.Next()
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRole aborts with 401/403 unless the request's actor carries one of
// the allowed roles. With auth disabled every request passes as dev admin.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if actor.Role == models.RoleAnonymous {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}

		for _, role := range allowedRoles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

// ActorFrom returns the actor attached by Identify, or Anonymous.
func ActorFrom(c *gin.Context) Actor {
	if value, ok := c.Get(actorKey); ok {
		if actor, ok := value.(Actor); ok {
			return actor
		}
	}
	return Anonymous
}

func actorFromHeader(header, secret string) (Actor, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return Anonymous, jwt.ErrTokenMalformed
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return Anonymous, jwt.ErrTokenMalformed
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Anonymous, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Anonymous, jwt.ErrTokenInvalidClaims
	}

	actor := Actor{Role: models.RoleAnonymous}
	if id, ok := claims["id"].(string); ok {
		actor.ID = id
	}
	if name, ok := claims["name"].(string); ok {
		actor.Name = name
	}
	if role, ok := claims["role"].(string); ok && role != "" {
		actor.Role = role
	}
	return actor, nil
}
