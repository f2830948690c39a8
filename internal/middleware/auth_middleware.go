package middleware

import (
	"net/http"
	"strings"

	"github.com/dinperin/simikm-backend/internal/app/service"
	"github.com/dinperin/simikm-backend/internal/errors"
	"github.com/dinperin/simikm-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// Context keys for the authenticated staff member.
const (
	ActorNameKey = "actor_name"
	ActorRoleKey = "actor_role"
)

// Staff roles accepted on protected routes. Tokens are issued by the
// dinas SSO; this service only verifies them.
const (
	RoleAdmin   = "admin"
	RolePetugas = "petugas"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate validates the bearer token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Format otorisasi tidak valid")
				c.Abort()
				return
			}
			token = parts[1]
		} else {
			// WebSocket clients cannot set headers, so the badge stream
			// passes the token as a query parameter.
			token = c.Query("token")
			if token == "" {
				log.Warn("Missing authorization header", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				errors.Unauthorized(c, "")
				c.Abort()
				return
			}
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Sesi Anda telah berakhir. Silakan login kembali")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Token otorisasi tidak valid")
			}
			c.Abort()
			return
		}

		c.Set(ActorNameKey, claims.Name)
		c.Set(ActorRoleKey, claims.Role)

		log.Debug("Staff authenticated", map[string]interface{}{
			"name": claims.Name,
			"role": claims.Role,
		})

		c.Next()
	}
}

// RequireRole checks that the authenticated actor holds one of the roles
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		actorRole, exists := c.Get(ActorRoleKey)
		if !exists {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzRoleNotFound, "Informasi peran tidak ditemukan")
			c.Abort()
			return
		}

		role := actorRole.(string)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		log.Warn("Insufficient permissions", map[string]interface{}{
			"role":           role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		errors.Forbidden(c, "")
		c.Abort()
	}
}

// GetActor extracts the authenticated actor for audit attribution.
func GetActor(c *gin.Context) (service.Actor, bool) {
	name, nameOK := c.Get(ActorNameKey)
	role, roleOK := c.Get(ActorRoleKey)
	if !nameOK || !roleOK {
		return service.Actor{}, false
	}
	return service.Actor{
		Name: name.(string),
		Role: role.(string),
	}, true
}
