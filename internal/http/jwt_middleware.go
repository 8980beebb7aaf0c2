package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/fastFriends/gestura/internal/domain"
	"github.com/fastFriends/gestura/internal/service"
)

const (
	authClaimsKey = "auth_claims"
	authTokenKey  = "auth_token"
	authUserKey   = "auth_user"
)

// JWTAuthMiddleware valida el access token, carga el usuario y lo guarda
// en el contexto. Rechaza tokens revocados y cuentas inactivas.
func JWTAuthMiddleware(jwtSvc *service.JWTService, userSvc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil || userSvc == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "auth not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := jwtSvc.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			c.Abort()
			return
		}

		user, err := userSvc.GetByEmail(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				c.JSON(http.StatusUnauthorized, gin.H{"detail": "User not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not load user"})
			}
			c.Abort()
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Inactive user"})
			c.Abort()
			return
		}

		c.Set(authClaimsKey, claims)
		c.Set(authTokenKey, token)
		c.Set(authUserKey, user)
		c.Next()
	}
}

// GetAuthClaims obtiene claims de JWT desde el contexto.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}

// GetAuthToken obtiene el token crudo presentado en la request.
func GetAuthToken(c *gin.Context) (string, bool) {
	val, ok := c.Get(authTokenKey)
	if !ok {
		return "", false
	}
	token, ok := val.(string)
	return token, ok
}

// GetAuthUser obtiene el usuario autenticado desde el contexto.
func GetAuthUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(authUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}
