package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fastFriends/gestura/internal/service"
)

// AuthHandler mantiene dependencias para endpoints de autenticación.
// Los errores usan cuerpo {"detail": ...} por compatibilidad con los
// clientes existentes.
type AuthHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
	jwtServ  *service.JWTService
}

// NewAuthHandler crea una instancia de AuthHandler con dependencias necesarias.
func NewAuthHandler(logger *zap.Logger, userServ *service.UserService, jwtServ *service.JWTService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		userServ: userServ,
		jwtServ:  jwtServ,
	}
}

// Signup maneja POST /api/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid signup request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request"})
		return
	}

	user, err := h.userServ.Signup(c.Request.Context(), service.SignupInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
			return
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Username already taken"})
			return
		default:
			h.logger.Error("signup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not create user"})
			return
		}
	}

	c.JSON(http.StatusCreated, user)
}

// Login maneja POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request"})
		return
	}

	user, err := h.userServ.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect email or password"})
			return
		case errors.Is(err, service.ErrInactiveUser):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Inactive user"})
			return
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"detail": "Too many login attempts"})
			return
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not login"})
			return
		}
	}

	token, err := h.jwtServ.GenerateToken(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// Logout maneja POST /api/auth/logout. Revoca el token presentado.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := GetAuthToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}
	if err := h.jwtServ.RevokeToken(token); err != nil {
		h.logger.Warn("token revoke failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// Me maneja GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := GetAuthUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return
	}
	c.JSON(http.StatusOK, user)
}
