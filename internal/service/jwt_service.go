package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fastFriends/gestura/internal/domain"
)

// JWTService emite y valida access tokens JWT.
type JWTService struct {
	secret    []byte
	accessTTL time.Duration
	issuer    string
	denylist  TokenDenylist
}

type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

var (
	ErrJWTInvalid = errors.New("jwt invalid")
	ErrJWTExpired = errors.New("jwt expired")
	ErrJWTRevoked = errors.New("jwt revoked")
)

func NewJWTService(secret string, accessTTL time.Duration) *JWTService {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	return &JWTService{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		issuer:    "gestura",
		denylist:  NewMemoryTokenDenylist(),
	}
}

func NewJWTServiceWithDenylist(secret string, accessTTL time.Duration, denylist TokenDenylist) *JWTService {
	svc := NewJWTService(secret, accessTTL)
	if denylist != nil {
		svc.denylist = denylist
	}
	return svc
}

// GenerateToken firma un access token con sub=email y jti único.
func (s *JWTService) GenerateToken(user domain.User) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrJWTInvalid
	}
	now := time.Now().UTC()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken valida firma, expiración y lista de revocados.
func (s *JWTService) ParseToken(tokenString string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrJWTInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrJWTInvalid
	}
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return Claims{}, err
	}
	if claims.Subject == "" {
		return Claims{}, ErrJWTInvalid
	}
	if claims.ID != "" && s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(claims.ID)
		if err != nil || revoked {
			return Claims{}, ErrJWTRevoked
		}
	}
	return claims, nil
}

// RevokeToken agrega el jti del token a la lista de revocados hasta su expiración.
func (s *JWTService) RevokeToken(tokenString string) error {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return err
	}
	if claims.ID == "" || s.denylist == nil {
		return ErrJWTInvalid
	}
	ttl := s.accessTTL
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return s.denylist.Revoke(claims.ID, ttl)
}

func (s *JWTService) parseToken(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrJWTInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrJWTExpired
		}
		return Claims{}, ErrJWTInvalid
	}
	if !token.Valid {
		return Claims{}, ErrJWTInvalid
	}
	return claims, nil
}
