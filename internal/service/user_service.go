package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastFriends/gestura/internal/domain"
	"github.com/fastFriends/gestura/internal/repository"
)

// UserService coordina reglas de negocio para cuentas y credenciales.
type UserService struct {
	logger       *zap.Logger
	users        repository.UserRepository
	loginLimiter LoginRateLimiter
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, loginLimiter LoginRateLimiter) *UserService {
	if loginLimiter == nil {
		loginLimiter = NewLoginRateLimiter(loginWindow, 10)
	}
	return &UserService{
		logger:       logger,
		users:        users,
		loginLimiter: loginLimiter,
	}
}

type SignupInput struct {
	Email    string
	Username string
	Password string
}

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("inactive user")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrRateLimited        = errors.New("rate limited")
)

const loginWindow = 10 * time.Minute

// Signup crea una cuenta nueva con email y username únicos.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	email := normalizeEmail(input.Email)
	if email == "" {
		return domain.User{}, ErrInvalidEmail
	}
	username := strings.TrimSpace(input.Username)
	password := strings.TrimSpace(input.Password)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return domain.User{}, ErrUsernameTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hashBytes),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}

	if s.logger != nil {
		s.logger.Info("user created", zap.String("user_id", user.ID))
	}
	return user, nil
}

// Authenticate valida credenciales y devuelve el usuario activo.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	if s.loginLimiter != nil && !s.loginLimiter.Allow(emailAddr) {
		return domain.User{}, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return domain.User{}, ErrInactiveUser
	}
	return user, nil
}

// GetByEmail busca un usuario por email normalizado.
func (s *UserService) GetByEmail(ctx context.Context, emailAddr string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}
	return s.users.GetByEmail(ctx, emailAddr)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LoginRateLimiter limita intentos de login por clave.
type LoginRateLimiter interface {
	Allow(key string) bool
}

type loginRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
}

// NewLoginRateLimiter crea un rate limiter en memoria.
func NewLoginRateLimiter(window time.Duration, max int) LoginRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &loginRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
	}
}

func (l *loginRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	cutoff := now.Add(-l.window)
	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	kept = append(kept, now)
	l.hits[key] = kept
	return true
}
