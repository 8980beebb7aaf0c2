package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fastFriends/gestura/internal/domain"
)

// DefaultBaseURL apunta al backend de desarrollo local.
const DefaultBaseURL = "http://localhost:8000"

// TokenSource entrega el bearer token vigente, o "" si no hay sesión.
type TokenSource func() string

// Client es el cliente de la API de Gestura. Cada request sale por un
// único camino (doRequest) que adjunta el token y dispara el hook de
// no-autorizado ante cualquier 401, sin importar el endpoint.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
}

// New construye un cliente apuntando a baseURL. tokens y onUnauthorized
// pueden ser nil.
func New(baseURL string, tokens TokenSource, onUnauthorized func()) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		tokens:         tokens,
		onUnauthorized: onUnauthorized,
	}
}

// BaseURL devuelve la dirección configurada del backend.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SignupRequest es el payload de POST /api/auth/signup.
type SignupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse es la respuesta de POST /api/auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TranslationStatus es la respuesta de GET /api/translate/status.
type TranslationStatus struct {
	Status             string   `json:"status"`
	Message            string   `json:"message"`
	SupportedLanguages []string `json:"supported_languages"`
	User               string   `json:"user"`
}

// Signup crea una cuenta nueva.
func (c *Client) Signup(ctx context.Context, email, username, password string) (domain.User, error) {
	var user domain.User
	req := SignupRequest{Email: email, Username: username, Password: password}
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/signup", req, &user); err != nil {
		return domain.User{}, fmt.Errorf("client.Signup: %w", err)
	}
	return user, nil
}

// Login intercambia credenciales por un access token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var resp LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return LoginResponse{}, fmt.Errorf("client.Login: %w", err)
	}
	return resp, nil
}

// Logout revoca el token vigente en el backend.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// Me devuelve el usuario autenticado.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := c.doRequest(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return domain.User{}, fmt.Errorf("client.Me: %w", err)
	}
	return user, nil
}

// Translate envía una solicitud de traducción simulada.
func (c *Client) Translate(ctx context.Context, req domain.TranslateRequest) (domain.TranslateResponse, error) {
	var resp domain.TranslateResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/translate", req, &resp); err != nil {
		return domain.TranslateResponse{}, fmt.Errorf("client.Translate: %w", err)
	}
	return resp, nil
}

// TranslationStatus consulta el estado del servicio de traducción.
func (c *Client) TranslationStatus(ctx context.Context) (TranslationStatus, error) {
	var status TranslationStatus
	if err := c.doRequest(ctx, http.MethodGet, "/api/translate/status", nil, &status); err != nil {
		return TranslationStatus{}, fmt.Errorf("client.TranslationStatus: %w", err)
	}
	return status, nil
}

// Health verifica que el backend responda.
func (c *Client) Health(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodGet, "/health", nil, nil); err != nil {
		return fmt.Errorf("client.Health: %w", err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &APIError{StatusCode: resp.StatusCode, Detail: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Detail != "" {
			return &APIError{StatusCode: resp.StatusCode, Detail: apiErr.Detail}
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(respBody))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
