package client

import (
	"errors"
	"fmt"
	"net/url"
	"syscall"
)

// APIError representa una respuesta no-2xx con cuerpo {"detail": ...}.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Detail)
}

// IsStatus indica si err (o algo envuelto en él) es un APIError con ese status.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// ErrorDetail extrae el mensaje detail del servidor, o "" si no aplica.
func ErrorDetail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// IsNetworkError indica si la request falló sin recibir respuesta.
func IsNetworkError(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// IsConnectionRefused indica si el backend rechazó la conexión.
func IsConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}
