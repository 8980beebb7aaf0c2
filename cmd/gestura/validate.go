package main

import (
	"errors"
	"regexp"
	"strings"
)

// Validaciones del borde del formulario. Los fallos se rechazan acá y
// nunca llegan al session manager ni a la red.

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("el email es obligatorio")
	}
	if !emailPattern.MatchString(email) {
		return errors.New("el email no tiene un formato válido")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return errors.New("la contraseña es obligatoria")
	}
	if len(password) < 6 {
		return errors.New("la contraseña debe tener al menos 6 caracteres")
	}
	return nil
}

func validateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("el nombre de usuario es obligatorio")
	}
	return nil
}
