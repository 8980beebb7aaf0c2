package session

// Notifier recibe los mensajes visibles para el usuario que emite el
// manager (equivalente a los toasts del cliente web).
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Navigator redirige la interfaz a la pantalla de login cuando el
// transporte detecta un 401.
type Navigator interface {
	ToLogin()
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

// NopNotifier descarta todas las notificaciones.
func NopNotifier() Notifier { return nopNotifier{} }

type nopNavigator struct{}

func (nopNavigator) ToLogin() {}

// NopNavigator ignora las redirecciones.
func NopNavigator() Navigator { return nopNavigator{} }
