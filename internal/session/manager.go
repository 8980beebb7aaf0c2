package session

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/fastFriends/gestura/internal/client"
	"github.com/fastFriends/gestura/internal/domain"
)

// Mensajes visibles, idénticos a los del cliente web.
const (
	msgLoginSuccess   = "Login successful!"
	msgLoginFallback  = "Login failed. Please check your credentials."
	msgCannotConnect  = "Cannot connect to server. Please make sure the backend is running."
	msgNetworkPrefix  = "Network error. Check if backend is running on "
	msgSignupSuccess  = "Account created successfully!"
	msgSignupFallback = "Signup failed. Please try again."
	msgLogoutSuccess  = "Logged out successfully"
)

// Manager es la única autoridad sobre "quién está logueado". Todas las
// transiciones de autenticación pasan por él; el mutex serializa
// operaciones concurrentes para que dos logins en vuelo no pisen el
// estado entre sí.
type Manager struct {
	mu     sync.Mutex
	logger *zap.Logger
	api    *client.Client
	store  Store
	notify Notifier
	nav    Navigator

	user         *domain.User
	loading      bool
	bootstrapped bool

	// expired la prende el hook de 401, que no puede tomar el mutex; se
	// consume bajo el lock en la próxima operación o lectura de estado.
	expired atomic.Bool
}

// NewManager construye el manager y su cliente HTTP. El cliente toma el
// token vigente del store en cada request y, ante cualquier 401 de
// cualquier endpoint, purga el almacenamiento y redirige al login: el
// interceptor vive en el transporte, no en las operaciones.
func NewManager(logger *zap.Logger, baseURL string, store Store, notify Notifier, nav Navigator) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notify == nil {
		notify = NopNotifier()
	}
	if nav == nil {
		nav = NopNavigator()
	}
	m := &Manager{
		logger:  logger,
		store:   store,
		notify:  notify,
		nav:     nav,
		loading: true,
	}
	m.api = client.New(baseURL, m.currentToken, m.handleUnauthorized)
	return m
}

// API expone el cliente HTTP compartido, para llamadas fuera del ciclo
// de autenticación (traducción, estado del servicio).
func (m *Manager) API() *client.Client {
	return m.api
}

// User devuelve el usuario de la sesión, o nil si no hay sesión.
func (m *Manager) User() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reapExpired()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// IsAuthenticated se deriva siempre de user; nunca se guarda aparte.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reapExpired()
	return m.user != nil
}

// Loading es true solo durante el chequeo inicial de Bootstrap.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Bootstrap restaura la sesión guardada. Se ejecuta una sola vez por
// proceso; cualquier fallo degrada en silencio a estado no autenticado.
func (m *Manager) Bootstrap(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bootstrapped {
		return
	}
	m.bootstrapped = true

	token, err := m.store.Get(StorageKeyToken)
	if err != nil {
		m.logger.Warn("session storage read failed", zap.Error(err))
		token = ""
	}
	if token != "" {
		user, err := m.api.Me(ctx)
		if err != nil {
			m.logger.Warn("session restore failed", zap.Error(err))
			m.purgeStorage()
		} else {
			m.user = &user
		}
	}
	m.loading = false
}

// Login autentica contra el backend y deja la sesión poblada.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reapExpired()
	return m.login(ctx, email, password)
}

// login asume que el caller tiene el lock.
func (m *Manager) login(ctx context.Context, email, password string) error {
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.notify.Error(m.loginErrorMessage(err))
		return err
	}
	if resp.AccessToken != "" {
		if err := m.store.Set(StorageKeyToken, resp.AccessToken); err != nil {
			m.logger.Warn("persist token failed", zap.Error(err))
		}
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		m.notify.Error(m.loginErrorMessage(err))
		return err
	}
	m.user = &user
	if data, err := json.Marshal(user); err == nil {
		if err := m.store.Set(StorageKeyUser, string(data)); err != nil {
			m.logger.Warn("persist user failed", zap.Error(err))
		}
	}

	m.notify.Success(msgLoginSuccess)
	return nil
}

// Signup crea la cuenta y hace login inmediato con las mismas
// credenciales. Si el login anidado falla, el usuario ve solo el error
// de login y ninguna notificación de cuenta creada, aunque la cuenta
// exista; comportamiento heredado del cliente web.
func (m *Manager) Signup(ctx context.Context, email, username, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reapExpired()

	if _, err := m.api.Signup(ctx, email, username, password); err != nil {
		msg := client.ErrorDetail(err)
		if msg == "" {
			msg = msgSignupFallback
		}
		m.notify.Error(msg)
		return err
	}

	if err := m.login(ctx, email, password); err != nil {
		return err
	}

	m.notify.Success(msgSignupSuccess)
	return nil
}

// Logout cierra la sesión. La limpieza local ocurre aunque el backend
// falle; un fallo remoto no se notifica.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reapExpired()

	err := m.api.Logout(ctx)
	m.user = nil
	m.purgeStorage()
	if err != nil {
		m.logger.Warn("remote logout failed", zap.Error(err))
		return
	}
	m.notify.Success(msgLogoutSuccess)
}

// currentToken alimenta el header Authorization de cada request.
func (m *Manager) currentToken() string {
	token, err := m.store.Get(StorageKeyToken)
	if err != nil {
		return ""
	}
	return token
}

// handleUnauthorized corre ante cualquier 401 del transporte. No toma
// el mutex: puede dispararse en medio de una operación del manager, así
// que marca la sesión como expirada y deja que reapExpired la limpie.
func (m *Manager) handleUnauthorized() {
	m.expired.Store(true)
	_ = m.store.Delete(StorageKeyToken)
	_ = m.store.Delete(StorageKeyUser)
	m.nav.ToLogin()
}

// reapExpired consume la marca del hook de 401 con el lock ya tomado,
// descartando el usuario en memoria.
func (m *Manager) reapExpired() {
	if m.expired.CompareAndSwap(true, false) {
		m.user = nil
	}
}

func (m *Manager) purgeStorage() {
	if err := m.store.Delete(StorageKeyToken); err != nil {
		m.logger.Warn("clear token failed", zap.Error(err))
	}
	if err := m.store.Delete(StorageKeyUser); err != nil {
		m.logger.Warn("clear user failed", zap.Error(err))
	}
}

// loginErrorMessage elige el texto del error en este orden: detail del
// servidor, conexión rechazada, fallo de red genérico, fallback fijo.
func (m *Manager) loginErrorMessage(err error) string {
	if detail := client.ErrorDetail(err); detail != "" {
		return detail
	}
	if client.IsConnectionRefused(err) {
		return msgNetworkPrefix + m.api.BaseURL()
	}
	if client.IsNetworkError(err) {
		return msgCannotConnect
	}
	return msgLoginFallback
}
