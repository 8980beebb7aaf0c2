package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fastFriends/gestura/internal/domain"
	"github.com/fastFriends/gestura/internal/session"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

// termNotifier imprime las notificaciones del manager con estilo.
type termNotifier struct{}

func (termNotifier) Success(msg string) {
	fmt.Println(successStyle.Render("✓ " + msg))
}

func (termNotifier) Error(msg string) {
	fmt.Println(errorStyle.Render("✗ " + msg))
}

// termNavigator avisa que la sesión dejó de ser válida; el menú vuelve
// solo a las opciones de login en la siguiente vuelta.
type termNavigator struct{}

func (termNavigator) ToLogin() {
	fmt.Println(errorStyle.Render("Tu sesión expiró. Inicia sesión de nuevo."))
}

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	apiURL := os.Getenv("GESTURA_API_URL")

	storagePath := os.Getenv("GESTURA_STORAGE")
	if storagePath == "" {
		path, err := session.DefaultStoragePath()
		if err != nil {
			log.Fatal(err)
		}
		storagePath = path
	}

	logger := zap.NewNop()
	if os.Getenv("GESTURA_DEBUG") != "" {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	store := session.NewFileStore(storagePath)
	manager := session.NewManager(logger, apiURL, store, termNotifier{}, termNavigator{})

	fmt.Println(titleStyle.Render("===== Gestura ====="))
	fmt.Println("Restaurando sesión...")
	manager.Bootstrap(ctx)

	for {
		if manager.IsAuthenticated() {
			if done := authenticatedMenu(ctx, reader, manager); done {
				return
			}
		} else {
			if done := anonymousMenu(ctx, reader, manager); done {
				return
			}
		}
	}
}

func anonymousMenu(ctx context.Context, reader *bufio.Reader, manager *session.Manager) bool {
	fmt.Println()
	fmt.Println("[1] Iniciar sesión")
	fmt.Println("[2] Crear cuenta")
	fmt.Println("[3] Salir")
	fmt.Print("Selección: ")

	switch readLine(reader) {
	case "1":
		loginFlow(ctx, reader, manager)
	case "2":
		signupFlow(ctx, reader, manager)
	case "3":
		return true
	default:
		fmt.Println("Selección inválida.")
	}
	return false
}

func authenticatedMenu(ctx context.Context, reader *bufio.Reader, manager *session.Manager) bool {
	user := manager.User()
	if user != nil {
		fmt.Printf("\n--- Sesión de %s ---\n", user.Username)
	}
	fmt.Println("[1] Quién soy")
	fmt.Println("[2] Traducir (demo)")
	fmt.Println("[3] Estado del servicio")
	fmt.Println("[4] Cerrar sesión")
	fmt.Println("[5] Salir")
	fmt.Print("Selección: ")

	switch readLine(reader) {
	case "1":
		whoami(manager)
	case "2":
		translateFlow(ctx, reader, manager)
	case "3":
		serviceStatus(ctx, manager)
	case "4":
		manager.Logout(ctx)
	case "5":
		return true
	default:
		fmt.Println("Selección inválida.")
	}
	return false
}

func loginFlow(ctx context.Context, reader *bufio.Reader, manager *session.Manager) {
	fmt.Print("Email: ")
	email := readLine(reader)
	if err := validateEmail(email); err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		return
	}
	fmt.Print("Contraseña: ")
	password := readLine(reader)
	if err := validatePassword(password); err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		return
	}

	// El manager ya notifica éxito o error; acá solo mantenemos el formulario.
	_ = manager.Login(ctx, email, password)
}

func signupFlow(ctx context.Context, reader *bufio.Reader, manager *session.Manager) {
	fmt.Print("Email: ")
	email := readLine(reader)
	if err := validateEmail(email); err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		return
	}
	fmt.Print("Nombre de usuario: ")
	username := readLine(reader)
	if err := validateUsername(username); err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		return
	}
	fmt.Print("Contraseña: ")
	password := readLine(reader)
	if err := validatePassword(password); err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		return
	}

	_ = manager.Signup(ctx, email, username, password)
}

func whoami(manager *session.Manager) {
	user := manager.User()
	if user == nil {
		fmt.Println("No hay sesión activa.")
		return
	}
	fmt.Printf("ID:       %s\n", user.ID)
	fmt.Printf("Email:    %s\n", user.Email)
	fmt.Printf("Usuario:  %s\n", user.Username)
	fmt.Printf("Activo:   %v\n", user.IsActive)
	fmt.Printf("Creado:   %s\n", user.CreatedAt.Format("2006-01-02 15:04"))
}

func translateFlow(ctx context.Context, reader *bufio.Reader, manager *session.Manager) {
	fmt.Print("Idioma origen [en]: ")
	source := readLine(reader)
	if source == "" {
		source = "en"
	}
	fmt.Print("Idioma destino [es]: ")
	target := readLine(reader)
	if target == "" {
		target = "es"
	}

	resp, err := manager.API().Translate(ctx, domain.TranslateRequest{
		SourceLanguage: source,
		TargetLanguage: target,
	})
	if err != nil {
		fmt.Println(errorStyle.Render("No se pudo traducir: " + err.Error()))
		return
	}
	fmt.Printf("Traducción: %s (confianza %.2f)\n", resp.Text, resp.Confidence)
}

func serviceStatus(ctx context.Context, manager *session.Manager) {
	status, err := manager.API().TranslationStatus(ctx)
	if err != nil {
		fmt.Println(errorStyle.Render("No se pudo consultar el estado: " + err.Error()))
		return
	}
	fmt.Printf("Estado: %s\n", status.Status)
	fmt.Printf("Mensaje: %s\n", status.Message)
	fmt.Printf("Idiomas: %s\n", strings.Join(status.SupportedLanguages, ", "))
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
