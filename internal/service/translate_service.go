package service

import (
	"context"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/fastFriends/gestura/internal/domain"
)

// TranslateService simula el pipeline de traducción de señas.
// El modelo real aún no existe; las respuestas son frases fijas por idioma.
type TranslateService struct {
	logger *zap.Logger
	mu     sync.Mutex
	rng    *rand.Rand
}

func NewTranslateService(logger *zap.Logger, seed int64) *TranslateService {
	return &TranslateService{
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

var dummyTranslations = map[string][]string{
	"en": {"Hello, how are you?", "Welcome to the translator", "This is a test message"},
	"es": {"Hola, ¿cómo estás?", "Bienvenido al traductor", "Este es un mensaje de prueba"},
	"fr": {"Bonjour, comment allez-vous?", "Bienvenue au traducteur", "Ceci est un message de test"},
}

// SupportedLanguages expone los idiomas anunciados por /api/translate/status.
var SupportedLanguages = []string{"en", "es", "fr", "de", "it", "pt"}

const placeholderAudioURL = "https://example.com/audio/placeholder.mp3"

// Translate devuelve una traducción simulada para el idioma destino.
func (s *TranslateService) Translate(_ context.Context, req domain.TranslateRequest) (domain.TranslateResponse, error) {
	phrases, ok := dummyTranslations[req.TargetLanguage]
	if !ok {
		phrases = dummyTranslations["en"]
	}
	s.mu.Lock()
	text := phrases[s.rng.Intn(len(phrases))]
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("translate placeholder",
			zap.String("source", req.SourceLanguage),
			zap.String("target", req.TargetLanguage),
		)
	}

	return domain.TranslateResponse{
		Text:           text,
		AudioURL:       placeholderAudioURL,
		Confidence:     0.95,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
	}, nil
}
