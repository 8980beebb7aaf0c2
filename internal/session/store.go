package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Claves de almacenamiento duradero. Se preservan los nombres que usa
// el cliente web para que una sesión guardada siga siendo válida.
const (
	StorageKeyToken = "access_token"
	StorageKeyUser  = "user"
)

// Store es el almacenamiento clave-valor que sobrevive reinicios del
// proceso. Get devuelve "" sin error cuando la clave no existe.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// FileStore persiste un mapa JSON en disco.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// DefaultStoragePath devuelve ~/.gestura/storage.json.
func DefaultStoragePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".gestura", "storage.json"), nil
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return "", err
	}
	return items[key], nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return err
	}
	items[key] = value
	return s.save(items)
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return s.save(items)
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read storage: %w", err)
	}
	items := make(map[string]string)
	if err := json.Unmarshal(data, &items); err != nil {
		// Archivo corrupto: se descarta en la siguiente escritura.
		return make(map[string]string), nil
	}
	return items, nil
}

func (s *FileStore) save(items map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	return nil
}

// MemStore es un Store en memoria para pruebas.
type MemStore struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{items: make(map[string]string)}
}

func (s *MemStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[key], nil
}

func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
