package consentfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/yourusername/career-suite/internal/domain/entity"
)

// Store хранит текущие статусы согласий в человекочитаемом JSON-файле,
// переживающем перезапуск. Запись идёт через временный файл с переименованием,
// чтобы сбой не оставил полузаписанный документ.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore создает файловое зеркало статусов согласий
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Set обновляет статус одного типа согласия и переписывает файл
func (s *Store) Set(consentType string, status entity.ConsentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readLocked()
	if err != nil {
		return err
	}
	data[consentType] = status

	return s.writeLocked(data)
}

// Get возвращает текущий статус типа согласия.
// Отсутствие записи - не согласие: второй результат false.
func (s *Store) Get(consentType string) (entity.ConsentStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readLocked()
	if err != nil {
		return entity.ConsentStatus{}, false
	}
	status, ok := data[consentType]
	return status, ok
}

// GetAll возвращает снимок всех текущих статусов
func (s *Store) GetAll() (map[string]entity.ConsentStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

// Remove удаляет файл целиком. Используется при полном стирании данных.
func (s *Store) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove consent file: %w", err)
	}
	return nil
}

func (s *Store) readLocked() (map[string]entity.ConsentStatus, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]entity.ConsentStatus{}, nil
		}
		return nil, fmt.Errorf("failed to read consent file: %w", err)
	}

	data := map[string]entity.ConsentStatus{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse consent file: %w", err)
	}
	return data, nil
}

func (s *Store) writeLocked(data map[string]entity.ConsentStatus) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal consent data: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create consent dir: %w", err)
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write consent file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace consent file: %w", err)
	}
	return nil
}
