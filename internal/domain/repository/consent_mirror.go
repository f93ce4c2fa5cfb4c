package repository

import "github.com/yourusername/career-suite/internal/domain/entity"

// ConsentMirror - производное read-оптимизированное представление текущих
// статусов согласий рядом с append-only журналом. Источник истины - журнал;
// зеркало обновляется только транзакционно вместе с ним.
type ConsentMirror interface {
	Set(consentType string, status entity.ConsentStatus) error
	Get(consentType string) (entity.ConsentStatus, bool)
	GetAll() (map[string]entity.ConsentStatus, error)
	Remove() error
}
