package repository

import (
	"time"

	"github.com/yourusername/career-suite/internal/domain/entity"
)

// CandidateRepository определяет методы для работы с анкетами кандидатов
type CandidateRepository interface {
	Save(profile *entity.CandidateProfile) error
	GetAll() ([]entity.CandidateProfile, error)
	Count() (int64, error)
	DeleteAll() (int64, error)
	AnonymizeOlderThan(cutoff time.Time) (int64, error)
}
