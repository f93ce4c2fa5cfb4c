package repository

import "github.com/yourusername/career-suite/internal/domain/entity"

// PrepRepository определяет методы для работы с историей тренировочных интервью
type PrepRepository interface {
	Save(attempt *entity.PrepAttempt) error
	GetRecent(limit int) ([]entity.PrepAttempt, error)
	GetAll() ([]entity.PrepAttempt, error)
	Count() (int64, error)
	DeleteAll() (int64, error)
}
