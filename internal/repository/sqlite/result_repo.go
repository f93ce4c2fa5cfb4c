package sqlite

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/career-suite/internal/domain/entity"
	"github.com/yourusername/career-suite/internal/domain/repository"
	apperrors "github.com/yourusername/career-suite/internal/pkg/errors"
)

// ResultRepo реализует repository.ResultRepository
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo создает новый репозиторий результатов квизов
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// Save сохраняет итоговый результат попытки. Процент всегда
// пересчитывается из числа правильных ответов перед записью.
func (r *ResultRepo) Save(result *entity.QuizResult) error {
	if result.TotalQuestions <= 0 {
		return fmt.Errorf("%w: total questions must be positive, got %d",
			apperrors.ErrValidation, result.TotalQuestions)
	}
	if result.CorrectAnswers < 0 || result.CorrectAnswers > result.TotalQuestions {
		return fmt.Errorf("%w: correct answers %d out of range [0, %d]",
			apperrors.ErrValidation, result.CorrectAnswers, result.TotalQuestions)
	}
	result.ScorePercentage = entity.ComputeScorePercentage(result.CorrectAnswers, result.TotalQuestions)

	if err := r.db.Create(result).Error; err != nil {
		return fmt.Errorf("failed to save quiz result: %w", err)
	}
	return nil
}

// GetByID возвращает результат по идентификатору
func (r *ResultRepo) GetByID(id uint) (*entity.QuizResult, error) {
	var result entity.QuizResult
	err := r.db.First(&result, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quiz result: %w", err)
	}
	return &result, nil
}

// GetRecent возвращает последние limit результатов, новые первыми.
// Пустая таблица - валидный результат, не ошибка.
func (r *ResultRepo) GetRecent(limit int) ([]entity.QuizResult, error) {
	var results []entity.QuizResult
	err := r.db.Order("created_at DESC").Limit(limit).Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz history: %w", err)
	}
	return results, nil
}

// GetAll возвращает все результаты. Используется для экспорта, где нужна полная выборка.
func (r *ResultRepo) GetAll() ([]entity.QuizResult, error) {
	var results []entity.QuizResult
	if err := r.db.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to get all quiz results: %w", err)
	}
	return results, nil
}

// Count возвращает число сохранённых результатов
func (r *ResultRepo) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&entity.QuizResult{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count quiz results: %w", err)
	}
	return count, nil
}

// OverallStats возвращает сводную статистику по всем результатам.
// COALESCE даёт нулевую сводку на пустой таблице вместо NULL.
func (r *ResultRepo) OverallStats() (*repository.OverallStats, error) {
	var stats repository.OverallStats
	err := r.db.Model(&entity.QuizResult{}).
		Select(`
			COUNT(*) as total_quizzes,
			COALESCE(AVG(score_percentage), 0) as avg_score,
			COALESCE(MAX(score_percentage), 0) as best_score,
			COALESCE(SUM(correct_answers), 0) as total_correct,
			COALESCE(SUM(total_questions), 0) as total_questions
		`).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute overall stats: %w", err)
	}

	if stats.TotalQuestions > 0 {
		stats.Accuracy = float64(stats.TotalCorrect) / float64(stats.TotalQuestions) * 100
	}
	return &stats, nil
}

// StatsByLanguage возвращает число попыток и средний балл по каждому языку
func (r *ResultRepo) StatsByLanguage() ([]repository.GroupStats, error) {
	return r.groupStats("language")
}

// StatsByDifficulty возвращает число попыток и средний балл по каждой сложности
func (r *ResultRepo) StatsByDifficulty() ([]repository.GroupStats, error) {
	return r.groupStats("difficulty")
}

func (r *ResultRepo) groupStats(column string) ([]repository.GroupStats, error) {
	var stats []repository.GroupStats
	err := r.db.Model(&entity.QuizResult{}).
		Select(fmt.Sprintf(`
			%s as "group",
			COUNT(*) as total_attempts,
			COALESCE(AVG(score_percentage), 0) as avg_score
		`, column)).
		Group(column).
		Order(column).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats by %s: %w", column, err)
	}
	return stats, nil
}

// DeleteAll удаляет все результаты и возвращает число удалённых строк
func (r *ResultRepo) DeleteAll() (int64, error) {
	res := r.db.Where("1 = 1").Delete(&entity.QuizResult{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete quiz results: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// AnonymizeOlderThan очищает quiz_detail у строк старше cutoff и возвращает
// число затронутых строк. Предикат исключает уже анонимизированные строки,
// поэтому повторный запуск по тем же строкам возвращает 0.
func (r *ResultRepo) AnonymizeOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Model(&entity.QuizResult{}).
		Where("created_at < ? AND quiz_data <> ?", cutoff, entity.AnonymizedDetailMarker).
		Update("quiz_data", entity.AnonymizedDetailMarker)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to anonymize quiz results: %w", res.Error)
	}
	return res.RowsAffected, nil
}
