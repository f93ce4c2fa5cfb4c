package service

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/career-suite/internal/domain/entity"
	"github.com/yourusername/career-suite/internal/domain/repository"
	apperrors "github.com/yourusername/career-suite/internal/pkg/errors"
)

// Форматы экспорта данных
const (
	ExportFormatJSON = "json"
	ExportFormatXLSX = "xlsx"
)

// ExportEnvelope - содержимое JSON-экспорта. Структура типизирована,
// чтобы выгруженный файл можно было прочитать обратно этим же кодом.
type ExportEnvelope struct {
	ExportedAt  time.Time                       `json:"exported_at"`
	QuizResults []entity.QuizResult             `json:"quiz_results"`
	PrepHistory []entity.PrepAttempt            `json:"prep_history"`
	Candidates  []entity.CandidateProfile       `json:"candidates"`
	Consents    map[string]entity.ConsentStatus `json:"consents"`
}

// DataSummary - сводка хранимых данных для раздела прозрачности
type DataSummary struct {
	QuizResultsCount int64   `json:"quiz_results_count"`
	PrepHistoryCount int64   `json:"prep_history_count"`
	CandidatesCount  int64   `json:"candidates_count"`
	ConsentCount     int64   `json:"consent_count"`
	AccessLogCount   int64   `json:"access_log_count"`
	DatabaseSizeMB   float64 `json:"database_size_mb"`
}

// PrivacyService реализует права субъекта данных: доступ (экспорт),
// стирание (удаление), минимизацию (анонимизация) и учет согласий.
// Каждая операция экспорта, удаления и анонимизации оставляет ровно
// одну запись в журнале доступа.
type PrivacyService struct {
	resultRepo    repository.ResultRepository
	candidateRepo repository.CandidateRepository
	prepRepo      repository.PrepRepository
	consentRepo   repository.ConsentRepository
	accessLogRepo repository.AccessLogRepository
	mirror        repository.ConsentMirror

	exportDir string
	dbPath    string
}

// NewPrivacyService создает новый сервис управления данными
func NewPrivacyService(
	resultRepo repository.ResultRepository,
	candidateRepo repository.CandidateRepository,
	prepRepo repository.PrepRepository,
	consentRepo repository.ConsentRepository,
	accessLogRepo repository.AccessLogRepository,
	mirror repository.ConsentMirror,
	exportDir string,
	dbPath string,
) *PrivacyService {
	return &PrivacyService{
		resultRepo:    resultRepo,
		candidateRepo: candidateRepo,
		prepRepo:      prepRepo,
		consentRepo:   consentRepo,
		accessLogRepo: accessLogRepo,
		mirror:        mirror,
		exportDir:     exportDir,
		dbPath:        dbPath,
	}
}

// ============ Учет согласий ============

// RecordConsent записывает выдачу или отзыв согласия. Тип согласия -
// произвольный строковый тег, набор открыт. Журнал только пополняется;
// зеркальный файл обновляется в той же транзакции.
func (s *PrivacyService) RecordConsent(consentType string, given bool) error {
	if strings.TrimSpace(consentType) == "" {
		return fmt.Errorf("%w: consent type must not be empty", apperrors.ErrValidation)
	}

	record := &entity.ConsentRecord{
		ConsentType:  consentType,
		ConsentGiven: given,
		CreatedAt:    time.Now(),
	}

	err := s.consentRepo.AppendWithSync(record, func() error {
		return s.mirror.Set(consentType, entity.ConsentStatus{
			Given:      given,
			RecordedAt: record.CreatedAt,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to record consent: %w", err)
	}

	log.Printf("[PrivacyService] Согласие %s: given=%t", consentType, given)
	return nil
}

// CheckConsent возвращает текущий статус согласия.
// Отсутствие записи означает отсутствие согласия.
func (s *PrivacyService) CheckConsent(consentType string) bool {
	status, ok := s.mirror.Get(consentType)
	if !ok {
		return false
	}
	return status.Given
}

// AllConsents возвращает текущие статусы всех зафиксированных согласий
func (s *PrivacyService) AllConsents() (map[string]entity.ConsentStatus, error) {
	return s.mirror.GetAll()
}

// ConsentHistory возвращает полный журнал согласий, старые первыми
func (s *PrivacyService) ConsentHistory() ([]entity.ConsentRecord, error) {
	return s.consentRepo.GetAll()
}

// ============ Право на доступ ============

// ExportAllData выгружает все пользовательские данные в файл указанного
// формата и возвращает путь к нему. Файл появляется атомарно: сначала
// пишется временный, затем переименовывается.
func (s *PrivacyService) ExportAllData(format string) (string, error) {
	if format != ExportFormatJSON && format != ExportFormatXLSX {
		return "", fmt.Errorf("%w: unsupported export format %q", apperrors.ErrValidation, format)
	}

	results, err := s.resultRepo.GetAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrExport, err)
	}
	prep, err := s.prepRepo.GetAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrExport, err)
	}
	candidates, err := s.candidateRepo.GetAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrExport, err)
	}
	consents, err := s.mirror.GetAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrExport, err)
	}

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: failed to create export dir: %v", apperrors.ErrExport, err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(s.exportDir, fmt.Sprintf("user_data_export_%s.%s", timestamp, format))

	switch format {
	case ExportFormatJSON:
		envelope := ExportEnvelope{
			ExportedAt:  time.Now(),
			QuizResults: results,
			PrepHistory: prep,
			Candidates:  candidates,
			Consents:    consents,
		}
		if err := writeJSONAtomic(path, envelope); err != nil {
			return "", fmt.Errorf("%w: %v", apperrors.ErrExport, err)
		}
	case ExportFormatXLSX:
		if err := writeXLSXExport(path, results, prep, candidates); err != nil {
			return "", fmt.Errorf("%w: %v", apperrors.ErrExport, err)
		}
	}

	// В счетчик аудита входят все выгруженные строки, включая снимок согласий
	totalRows := len(results) + len(prep) + len(candidates) + len(consents)
	s.logAccess(entity.AccessTypeExport, entity.TargetAllTables, totalRows, "GDPR Right to Access")

	log.Printf("[PrivacyService] Экспортировано %d записей в %s", totalRows, path)
	return path, nil
}

// writeJSONAtomic сериализует значение и записывает файл через
// временный с переименованием
func writeJSONAtomic(path string, value any) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize export file: %w", err)
	}
	return nil
}

// writeXLSXExport пишет книгу с листами по таблицам через StreamWriter
func writeXLSXExport(path string, results []entity.QuizResult, prep []entity.PrepAttempt, candidates []entity.CandidateProfile) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Quiz Results")
	sw, err := f.NewStreamWriter("Quiz Results")
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}
	headers := []interface{}{"ID", "Язык", "Сложность", "Всего вопросов", "Правильных", "Процент", "Время (сек)", "Дата"}
	if err := sw.SetRow("A1", headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, r := range results {
		row := []interface{}{
			r.ID,
			sanitizeForExcel(r.Language),
			sanitizeForExcel(r.Difficulty),
			r.TotalQuestions,
			r.CorrectAnswers,
			r.ScorePercentage,
			r.TimeTakenSec,
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := sw.SetRow(fmt.Sprintf("A%d", i+2), row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if _, err := f.NewSheet("Prep History"); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	sw, err = f.NewStreamWriter("Prep History")
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}
	headers = []interface{}{"ID", "Тема", "Вопрос", "Ответ", "Отзыв", "Оценка", "Дата"}
	if err := sw.SetRow("A1", headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, p := range prep {
		row := []interface{}{
			p.ID,
			sanitizeForExcel(p.Topic),
			sanitizeForExcel(p.Question),
			sanitizeForExcel(p.UserAnswer),
			sanitizeForExcel(p.AIFeedback),
			p.Score,
			p.CreatedAt.Format(time.RFC3339),
		}
		if err := sw.SetRow(fmt.Sprintf("A%d", i+2), row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if _, err := f.NewSheet("Candidates"); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	sw, err = f.NewStreamWriter("Candidates")
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}
	headers = []interface{}{"ID", "Имя", "Email", "Позиция", "Стек", "Дата"}
	if err := sw.SetRow("A1", headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, c := range candidates {
		row := []interface{}{
			c.ID,
			sanitizeForExcel(c.FullName),
			sanitizeForExcel(c.Email),
			sanitizeForExcel(c.Position),
			sanitizeForExcel(c.TechStack),
			c.CreatedAt.Format(time.RFC3339),
		}
		if err := sw.SetRow(fmt.Sprintf("A%d", i+2), row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	tmp := path + ".tmp"
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize workbook: %w", err)
	}
	return nil
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// ============ Право на стирание ============

// DeleteAllData удаляет все пользовательские данные. Без confirm=true
// ничего не удаляется и возвращается false без ошибки. Журналы согласий
// и доступа сохраняются как доказательство соблюдения требований;
// зеркальный файл согласий удаляется.
func (s *PrivacyService) DeleteAllData(confirm bool) (bool, error) {
	if !confirm {
		log.Printf("[PrivacyService] Удаление всех данных не подтверждено")
		return false, nil
	}

	s.logAccess(entity.AccessTypeDelete, entity.TargetAllTables, 0, "GDPR Right to Erasure")

	quizDeleted, err := s.resultRepo.DeleteAll()
	if err != nil {
		return false, fmt.Errorf("failed to delete quiz results: %w", err)
	}
	prepDeleted, err := s.prepRepo.DeleteAll()
	if err != nil {
		return false, fmt.Errorf("failed to delete prep history: %w", err)
	}
	candidatesDeleted, err := s.candidateRepo.DeleteAll()
	if err != nil {
		return false, fmt.Errorf("failed to delete candidates: %w", err)
	}

	if err := s.mirror.Remove(); err != nil {
		return false, fmt.Errorf("failed to remove consent file: %w", err)
	}

	log.Printf("[PrivacyService] Удалены все данные: quiz=%d, prep=%d, candidates=%d",
		quizDeleted, prepDeleted, candidatesDeleted)
	return true, nil
}

// DeleteQuizData удаляет только данные викторин и тренировок
func (s *PrivacyService) DeleteQuizData(confirm bool) (bool, error) {
	if !confirm {
		return false, nil
	}

	s.logAccess(entity.AccessTypeDelete, entity.TargetQuiz, 0, "User request")

	quizDeleted, err := s.resultRepo.DeleteAll()
	if err != nil {
		return false, fmt.Errorf("failed to delete quiz results: %w", err)
	}
	prepDeleted, err := s.prepRepo.DeleteAll()
	if err != nil {
		return false, fmt.Errorf("failed to delete prep history: %w", err)
	}

	log.Printf("[PrivacyService] Удалены данные викторин: quiz=%d, prep=%d", quizDeleted, prepDeleted)
	return true, nil
}

// DeleteCandidateData удаляет только данные кандидатов
func (s *PrivacyService) DeleteCandidateData(confirm bool) (bool, error) {
	if !confirm {
		return false, nil
	}

	s.logAccess(entity.AccessTypeDelete, entity.TargetCandidate, 0, "User request")

	deleted, err := s.candidateRepo.DeleteAll()
	if err != nil {
		return false, fmt.Errorf("failed to delete candidates: %w", err)
	}

	log.Printf("[PrivacyService] Удалены данные кандидатов: %d", deleted)
	return true, nil
}

// ============ Минимизация данных ============

// AnonymizeOldData анонимизирует записи старше daysOld дней и возвращает
// число затронутых строк. daysOld=0 означает срез по текущему моменту,
// то есть все существующие записи. Операция идемпотентна по содержимому:
// уже анонимизированные записи не затрагиваются, повторный запуск дает 0.
func (s *PrivacyService) AnonymizeOldData(daysOld int) (int64, error) {
	if daysOld < 0 {
		return 0, fmt.Errorf("%w: days must not be negative, got %d", apperrors.ErrValidation, daysOld)
	}

	cutoff := time.Now().AddDate(0, 0, -daysOld)

	quizRows, err := s.resultRepo.AnonymizeOlderThan(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to anonymize quiz results: %w", err)
	}
	candidateRows, err := s.candidateRepo.AnonymizeOlderThan(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to anonymize candidates: %w", err)
	}

	total := quizRows + candidateRows
	s.logAccess(entity.AccessTypeAnonymize, entity.TargetMultiple, int(total),
		fmt.Sprintf("Auto-anonymization after %d days", daysOld))

	log.Printf("[PrivacyService] Анонимизировано записей: %d (quiz=%d, candidates=%d)",
		total, quizRows, candidateRows)
	return total, nil
}

// ============ Прозрачность ============

// DataSummary возвращает сводку хранимых данных
func (s *PrivacyService) DataSummary() (*DataSummary, error) {
	summary := &DataSummary{}
	var err error

	if summary.QuizResultsCount, err = s.resultRepo.Count(); err != nil {
		return nil, fmt.Errorf("failed to count quiz results: %w", err)
	}
	if summary.PrepHistoryCount, err = s.prepRepo.Count(); err != nil {
		return nil, fmt.Errorf("failed to count prep history: %w", err)
	}
	if summary.CandidatesCount, err = s.candidateRepo.Count(); err != nil {
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}
	if summary.ConsentCount, err = s.consentRepo.Count(); err != nil {
		return nil, fmt.Errorf("failed to count consent records: %w", err)
	}
	if summary.AccessLogCount, err = s.accessLogRepo.Count(); err != nil {
		return nil, fmt.Errorf("failed to count access log: %w", err)
	}

	// Для PostgreSQL размер файла недоступен, оставляем 0
	if s.dbPath != "" {
		if info, err := os.Stat(s.dbPath); err == nil {
			summary.DatabaseSizeMB = float64(info.Size()) / (1024 * 1024)
		}
	}

	return summary, nil
}

// AccessLog возвращает последние записи журнала доступа, новые первыми
func (s *PrivacyService) AccessLog(limit int) ([]entity.AccessLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.accessLogRepo.GetRecent(limit)
}

// logAccess добавляет запись аудита. Сбой аудита не прерывает основную
// операцию, но попадает в лог приложения.
func (s *PrivacyService) logAccess(accessType, target string, recordCount int, purpose string) {
	entry := &entity.AccessLogEntry{
		AccessType:  accessType,
		Target:      target,
		RecordCount: recordCount,
		Purpose:     purpose,
		CreatedAt:   time.Now(),
	}
	if err := s.accessLogRepo.Append(entry); err != nil {
		log.Printf("[PrivacyService] Ошибка записи в журнал доступа: %v", err)
	}
}
