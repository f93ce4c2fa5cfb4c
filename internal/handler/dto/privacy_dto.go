package dto

import (
	"time"

	"github.com/yourusername/career-suite/internal/domain/entity"
)

// ConsentStatusResponse представляет текущий статус одного типа согласия
type ConsentStatusResponse struct {
	ConsentType string    `json:"consent_type"`
	Given       bool      `json:"given"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// AccessLogEntryResponse представляет запись журнала доступа к данным
type AccessLogEntryResponse struct {
	ID          uint      `json:"id"`
	AccessType  string    `json:"access_type"`
	Target      string    `json:"target"`
	RecordCount int       `json:"record_count"`
	Purpose     string    `json:"purpose,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CandidateResponse представляет профиль кандидата.
// Стенограмма интервью отдается целиком.
type CandidateResponse struct {
	ID         uint                       `json:"id"`
	FullName   string                     `json:"full_name"`
	Email      string                     `json:"email"`
	Position   string                     `json:"position"`
	TechStack  string                     `json:"tech_stack"`
	Transcript []entity.TranscriptMessage `json:"transcript,omitempty"`
	CreatedAt  time.Time                  `json:"created_at"`
}

// PrepAttemptResponse представляет одну тренировочную попытку
type PrepAttemptResponse struct {
	ID         uint      `json:"id"`
	Topic      string    `json:"topic"`
	Question   string    `json:"question"`
	UserAnswer string    `json:"user_answer"`
	AIFeedback string    `json:"ai_feedback"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewConsentStatusResponses строит список статусов согласий
func NewConsentStatusResponses(statuses map[string]entity.ConsentStatus) []ConsentStatusResponse {
	out := make([]ConsentStatusResponse, 0, len(statuses))
	for consentType, status := range statuses {
		out = append(out, ConsentStatusResponse{
			ConsentType: consentType,
			Given:       status.Given,
			RecordedAt:  status.RecordedAt,
		})
	}
	return out
}

// NewAccessLogResponses строит список записей журнала доступа
func NewAccessLogResponses(entries []entity.AccessLogEntry) []AccessLogEntryResponse {
	out := make([]AccessLogEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AccessLogEntryResponse{
			ID:          e.ID,
			AccessType:  e.AccessType,
			Target:      e.Target,
			RecordCount: e.RecordCount,
			Purpose:     e.Purpose,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}

// NewCandidateResponses строит список профилей кандидатов
func NewCandidateResponses(candidates []entity.CandidateProfile) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, CandidateResponse{
			ID:         c.ID,
			FullName:   c.FullName,
			Email:      c.Email,
			Position:   c.Position,
			TechStack:  c.TechStack,
			Transcript: c.Transcript,
			CreatedAt:  c.CreatedAt,
		})
	}
	return out
}

// NewPrepAttemptResponses строит список тренировочных попыток
func NewPrepAttemptResponses(attempts []entity.PrepAttempt) []PrepAttemptResponse {
	out := make([]PrepAttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, PrepAttemptResponse{
			ID:         a.ID,
			Topic:      a.Topic,
			Question:   a.Question,
			UserAnswer: a.UserAnswer,
			AIFeedback: a.AIFeedback,
			Score:      a.Score,
			CreatedAt:  a.CreatedAt,
		})
	}
	return out
}
