package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackQuizQuestions_KnownLanguage(t *testing.T) {
	questions := FallbackQuizQuestions("JavaScript", 10)

	require.Len(t, questions, 10, "резервный банк должен выдать запрошенное число вопросов")
	for i, q := range questions {
		assert.True(t, q.IsWellFormed(), "резервный вопрос %d должен быть корректным", i+1)
		assert.Contains(t, q.Text, "===")
	}
}

func TestFallbackQuizQuestions_UnknownLanguageUsesDefault(t *testing.T) {
	questions := FallbackQuizQuestions("Rust", 3)

	require.Len(t, questions, 3)
	assert.Contains(t, questions[0].Text, "printf", "неизвестный язык должен получать вопрос по C")
}

func TestFallbackQuizQuestions_CopiesAreIndependent(t *testing.T) {
	questions := FallbackQuizQuestions("Java", 2)

	questions[0].Options["A"] = "mutated"
	assert.NotEqual(t, "mutated", questions[1].Options["A"], "изменение одной копии не должно задевать другие")
}

func TestFallbackQuizQuestions_AllLanguagesWellFormed(t *testing.T) {
	for language := range fallbackQuizBank {
		questions := FallbackQuizQuestions(language, 1)
		require.Len(t, questions, 1)
		assert.True(t, questions[0].IsWellFormed(), "резервный вопрос для %s должен быть корректным", language)
	}
}

func TestFallbackTechQuestions(t *testing.T) {
	questions := FallbackTechQuestions()

	require.Len(t, questions, 3)
	for _, q := range questions {
		assert.NotEmpty(t, q)
	}
}

func TestFallbackPrepQuestion(t *testing.T) {
	question := FallbackPrepQuestion("Goroutines")

	assert.Contains(t, question, "Goroutines")
}

func TestFallbackAnswerReview(t *testing.T) {
	review := FallbackAnswerReview()

	assert.Equal(t, 0, review.Score)
	assert.NotEmpty(t, review.Feedback)
	assert.NotEmpty(t, review.SampleAnswer)
}
