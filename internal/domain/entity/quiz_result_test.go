package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeScorePercentage(t *testing.T) {
	// Arrange & Act & Assert
	assert.Equal(t, 70.0, ComputeScorePercentage(7, 10), "7 из 10 должно давать ровно 70.0")
	assert.Equal(t, 100.0, ComputeScorePercentage(10, 10), "10 из 10 должно давать 100.0")
	assert.Equal(t, 0.0, ComputeScorePercentage(0, 10), "0 из 10 должно давать 0.0")
	assert.InDelta(t, 33.333333, ComputeScorePercentage(1, 3), 0.0001)
}

func TestQuizDetail_ScanValue_RoundTrip(t *testing.T) {
	// Arrange
	detail := QuizDetail{
		{
			Question:      "Какой тег создаёт гиперссылку в HTML?",
			Options:       map[string]string{"A": "<link>", "B": "<a>", "C": "<href>", "D": "<url>"},
			UserAnswer:    "B",
			CorrectAnswer: "B",
			IsCorrect:     true,
			Explanation:   "Тег <a> (anchor) создаёт гиперссылки.",
		},
	}

	// Act
	value, err := detail.Value()
	require.NoError(t, err)

	var restored QuizDetail
	require.NoError(t, restored.Scan(value))

	// Assert
	require.Len(t, restored, 1)
	assert.Equal(t, detail[0], restored[0], "детализация должна восстанавливаться без потерь")
}

func TestQuizDetail_Scan_Nil(t *testing.T) {
	var detail QuizDetail

	require.NoError(t, detail.Scan(nil))
	assert.Empty(t, detail, "NULL из базы должен давать пустую детализацию")
}

func TestQuizDetail_Scan_AnonymizedMarker(t *testing.T) {
	var detail QuizDetail

	// Анонимизированные строки хранят объект-маркер вместо массива
	require.NoError(t, detail.Scan([]byte(AnonymizedDetailMarker)))
	assert.Empty(t, detail, "маркер анонимизации должен читаться как пустая детализация")
}

func TestQuizDetail_Value_Empty(t *testing.T) {
	var detail QuizDetail

	value, err := detail.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), value, "пустая детализация должна сериализоваться как пустой массив, не NULL")
}

func TestTranscript_ScanValue_RoundTrip(t *testing.T) {
	transcript := Transcript{
		{Role: "ai", Content: "Hello! What is your Full Name?"},
		{Role: "user", Content: "Jane Doe"},
	}

	value, err := transcript.Value()
	require.NoError(t, err)

	var restored Transcript
	require.NoError(t, restored.Scan(value))

	assert.Equal(t, transcript, restored, "стенограмма должна восстанавливаться без потерь")
}
