package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validQuestion() Question {
	return Question{
		Text: "Какой оператор проверяет и значение, и тип в JavaScript?",
		Options: map[string]string{
			"A": "==",
			"B": "===",
			"C": "=",
			"D": "!=",
		},
		CorrectAnswer: "B",
		Explanation:   "Оператор === выполняет строгое сравнение.",
	}
}

func TestQuestion_IsWellFormed_Valid(t *testing.T) {
	q := validQuestion()

	assert.True(t, q.IsWellFormed(), "корректный вопрос должен проходить валидацию")
}

func TestQuestion_IsWellFormed_Malformed(t *testing.T) {
	// Пустой текст
	q := validQuestion()
	q.Text = ""
	assert.False(t, q.IsWellFormed(), "вопрос без текста должен отбрасываться")

	// Пустое объяснение
	q = validQuestion()
	q.Explanation = ""
	assert.False(t, q.IsWellFormed(), "вопрос без объяснения должен отбрасываться")

	// Меньше четырёх вариантов
	q = validQuestion()
	delete(q.Options, "D")
	assert.False(t, q.IsWellFormed(), "вопрос с тремя вариантами должен отбрасываться")

	// Пустой текст варианта
	q = validQuestion()
	q.Options["C"] = ""
	assert.False(t, q.IsWellFormed(), "вопрос с пустым вариантом должен отбрасываться")

	// Правильный ответ вне A-D
	q = validQuestion()
	q.CorrectAnswer = "E"
	assert.False(t, q.IsWellFormed(), "правильный ответ вне A-D должен отбрасываться")

	// Вариант с нестандартной буквой вместо одной из A-D
	q = validQuestion()
	delete(q.Options, "A")
	q.Options["E"] = "что-то"
	assert.False(t, q.IsWellFormed(), "варианты должны быть ровно A, B, C, D")
}

func TestQuestion_IsCorrect(t *testing.T) {
	q := validQuestion()

	assert.True(t, q.IsCorrect("B"), "IsCorrect должен вернуть true для правильной буквы")
	assert.False(t, q.IsCorrect("A"), "IsCorrect должен вернуть false для неправильной буквы")
	assert.False(t, q.IsCorrect(""), "IsCorrect должен вернуть false для пустого ответа")
}

func TestIsValidOptionLetter(t *testing.T) {
	for _, l := range []string{"A", "B", "C", "D"} {
		assert.True(t, IsValidOptionLetter(l), "буква %s должна быть валидной", l)
	}
	for _, l := range []string{"", "E", "a", "AB", "1"} {
		assert.False(t, IsValidOptionLetter(l), "ввод %q должен отклоняться", l)
	}
}

func TestQuestion_SortedOptionLetters(t *testing.T) {
	q := validQuestion()

	assert.Equal(t, []string{"A", "B", "C", "D"}, q.SortedOptionLetters())
}
