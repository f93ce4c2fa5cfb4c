package entity

import "sort"

// OptionLetters - допустимые буквы вариантов ответа
var OptionLetters = []string{"A", "B", "C", "D"}

// Question представляет один сгенерированный MCQ-вопрос.
// Значение живёт только в памяти попытки; в базу попадает как часть QuizDetail.
type Question struct {
	Text          string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
}

// IsValidOptionLetter проверяет, что буква ответа входит в A-D
func IsValidOptionLetter(letter string) bool {
	for _, l := range OptionLetters {
		if letter == l {
			return true
		}
	}
	return false
}

// IsWellFormed проверяет структуру вопроса, полученного от внешнего источника:
// непустой текст, ровно четыре непустых варианта A-D, правильный ответ среди
// них и объяснение. Некорректные вопросы отбрасываются до сохранения.
func (q *Question) IsWellFormed() bool {
	if q.Text == "" || q.Explanation == "" {
		return false
	}
	if len(q.Options) != len(OptionLetters) {
		return false
	}
	for _, letter := range OptionLetters {
		if q.Options[letter] == "" {
			return false
		}
	}
	return IsValidOptionLetter(q.CorrectAnswer)
}

// IsCorrect проверяет, является ли выбранная буква правильным ответом
func (q *Question) IsCorrect(letter string) bool {
	return letter == q.CorrectAnswer
}

// SortedOptionLetters возвращает буквы вариантов в алфавитном порядке
func (q *Question) SortedOptionLetters() []string {
	letters := make([]string, 0, len(q.Options))
	for l := range q.Options {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return letters
}
