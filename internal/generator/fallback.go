package generator

import (
	"fmt"

	"github.com/yourusername/career-suite/internal/domain/entity"
)

// Встроенный банк вопросов. Используется как резерв, когда внешний
// генератор недоступен: викторина проводится в ограниченном режиме
// вместо отказа.
var fallbackQuizBank = map[string]entity.Question{
	"C": {
		Text: `What is the output of printf("%d", 5 + 3); in C?`,
		Options: map[string]string{
			"A": "8", "B": "53", "C": "5 + 3", "D": "Error",
		},
		CorrectAnswer: "A",
		Explanation:   "The printf function evaluates the expression 5 + 3 and prints 8.",
	},
	"C++": {
		Text: "Which keyword is used to define a class in C++?",
		Options: map[string]string{
			"A": "struct", "B": "class", "C": "object", "D": "define",
		},
		CorrectAnswer: "B",
		Explanation:   "The 'class' keyword is used to define classes in C++.",
	},
	"Java": {
		Text: "What is the default value of a boolean variable in Java?",
		Options: map[string]string{
			"A": "true", "B": "false", "C": "0", "D": "null",
		},
		CorrectAnswer: "B",
		Explanation:   "Boolean variables in Java are initialized to false by default.",
	},
	"JavaScript": {
		Text: "What does '===' operator check in JavaScript?",
		Options: map[string]string{
			"A": "Value only", "B": "Type only", "C": "Both value and type", "D": "Neither",
		},
		CorrectAnswer: "C",
		Explanation:   "The === operator checks for both value and type equality (strict equality).",
	},
	"HTML": {
		Text: "Which tag is used to create a hyperlink in HTML?",
		Options: map[string]string{
			"A": "<link>", "B": "<a>", "C": "<href>", "D": "<url>",
		},
		CorrectAnswer: "B",
		Explanation:   "The <a> (anchor) tag is used to create hyperlinks in HTML.",
	},
	"CSS": {
		Text: "Which property is used to change text color in CSS?",
		Options: map[string]string{
			"A": "text-color", "B": "font-color", "C": "color", "D": "text-style",
		},
		CorrectAnswer: "C",
		Explanation:   "The 'color' property is used to change text color in CSS.",
	},
}

// FallbackQuizQuestions возвращает count копий резервного вопроса для языка.
// Для неизвестного языка используется вопрос по C.
func FallbackQuizQuestions(language string, count int) []entity.Question {
	base, ok := fallbackQuizBank[language]
	if !ok {
		base = fallbackQuizBank["C"]
	}

	questions := make([]entity.Question, count)
	for i := range questions {
		q := base
		options := make(map[string]string, len(base.Options))
		for letter, text := range base.Options {
			options[letter] = text
		}
		q.Options = options
		questions[i] = q
	}
	return questions
}

// FallbackTechQuestions возвращает резервный набор вопросов для скрининга
func FallbackTechQuestions() []string {
	return []string{
		"Describe your experience with this stack.",
		"What is the hardest bug you've solved?",
		"Explain a core concept.",
	}
}

// FallbackPrepQuestion возвращает резервный тренировочный вопрос по теме
func FallbackPrepQuestion(topic string) string {
	return fmt.Sprintf("Tell me about your experience with %s.", topic)
}

// FallbackAnswerReview возвращает нейтральную оценку, когда разбор
// ответа через API не удался
func FallbackAnswerReview() AnswerReview {
	return AnswerReview{
		Score:        0,
		Feedback:     "Error analyzing answer via API.",
		SampleAnswer: "N/A",
	}
}
