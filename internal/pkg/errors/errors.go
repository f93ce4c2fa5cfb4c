package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrValidation используется для ошибок валидации входных данных
	// (неизвестный язык/сложность, буква ответа вне A-D, total_questions <= 0).
	ErrValidation = errors.New("validation failed")

	// ErrGeneration используется, когда источник вопросов вернул неполные или
	// некорректные данные. Восстанавливается локально через fallback-вопросы
	// и не доходит до пользователя как жёсткая ошибка.
	ErrGeneration = errors.New("question generation failed")

	// ErrPersistence используется при ошибках чтения/записи хранилища.
	ErrPersistence = errors.New("persistence failed")

	// ErrExport используется, когда файл экспорта не удалось записать.
	ErrExport = errors.New("export failed")

	// ErrConflict используется для конфликтов состояния (например, ответ на
	// уже завершённую попытку).
	ErrConflict = errors.New("resource state conflict")
)
