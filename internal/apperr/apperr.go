package apperr

import (
	"errors"
	"fmt"
)

// Kind — вид ошибки хранилища. Транспортный слой маппит Kind в статус-код,
// сами операции хранилища о HTTP ничего не знают.
type Kind int

const (
	// KindValidation — полезная нагрузка не прошла проверку схемы.
	KindValidation Kind = iota
	// KindNotFound — запись с указанным id отсутствует.
	KindNotFound
	// KindConflict — нарушение уникальности (дубликат card_number).
	KindConflict
	// KindInternal — неожиданная ошибка слоя персистентности.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// FieldError — одно нарушение на уровне поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error — ошибка с видом и опциональным списком полевых нарушений.
// Замена иерархии исключений: один тип, ветвление по Kind.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	// Err — исходная ошибка (для KindInternal), наружу не отдаётся.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation создаёт ошибку валидации со списком нарушений.
func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NotFound создаёт ошибку отсутствия записи.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict создаёт ошибку нарушения уникальности.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal оборачивает неожиданную ошибку нижнего слоя.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf возвращает вид ошибки; не-apperr ошибки считаются внутренними.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind проверяет, что ошибка имеет указанный вид.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
