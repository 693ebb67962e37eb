package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ub-victor/flashcard-app/internal/apperr"
	"github.com/ub-victor/flashcard-app/internal/model"
)

// Mode — режим проверки полезной нагрузки.
type Mode int

const (
	// ModeCreate: question и answer обязательны, отсутствующим полям
	// назначаются значения по умолчанию.
	ModeCreate Mode = iota
	// ModeUpdate: все поля опциональны, но присутствующие обязаны
	// удовлетворять ограничениям схемы.
	ModeUpdate
)

const (
	maxQuestionLen    = 1000
	maxAnswerLen      = 2000
	maxExplanationLen = 2000
	maxImageTextLen   = 200
)

// расширения, допустимые для imageUrl
var imageExtRe = regexp.MustCompile(`(?i)\.(png|jpg|jpeg|gif|svg|webp)$`)

// CardPayload — разобранное тело запроса create/update.
// nil-поле означает «не передано»; для update это отличает
// «не менять» от «установить пустое значение».
type CardPayload struct {
	Question     *string `json:"question,omitempty"`
	Answer       *string `json:"answer,omitempty"`
	Explanation  *string `json:"explanation,omitempty"`
	Category     *string `json:"category,omitempty"`
	Difficulty   *string `json:"difficulty,omitempty"`
	Mastered     *bool   `json:"mastered,omitempty"`
	ImageURL     *string `json:"imageUrl,omitempty"`
	ImageAlt     *string `json:"imageAlt,omitempty"`
	ImageCaption *string `json:"imageCaption,omitempty"`
}

// Validate проверяет полезную нагрузку и возвращает нормализованную копию:
// строки обрезаны, в режиме create подставлены значения по умолчанию.
// Входной payload не изменяется. Пустой список нарушений — успех.
func Validate(p CardPayload, mode Mode) (CardPayload, []apperr.FieldError) {
	var errs []apperr.FieldError
	out := CardPayload{Mastered: p.Mastered}

	fail := func(field, message string) {
		errs = append(errs, apperr.FieldError{Field: field, Message: message})
	}

	// обязательные текстовые поля
	out.Question = trimmed(p.Question)
	switch {
	case mode == ModeCreate && isBlank(out.Question):
		fail("question", "Question is required")
	case mode == ModeUpdate && p.Question != nil && isBlank(out.Question):
		fail("question", "Question is required")
	case out.Question != nil && utf8.RuneCountInString(*out.Question) > maxQuestionLen:
		fail("question", "Question cannot exceed 1000 characters")
	}

	out.Answer = trimmed(p.Answer)
	switch {
	case mode == ModeCreate && isBlank(out.Answer):
		fail("answer", "Answer is required")
	case mode == ModeUpdate && p.Answer != nil && isBlank(out.Answer):
		fail("answer", "Answer is required")
	case out.Answer != nil && utf8.RuneCountInString(*out.Answer) > maxAnswerLen:
		fail("answer", "Answer cannot exceed 2000 characters")
	}

	out.Explanation = trimmed(p.Explanation)
	if out.Explanation != nil && utf8.RuneCountInString(*out.Explanation) > maxExplanationLen {
		fail("explanation", "Explanation cannot exceed 2000 characters")
	}

	// закрытые наборы значений
	out.Category = trimmed(p.Category)
	if out.Category != nil && *out.Category != "" && !model.ValidCategory(*out.Category) {
		fail("category", "Invalid category")
	}
	if mode == ModeCreate && isBlank(out.Category) {
		out.Category = ptr(string(model.CategoryGeneral))
	}

	out.Difficulty = trimmed(p.Difficulty)
	if out.Difficulty != nil && *out.Difficulty != "" && !model.ValidDifficulty(*out.Difficulty) {
		fail("difficulty", "Invalid difficulty level")
	}
	if mode == ModeCreate && isBlank(out.Difficulty) {
		out.Difficulty = ptr(string(model.DifficultyMedium))
	}

	if mode == ModeCreate && out.Mastered == nil {
		out.Mastered = ptr(false)
	}

	// изображение: корректный http(s) URL, оканчивающийся известным расширением
	out.ImageURL = trimmed(p.ImageURL)
	if out.ImageURL != nil && *out.ImageURL != "" && !validImageURL(*out.ImageURL) {
		fail("imageUrl", "Please provide a valid image URL")
	}

	out.ImageAlt = trimmed(p.ImageAlt)
	if out.ImageAlt != nil && utf8.RuneCountInString(*out.ImageAlt) > maxImageTextLen {
		fail("imageAlt", "Alt text cannot exceed 200 characters")
	}

	out.ImageCaption = trimmed(p.ImageCaption)
	if out.ImageCaption != nil && utf8.RuneCountInString(*out.ImageCaption) > maxImageTextLen {
		fail("imageCaption", "Caption cannot exceed 200 characters")
	}

	return out, errs
}

func validImageURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}
	// расширением должен оканчиваться весь URL: query или fragment
	// после него делают ссылку невалидной
	return imageExtRe.MatchString(s)
}

// trimmed возвращает копию указателя с обрезанными пробелами; nil остаётся nil.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

func ptr[T any](v T) *T { return &v }
