package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ub-victor/flashcard-app/internal/apperr"
	"go.uber.org/zap"
)

// envelope — JSON-конверт ответа: {success, message?, errors?, <данные>}.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeBody разбирает JSON-тело запроса. При ошибке пишет 400-конверт
// и возвращает false; переполнение лимита тела получает отдельное сообщение.
func decodeBody(w http.ResponseWriter, r *http.Request, logger *zap.SugaredLogger, op string, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		msg := "invalid request body"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = "Request body too large"
		}
		logger.Warnw(op+": invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, envelope{"success": false, "message": msg})
		return false
	}
	return true
}

// writeError маппит вид ошибки в статус-код и конверт.
// Внутренние детали наружу не отдаются, только в лог.
func writeError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		e = apperr.Internal("unexpected error", err)
	}

	body := envelope{"success": false, "message": e.Message}

	var status int
	switch e.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
		if len(e.Fields) > 0 {
			body["errors"] = e.Fields
		}
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		logger.Errorw("internal error", "error", err)
		body["message"] = "Something went wrong, please try again later"
	}

	writeJSON(w, status, body)
}
