package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ub-victor/flashcard-app/internal/repo"
	"github.com/ub-victor/flashcard-app/internal/service"
	"github.com/ub-victor/flashcard-app/internal/validation"
	"go.uber.org/zap"
)

// FlashcardHandler обрабатывает CRUD, статистику и массовые операции карточек.
type FlashcardHandler struct {
	Service *service.FlashcardService
	Logger  *zap.SugaredLogger
}

// NewFlashcardHandler создаёт хендлер карточек.
func NewFlashcardHandler(s *service.FlashcardService, logger *zap.SugaredLogger) *FlashcardHandler {
	return &FlashcardHandler{Service: s, Logger: logger}
}

// List: GET /api/flashcards?page=&limit=&category=&difficulty=&mastered=
func (h *FlashcardHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// кривые значения page/limit трактуем как отсутствующие
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	var f repo.ListFilter
	if v := q.Get("category"); v != "" {
		f.Category = &v
	}
	if v := q.Get("difficulty"); v != "" {
		f.Difficulty = &v
	}
	if v := q.Get("mastered"); v != "" {
		m := v == "true"
		f.Mastered = &m
	}

	res, err := h.Service.List(r.Context(), f, page, limit)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success":     true,
		"count":       len(res.Cards),
		"total":       res.Total,
		"totalPages":  res.TotalPages,
		"currentPage": res.Page,
		"flashcards":  res.Cards,
	})
}

// Get: GET /api/flashcards/{id}
func (h *FlashcardHandler) Get(w http.ResponseWriter, r *http.Request) {
	card, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "flashcard": card})
}

// Random: GET /api/flashcards/random
func (h *FlashcardHandler) Random(w http.ResponseWriter, r *http.Request) {
	card, err := h.Service.Random(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "flashcard": card})
}

// Create: POST /api/flashcards
func (h *FlashcardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload validation.CardPayload
	if !decodeBody(w, r, h.Logger, "Create", &payload) {
		return
	}

	card, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"success": true, "flashcard": card})
}

// Update: PATCH /api/flashcards/{id}
func (h *FlashcardHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload validation.CardPayload
	if !decodeBody(w, r, h.Logger, "Update", &payload) {
		return
	}

	card, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "flashcard": card})
}

// Delete: DELETE /api/flashcards/{id}
func (h *FlashcardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Flashcard deleted successfully"})
}

// BulkUpdate: PATCH /api/flashcards/bulk/update
func (h *FlashcardHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req service.BulkMasteredRequest
	if !decodeBody(w, r, h.Logger, "BulkUpdate", &req) {
		return
	}

	modified, err := h.Service.BulkSetMastered(r.Context(), req)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success":       true,
		"message":       "Successfully updated " + strconv.FormatInt(modified, 10) + " flashcards",
		"modifiedCount": modified,
	})
}

// Stats: GET /api/flashcards/stats
func (h *FlashcardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.Stats(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"success":         true,
		"stats":           res.Summary,
		"categoryStats":   res.CategoryStats,
		"difficultyStats": res.DifficultyStats,
	})
}
