package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/ub-victor/flashcard-app/internal/config"
	"github.com/ub-victor/flashcard-app/internal/middleware"
	"github.com/ub-victor/flashcard-app/internal/service"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// предел размера тела запроса
const maxRequestBody = 10 << 10 // 10 KiB

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	flashcardService *service.FlashcardService,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Origin", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           86400,
	}).Handler)
	r.Use(middleware.WithGzip)
	// лимит после распаковки: ограничиваются фактические байты тела
	r.Use(middleware.WithBodyLimit(maxRequestBody))
	r.Use(middleware.WithLogging)

	// лимит на создание карточек: RateLimitMax за окно RateLimitWindowMin минут
	window := time.Duration(cfg.RateLimitWindowMin) * time.Minute
	createLimiter := rate.NewLimiter(
		rate.Limit(float64(cfg.RateLimitMax)/window.Seconds()),
		cfg.RateLimitMax,
	)

	fh := NewFlashcardHandler(flashcardService, logger)

	r.Get("/api/health", Health)

	r.Route("/api/flashcards", func(r chi.Router) {
		r.Get("/", fh.List)
		r.With(middleware.WithRateLimit(createLimiter)).Post("/", fh.Create)
		r.Get("/stats", fh.Stats)
		r.Get("/random", fh.Random)
		r.Patch("/bulk/update", fh.BulkUpdate)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", fh.Get)
			r.Patch("/", fh.Update)
			r.Delete("/", fh.Delete)
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{
			"success": false,
			"message": "Route does not exist",
		})
	})

	return &Handler{Router: r}
}

// Health — проверка живости сервиса.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		"success":   true,
		"message":   "Flashcard API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
