package main

import (
	"net/http"

	"github.com/ub-victor/flashcard-app/internal/config"
	"github.com/ub-victor/flashcard-app/internal/handlers"
	"github.com/ub-victor/flashcard-app/internal/middleware"
	"github.com/ub-victor/flashcard-app/internal/repo"
	"github.com/ub-victor/flashcard-app/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	// хранилище собирается один раз и передаётся вниз по ссылке,
	// глобального состояния нет
	flashcardRepo := repo.NewFlashcardRepository(gormDB)
	flashcardService := service.NewFlashcardService(flashcardRepo, sugar)

	h := handlers.NewHandler(flashcardService, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDSN", cfg.DatabaseDSN,
		"RateLimitMax", cfg.RateLimitMax,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
