package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ub-victor/flashcard-app/internal/apperr"
	"github.com/ub-victor/flashcard-app/internal/model"
	"github.com/ub-victor/flashcard-app/internal/repo"
	"github.com/ub-victor/flashcard-app/internal/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultPageSize = 10

// FlashcardService — единственный путь изменения коллекции.
// Все записи сериализуются одним мьютексом: выделить card_number и вставить
// запись нельзя вперемешку с другой записью. Чтения идут в репозиторий
// напрямую.
type FlashcardService struct {
	repo   repo.FlashcardRepository
	logger *zap.SugaredLogger

	mu sync.Mutex // одиночный писатель: выделение номера + insert/update/delete
}

// NewFlashcardService создаёт сервис над репозиторием.
func NewFlashcardService(r repo.FlashcardRepository, logger *zap.SugaredLogger) *FlashcardService {
	return &FlashcardService{repo: r, logger: logger}
}

// ListResult — страница выборки с метаданными пагинации.
type ListResult struct {
	Cards      []model.Flashcard
	Total      int64
	TotalPages int64
	Page       int
	PageSize   int
}

// List возвращает отфильтрованную страницу по возрастанию card_number.
// page и pageSize меньше единицы заменяются значениями по умолчанию;
// страница за пределами выборки — пустой срез, не ошибка.
func (s *FlashcardService) List(ctx context.Context, f repo.ListFilter, page, pageSize int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	total, err := s.repo.Count(ctx, f)
	if err != nil {
		s.logger.Errorw("List: count failed", "error", err)
		return nil, apperr.Internal("failed to list flashcards", err)
	}
	cards, err := s.repo.List(ctx, f, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Errorw("List: select failed", "error", err)
		return nil, apperr.Internal("failed to list flashcards", err)
	}

	return &ListResult{
		Cards:      cards,
		Total:      total,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// Get возвращает запись по id.
func (s *FlashcardService) Get(ctx context.Context, id string) (*model.Flashcard, error) {
	card, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Flashcard not found with id: %s", id)
		}
		s.logger.Errorw("Get: select failed", "id", id, "error", err)
		return nil, apperr.Internal("failed to get flashcard", err)
	}
	return card, nil
}

// Random возвращает равновероятно выбранную запись всей коллекции.
func (s *FlashcardService) Random(ctx context.Context) (*model.Flashcard, error) {
	card, err := s.repo.Random(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("No flashcards found")
		}
		s.logger.Errorw("Random: select failed", "error", err)
		return nil, apperr.Internal("failed to get random flashcard", err)
	}
	return card, nil
}

// Create проверяет payload, выделяет card_number и вставляет запись.
// При ошибке валидации состояние коллекции не меняется.
func (s *FlashcardService) Create(ctx context.Context, p validation.CardPayload) (*model.Flashcard, error) {
	norm, ferrs := validation.Validate(p, validation.ModeCreate)
	if len(ferrs) > 0 {
		return nil, apperr.Validation("Validation Error", ferrs...)
	}

	card := &model.Flashcard{
		ID:         uuid.NewString(),
		Question:   *norm.Question,
		Answer:     *norm.Answer,
		Category:   model.Category(*norm.Category),
		Difficulty: model.Difficulty(*norm.Difficulty),
		Mastered:   *norm.Mastered,
	}
	if norm.Explanation != nil {
		card.Explanation = *norm.Explanation
	}
	if norm.ImageURL != nil {
		card.ImageURL = *norm.ImageURL
	}
	if norm.ImageAlt != nil {
		card.ImageAlt = *norm.ImageAlt
	}
	if norm.ImageCaption != nil {
		card.ImageCaption = *norm.ImageCaption
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Create(ctx, card); err != nil {
		if repo.IsDuplicate(err) {
			// нормальная работа сюда не приводит: номер выделяется в той же
			// транзакции, что и вставка; конфликт значит внешний обход аллокатора
			s.logger.Errorw("Create: duplicate card number", "cardNumber", card.CardNumber)
			return nil, apperr.Conflict("Duplicate card number, please retry")
		}
		s.logger.Errorw("Create: insert failed", "error", err)
		return nil, apperr.Internal("failed to create flashcard", err)
	}
	return card, nil
}

// Update сливает присутствующие поля payload в существующую запись.
// id, cardNumber и createdAt неизменяемы; updatedAt обновляется всегда.
func (s *FlashcardService) Update(ctx context.Context, id string, p validation.CardPayload) (*model.Flashcard, error) {
	norm, ferrs := validation.Validate(p, validation.ModeUpdate)
	if len(ferrs) > 0 {
		return nil, apperr.Validation("Validation Error", ferrs...)
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if norm.Question != nil {
		updates["question"] = *norm.Question
	}
	if norm.Answer != nil {
		updates["answer"] = *norm.Answer
	}
	if norm.Explanation != nil {
		updates["explanation"] = *norm.Explanation
	}
	if norm.Category != nil && *norm.Category != "" {
		updates["category"] = *norm.Category
	}
	if norm.Difficulty != nil && *norm.Difficulty != "" {
		updates["difficulty"] = *norm.Difficulty
	}
	if norm.Mastered != nil {
		updates["mastered"] = *norm.Mastered
	}
	if norm.ImageURL != nil {
		updates["image_url"] = *norm.ImageURL
	}
	if norm.ImageAlt != nil {
		updates["image_alt"] = *norm.ImageAlt
	}
	if norm.ImageCaption != nil {
		updates["image_caption"] = *norm.ImageCaption
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	card, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Flashcard not found with id: %s", id)
		}
		s.logger.Errorw("Update: failed", "id", id, "error", err)
		return nil, apperr.Internal("failed to update flashcard", err)
	}
	return card, nil
}

// Delete удаляет запись; её card_number повторно не используется.
func (s *FlashcardService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Errorw("Delete: failed", "id", id, "error", err)
		return apperr.Internal("failed to delete flashcard", err)
	}
	if !found {
		return apperr.NotFound("Flashcard not found with id: %s", id)
	}
	return nil
}

// BulkMasteredRequest — аргументы массового обновления mastered.
// Указатели различают «не передано» и переданное значение.
type BulkMasteredRequest struct {
	IDs      *[]string `json:"ids"`
	Mastered *bool     `json:"mastered"`
}

// BulkSetMastered выставляет mastered у существующих записей из ids.
// Отсутствующие id молча пропускаются; возвращается число изменённых записей.
func (s *FlashcardService) BulkSetMastered(ctx context.Context, req BulkMasteredRequest) (int64, error) {
	if req.IDs == nil || req.Mastered == nil {
		return 0, apperr.Validation("Please provide valid ids array and mastered boolean")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	modified, err := s.repo.BulkSetMastered(ctx, *req.IDs, *req.Mastered)
	if err != nil {
		s.logger.Errorw("BulkSetMastered: failed", "error", err)
		return 0, apperr.Internal("failed to bulk update flashcards", err)
	}
	return modified, nil
}

// StatsSummary — сводка по коллекции.
type StatsSummary struct {
	TotalCards        int64    `json:"totalCards"`
	MasteredCards     int64    `json:"masteredCards"`
	MasteryPercentage float64  `json:"masteryPercentage"`
	Categories        []string `json:"categories"`
	Difficulties      []string `json:"difficulties"`
}

// StatsResult — сводка плюс распределения по тематикам и сложности.
type StatsResult struct {
	Summary         StatsSummary
	CategoryStats   []repo.CategoryCount
	DifficultyStats []repo.DifficultyCount
}

// Stats собирает агрегаты по всей коллекции (фильтры не применяются).
func (s *FlashcardService) Stats(ctx context.Context) (*StatsResult, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		s.logger.Errorw("Stats: failed", "error", err)
		return nil, apperr.Internal("failed to compute stats", err)
	}

	summary := StatsSummary{
		TotalCards:    st.TotalCards,
		MasteredCards: st.MasteredCards,
		Categories:    st.Categories,
		Difficulties:  st.Difficulties,
	}
	// пустая коллекция — ноль процентов, без деления на ноль
	if st.TotalCards > 0 {
		summary.MasteryPercentage = float64(st.MasteredCards) / float64(st.TotalCards) * 100
	}

	return &StatsResult{
		Summary:         summary,
		CategoryStats:   st.ByCategory,
		DifficultyStats: st.ByDifficulty,
	}, nil
}
