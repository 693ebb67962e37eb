package repo

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ub-victor/flashcard-app/internal/model"
	"gorm.io/gorm"
)

// IsDuplicate распознаёт нарушение уникальности. Postgres приходит как
// gorm.ErrDuplicatedKey, чистый Go драйвер SQLite транслятору gorm не знаком,
// поэтому дополнительно смотрим на текст ошибки.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		(err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed"))
}

// ListFilter — конъюнкция ограничений выборки; nil-поле не ограничивает.
type ListFilter struct {
	Category   *string
	Difficulty *string
	Mastered   *bool
}

// CategoryCount — количество карточек в одной тематике.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// DifficultyCount — количество карточек одного уровня сложности.
type DifficultyCount struct {
	Difficulty string `json:"difficulty"`
	Count      int64  `json:"count"`
}

// Stats — агрегаты по всей коллекции, снятые одним согласованным срезом.
type Stats struct {
	TotalCards    int64
	MasteredCards int64
	Categories    []string
	Difficulties  []string
	ByCategory    []CategoryCount
	ByDifficulty  []DifficultyCount
}

// FlashcardRepository — контракт доступа к коллекции карточек для слоя сервиса.
// Ошибки отдаются в терминах gorm (ErrRecordNotFound, ErrDuplicatedKey),
// маппинг в типизированные ошибки — забота сервиса.
type FlashcardRepository interface {
	// Create назначает ID и следующий card_number и вставляет запись.
	// Выделение номера и вставка выполняются в одной транзакции.
	Create(ctx context.Context, card *model.Flashcard) error

	GetByID(ctx context.Context, id string) (*model.Flashcard, error)

	// List возвращает срез отфильтрованной коллекции по возрастанию card_number.
	List(ctx context.Context, f ListFilter, offset, limit int) ([]model.Flashcard, error)

	// Count возвращает количество записей, подходящих под фильтр.
	Count(ctx context.Context, f ListFilter) (int64, error)

	// Random возвращает равновероятно выбранную запись всей коллекции.
	Random(ctx context.Context) (*model.Flashcard, error)

	// Update применяет updates к записи и возвращает её свежую версию.
	Update(ctx context.Context, id string, updates map[string]any) (*model.Flashcard, error)

	// Delete удаляет запись; вторым значением — нашлась ли она.
	Delete(ctx context.Context, id string) (bool, error)

	// BulkSetMastered выставляет mastered у существующих записей из ids,
	// отсутствующие молча пропускает. Считаются только реально изменённые строки.
	BulkSetMastered(ctx context.Context, ids []string, mastered bool) (int64, error)

	// Stats снимает агрегаты по всей коллекции.
	Stats(ctx context.Context) (*Stats, error)
}

type flashcardRepo struct {
	db *gorm.DB
}

// NewFlashcardRepository создаёт gorm-реализацию репозитория.
func NewFlashcardRepository(db *gorm.DB) FlashcardRepository {
	return &flashcardRepo{db: db}
}

// applyFilter навешивает условия фильтра на запрос.
func applyFilter(q *gorm.DB, f ListFilter) *gorm.DB {
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.Difficulty != nil {
		q = q.Where("difficulty = ?", *f.Difficulty)
	}
	if f.Mastered != nil {
		q = q.Where("mastered = ?", *f.Mastered)
	}
	return q
}

func (r *flashcardRepo) Create(ctx context.Context, card *model.Flashcard) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// выделение номера и вставка — одна транзакция, окна между ними нет;
		// уникальный индекс по card_number страхует от обхода аллокатора
		num, err := nextCardNumber(tx)
		if err != nil {
			return err
		}
		card.CardNumber = num
		if card.ID == "" {
			card.ID = uuid.NewString()
		}
		return tx.Create(card).Error
	})
}

// nextCardNumber атомарно инкрементирует счётчик и возвращает новое значение.
// Инкремент выражением в SQL, без чтения перед записью: двум конкурентным
// транзакциям одно и то же «текущее» значение не достанется.
func nextCardNumber(tx *gorm.DB) (int64, error) {
	res := tx.Model(&model.CardSequence{}).Where("id = ?", 1).
		UpdateColumn("last_number", gorm.Expr("last_number + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		// первый запуск: сеем счётчик от текущего максимума
		var maxNum int64
		if err := tx.Model(&model.Flashcard{}).
			Select("COALESCE(MAX(card_number), 0)").Scan(&maxNum).Error; err != nil {
			return 0, err
		}
		seq := model.CardSequence{ID: 1, LastNumber: maxNum + 1}
		if err := tx.Create(&seq).Error; err != nil {
			return 0, err
		}
		return seq.LastNumber, nil
	}

	var last int64
	if err := tx.Model(&model.CardSequence{}).Where("id = ?", 1).
		Select("last_number").Scan(&last).Error; err != nil {
		return 0, err
	}
	return last, nil
}

func (r *flashcardRepo) GetByID(ctx context.Context, id string) (*model.Flashcard, error) {
	var card model.Flashcard
	if err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *flashcardRepo) List(ctx context.Context, f ListFilter, offset, limit int) ([]model.Flashcard, error) {
	cards := make([]model.Flashcard, 0, limit)
	q := applyFilter(r.db.WithContext(ctx).Model(&model.Flashcard{}), f)
	err := q.Order("card_number ASC").Offset(offset).Limit(limit).Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *flashcardRepo) Count(ctx context.Context, f ListFilter) (int64, error) {
	var total int64
	q := applyFilter(r.db.WithContext(ctx).Model(&model.Flashcard{}), f)
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *flashcardRepo) Random(ctx context.Context) (*model.Flashcard, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Flashcard{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var card model.Flashcard
	offset := int(rand.Int63n(count))
	err := r.db.WithContext(ctx).Order("card_number ASC").Offset(offset).First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *flashcardRepo) Update(ctx context.Context, id string, updates map[string]any) (*model.Flashcard, error) {
	var card model.Flashcard
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&card, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&card).Updates(updates).Error; err != nil {
			return err
		}
		// перечитываем, чтобы вернуть состояние после мерджа
		return tx.First(&card, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *flashcardRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Flashcard{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *flashcardRepo) BulkSetMastered(ctx context.Context, ids []string, mastered bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	// условие mastered <> ? делает повторное применение того же значения
	// no-op: updated_at нетронут, счётчик отражает реальные изменения
	res := r.db.WithContext(ctx).Model(&model.Flashcard{}).
		Where("id IN ?", ids).
		Where("mastered <> ?", mastered).
		Updates(map[string]any{"mastered": mastered, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *flashcardRepo) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{
		Categories:   []string{},
		Difficulties: []string{},
		ByCategory:   []CategoryCount{},
		ByDifficulty: []DifficultyCount{},
	}
	// все запросы в одной транзакции — согласованный срез коллекции
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Flashcard{}).Count(&st.TotalCards).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Flashcard{}).Where("mastered = ?", true).
			Count(&st.MasteredCards).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Flashcard{}).Distinct("category").Order("category ASC").
			Pluck("category", &st.Categories).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Flashcard{}).Distinct("difficulty").Order("difficulty ASC").
			Pluck("difficulty", &st.Difficulties).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Flashcard{}).
			Select("category, COUNT(*) AS count").Group("category").
			Order("count DESC, category ASC").Scan(&st.ByCategory).Error; err != nil {
			return err
		}
		return tx.Model(&model.Flashcard{}).
			Select("difficulty, COUNT(*) AS count").Group("difficulty").
			Order("count DESC, difficulty ASC").Scan(&st.ByDifficulty).Error
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}
