package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ub-victor/flashcard-app/internal/model"
	"gorm.io/gorm"
)

// хелпер для создания базовой карточки
func mkCard(q, a string) *model.Flashcard {
	return &model.Flashcard{
		Question:   q,
		Answer:     a,
		Category:   model.CategoryGeneral,
		Difficulty: model.DifficultyMedium,
	}
}

func seed(t *testing.T, r FlashcardRepository, cards ...*model.Flashcard) {
	t.Helper()
	ctx := context.Background()
	for _, c := range cards {
		assert.NoError(t, r.Create(ctx, c))
	}
}

func TestFlashcardRepository_Create_AssignsSequentialNumbers(t *testing.T) {
	r := NewFlashcardRepository(newTestDB(t))
	ctx := context.Background()

	c1 := mkCard("Q1", "A1")
	c2 := mkCard("Q2", "A2")
	seed(t, r, c1, c2)

	assert.Equal(t, int64(1), c1.CardNumber)
	assert.Equal(t, int64(2), c2.CardNumber)
	assert.NotEmpty(t, c1.ID)
	assert.NotEqual(t, c1.ID, c2.ID)

	// createdAt/updatedAt проставлены, updatedAt >= createdAt
	got, err := r.GetByID(ctx, c1.ID)
	assert.NoError(t, err)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestFlashcardRepository_Create_NumberNotRecycledAfterDelete(t *testing.T) {
	r := NewFlashcardRepository(newTestDB(t))
	ctx := context.Background()

	c1 := mkCard("Q1", "A1")
	c2 := mkCard("Q2", "A2")
	seed(t, r, c1, c2)

	// удаляем последнюю созданную: её номер не выдаётся повторно
	found, err := r.Delete(ctx, c2.ID)
	assert.NoError(t, err)
	assert.True(t, found)

	c3 := mkCard("Q3", "A3")
	seed(t, r, c3)
	assert.Equal(t, int64(3), c3.CardNumber)

	// удаление из середины номера не сдвигает
	found, err = r.Delete(ctx, c1.ID)
	assert.NoError(t, err)
	assert.True(t, found)
	c4 := mkCard("Q4", "A4")
	seed(t, r, c4)
	assert.Equal(t, int64(4), c4.CardNumber)
}

func TestFlashcardRepository_Create_DuplicateNumberRejected(t *testing.T) {
	db := newTestDB(t)
	r := NewFlashcardRepository(db)

	c1 := mkCard("Q1", "A1")
	seed(t, r, c1)

	// обход аллокатора: прямая вставка с занятым номером
	dup := mkCard("Q2", "A2")
	dup.ID = "external-id"
	dup.CardNumber = c1.CardNumber
	err := db.Create(dup).Error
	assert.Error(t, err)
	assert.True(t, IsDuplicate(err))
}

func TestFlashcardRepository_GetByID_NotFound(t *testing.T) {
	r := NewFlashcardRepository(newTestDB(t))

	got, err := r.GetByID(context.Background(), "missing-id")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFlashcardRepository_List_FilterAndOrder(t *testing.T) {
	r := NewFlashcardRepository(newTestDB(t))
	ctx := context.Background()

	easy := mkCard("Q1", "A1")
	easy.Difficulty = model.DifficultyEasy
	sci := mkCard("Q2", "A2")
	sci.Category = model.CategoryScience
	sci.Mastered = true
	hard := mkCard("Q3", "A3")
	hard.Difficulty = model.DifficultyHard
	seed(t, r, easy, sci, hard)

	// без фильтра — все, по возрастанию card_number
	all, err := r.List(ctx, ListFilter{}, 0, 10)
	assert.NoError(t, err)
	if assert.Len(t, all, 3) {
		assert.Equal(t, int64(1), all[0].CardNumber)
		assert.Equal(t, int64(2), all[1].CardNumber)
		assert.Equal(t, int64(3), all[2].CardNumber)
	}

	// фильтр по категории
	cat := string(model.CategoryScience)
	got, err := r.List(ctx, ListFilter{Category: &cat}, 0, 10)
	assert.NoError(t, err)
	if assert.Len(t, got, 1) {
		assert.Equal(t, sci.ID, got[0].ID)
	}

	// конъюнкция: категория + mastered
	m := false
	got, err = r.List(ctx, ListFilter{Category: &cat, Mastered: &m}, 0, 10)
	assert.NoError(t, err)
	assert.Empty(t, got)

	total, err := r.Count(ctx, ListFilter{Category: &cat})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestFlashcardRepository_List_OffsetBeyondEnd(t *testing.T) {
	r := NewFlashcardRepository(newTestDB(t))

	seed(t, r, mkCard("Q1", "A1"))

	got, err := r.List(context.Background(), ListFilter{}, 100, 10)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestFlashcardRepository_Update_MergesAndKeepsImmutable(t *testing.T) {
	r := NewFlashcardRepository(newTestDB(t))
	ctx := context.Background()

	c := mkCard("Q1", "A1")
	seed(t, r, c)

	upd, err := r.Update(ctx, c.ID, map[string]any{
		"question":   "Q1 edited",
		"updated_at": time.Now().UTC(),
	})
	assert.NoError(t, err)
	assert.Equal(t, "Q1 edited", upd.Question)
	assert.Equal(t, "A1", upd.Answer) // не передано — не тронуто
	assert.Equal(t, c.ID, upd.ID)
	assert.Equal(t, c.CardNumber, upd.CardNumber)
	assert.WithinDuration(t, time.Now().UTC(), upd.UpdatedAt, 2*time.Second)

	_, err = r.Update(ctx, "missing-id", map[string]any{"question": "X"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFlashcardRepository_BulkSetMastered(t *testing.T) {
	r := NewFlashcardRepository(newTestDB(t))
	ctx := context.Background()

	c1 := mkCard("Q1", "A1")
	c2 := mkCard("Q2", "A2")
	seed(t, r, c1, c2)

	// несуществующий id молча пропускается
	n, err := r.BulkSetMastered(ctx, []string{c1.ID, "missing-id"}, true)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := r.GetByID(ctx, c1.ID)
	assert.NoError(t, err)
	assert.True(t, got.Mastered)
	firstTouch := got.UpdatedAt

	// повторное применение того же значения — no-op
	n, err = r.BulkSetMastered(ctx, []string{c1.ID}, true)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
	got, err = r.GetByID(ctx, c1.ID)
	assert.NoError(t, err)
	assert.True(t, got.Mastered)
	assert.True(t, firstTouch.Equal(got.UpdatedAt))

	// пустой список — ноль изменений
	n, err = r.BulkSetMastered(ctx, nil, true)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestFlashcardRepository_Random(t *testing.T) {
	r := NewFlashcardRepository(newTestDB(t))
	ctx := context.Background()

	// пустая коллекция
	got, err := r.Random(ctx)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	c := mkCard("Q1", "A1")
	seed(t, r, c)
	got, err = r.Random(ctx)
	assert.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
}

func TestFlashcardRepository_Stats(t *testing.T) {
	r := NewFlashcardRepository(newTestDB(t))
	ctx := context.Background()

	// пустая коллекция: нули и пустые распределения
	st, err := r.Stats(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), st.TotalCards)
	assert.Equal(t, int64(0), st.MasteredCards)
	assert.Empty(t, st.ByCategory)
	assert.Empty(t, st.ByDifficulty)

	sci1 := mkCard("Q1", "A1")
	sci1.Category = model.CategoryScience
	sci1.Mastered = true
	sci2 := mkCard("Q2", "A2")
	sci2.Category = model.CategoryScience
	math1 := mkCard("Q3", "A3")
	math1.Category = model.CategoryMath
	math1.Difficulty = model.DifficultyHard
	seed(t, r, sci1, sci2, math1)

	st, err = r.Stats(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), st.TotalCards)
	assert.Equal(t, int64(1), st.MasteredCards)
	assert.ElementsMatch(t, []string{"Science", "Math"}, st.Categories)
	assert.ElementsMatch(t, []string{"Medium", "Hard"}, st.Difficulties)

	// распределения: по убыванию count, при равенстве — лексикографически
	if assert.Len(t, st.ByCategory, 2) {
		assert.Equal(t, CategoryCount{Category: "Science", Count: 2}, st.ByCategory[0])
		assert.Equal(t, CategoryCount{Category: "Math", Count: 1}, st.ByCategory[1])
	}
	if assert.Len(t, st.ByDifficulty, 2) {
		assert.Equal(t, DifficultyCount{Difficulty: "Medium", Count: 2}, st.ByDifficulty[0])
		assert.Equal(t, DifficultyCount{Difficulty: "Hard", Count: 1}, st.ByDifficulty[1])
	}

	// сумма распределения по сложности равна общему количеству
	var sum int64
	for _, d := range st.ByDifficulty {
		sum += d.Count
	}
	assert.Equal(t, st.TotalCards, sum)
}
