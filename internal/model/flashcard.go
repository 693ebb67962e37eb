package model

import "time"

// Category — закрытый набор тематик карточки.
type Category string

const (
	CategoryGeneral     Category = "General"
	CategoryScience     Category = "Science"
	CategoryHistory     Category = "History"
	CategoryMath        Category = "Math"
	CategoryLanguage    Category = "Language"
	CategoryProgramming Category = "Programming"
	CategoryMedical     Category = "Medical"
	CategoryLaw         Category = "Law"
	CategoryBusiness    Category = "Business"
)

// Difficulty — уровень сложности карточки.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Categories возвращает все допустимые тематики в фиксированном порядке.
func Categories() []Category {
	return []Category{
		CategoryGeneral, CategoryScience, CategoryHistory, CategoryMath,
		CategoryLanguage, CategoryProgramming, CategoryMedical, CategoryLaw,
		CategoryBusiness,
	}
}

// Difficulties возвращает все допустимые уровни сложности.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ValidCategory проверяет принадлежность значения к закрытому набору.
func ValidCategory(v string) bool {
	for _, c := range Categories() {
		if string(c) == v {
			return true
		}
	}
	return false
}

// ValidDifficulty проверяет принадлежность значения к закрытому набору.
func ValidDifficulty(v string) bool {
	for _, d := range Difficulties() {
		if string(d) == v {
			return true
		}
	}
	return false
}

// Flashcard — серверная модель учебной карточки.
// ID, CardNumber и CreatedAt назначаются при создании и далее неизменяемы.
type Flashcard struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	// Пользовательский порядковый номер: уникальный, строго возрастающий
	// в порядке создания, после удаления не переиспользуется.
	CardNumber int64 `gorm:"not null;uniqueIndex" json:"cardNumber"`

	Question    string `gorm:"not null;size:1000" json:"question"`
	Answer      string `gorm:"not null;size:2000" json:"answer"`
	Explanation string `gorm:"size:2000" json:"explanation,omitempty"`

	Category   Category   `gorm:"not null;default:General;index:idx_flashcards_category_difficulty" json:"category"`
	Difficulty Difficulty `gorm:"not null;default:Medium;index:idx_flashcards_category_difficulty" json:"difficulty"`

	Mastered bool `gorm:"not null;default:false;index" json:"mastered"`

	ImageURL     string `gorm:"size:2048" json:"imageUrl,omitempty"`
	ImageAlt     string `gorm:"size:200" json:"imageAlt,omitempty"`
	ImageCaption string `gorm:"size:200" json:"imageCaption,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:,sort:desc" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// CardSequence — монотонный счётчик card_number, единственная строка с ID=1.
// Хранится отдельно от карточек: удаление не откатывает счётчик, поэтому
// номер удалённой карточки никогда не выдаётся повторно.
type CardSequence struct {
	ID         int64 `gorm:"primaryKey"`
	LastNumber int64 `gorm:"not null"`
}
