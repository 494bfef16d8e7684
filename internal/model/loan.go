// Package model определяет доменные модели.
package model

import "time"

// Loan представляет предложение займа от МФО.
type Loan struct {
	ID           int64
	Name         string
	Logo         string // эмодзи-логотип
	AmountMin    int64
	AmountMax    int64
	TermMin      int // срок в днях
	TermMax      int
	Rate         float64 // дневная ставка, %
	ApprovalRate int     // процент одобрения, 0–100
	Rating       float64 // 0.0–5.0
	Reviews      int     // хранимый счётчик отзывов, обновляется воркером
	Features     []string
	Requirements []string
	Color        string // токен CSS-градиента, передаётся без изменений
	Clicks       int64
	Conversions  int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LoanFields содержит поля займа, задаваемые при создании и обновлении.
// ID и временные метки назначаются хранилищем и сюда не входят.
type LoanFields struct {
	Name         string
	Logo         string
	AmountMin    int64
	AmountMax    int64
	TermMin      int
	TermMax      int
	Rate         float64
	ApprovalRate int
	Rating       float64
	Reviews      int
	Features     []string
	Requirements []string
	Color        string
	IsActive     bool
}

// SortKey определяет ключ сортировки списка займов.
type SortKey string

const (
	// SortNone сохраняет исходный порядок списка.
	SortNone SortKey = ""
	// SortRating сортирует по рейтингу по убыванию.
	SortRating SortKey = "rating"
	// SortRate сортирует по дневной ставке по возрастанию.
	SortRate SortKey = "rate"
	// SortApproval сортирует по проценту одобрения по убыванию.
	SortApproval SortKey = "approval"
	// SortPopularity сортирует по числу кликов по убыванию.
	SortPopularity SortKey = "popularity"
)
