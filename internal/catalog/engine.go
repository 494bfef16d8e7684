// Package catalog реализует фильтрацию и сортировку каталога займов.
package catalog

import (
	"sort"
	"strings"

	"github.com/zaimy/loanhub/internal/model"
)

// Selection описывает параметры отбора: поисковая строка,
// минимальные пороги суммы и срока, ключ сортировки.
type Selection struct {
	Query     string
	MinAmount int64
	MinTerm   int
	Sort      model.SortKey
}

// Apply возвращает новый упорядоченный список займов по параметрам отбора.
// Функция чистая: входной список и его элементы не изменяются,
// повторный вызов с теми же аргументами даёт тот же результат.
//
// Займ попадает в выборку, если его название ИЛИ любое из преимуществ
// содержит поисковую строку без учёта регистра (пустая строка совпадает
// со всем), максимальная сумма не меньше MinAmount и максимальный срок
// не меньше MinTerm.
func Apply(loans []model.Loan, sel Selection) []model.Loan {
	query := strings.ToLower(sel.Query)

	result := make([]model.Loan, 0, len(loans))
	for _, loan := range loans {
		if !matchesQuery(loan, query) {
			continue
		}
		if loan.AmountMax < sel.MinAmount {
			continue
		}
		if loan.TermMax < sel.MinTerm {
			continue
		}
		result = append(result, loan)
	}

	sortLoans(result, sel.Sort)
	return result
}

// matchesQuery проверяет совпадение названия или преимуществ с поисковой строкой.
// query должен быть приведён к нижнему регистру заранее.
func matchesQuery(loan model.Loan, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(loan.Name), query) {
		return true
	}
	for _, f := range loan.Features {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// sortLoans упорядочивает список по ключу сортировки.
// Сортировка стабильная: элементы с равными ключами сохраняют исходный порядок.
func sortLoans(loans []model.Loan, key model.SortKey) {
	switch key {
	case model.SortRating:
		sort.SliceStable(loans, func(i, j int) bool {
			return loans[i].Rating > loans[j].Rating
		})
	case model.SortRate:
		sort.SliceStable(loans, func(i, j int) bool {
			return loans[i].Rate < loans[j].Rate
		})
	case model.SortApproval:
		sort.SliceStable(loans, func(i, j int) bool {
			return loans[i].ApprovalRate > loans[j].ApprovalRate
		})
	case model.SortPopularity:
		sort.SliceStable(loans, func(i, j int) bool {
			return loans[i].Clicks > loans[j].Clicks
		})
	case model.SortNone:
		// исходный порядок
	}
}
