// Package compare реализует набор займов для сравнения «бок о бок».
package compare

import "github.com/zaimy/loanhub/internal/model"

// Set — набор идентификаторов займов, выбранных пользователем для сравнения.
// Порядок вставки сохраняется. Набор живёт в рамках одной сессии просмотра
// и очищается только явным действием пользователя.
type Set struct {
	ids []int64
}

// NewSet создаёт пустой набор сравнения.
func NewSet() *Set {
	return &Set{}
}

// Toggle добавляет идентификатор, если его нет в наборе, и удаляет, если есть.
// Повторный Toggle с тем же идентификатором возвращает набор к прежнему составу.
func (s *Set) Toggle(id int64) {
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
	s.ids = append(s.ids, id)
}

// Clear безусловно опустошает набор.
func (s *Set) Clear() {
	s.ids = nil
}

// Contains сообщает, входит ли идентификатор в набор.
func (s *Set) Contains(id int64) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Len возвращает размер набора.
func (s *Set) Len() int {
	return len(s.ids)
}

// IDs возвращает копию идентификаторов в порядке вставки.
func (s *Set) IDs() []int64 {
	out := make([]int64, len(s.ids))
	copy(out, s.ids)
	return out
}

// Render возвращает займы из loans, входящие в набор, в порядке вставки.
// Идентификаторы, отсутствующие в loans (устаревшие после перезагрузки списка),
// молча пропускаются.
func (s *Set) Render(loans []model.Loan) []model.Loan {
	byID := make(map[int64]model.Loan, len(loans))
	for _, loan := range loans {
		byID[loan.ID] = loan
	}

	result := make([]model.Loan, 0, len(s.ids))
	for _, id := range s.ids {
		if loan, ok := byID[id]; ok {
			result = append(result, loan)
		}
	}
	return result
}
