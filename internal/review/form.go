package review

import (
	"strings"

	"github.com/zaimy/loanhub/internal/model"
)

// SubmissionForm — форма нового отзыва на странице займа.
// Оценка выбирается дискретными позициями звёзд (целое 1–5, по умолчанию 5),
// дробные значения невозможны по построению.
// При ошибке отправки значения формы сохраняются: вызывающий держит форму
// и повторяет отправку тем же экземпляром.
type SubmissionForm struct {
	AuthorName string
	Rating     int
	Comment    string
}

// NewSubmissionForm создаёт пустую форму с оценкой по умолчанию 5.
func NewSubmissionForm() SubmissionForm {
	return SubmissionForm{Rating: 5}
}

// Validate проверяет форму до какого-либо сетевого вызова.
// Пустые имя или текст — ошибка валидации, запрос не отправляется.
func (f SubmissionForm) Validate() error {
	if strings.TrimSpace(f.AuthorName) == "" {
		return model.NewValidationError("имя автора не заполнено")
	}
	if strings.TrimSpace(f.Comment) == "" {
		return model.NewValidationError("текст отзыва не заполнен")
	}
	if f.Rating < 1 || f.Rating > 5 {
		return model.NewValidationError("оценка вне диапазона 1–5")
	}
	return nil
}

// ToNewReview собирает данные формы в NewReview для отправки в хранилище.
func (f SubmissionForm) ToNewReview(loanID int64) model.NewReview {
	return model.NewReview{
		LoanID:     loanID,
		AuthorName: strings.TrimSpace(f.AuthorName),
		Rating:     f.Rating,
		Comment:    strings.TrimSpace(f.Comment),
	}
}

// Reset очищает форму после подтверждённой успешной отправки.
func (f *SubmissionForm) Reset() {
	*f = NewSubmissionForm()
}
