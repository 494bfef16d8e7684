package review

import (
	"errors"
	"testing"

	"github.com/zaimy/loanhub/internal/model"
)

func TestNewSubmissionFormDefaultRating(t *testing.T) {
	f := NewSubmissionForm()
	if f.Rating != 5 {
		t.Errorf("Rating = %d, want 5", f.Rating)
	}
}

func TestSubmissionFormValidate(t *testing.T) {
	tests := []struct {
		name    string
		form    SubmissionForm
		wantErr bool
	}{
		{"валидная форма", SubmissionForm{AuthorName: "Анна", Rating: 5, Comment: "Очень удобный сервис."}, false},
		{"пустое имя", SubmissionForm{AuthorName: "  ", Rating: 5, Comment: "Очень удобный сервис."}, true},
		{"пустой текст", SubmissionForm{AuthorName: "Анна", Rating: 5, Comment: ""}, true},
		{"оценка вне диапазона", SubmissionForm{AuthorName: "Анна", Rating: 0, Comment: "Очень удобный сервис."}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var apiErr *model.APIError
				if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidationFailed {
					t.Errorf("Validate() error = %v, want VALIDATION_FAILED", err)
				}
			}
		})
	}
}

func TestSubmissionFormPreservedOnFailure(t *testing.T) {
	// при ошибке отправки форма не сбрасывается: значения доступны для повтора
	f := SubmissionForm{AuthorName: "Анна", Rating: 4, Comment: "Одобрили быстро, рекомендую."}
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if f.AuthorName != "Анна" || f.Rating != 4 || f.Comment != "Одобрили быстро, рекомендую." {
		t.Error("значения формы изменились после валидации")
	}
}

func TestSubmissionFormToNewReview(t *testing.T) {
	f := SubmissionForm{AuthorName: "  Анна  ", Rating: 4, Comment: "  Одобрили быстро.  "}
	nr := f.ToNewReview(7)
	if nr.LoanID != 7 {
		t.Errorf("LoanID = %d, want 7", nr.LoanID)
	}
	if nr.AuthorName != "Анна" {
		t.Errorf("AuthorName = %q, want %q", nr.AuthorName, "Анна")
	}
	if nr.Comment != "Одобрили быстро." {
		t.Errorf("Comment = %q, want %q", nr.Comment, "Одобрили быстро.")
	}
}

func TestSubmissionFormReset(t *testing.T) {
	f := SubmissionForm{AuthorName: "Анна", Rating: 3, Comment: "Текст"}
	f.Reset()
	if f.AuthorName != "" || f.Comment != "" || f.Rating != 5 {
		t.Errorf("Reset() = %+v, want пустая форма с оценкой 5", f)
	}
}
