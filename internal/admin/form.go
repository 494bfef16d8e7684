// Package admin содержит логику админ-панели каталога займов.
package admin

import (
	"strconv"
	"strings"

	"github.com/zaimy/loanhub/internal/model"
)

// LoanForm — сырые текстовые поля формы займа в админ-панели.
// Числовые поля хранятся строками до разбора: пользователь может
// ввести что угодно, ошибки показываются до отправки.
type LoanForm struct {
	Name         string
	Logo         string
	AmountMin    string
	AmountMax    string
	TermMin      string
	TermMax      string
	Rate         string
	ApprovalRate string
	Rating       string
	Reviews      string
	Features     string // по строке на пункт
	Requirements string // по строке на пункт
	Color        string
	IsActive     bool
}

// FormFromLoan заполняет форму значениями существующего займа.
// Используется при открытии займа на редактирование.
func FormFromLoan(l *model.Loan) LoanForm {
	return LoanForm{
		Name:         l.Name,
		Logo:         l.Logo,
		AmountMin:    strconv.FormatInt(l.AmountMin, 10),
		AmountMax:    strconv.FormatInt(l.AmountMax, 10),
		TermMin:      strconv.Itoa(l.TermMin),
		TermMax:      strconv.Itoa(l.TermMax),
		Rate:         strconv.FormatFloat(l.Rate, 'f', -1, 64),
		ApprovalRate: strconv.Itoa(l.ApprovalRate),
		Rating:       strconv.FormatFloat(l.Rating, 'f', -1, 64),
		Reviews:      strconv.Itoa(l.Reviews),
		Features:     strings.Join(l.Features, "\n"),
		Requirements: strings.Join(l.Requirements, "\n"),
		Color:        l.Color,
		IsActive:     l.IsActive,
	}
}

// ParseLoanForm разбирает форму в поля займа.
// Первая ошибка разбора возвращается как ошибка валидации,
// до сетевого вызова дело не доходит.
func ParseLoanForm(f LoanForm) (model.LoanFields, error) {
	var fields model.LoanFields

	amountMin, err := strconv.ParseInt(strings.TrimSpace(f.AmountMin), 10, 64)
	if err != nil {
		return fields, model.NewValidationError("минимальная сумма не является числом")
	}
	amountMax, err := strconv.ParseInt(strings.TrimSpace(f.AmountMax), 10, 64)
	if err != nil {
		return fields, model.NewValidationError("максимальная сумма не является числом")
	}
	termMin, err := strconv.Atoi(strings.TrimSpace(f.TermMin))
	if err != nil {
		return fields, model.NewValidationError("минимальный срок не является числом")
	}
	termMax, err := strconv.Atoi(strings.TrimSpace(f.TermMax))
	if err != nil {
		return fields, model.NewValidationError("максимальный срок не является числом")
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(f.Rate), 64)
	if err != nil {
		return fields, model.NewValidationError("ставка не является числом")
	}
	approvalRate, err := strconv.Atoi(strings.TrimSpace(f.ApprovalRate))
	if err != nil {
		return fields, model.NewValidationError("процент одобрения не является числом")
	}
	rating, err := strconv.ParseFloat(strings.TrimSpace(f.Rating), 64)
	if err != nil {
		return fields, model.NewValidationError("рейтинг не является числом")
	}
	reviews, err := strconv.Atoi(strings.TrimSpace(f.Reviews))
	if err != nil {
		return fields, model.NewValidationError("число отзывов не является числом")
	}

	fields = model.LoanFields{
		Name:         strings.TrimSpace(f.Name),
		Logo:         strings.TrimSpace(f.Logo),
		AmountMin:    amountMin,
		AmountMax:    amountMax,
		TermMin:      termMin,
		TermMax:      termMax,
		Rate:         rate,
		ApprovalRate: approvalRate,
		Rating:       rating,
		Reviews:      reviews,
		Features:     SplitLines(f.Features),
		Requirements: SplitLines(f.Requirements),
		Color:        strings.TrimSpace(f.Color),
		IsActive:     f.IsActive,
	}
	return fields, nil
}

// SplitLines разбивает многострочный текст на пункты списка.
// Каждая строка очищается от пробелов, пустые строки отбрасываются,
// порядок непустых строк сохраняется.
func SplitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
