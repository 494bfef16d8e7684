// Package model определяет доменные модели.
package model

import "time"

// Review представляет отзыв пользователя о займе.
// Новые отзывы создаются неодобренными и публикуются после модерации.
type Review struct {
	ID         int64
	LoanID     int64
	AuthorName string
	Rating     int // целое, 1–5
	Comment    string
	IsApproved bool
	CreatedAt  time.Time
}

// NewReview содержит данные нового отзыва до отправки в хранилище.
type NewReview struct {
	LoanID     int64
	AuthorName string
	Rating     int
	Comment    string
}
