// Package stats вычисляет агрегаты по отзывам и счётчикам займов.
package stats

import (
	"math"

	"github.com/zaimy/loanhub/internal/model"
)

// AverageRating возвращает среднюю оценку по списку отзывов.
// Для пустого списка возвращается fallback (хранимый рейтинг займа),
// деления на ноль не происходит.
func AverageRating(reviews []model.Review, fallback float64) float64 {
	if len(reviews) == 0 {
		return fallback
	}

	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}

// RatingBucket — одна корзина распределения оценок.
type RatingBucket struct {
	Stars      int
	Count      int
	Percentage float64
}

// Distribution возвращает распределение оценок по корзинам от 5 до 1 звезды.
// Сумма Count по корзинам равна числу отзывов; для пустого списка
// все проценты равны нулю.
func Distribution(reviews []model.Review) []RatingBucket {
	counts := make(map[int]int, 5)
	for _, r := range reviews {
		counts[r.Rating]++
	}

	total := len(reviews)
	buckets := make([]RatingBucket, 0, 5)
	for stars := 5; stars >= 1; stars-- {
		b := RatingBucket{Stars: stars, Count: counts[stars]}
		if total > 0 {
			b.Percentage = float64(b.Count) / float64(total) * 100
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// ConversionRate возвращает конверсию в процентах с одним знаком после запятой.
// При clicks = 0 возвращается 0, а не NaN или бесконечность.
func ConversionRate(clicks, conversions int64) float64 {
	if clicks == 0 {
		return 0
	}
	rate := float64(conversions) / float64(clicks) * 100
	return math.Round(rate*10) / 10
}
