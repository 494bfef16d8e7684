package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/zaimy/loanhub/internal/model"
	"golang.org/x/time/rate"
)

// RateLimiterConfig хранит настройки ограничения частоты запросов.
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // общий лимит API (req/sec)
	GeneralBurst    int           // размер всплеска общего лимита
	ReviewRate      rate.Limit    // лимит отправки отзывов (req/sec)
	ReviewBurst     int           // размер всплеска лимита отзывов
	CleanupInterval time.Duration // период очистки устаревших записей
}

// NewRateLimiterConfig строит настройки из лимитов «запросов в минуту».
func NewRateLimiterConfig(generalPerMinute, reviewsPerMinute int) RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(float64(generalPerMinute) / 60.0),
		GeneralBurst:    generalPerMinute,
		ReviewRate:      rate.Limit(float64(reviewsPerMinute) / 60.0),
		ReviewBurst:     reviewsPerMinute,
		CleanupInterval: 5 * time.Minute,
	}
}

// ipLimiter хранит лимитер одного клиентского IP и время последнего обращения.
type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter ограничивает частоту запросов по клиентскому IP.
// Ведёт два независимых класса: общий для всего API
// и более строгий для отправки отзывов.
type RateLimiter struct {
	config RateLimiterConfig

	generalMu       sync.RWMutex
	generalLimiters map[string]*ipLimiter

	reviewMu       sync.RWMutex
	reviewLimiters map[string]*ipLimiter

	stopCh chan struct{}
}

// NewRateLimiter создаёт RateLimiter и запускает фоновую очистку
// устаревших записей.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:          config,
		generalLimiters: make(map[string]*ipLimiter),
		reviewLimiters:  make(map[string]*ipLimiter),
		stopCh:          make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop останавливает фоновую горутину очистки.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// GeneralMiddleware возвращает мидлварь общего лимита API.
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			limiter := rl.getOrCreateLimiter(&rl.generalMu, rl.generalLimiters, ip, rl.config.GeneralRate, rl.config.GeneralBurst)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.GeneralRate)
				slog.Warn("rate limit exceeded",
					slog.String("ip", ip),
					slog.String("limit_type", "general"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ReviewSubmissionMiddleware возвращает мидлварь лимита отправки отзывов.
// Работает независимо от общего лимита.
func (rl *RateLimiter) ReviewSubmissionMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			limiter := rl.getOrCreateLimiter(&rl.reviewMu, rl.reviewLimiters, ip, rl.config.ReviewRate, rl.config.ReviewBurst)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.ReviewRate)
				slog.Warn("rate limit exceeded",
					slog.String("ip", ip),
					slog.String("limit_type", "review_submission"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GeneralLimiterCount возвращает число записей общего лимита. Для тестов.
func (rl *RateLimiter) GeneralLimiterCount() int {
	rl.generalMu.RLock()
	defer rl.generalMu.RUnlock()
	return len(rl.generalLimiters)
}

// ReviewLimiterCount возвращает число записей лимита отзывов. Для тестов.
func (rl *RateLimiter) ReviewLimiterCount() int {
	rl.reviewMu.RLock()
	defer rl.reviewMu.RUnlock()
	return len(rl.reviewLimiters)
}

// getOrCreateLimiter возвращает лимитер IP, создавая его при первом обращении.
func (rl *RateLimiter) getOrCreateLimiter(mu *sync.RWMutex, limiters map[string]*ipLimiter, ip string, limit rate.Limit, burst int) *rate.Limiter {
	mu.RLock()
	il, exists := limiters[ip]
	mu.RUnlock()

	if exists {
		mu.Lock()
		il.lastAccess = time.Now()
		mu.Unlock()
		return il.limiter
	}

	mu.Lock()
	defer mu.Unlock()

	// повторная проверка под write-блокировкой
	if il, exists := limiters[ip]; exists {
		il.lastAccess = time.Now()
		return il.limiter
	}

	limiter := rate.NewLimiter(limit, burst)
	limiters[ip] = &ipLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// cleanupLoop периодически удаляет записи IP без недавних обращений.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup удаляет записи, не использовавшиеся дольше интервала очистки.
func (rl *RateLimiter) cleanup() {
	cutoff := time.Now().Add(-rl.config.CleanupInterval)

	rl.generalMu.Lock()
	for ip, il := range rl.generalLimiters {
		if il.lastAccess.Before(cutoff) {
			delete(rl.generalLimiters, ip)
		}
	}
	rl.generalMu.Unlock()

	rl.reviewMu.Lock()
	for ip, il := range rl.reviewLimiters {
		if il.lastAccess.Before(cutoff) {
			delete(rl.reviewLimiters, ip)
		}
	}
	rl.reviewMu.Unlock()
}

// clientIP извлекает клиентский IP запроса.
// За обратным прокси берётся первый адрес из X-Forwarded-For.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeRateLimitResponse записывает ответ 429 с заголовком Retry-After.
func writeRateLimitResponse(w http.ResponseWriter, limit rate.Limit) {
	retryAfter := 1
	if limit > 0 {
		retryAfter = int(math.Ceil(1.0 / float64(limit)))
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	WriteErrorResponse(w, http.StatusTooManyRequests, &model.APIError{
		Code:     "RATE_LIMITED",
		Message:  "Слишком много запросов. Попробуйте позже.",
		Category: "transport",
		Action:   "Подождите и повторите запрос.",
	})
}
