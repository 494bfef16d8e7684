// Package metrics собирает и публикует метрики Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector — интерфейс сбора метрик.
// Используется обработчиками и воркером сверки.
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordReviewSubmitted()
	RecordClickTracked()
	RecordConversionTracked()
	RecordReconcileRun(updated int)
}

// Collector — реализация на счётчиках Prometheus.
type Collector struct {
	httpStatus         *prometheus.CounterVec
	requestLatency     prometheus.Histogram
	reviewsSubmitted   prometheus.Counter
	clicksTracked      prometheus.Counter
	conversionsTracked prometheus.Counter
	reconcileRuns      prometheus.Counter
	reconcileUpdated   prometheus.Counter
}

// NewCollector создаёт Collector и регистрирует метрики в указанном реестре.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loanhub_http_status_total",
			Help: "Число ответов по кодам HTTP-статуса",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "loanhub_request_latency_seconds",
			Help:    "Латентность обработки HTTP-запросов (секунды)",
			Buckets: prometheus.DefBuckets,
		}),
		reviewsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loanhub_reviews_submitted_total",
			Help: "Число отправленных на модерацию отзывов",
		}),
		clicksTracked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loanhub_clicks_tracked_total",
			Help: "Число зафиксированных кликов по займам",
		}),
		conversionsTracked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loanhub_conversions_tracked_total",
			Help: "Число зафиксированных конверсий по займам",
		}),
		reconcileRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loanhub_reconcile_runs_total",
			Help: "Число запусков воркера сверки рейтингов",
		}),
		reconcileUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loanhub_reconcile_loans_updated_total",
			Help: "Число займов, обновлённых воркером сверки",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.reviewsSubmitted,
		c.clicksTracked,
		c.conversionsTracked,
		c.reconcileRuns,
		c.reconcileUpdated,
	)

	return c
}

// RecordHTTPStatus записывает код HTTP-ответа.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency записывает латентность запроса.
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordReviewSubmitted записывает отправку отзыва на модерацию.
func (c *Collector) RecordReviewSubmitted() {
	c.reviewsSubmitted.Inc()
}

// RecordClickTracked записывает зафиксированный клик.
func (c *Collector) RecordClickTracked() {
	c.clicksTracked.Inc()
}

// RecordConversionTracked записывает зафиксированную конверсию.
func (c *Collector) RecordConversionTracked() {
	c.conversionsTracked.Inc()
}

// RecordReconcileRun записывает запуск сверки и число обновлённых займов.
func (c *Collector) RecordReconcileRun(updated int) {
	c.reconcileRuns.Inc()
	c.reconcileUpdated.Add(float64(updated))
}

// Handler возвращает HTTP-обработчик для скрейпа Prometheus.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NewHTTPMiddleware возвращает мидлварь, записывающую статус и
// латентность каждого запроса в коллектор.
func NewHTTPMiddleware(collector MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			collector.RecordHTTPStatus(rec.statusCode)
			collector.RecordRequestLatency(time.Since(start))
		})
	}
}

// statusRecorder запоминает код ответа для записи в метрики.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}
