package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// ホールド作成の総数（result: created, conflict, invalid, error）
	HoldsTotal *prometheus.CounterVec

	// 発行されたチケットの総数
	TicketsIssuedTotal prometheus.Counter

	// 掃除で解放された期限切れホールドの総数
	ExpiredHoldsReleasedTotal prometheus.Counter

	// 現在有効なホールド数
	ActiveHolds prometheus.Gauge

	// 分散ロックの操作時間（operation: acquire/release, status: success/failed）
	DistributedLockDuration *prometheus.HistogramVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HoldsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_holds_total",
				Help: "Total number of seat hold attempts",
			},
			[]string{"result"},
		),
		TicketsIssuedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tickets_issued_total",
				Help: "Total number of tickets issued",
			},
		),
		ExpiredHoldsReleasedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "expired_holds_released_total",
				Help: "Total number of holds reclaimed by the expiry sweeper",
			},
		),
		ActiveHolds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_holds",
				Help: "Current number of active seat holds",
			},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HoldsTotal,
		m.TicketsIssuedTotal,
		m.ExpiredHoldsReleasedTotal,
		m.ActiveHolds,
		m.DistributedLockDuration,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
