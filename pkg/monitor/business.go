package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics 定义业务监控指标
type BusinessMetrics struct {
	SignRequestsTotal  *prometheus.CounterVec
	SignRejectedTotal  *prometheus.CounterVec
	AuthRequestsTotal  prometheus.Counter
	PackageSize        prometheus.Histogram
	StatePollsTotal    prometheus.Counter
	KeeperLockedStatus prometheus.Gauge
}

// Global Metrics Instance
var Business *BusinessMetrics

// InitBusinessMetrics 初始化业务指标
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		SignRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "keeper_sign_requests_total",
			Help: "Total number of signing requests by transaction type",
		}, []string{"type"}),
		SignRejectedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "keeper_sign_rejected_total",
			Help: "Total number of rejected signing requests",
		}, []string{"reason"}),
		AuthRequestsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "keeper_auth_requests_total",
			Help: "Total number of site authentication requests",
		}),
		PackageSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "keeper_package_size",
			Help:    "Number of transactions per signing package",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7},
		}),
		StatePollsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "keeper_state_polls_total",
			Help: "Total number of public state reads",
		}),
		KeeperLockedStatus: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "keeper_locked_status",
			Help: "Whether the keeper is currently locked (1) or unlocked (0)",
		}),
	}
}
