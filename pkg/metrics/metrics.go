package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "smc"

// Metrics набор prometheus метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Database
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec
	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrors      *prometheus.CounterVec

	// Workload
	SyncRunsTotal         *prometheus.CounterVec
	SyncDuration          *prometheus.HistogramVec
	OpportunitiesSynced   *prometheus.GaugeVec
	OpportunitiesChanged  *prometheus.CounterVec
	WorkloadWeight        *prometheus.GaugeVec
	CRMRequestsTotal      *prometheus.CounterVec
	CalculatorInputErrors *prometheus.CounterVec
}

// New создает и регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном registerer
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Number of HTTP requests partitioned by status code, method and route.",
			ConstLabels: constLabels,
		}, []string{"code", "method", "route"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "Time spent on the request partitioned by method and route.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "db",
			Name:        "open_connections",
			Help:        "Number of established connections to the database.",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "db",
			Name:        "in_use_connections",
			Help:        "Number of connections currently in use.",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "db",
			Name:        "idle_connections",
			Help:        "Number of idle connections.",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "db",
			Name:        "wait_count",
			Help:        "Total number of connections waited for.",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "db",
			Name:        "query_duration_seconds",
			Help:        "Duration of database queries partitioned by operation.",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "db",
			Name:        "query_errors_total",
			Help:        "Number of failed database queries partitioned by operation.",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		SyncRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "workload",
			Name:        "sync_runs_total",
			Help:        "Number of workshop sync runs partitioned by trigger and result.",
			ConstLabels: constLabels,
		}, []string{"trigger", "result"}),
		SyncDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "workload",
			Name:        "sync_duration_seconds",
			Help:        "Duration of workshop sync runs.",
			ConstLabels: constLabels,
			Buckets:     []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"trigger"}),
		OpportunitiesSynced: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "workload",
			Name:        "opportunities_synced",
			Help:        "Number of opportunities processed by the last sync.",
			ConstLabels: constLabels,
		}, []string{"trigger"}),
		OpportunitiesChanged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "workload",
			Name:        "opportunities_changed_total",
			Help:        "Number of opportunities whose schedule changed since the previous sync.",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		WorkloadWeight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "workload",
			Name:        "weight_kg",
			Help:        "Total weight of upcoming opportunities partitioned by status group.",
			ConstLabels: constLabels,
		}, []string{"group"}),
		CRMRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "currentrms",
			Name:        "requests_total",
			Help:        "Number of Current RMS API requests partitioned by resource and result.",
			ConstLabels: constLabels,
		}, []string{"resource", "result"}),
		CalculatorInputErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "calculator",
			Name:        "invalid_input_total",
			Help:        "Number of calculations that fell back to zero values due to invalid input.",
			ConstLabels: constLabels,
		}, []string{"operation"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.SyncRunsTotal,
		m.SyncDuration,
		m.OpportunitiesSynced,
		m.OpportunitiesChanged,
		m.WorkloadWeight,
		m.CRMRequestsTotal,
		m.CalculatorInputErrors,
	)

	return m
}

// ObserveSync записывает результат синхронизации. Безопасен для nil.
func (m *Metrics) ObserveSync(trigger string, started time.Time, processed int, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.SyncRunsTotal.WithLabelValues(trigger, result).Inc()
	m.SyncDuration.WithLabelValues(trigger).Observe(time.Since(started).Seconds())
	m.OpportunitiesSynced.WithLabelValues(trigger).Set(float64(processed))
}

// IncChanged увеличивает счетчик изменившихся заявок. Безопасен для nil.
func (m *Metrics) IncChanged(kind string) {
	if m == nil {
		return
	}
	m.OpportunitiesChanged.WithLabelValues(kind).Inc()
}

// SetWorkloadWeight выставляет вес по группе статусов. Безопасен для nil.
func (m *Metrics) SetWorkloadWeight(group string, weight float64) {
	if m == nil {
		return
	}
	m.WorkloadWeight.WithLabelValues(group).Set(weight)
}

// IncCRMRequest учитывает запрос к Current RMS. Безопасен для nil.
func (m *Metrics) IncCRMRequest(resource string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.CRMRequestsTotal.WithLabelValues(resource, result).Inc()
}

// IncCalculatorError учитывает невалидный вход калькулятора. Безопасен для nil.
func (m *Metrics) IncCalculatorError(operation string) {
	if m == nil {
		return
	}
	m.CalculatorInputErrors.WithLabelValues(operation).Inc()
}
