package rides

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal - количество операций движка по результату
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ride_operations_total",
			Help: "Количество операций с поездками по типу и результату",
		},
		[]string{"operation", "result"},
	)

	// OperationDuration - длительность транзакций движка
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ride_operation_duration_seconds",
			Help:    "Длительность операций с поездками в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// RidesCompletedTotal - поездки, переведенные в COMPLETED автозавершением
	RidesCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rides_autocompleted_total",
			Help: "Количество поездок, завершенных автоматически",
		},
	)
)

func observe(operation string, err error, duration time.Duration) {
	result := "ok"
	if err != nil {
		result = string(KindOf(err))
	}
	OperationsTotal.WithLabelValues(operation, result).Inc()
	OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
