package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const lockKey = "rideshare:autocomplete:lock"

// SweepRunsTotal - запуски автозавершения по результату
var SweepRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "autocomplete_sweeps_total",
		Help: "Запуски автозавершения поездок по результату",
	},
	[]string{"result"},
)

// Sweeper операция автозавершения поездок
type Sweeper interface {
	AutoCompleteDueRides(ctx context.Context, asOf time.Time) (int64, error)
}

// Scheduler периодически завершает поездки, время отправления которых наступило
type Scheduler struct {
	sweeper  Sweeper
	locker   Locker
	interval time.Duration
	lockTTL  time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// New без locker свип выполняется локально на каждом тике
func New(sweeper Sweeper, locker Locker, interval, lockTTL time.Duration, logger *slog.Logger) *Scheduler {
	if locker == nil {
		locker = localLocker{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if lockTTL <= 0 || lockTTL > interval {
		lockTTL = interval
	}
	return &Scheduler{
		sweeper:  sweeper,
		locker:   locker,
		interval: interval,
		lockTTL:  lockTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Run блокируется до отмены ctx. Первый свип выполняется сразу.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("планировщик автозавершения запущен", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.Tick(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("планировщик автозавершения остановлен")
			return nil
		case <-ticker.C:
		}
	}
}

// Tick один свип под распределенной блокировкой; ошибки только логируются
func (s *Scheduler) Tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	release, ok, err := s.locker.Acquire(ctx, lockKey, s.lockTTL)
	if err != nil {
		SweepRunsTotal.WithLabelValues("lock_error").Inc()
		s.logger.Warn("не удалось взять блокировку автозавершения", "error", err)
		return
	}
	if !ok {
		SweepRunsTotal.WithLabelValues("skipped").Inc()
		return
	}
	defer release()

	n, err := s.sweeper.AutoCompleteDueRides(ctx, s.now())
	if err != nil {
		SweepRunsTotal.WithLabelValues("error").Inc()
		s.logger.Error("ошибка автозавершения", "error", err)
		return
	}
	SweepRunsTotal.WithLabelValues("ok").Inc()
	if n > 0 {
		s.logger.Debug("свип автозавершения", "completed", n)
	}
}
