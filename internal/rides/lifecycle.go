package rides

import (
	"context"
	"time"

	"rideshare-backend/internal/models"
)

// AutoCompleteDueRides переводит все ONGOING поездки с отправлением не позже asOf
// в COMPLETED одним запросом и возвращает число переведенных. Повторный запуск
// с тем же asOf ничего не меняет.
func (e *Engine) AutoCompleteDueRides(ctx context.Context, asOf time.Time) (int64, error) {
	start := time.Now()
	if asOf.IsZero() {
		asOf = e.now()
	}
	asOf = asOf.UTC()

	res := e.db.WithContext(ctx).Model(&models.Ride{}).
		Where("status = ? AND departure_at <= ?", models.RideStatusOngoing, asOf).
		Updates(map[string]interface{}{
			"status":       models.RideStatusCompleted,
			"completed_at": asOf,
			"updated_at":   time.Now().UTC(),
		})

	err := storeError(res.Error)
	observe("auto_complete", err, time.Since(start))
	if err != nil {
		e.logger.Error("ошибка автозавершения поездок", "as_of", asOf, "error", err)
		return 0, err
	}

	if res.RowsAffected > 0 {
		RidesCompletedTotal.Add(float64(res.RowsAffected))
		e.logger.Info("поездки завершены автоматически", "count", res.RowsAffected, "as_of", asOf)
	}
	return res.RowsAffected, nil
}
