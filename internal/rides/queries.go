package rides

import (
	"context"
	"errors"
	"strings"

	"rideshare-backend/internal/models"

	"gorm.io/gorm"
)

const defaultSearchLimit = 50

// GetRide возвращает поездку с создателем и пассажирами глазами viewerID
func (e *Engine) GetRide(ctx context.Context, viewerID, rideID uint) (*models.RideResponse, error) {
	var ride models.Ride
	err := e.db.WithContext(ctx).
		Preload("Creator").
		Preload("Passengers.User").
		First(&ride, rideID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(KindNotFound, "поездка не найдена")
	}
	if err != nil {
		return nil, storeError(err)
	}

	response := toRideResponse(&ride, viewerID)
	return &response, nil
}

// ListUserRides активные поездки, где пользователь создатель или пассажир
func (e *Engine) ListUserRides(ctx context.Context, userID uint) ([]models.RideResponse, error) {
	db := e.db.WithContext(ctx)
	memberOf := db.Model(&models.Passenger{}).Select("ride_id").Where("user_id = ?", userID)

	var rides []models.Ride
	if err := db.
		Where("status = ?", models.RideStatusOngoing).
		Where("creator_id = ? OR id IN (?)", userID, memberOf).
		Preload("Creator").
		Preload("Passengers.User").
		Order("departure_at ASC").
		Find(&rides).Error; err != nil {
		return nil, storeError(err)
	}

	response := make([]models.RideResponse, 0, len(rides))
	for i := range rides {
		response = append(response, toRideResponse(&rides[i], userID))
	}
	return response, nil
}

// SearchRides открытые поездки со свободными местами
func (e *Engine) SearchRides(ctx context.Context, viewerID uint, filter models.RideSearch) ([]models.RideResponse, error) {
	q := e.db.WithContext(ctx).
		Where("status = ? AND seats_left > 0", models.RideStatusOngoing)

	if s := strings.TrimSpace(filter.Source); s != "" {
		q = q.Where("LOWER(source) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if d := strings.TrimSpace(filter.Destination); d != "" {
		q = q.Where("LOWER(destination) LIKE ?", "%"+strings.ToLower(d)+"%")
	}
	if filter.From != nil {
		q = q.Where("departure_at >= ?", filter.From.UTC())
	}

	limit := filter.Limit
	if limit <= 0 || limit > defaultSearchLimit {
		limit = defaultSearchLimit
	}

	var rides []models.Ride
	if err := q.Preload("Creator").
		Preload("Passengers.User").
		Order("departure_at ASC").
		Limit(limit).
		Find(&rides).Error; err != nil {
		return nil, storeError(err)
	}

	response := make([]models.RideResponse, 0, len(rides))
	for i := range rides {
		response = append(response, toRideResponse(&rides[i], viewerID))
	}
	return response, nil
}

// toRideResponse создатель показывается отдельно и не входит в список пассажиров
func toRideResponse(ride *models.Ride, viewerID uint) models.RideResponse {
	passengers := make([]models.PassengerResponse, 0, len(ride.Passengers))
	isParticipant := false
	for _, p := range ride.Passengers {
		if p.UserID == ride.CreatorID {
			continue
		}
		if p.UserID == viewerID {
			isParticipant = true
		}
		passengers = append(passengers, models.PassengerResponse{
			ID:   p.ID,
			User: p.User.Brief(),
		})
	}

	return models.RideResponse{
		ID:              ride.ID,
		Source:          ride.Source,
		Destination:     ride.Destination,
		DepartureAt:     ride.DepartureAt,
		CarClass:        ride.CarClass,
		CarModel:        ride.CarModel,
		TotalSeats:      ride.TotalSeats,
		SeatsLeft:       ride.SeatsLeft,
		RideCost:        ride.RideCost,
		GenderPref:      ride.GenderPref,
		AirConditioning: ride.AirConditioning,
		Description:     ride.Description,
		Status:          ride.Status,
		CreatorID:       ride.CreatorID,
		Creator:         ride.Creator.Brief(),
		Passengers:      passengers,
		IsOwner:         ride.CreatorID == viewerID,
		IsParticipant:   isParticipant,
		CompletedAt:     ride.CompletedAt,
		CreatedAt:       ride.CreatedAt,
	}
}
