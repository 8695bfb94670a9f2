package models

import (
	"time"
)

// Passenger запись о том, что пользователь занимает место в поездке.
// Создатель поездки тоже имеет такую запись.
type Passenger struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_passengers_user_ride"`
	RideID    uint      `json:"ride_id" gorm:"not null;uniqueIndex:idx_passengers_user_ride;index"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
}

type PassengerResponse struct {
	ID   uint      `json:"id"`
	User UserBrief `json:"user"`
}
