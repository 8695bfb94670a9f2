package models

import (
	"time"
)

type RideStatus string

const (
	RideStatusOngoing   RideStatus = "ONGOING"   // Открыта для присоединения
	RideStatusCompleted RideStatus = "COMPLETED" // Завершена, только история
)

type GenderPref string

const (
	GenderPrefAny    GenderPref = "any"
	GenderPrefMale   GenderPref = "male"
	GenderPrefFemale GenderPref = "female"
)

// Ride представляет предложение совместной поездки
type Ride struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	Source          string      `json:"source" gorm:"not null"`
	Destination     string      `json:"destination" gorm:"not null"`
	DepartureAt     time.Time   `json:"departure_at" gorm:"not null;index"`
	CarClass        string      `json:"car_class" gorm:"not null"`
	CarModel        string      `json:"car_model" gorm:"not null"`
	TotalSeats      int         `json:"total_seats" gorm:"not null"`
	SeatsLeft       int         `json:"seats_left" gorm:"not null"`
	RideCost        float64     `json:"ride_cost" gorm:"not null"`
	GenderPref      GenderPref  `json:"gender_pref" gorm:"type:varchar(10);not null;default:'any'"`
	AirConditioning bool        `json:"air_conditioning" gorm:"not null;default:false"`
	Description     string      `json:"description" gorm:"type:text;not null"`
	Status          RideStatus  `json:"status" gorm:"type:varchar(20);not null;default:'ONGOING';index"`
	CreatorID       uint        `json:"creator_id" gorm:"not null;index"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Creator         User        `json:"-" gorm:"foreignKey:CreatorID"`
	Passengers      []Passenger `json:"-" gorm:"foreignKey:RideID;constraint:OnDelete:CASCADE"`
	ChatRoom        *ChatRoom   `json:"-" gorm:"foreignKey:RideID;constraint:OnDelete:CASCADE"`
}

// IsCompleted сообщает, что поездка перешла в терминальный статус
func (r *Ride) IsCompleted() bool {
	return r.Status == RideStatusCompleted
}

type RideResponse struct {
	ID              uint                `json:"id"`
	Source          string              `json:"source"`
	Destination     string              `json:"destination"`
	DepartureAt     time.Time           `json:"departure_at"`
	CarClass        string              `json:"car_class"`
	CarModel        string              `json:"car_model"`
	TotalSeats      int                 `json:"total_seats"`
	SeatsLeft       int                 `json:"seats_left"`
	RideCost        float64             `json:"ride_cost"`
	GenderPref      GenderPref          `json:"gender_pref"`
	AirConditioning bool                `json:"air_conditioning"`
	Description     string              `json:"description"`
	Status          RideStatus          `json:"status"`
	CreatorID       uint                `json:"creator_id"`
	Creator         UserBrief           `json:"creator"`
	Passengers      []PassengerResponse `json:"passengers"`
	IsOwner         bool                `json:"is_owner"`
	IsParticipant   bool                `json:"is_participant"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// RideCreate используется только для создания новой поездки
type RideCreate struct {
	Source          string     `json:"source" validate:"required,max=255"`
	Destination     string     `json:"destination" validate:"required,max=255"`
	DepartureAt     time.Time  `json:"departure_at" validate:"required"`
	CarClass        string     `json:"car_class" validate:"required,max=50"`
	CarModel        string     `json:"car_model" validate:"required,max=100"`
	TotalSeats      int        `json:"total_seats" validate:"min=2,max=20"`
	RideCost        float64    `json:"ride_cost" validate:"min=1,max=4000"`
	GenderPref      GenderPref `json:"gender_pref" validate:"oneof=any male female"`
	AirConditioning bool       `json:"air_conditioning"`
	Description     string     `json:"description" validate:"min=10,max=500,nomarkup"`
}

// RideSearch фильтр поиска открытых поездок
type RideSearch struct {
	Source      string     `json:"source"`
	Destination string     `json:"destination"`
	From        *time.Time `json:"from"`
	Limit       int        `json:"limit"`
}
