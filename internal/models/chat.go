package models

import (
	"time"
)

// ChatRoom один чат на поездку, живет столько же, сколько поездка
type ChatRoom struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	RideID    uint           `json:"ride_id" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time      `json:"created_at"`
	Users     []ChatRoomUser `json:"-" gorm:"foreignKey:ChatRoomID;constraint:OnDelete:CASCADE"`
	Messages  []Message      `json:"-" gorm:"foreignKey:ChatRoomID;constraint:OnDelete:CASCADE"`
}

type ChatRoomUser struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ChatRoomID uint      `json:"chat_room_id" gorm:"not null;uniqueIndex:idx_chat_room_users_room_user"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_chat_room_users_room_user;index"`
	JoinedAt   time.Time `json:"joined_at" gorm:"autoCreateTime"`
}

type Message struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ChatRoomID uint      `json:"chat_room_id" gorm:"not null;index"`
	AuthorID   uint      `json:"author_id" gorm:"not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
	Author     User      `json:"-" gorm:"foreignKey:AuthorID"`
}

type MessageResponse struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    UserBrief `json:"author"`
}

// ChatResponse элемент списка чатов пользователя
type ChatResponse struct {
	ID          uint             `json:"id"`
	RideID      uint             `json:"ride_id"`
	Source      string           `json:"source"`
	Destination string           `json:"destination"`
	DepartureAt time.Time        `json:"departure_at"`
	SeatsLeft   int              `json:"seats_left"`
	Status      RideStatus       `json:"status"`
	LastMessage *MessageResponse `json:"last_message"`
}
