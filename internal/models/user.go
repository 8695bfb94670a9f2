package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User профиль, полученный от провайдера идентификации
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey;column:id;autoIncrement"`
	Fullname  string    `json:"fullname" gorm:"column:fullname;not null;type:varchar(255)"`
	Email     string    `json:"email" gorm:"column:email;unique;not null;type:varchar(255)"`
	Gender    string    `json:"gender" gorm:"column:gender;type:varchar(20)"`
	Role      string    `json:"role" gorm:"column:role;default:'user';type:varchar(20)"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

type UserBrief struct {
	ID       uint   `json:"id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	Fullname  string    `json:"fullname"`
	Email     string    `json:"email"`
	Gender    string    `json:"gender"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserCreate используется при регистрации профиля
type UserCreate struct {
	Fullname string `json:"fullname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Gender   string `json:"gender" binding:"required"`
}

// Brief возвращает публичную часть профиля
func (u *User) Brief() UserBrief {
	return UserBrief{ID: u.ID, Fullname: u.Fullname, Email: u.Email}
}

// BeforeSave нормализует email
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}
