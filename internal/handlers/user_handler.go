package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"rideshare-backend/internal/models"
	"rideshare-backend/internal/rides"
	"rideshare-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthResponse struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

// UserRegister заводит профиль и выдает токен
func UserRegister(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UserCreate
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "", "Неверный формат данных: укажите fullname, email и gender")
			return
		}

		gender := strings.ToLower(strings.TrimSpace(req.Gender))
		if gender != "male" && gender != "female" {
			badRequest(c, "gender", "Допустимые значения: male, female")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		tx := db.WithContext(c.Request.Context())

		var existing int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
			respondError(c, rides.StoreError(err))
			return
		}
		if existing > 0 {
			badRequest(c, "email", "Пользователь с таким email уже существует")
			return
		}

		user := models.User{
			Fullname: strings.TrimSpace(req.Fullname),
			Email:    email,
			Gender:   gender,
			Role:     utils.RoleUser,
		}
		// уникальный индекс ловит одновременную регистрацию
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				badRequest(c, "email", "Пользователь с таким email уже существует")
				return
			}
			respondError(c, rides.StoreError(err))
			return
		}

		token, err := utils.GenerateJWT(jwtSecret, user.ID)
		if err != nil {
			slog.Error("ошибка генерации токена", "user_id", user.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при генерации токена"})
			return
		}

		slog.Info("пользователь зарегистрирован", "user_id", user.ID)
		c.JSON(http.StatusCreated, AuthResponse{Token: token, User: toUserResponse(&user)})
	}
}

func GetCurrentUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") == utils.RoleAdmin {
			c.JSON(http.StatusOK, models.UserResponse{
				Fullname:  "Admin",
				Role:      utils.RoleAdmin,
				CreatedAt: time.Now(),
			})
			return
		}

		var user models.User
		err := db.WithContext(c.Request.Context()).First(&user, c.GetUint("user_id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, rides.NewError(rides.KindNotFound, "Пользователь не найден"))
			return
		}
		if err != nil {
			respondError(c, rides.StoreError(err))
			return
		}
		c.JSON(http.StatusOK, toUserResponse(&user))
	}
}

func toUserResponse(u *models.User) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID,
		Fullname:  u.Fullname,
		Email:     u.Email,
		Gender:    u.Gender,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
