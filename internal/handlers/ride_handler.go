package handlers

import (
	"net/http"

	"rideshare-backend/internal/models"
	"rideshare-backend/internal/rides"

	"github.com/gin-gonic/gin"
)

// RideCreate создание поездки; создатель сразу занимает одно место
func RideCreate(engine *rides.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RideCreate
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "", "Неверный формат данных")
			return
		}

		userID := c.GetUint("user_id")
		rideID, err := engine.CreateRide(c.Request.Context(), userID, req)
		if err != nil {
			respondError(c, err)
			return
		}

		ride, err := engine.GetRide(c.Request.Context(), userID, rideID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, ride)
	}
}

func RideGetByID(engine *rides.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID, ok := paramID(c, "id")
		if !ok {
			return
		}

		ride, err := engine.GetRide(c.Request.Context(), c.GetUint("user_id"), rideID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ride)
	}
}

// RideSearch открытые поездки со свободными местами
func RideSearch(engine *rides.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.RideSearch
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&filter); err != nil {
				badRequest(c, "", "Неверный формат данных")
				return
			}
		}

		found, err := engine.SearchRides(c.Request.Context(), c.GetUint("user_id"), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, found)
	}
}

func RideJoin(engine *rides.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID, ok := paramID(c, "id")
		if !ok {
			return
		}

		userID := c.GetUint("user_id")
		if err := engine.JoinRide(c.Request.Context(), userID, rideID); err != nil {
			respondError(c, err)
			return
		}

		ride, err := engine.GetRide(c.Request.Context(), userID, rideID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ride)
	}
}

func RideLeave(engine *rides.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID, ok := paramID(c, "id")
		if !ok {
			return
		}

		if err := engine.LeaveRide(c.Request.Context(), c.GetUint("user_id"), rideID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Вы покинули поездку"})
	}
}

// RideDelete удаляет поездку вместе с чатом; доступно только создателю
func RideDelete(engine *rides.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID, ok := paramID(c, "id")
		if !ok {
			return
		}

		if err := engine.DeleteRide(c.Request.Context(), c.GetUint("user_id"), rideID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Поездка удалена"})
	}
}

// PassengerRemove создатель поездки удаляет пассажира по id места
func PassengerRemove(engine *rides.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		membershipID, ok := paramID(c, "id")
		if !ok {
			return
		}

		if err := engine.RemovePassenger(c.Request.Context(), c.GetUint("user_id"), membershipID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Пассажир удален из поездки"})
	}
}

// MyRides активные поездки, где пользователь создатель или пассажир
func MyRides(engine *rides.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := engine.ListUserRides(c.Request.Context(), c.GetUint("user_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
