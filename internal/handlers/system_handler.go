package handlers

import (
	"net/http"
	"time"

	"rideshare-backend/internal/rides"

	"github.com/gin-gonic/gin"
)

type AutoCompleteRequest struct {
	AsOf *time.Time `json:"as_of"`
}

type AutoCompleteResponse struct {
	CompletedCount int64     `json:"completed_count"`
	AsOf           time.Time `json:"as_of"`
}

// AutoCompleteRides ручной запуск автозавершения; без as_of берется текущее время
func AutoCompleteRides(engine *rides.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AutoCompleteRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, "as_of", "Неверный формат даты, ожидается RFC3339")
				return
			}
		}

		asOf := time.Now().UTC()
		if req.AsOf != nil {
			asOf = req.AsOf.UTC()
		}

		n, err := engine.AutoCompleteDueRides(c.Request.Context(), asOf)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, AutoCompleteResponse{CompletedCount: n, AsOf: asOf})
	}
}
