package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"rideshare-backend/internal/middleware"
	"rideshare-backend/internal/rides"

	"github.com/gin-gonic/gin"
)

// ErrorResponse тело ответа при отказе
type ErrorResponse struct {
	Error string     `json:"error"`
	Kind  rides.Kind `json:"kind"`
	Field string     `json:"field,omitempty"`
}

var statusByKind = map[rides.Kind]int{
	rides.KindValidationFailed:    http.StatusBadRequest,
	rides.KindNotFound:            http.StatusNotFound,
	rides.KindForbidden:           http.StatusForbidden,
	rides.KindLifecycleClosed:     http.StatusConflict,
	rides.KindCapacityExceeded:    http.StatusConflict,
	rides.KindDuplicateMembership: http.StatusConflict,
	rides.KindPreferenceMismatch:  http.StatusForbidden,
	rides.KindStoreUnavailable:    http.StatusServiceUnavailable,
}

// respondError переводит ошибку движка в HTTP ответ
func respondError(c *gin.Context, err error) {
	kind := rides.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	response := ErrorResponse{Kind: kind, Error: "Сервис временно недоступен, повторите попытку"}
	var rerr *rides.Error
	if errors.As(err, &rerr) && rerr.Message != "" && kind != rides.KindStoreUnavailable {
		response.Error = rerr.Message
		response.Field = rerr.Field
	}

	c.Set(middleware.ContextErrorKind, string(kind))
	c.AbortWithStatusJSON(status, response)
}

func badRequest(c *gin.Context, field, message string) {
	respondError(c, &rides.Error{Kind: rides.KindValidationFailed, Field: field, Message: message})
}

// paramID разбирает числовой параметр пути; при ошибке ответ уже отправлен
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, name, "Неверный идентификатор")
		return 0, false
	}
	return uint(id), true
}
