package handlers

import (
	"net/http"
	"strconv"

	"rideshare-backend/internal/chat"

	"github.com/gin-gonic/gin"
)

type SendMessageRequest struct {
	Content string `json:"content"`
}

func ChatList(chats *chat.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := chats.ListChats(c.Request.Context(), c.GetUint("user_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// ChatMessages ?limit=N последние N сообщений
func ChatMessages(chats *chat.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, ok := paramID(c, "id")
		if !ok {
			return
		}

		limit := 0
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				badRequest(c, "limit", "Неверное значение limit")
				return
			}
			limit = n
		}

		messages, err := chats.ListMessages(c.Request.Context(), c.GetUint("user_id"), roomID, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, messages)
	}
}

func ChatSendMessage(chats *chat.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, ok := paramID(c, "id")
		if !ok {
			return
		}

		var req SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "content", "Неверный формат данных")
			return
		}

		message, err := chats.SendMessage(c.Request.Context(), c.GetUint("user_id"), roomID, req.Content)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, message)
	}
}
