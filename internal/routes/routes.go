package routes

import (
	"rideshare-backend/internal/chat"
	"rideshare-backend/internal/handlers"
	"rideshare-backend/internal/middleware"
	"rideshare-backend/internal/rides"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Deps struct {
	DB        *gorm.DB
	Engine    *rides.Engine
	Chat      *chat.Service
	JWTSecret string
}

func SetupRoutes(api *gin.RouterGroup, d Deps) {
	// Регистрация профиля без токена
	api.POST("/users", handlers.UserRegister(d.DB, d.JWTSecret))

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(d.JWTSecret))
	{
		protected.GET("/user", handlers.GetCurrentUser(d.DB))

		// Служебные операции
		system := protected.Group("/system", middleware.RequireAdmin())
		system.POST("/auto-complete-rides", handlers.AutoCompleteRides(d.Engine))
	}

	user := protected.Group("", middleware.RequireUser())
	{
		// Поездки
		user.POST("/rides", handlers.RideCreate(d.Engine))
		user.POST("/rides/search", handlers.RideSearch(d.Engine))
		user.GET("/rides/:id", handlers.RideGetByID(d.Engine))
		user.POST("/rides/:id/join", handlers.RideJoin(d.Engine))
		user.POST("/rides/:id/leave", handlers.RideLeave(d.Engine))
		user.DELETE("/rides/:id", handlers.RideDelete(d.Engine))
		user.DELETE("/passengers/:id", handlers.PassengerRemove(d.Engine))
		user.GET("/my-rides", handlers.MyRides(d.Engine))

		// Чаты поездок
		user.GET("/chats", handlers.ChatList(d.Chat))
		user.GET("/chats/:id/messages", handlers.ChatMessages(d.Chat))
		user.POST("/chats/:id/messages", handlers.ChatSendMessage(d.Chat))
	}
}
