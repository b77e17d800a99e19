package http

import (
	"github.com/gin-gonic/gin"

	"storefront-chat/internal/bootstrap"
	"storefront-chat/internal/platform/logger"
	"storefront-chat/internal/transport/http/handler"
	"storefront-chat/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestID(), logger.GinMiddleware(app.Logger), logger.Recovery(app.Logger))

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	chatHandler := handler.NewChatHandler(app.ChatService)
	adminHandler := handler.NewAdminHandler(app.ChatService, app.KeywordService)
	RegisterRoutes(router, chatHandler, adminHandler, app.Config.Auth.JWTSecret)

	return router
}

// RegisterRoutes mounts the public chat endpoints and the admin group.
func RegisterRoutes(router gin.IRouter, chatHandler *handler.ChatHandler, adminHandler *handler.AdminHandler, jwtSecret string) {
	router.POST("/chat", chatHandler.SendMessage)
	router.GET("/chat", chatHandler.GetHistory)

	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.AdminJWT(jwtSecret))
	admin.GET("/conversations", adminHandler.ListConversations)
	admin.POST("/conversations/:id/read", adminHandler.MarkConversationRead)
	admin.GET("/keywords", adminHandler.ListKeywords)
	admin.POST("/keywords", adminHandler.CreateKeyword)
	admin.PUT("/keywords/:id", adminHandler.UpdateKeyword)
	admin.DELETE("/keywords/:id", adminHandler.DeleteKeyword)
}
