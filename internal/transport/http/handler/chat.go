package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-chat/internal/app"
	"storefront-chat/internal/model"
	"storefront-chat/internal/platform/logger"
	"storefront-chat/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type SendMessageRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversationId"`
}

type SendMessageResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
}

type HistoryResponse struct {
	Conversation   []model.ChatMessage `json:"conversation"`
	ConversationID string              `json:"conversationId"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "message is required and must be a string")
		return
	}

	result, err := h.chatService.HandleMessage(c.Request.Context(), app.HandleMessageInput{
		Message:        req.Message,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrMessageEmpty), errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			logger.FromGin(c).Error("handle chat message failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to process message")
		}
		return
	}

	response.OK(c, SendMessageResponse{
		Response:       result.Response,
		ConversationID: result.ConversationID,
		MessageID:      result.MessageID,
	})
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	messages, conversationID, err := h.chatService.GetHistory(c.Request.Context(), c.Query("conversationId"))
	if err != nil {
		logger.FromGin(c).Error("get chat history failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to fetch conversation")
		return
	}
	if messages == nil {
		messages = []model.ChatMessage{}
	}

	response.OK(c, HistoryResponse{
		Conversation:   messages,
		ConversationID: conversationID,
	})
}
