package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-chat/internal/app"
	"storefront-chat/internal/platform/logger"
	"storefront-chat/internal/transport/http/response"
)

// AdminHandler serves the back-office views over conversations and keyword rules.
type AdminHandler struct {
	chatService    *app.ChatService
	keywordService *app.KeywordService
}

type KeywordRequest struct {
	Keyword  string `json:"keyword" binding:"required,max=255"`
	Response string `json:"response" binding:"required"`
	Category string `json:"category" binding:"max=64"`
	IsActive *bool  `json:"isActive"`
	Priority int    `json:"priority"`
}

func NewAdminHandler(chatService *app.ChatService, keywordService *app.KeywordService) *AdminHandler {
	return &AdminHandler{chatService: chatService, keywordService: keywordService}
}

func (h *AdminHandler) ListConversations(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	conversations, err := h.chatService.ListConversations(c.Request.Context(), limit)
	if err != nil {
		h.internalError(c, "list conversations failed", err)
		return
	}
	response.OK(c, gin.H{"conversations": conversations})
}

func (h *AdminHandler) MarkConversationRead(c *gin.Context) {
	changed, err := h.chatService.MarkConversationRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
			return
		}
		h.internalError(c, "mark conversation read failed", err)
		return
	}
	response.OK(c, gin.H{"conversationId": c.Param("id"), "marked": changed})
}

func (h *AdminHandler) ListKeywords(c *gin.Context) {
	rules, err := h.keywordService.List(c.Request.Context())
	if err != nil {
		h.internalError(c, "list keywords failed", err)
		return
	}
	response.OK(c, gin.H{"keywords": rules})
}

func (h *AdminHandler) CreateKeyword(c *gin.Context) {
	var req KeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	rule, err := h.keywordService.Create(c.Request.Context(), req.input())
	if err != nil {
		h.keywordError(c, "create keyword failed", err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (h *AdminHandler) UpdateKeyword(c *gin.Context) {
	id, ok := keywordID(c)
	if !ok {
		return
	}
	var req KeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	rule, err := h.keywordService.Update(c.Request.Context(), id, req.input())
	if err != nil {
		h.keywordError(c, "update keyword failed", err)
		return
	}
	response.OK(c, rule)
}

func (h *AdminHandler) DeleteKeyword(c *gin.Context) {
	id, ok := keywordID(c)
	if !ok {
		return
	}
	if err := h.keywordService.Delete(c.Request.Context(), id); err != nil {
		h.keywordError(c, "delete keyword failed", err)
		return
	}
	response.OK(c, gin.H{"deletedKeywordId": id})
}

func (r KeywordRequest) input() app.KeywordInput {
	return app.KeywordInput{
		Keyword:  r.Keyword,
		Response: r.Response,
		Category: r.Category,
		IsActive: r.IsActive,
		Priority: r.Priority,
	}
}

func keywordID(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id64 == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid keyword id")
		return 0, false
	}
	return uint(id64), true
}

func (h *AdminHandler) keywordError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrKeywordNotFound):
		response.Error(c, http.StatusNotFound, response.CodeKeywordNotFound, err.Error())
	default:
		h.internalError(c, msg, err)
	}
}

func (h *AdminHandler) internalError(c *gin.Context, msg string, err error) {
	logger.FromGin(c).Error(msg, zap.Error(err))
	response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, msg)
}
