package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oliver-zyn/productivity-hub/internal/middleware"
	"github.com/oliver-zyn/productivity-hub/internal/service"
)

type ChatHandler struct {
	chatService *service.ChatService
}

type messageRequest struct {
	Message string `json:"message"`
}

type openRequest struct {
	Open bool `json:"open"`
}

type commandRequest struct {
	Text string `json:"text"`
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"chat": h.chatService.GetChat(c.Request.Context(), middleware.UserID(c))})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req messageRequest
	if !bindJSON(c, &req) {
		return
	}

	chat, apiErr := h.chatService.SendMessage(c.Request.Context(), middleware.UserID(c), req.Message)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chat": chat})
}

func (h *ChatHandler) SetOpen(c *gin.Context) {
	var req openRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"chat": h.chatService.SetOpen(c.Request.Context(), middleware.UserID(c), req.Open)})
}

func (h *ChatHandler) Clear(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"chat": h.chatService.Clear(c.Request.Context(), middleware.UserID(c))})
}

func (h *ChatHandler) RunCommand(c *gin.Context) {
	var req commandRequest
	if !bindJSON(c, &req) {
		return
	}

	reply, apiErr := h.chatService.RunCommand(c.Request.Context(), middleware.UserID(c), req.Text)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
