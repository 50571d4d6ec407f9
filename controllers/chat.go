package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"valeai/chat"
)

type ChatPayload struct {
	Message   string `json:"message"`
	ImageURL  string `json:"imageUrl"`
	SessionID string `json:"sessionId"`
}

type FeedbackPayload struct {
	Util *int `json:"util"`
}

// POST /api/chat
func Chat(c *gin.Context) {
	s := services(c)
	if s == nil {
		return
	}

	var body ChatPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Message) == "" {
		RespondError(c, "message é obrigatório", http.StatusBadRequest)
		return
	}

	res, err := s.Resolver.Resolve(c.Request.Context(), chat.Request{
		Message:   body.Message,
		ImageURL:  body.ImageURL,
		SessionID: body.SessionID,
	})
	if err != nil {
		s.logger().Error("chat: resolve failed", zap.Error(err))
		RespondError(c, "Failed to process chat", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, res)
}

// PATCH /api/chat/:id/feedback
func ChatFeedback(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	s := services(c)
	if s == nil {
		return
	}

	var body FeedbackPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if body.Util == nil {
		RespondError(c, "util é obrigatório", http.StatusBadRequest)
		return
	}

	err := s.Sessions.Feedback(c.Request.Context(), id, *body.Util)
	if errors.Is(err, chat.ErrNotFound) {
		RespondError(c, "Conversation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger().Error("chat: feedback failed", zap.String("id", id), zap.Error(err))
		RespondError(c, "Failed to update feedback", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"success": true})
}

// GET /api/chat/sessions
func GetChatSessions(c *gin.Context) {
	s := services(c)
	if s == nil {
		return
	}
	sessions, err := s.Sessions.List(c.Request.Context())
	if err != nil {
		s.logger().Error("chat: list sessions failed", zap.Error(err))
		RespondError(c, "Failed to fetch chat sessions", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, sessions)
}

// GET /api/chat/sessions/:id/messages
func GetChatMessages(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	s := services(c)
	if s == nil {
		return
	}
	messages, err := s.Sessions.Messages(c.Request.Context(), id)
	if err != nil {
		s.logger().Error("chat: list messages failed", zap.String("session", id), zap.Error(err))
		RespondError(c, "Failed to fetch messages", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, messages)
}

// DELETE /api/chat/sessions/:id
func DeleteChatSession(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	s := services(c)
	if s == nil {
		return
	}
	if err := s.Sessions.Delete(c.Request.Context(), id); err != nil {
		s.logger().Error("chat: delete session failed", zap.String("session", id), zap.Error(err))
		RespondError(c, "Failed to delete session", http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"success": true})
}
