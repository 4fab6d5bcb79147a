package handlers

import (
	"errors"
	"net/http"

	"codeforge/internal/logger"
	"codeforge/internal/models"
	"codeforge/internal/service"
	"codeforge/internal/validation"
)

// ChatHandler serves the assistant conversation
type ChatHandler struct {
	chatService *service.ChatService
	log         *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, log: log}
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type messagesResponse struct {
	Messages []models.ChatMessage `json:"messages"`
}

// Messages returns the caller's conversation
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	userID := GetIdentityFromContext(r.Context()).UserID()
	respondWithJSON(w, h.log, http.StatusOK, messagesResponse{Messages: h.chatService.History(r.Context(), userID)})
}

// Send posts a message and returns it with the assistant's reply. An
// assistant failure still answers 200 with the apology as the reply.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	userID := GetIdentityFromContext(r.Context()).UserID()
	exchange, err := h.chatService.SendMessage(r.Context(), userID, req.Text)
	if err != nil && !errors.Is(err, service.ErrAssistantUnavailable) {
		var ve validation.ValidationError
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			respondWithError(w, h.log, http.StatusBadRequest, ErrEmptyChatMessage, "", nil)
		case errors.As(err, &ve):
			respondWithError(w, h.log, http.StatusBadRequest, ve.Message, "", nil)
		default:
			respondWithError(w, h.log, http.StatusInternalServerError, ErrInternalServerError, "Error sending chat message", err)
		}
		return
	}

	respondWithJSON(w, h.log, http.StatusOK, exchange)
}

// Clear deletes the caller's conversation
func (h *ChatHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID := GetIdentityFromContext(r.Context()).UserID()
	welcome, err := h.chatService.Clear(r.Context(), userID)
	if err != nil {
		respondWithError(w, h.log, http.StatusInternalServerError, "Failed to clear chat", "Error clearing chat history", err)
		return
	}
	respondWithJSON(w, h.log, http.StatusOK, messagesResponse{Messages: []models.ChatMessage{welcome}})
}
