package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shohag/countboard/internal/models"
	"github.com/shohag/countboard/internal/storage"
)

type MessageHandler struct {
	store storage.Storage
}

func NewMessageHandler(store storage.Storage) *MessageHandler {
	return &MessageHandler{store: store}
}

type createMessageRequest struct {
	Content string `json:"content"`
}

const maxBodySize = 64 * 1024 // 64KB

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.store.ListMessages(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	writeJSON(w, http.StatusOK, models.MessagesResponse{Messages: msgs})
}

func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	msg := &models.Message{
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.CreateMessage(r.Context(), msg); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create message")
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.DeleteAllMessages(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete messages")
		return
	}
	writeJSON(w, http.StatusOK, models.DeleteResponse{Message: "all messages deleted"})
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message id")
		return
	}

	msg, err := h.store.DeleteMessage(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete message")
		return
	}
	if msg == nil {
		writeError(w, http.StatusNotFound, "message not found")
		return
	}

	writeJSON(w, http.StatusOK, models.DeleteResponse{Message: "message deleted", Deleted: msg})
}
