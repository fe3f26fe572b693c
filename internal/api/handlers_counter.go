package api

import (
	"net/http"

	"github.com/shohag/countboard/internal/models"
	"github.com/shohag/countboard/internal/storage"
)

type CounterHandler struct {
	store storage.Storage
}

func NewCounterHandler(store storage.Storage) *CounterHandler {
	return &CounterHandler{store: store}
}

type setCounterRequest struct {
	Value *int64 `json:"value"`
}

func (h *CounterHandler) respond(w http.ResponseWriter, value int64, err error) {
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update counter")
		return
	}
	writeJSON(w, http.StatusOK, models.CounterResponse{Value: value})
}

func (h *CounterHandler) Get(w http.ResponseWriter, r *http.Request) {
	value, err := h.store.GetCounter(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get counter")
		return
	}
	writeJSON(w, http.StatusOK, models.CounterResponse{Value: value})
}

func (h *CounterHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req setCounterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}

	value, err := h.store.SetCounter(r.Context(), *req.Value)
	h.respond(w, value, err)
}

func (h *CounterHandler) Increment(w http.ResponseWriter, r *http.Request) {
	value, err := h.store.AddCounter(r.Context(), 1)
	h.respond(w, value, err)
}

func (h *CounterHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	value, err := h.store.AddCounter(r.Context(), -1)
	h.respond(w, value, err)
}

func (h *CounterHandler) Reset(w http.ResponseWriter, r *http.Request) {
	value, err := h.store.ResetCounter(r.Context())
	h.respond(w, value, err)
}
