package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/larder/internal/middleware"
	"github.com/mmynk/larder/internal/storage"
)

// DefaultSectionOrderUserID owns the section order of requests that carry
// no valid token.
const DefaultSectionOrderUserID int64 = 1

// SectionOrderService serves /api/section-order.
type SectionOrderService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewSectionOrderService creates a SectionOrderService with the given storage backend.
func NewSectionOrderService(store storage.Store, logger *slog.Logger) *SectionOrderService {
	return &SectionOrderService{store: store, logger: logger}
}

type sectionOrderBody struct {
	Order json.RawMessage `json:"order"`
}

// Save handles POST /api/section-order with body {"order": [...]}.
func (s *SectionOrderService) Save(w http.ResponseWriter, r *http.Request) {
	var body sectionOrderBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !isJSONArray(body.Order) {
		writeError(w, http.StatusBadRequest, "Missing or invalid order")
		return
	}

	userID := sectionOrderUser(r)
	if err := s.store.UpsertSectionOrder(r.Context(), userID, body.Order); err != nil {
		writeInternalError(w, r, s.logger, "UpsertSectionOrder failed", err)
		return
	}

	s.logger.Info("Section order saved", "user_id", userID)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Get handles GET /api/section-order. Users who never saved an order get
// an empty one.
func (s *SectionOrderService) Get(w http.ResponseWriter, r *http.Request) {
	userID := sectionOrderUser(r)

	order, err := s.store.GetSectionOrder(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		order = json.RawMessage("[]")
	} else if err != nil {
		writeInternalError(w, r, s.logger, "GetSectionOrder failed", err)
		return
	}

	writeJSON(w, http.StatusOK, sectionOrderBody{Order: order})
}

func sectionOrderUser(r *http.Request) int64 {
	if id := middleware.GetUserID(r.Context()); id > 0 {
		return id
	}
	return DefaultSectionOrderUserID
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
