package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/larder/internal/storage"
)

// FoodService serves /api/food-items.
type FoodService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewFoodService creates a FoodService with the given storage backend.
func NewFoodService(store storage.Store, logger *slog.Logger) *FoodService {
	return &FoodService{store: store, logger: logger}
}

// List handles GET /api/food-items?sort=<column>&dir=<asc|desc>.
func (s *FoodService) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sort := storage.ParseFoodSort(q.Get("sort"), q.Get("dir"))

	items, err := s.store.ListFoodItems(r.Context(), sort)
	if err != nil {
		writeInternalError(w, r, s.logger, "ListFoodItems failed", err)
		return
	}

	s.logger.Debug("ListFoodItems successful", "count", len(items), "sort", sort.Column, "dir", sort.Direction())
	writeJSON(w, http.StatusOK, items)
}

// Post handles POST /api/food-items, which either creates an item or,
// when the payload carries delete_id, deletes one.
func (s *FoodService) Post(w http.ResponseWriter, r *http.Request) {
	cmd, rerr := decodeFoodCommand(w, r)
	if rerr != nil {
		s.logger.Info("Rejected food item request", "status", rerr.status, "error", rerr.message)
		writeJSON(w, rerr.status, errorResponse{Error: rerr.message, Debug: rerr.debug})
		return
	}

	switch c := cmd.(type) {
	case deleteFoodItem:
		s.delete(w, r, c)
	case createFoodItem:
		s.create(w, r, c)
	}
}

func (s *FoodService) delete(w http.ResponseWriter, r *http.Request, c deleteFoodItem) {
	err := s.store.DeleteFoodItem(r.Context(), c.ItemID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		writeInternalError(w, r, s.logger, "DeleteFoodItem failed", err)
		return
	}

	s.logger.Info("Food item deleted", "item_id", c.ItemID)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *FoodService) create(w http.ResponseWriter, r *http.Request, c createFoodItem) {
	item := c.Item
	if err := s.store.CreateFoodItem(r.Context(), &item); err != nil {
		writeInternalError(w, r, s.logger, "CreateFoodItem failed", err)
		return
	}

	s.logger.Info("Food item created", "item_id", item.ItemID, "user_id", item.UserID, "name", item.Name)
	writeJSON(w, http.StatusCreated, item)
}
