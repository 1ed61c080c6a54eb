package service

import (
	"log/slog"
	"net/http"

	"github.com/mmynk/larder/internal/models"
	"github.com/mmynk/larder/internal/storage"
)

// RecipeService serves /api/recipes.
type RecipeService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewRecipeService creates a RecipeService with the given storage backend.
func NewRecipeService(store storage.Store, logger *slog.Logger) *RecipeService {
	return &RecipeService{store: store, logger: logger}
}

// List handles GET /api/recipes. Recipes and ingredients are fetched with
// two statements and joined here by recipe_id.
// TODO: move the join into SQL once recipe counts make the full ingredient scan noticeable.
func (s *RecipeService) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.store.ListRecipes(r.Context())
	if err != nil {
		writeInternalError(w, r, s.logger, "ListRecipes failed", err)
		return
	}

	ingredients, err := s.store.ListRecipeIngredients(r.Context())
	if err != nil {
		writeInternalError(w, r, s.logger, "ListRecipeIngredients failed", err)
		return
	}

	models.AttachIngredients(recipes, ingredients)

	s.logger.Debug("ListRecipes successful", "recipes", len(recipes), "ingredients", len(ingredients))
	writeJSON(w, http.StatusOK, recipes)
}

// ShoppingListService serves /api/shopping-list.
type ShoppingListService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewShoppingListService creates a ShoppingListService with the given storage backend.
func NewShoppingListService(store storage.Store, logger *slog.Logger) *ShoppingListService {
	return &ShoppingListService{store: store, logger: logger}
}

// List handles GET /api/shopping-list.
func (s *ShoppingListService) List(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListShoppingItems(r.Context())
	if err != nil {
		writeInternalError(w, r, s.logger, "ListShoppingItems failed", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// NotificationService serves /api/notifications.
type NotificationService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewNotificationService creates a NotificationService with the given storage backend.
func NewNotificationService(store storage.Store, logger *slog.Logger) *NotificationService {
	return &NotificationService{store: store, logger: logger}
}

// List handles GET /api/notifications. Only unread notifications are returned.
func (s *NotificationService) List(w http.ResponseWriter, r *http.Request) {
	notes, err := s.store.ListUnreadNotifications(r.Context())
	if err != nil {
		writeInternalError(w, r, s.logger, "ListUnreadNotifications failed", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}
