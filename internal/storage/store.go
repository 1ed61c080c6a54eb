// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mmynk/larder/internal/models"
)

var (
	// ErrNotFound is returned when a lookup or delete matches no row.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an insert violates a uniqueness constraint.
	ErrConflict = errors.New("already exists")
)

// FoodSortColumn is a column food items may be ordered by.
type FoodSortColumn string

const (
	SortByName           FoodSortColumn = "name"
	SortByQuantity       FoodSortColumn = "quantity"
	SortByLocation       FoodSortColumn = "location"
	SortByExpirationDate FoodSortColumn = "expiration_date"
)

// FoodSort orders a food item listing.
type FoodSort struct {
	Column FoodSortColumn
	Desc   bool
}

// ParseFoodSort turns untrusted sort/dir query values into a FoodSort.
// Unknown columns fall back to name; any dir other than exactly "desc" is ascending.
// The column is interpolated into SQL, so only allow-listed values survive.
func ParseFoodSort(sort, dir string) FoodSort {
	col := FoodSortColumn(sort)
	switch col {
	case SortByName, SortByQuantity, SortByLocation, SortByExpirationDate:
	default:
		col = SortByName
	}
	return FoodSort{Column: col, Desc: dir == "desc"}
}

// Direction renders the sort direction as SQL.
func (s FoodSort) Direction() string {
	if s.Desc {
		return "DESC"
	}
	return "ASC"
}

// Store defines the persistence operations behind the HTTP API.
// This abstraction allows swapping storage backends (PostgreSQL, SQLite)
// without changing the service layer.
type Store interface {
	// ListFoodItems returns every food item in the given order.
	ListFoodItems(ctx context.Context, sort FoodSort) ([]models.FoodItem, error)

	// CreateFoodItem inserts item, stamping ItemID, CreatedAt and UpdatedAt.
	CreateFoodItem(ctx context.Context, item *models.FoodItem) error

	// DeleteFoodItem removes one item. Returns ErrNotFound if no row matched.
	DeleteFoodItem(ctx context.Context, itemID int64) error

	// ListRecipes returns recipes newest first, without ingredients.
	ListRecipes(ctx context.Context) ([]models.Recipe, error)

	// ListRecipeIngredients returns every ingredient of every recipe.
	ListRecipeIngredients(ctx context.Context) ([]models.RecipeIngredient, error)

	// ListShoppingItems returns the shopping list, most recently added first.
	ListShoppingItems(ctx context.Context) ([]models.ShoppingListItem, error)

	// ListUnreadNotifications returns unread notifications, newest first.
	ListUnreadNotifications(ctx context.Context) ([]models.Notification, error)

	// CreateUser inserts user and sets UserID. Returns ErrConflict when the
	// email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound if no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)

	// UpsertSectionOrder stores order for the user, replacing any previous value.
	UpsertSectionOrder(ctx context.Context, userID int64, order json.RawMessage) error

	// GetSectionOrder returns ErrNotFound if the user never saved an order.
	GetSectionOrder(ctx context.Context, userID int64) (json.RawMessage, error)

	// Ping checks the database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
