package sqlstore

import (
	"context"

	"github.com/mmynk/larder/pkg/database"
)

// AllFoodItems returns every food item row as-is, unordered.
func (s *Store) AllFoodItems(ctx context.Context) ([]database.Row, error) {
	return s.pool.Query(ctx, "SELECT * FROM food_items")
}

// AllShoppingItems returns every shopping list row as-is, unordered.
func (s *Store) AllShoppingItems(ctx context.Context) ([]database.Row, error) {
	return s.pool.Query(ctx, "SELECT * FROM shopping_list_items")
}
