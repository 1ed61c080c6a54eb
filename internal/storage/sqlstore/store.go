// Package sqlstore implements storage.Store on a database.Pool. The same
// statements run on PostgreSQL and SQLite; placeholders are rebound by the pool.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/larder/internal/models"
	"github.com/mmynk/larder/internal/storage"
	"github.com/mmynk/larder/pkg/database"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store using SQL.
type Store struct {
	pool   *database.Pool
	logger *slog.Logger
}

// New creates a Store on pool. For SQLite it creates any missing tables.
func New(ctx context.Context, pool *database.Pool, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := bootstrapSchema(ctx, pool); err != nil {
		return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
	}
	return &Store{pool: pool, logger: logger}, nil
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

const foodItemColumns = "item_id, user_id, name, quantity, location, expiration_date, created_at, updated_at"

// ListFoodItems returns all food items ordered by sort.
func (s *Store) ListFoodItems(ctx context.Context, sort storage.FoodSort) ([]models.FoodItem, error) {
	// the column is interpolated, so re-check it against the allow-list
	desc := sort.Desc
	sort = storage.ParseFoodSort(string(sort.Column), "")
	sort.Desc = desc
	query := fmt.Sprintf("SELECT %s FROM food_items ORDER BY %s %s, item_id ASC",
		foodItemColumns, sort.Column, sort.Direction())

	rows, err := s.pool.QueryRows(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list food items: %w", err)
	}
	return collect(rows, scanFoodItem)
}

// CreateFoodItem inserts a food item with server-assigned timestamps and
// replaces *item with the stored row.
func (s *Store) CreateFoodItem(ctx context.Context, item *models.FoodItem) error {
	now := time.Now().UTC()

	var itemID int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO food_items (name, quantity, location, expiration_date, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING item_id`,
		item.Name, item.Quantity, string(item.Location), item.ExpirationDate, item.UserID, now, now,
	).Scan(&itemID)
	if err != nil {
		return fmt.Errorf("failed to insert food item: %w", err)
	}

	// Read back through the table so column types are reported consistently
	// by both drivers.
	created, err := s.getFoodItem(ctx, itemID)
	if err != nil {
		return err
	}
	*item = *created
	return nil
}

func (s *Store) getFoodItem(ctx context.Context, itemID int64) (*models.FoodItem, error) {
	item, err := scanFoodItem(s.pool.QueryRow(ctx,
		"SELECT "+foodItemColumns+" FROM food_items WHERE item_id = ?",
		itemID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("food item %d: %w", itemID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get food item: %w", err)
	}
	return &item, nil
}

// DeleteFoodItem removes a food item by ID.
func (s *Store) DeleteFoodItem(ctx context.Context, itemID int64) error {
	res, err := s.pool.Exec(ctx, "DELETE FROM food_items WHERE item_id = ?", itemID)
	if err != nil {
		return fmt.Errorf("failed to delete food item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete food item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("food item %d: %w", itemID, storage.ErrNotFound)
	}
	return nil
}

// ListRecipes returns all recipes, newest first. Ingredients are left nil.
func (s *Store) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	rows, err := s.pool.QueryRows(ctx,
		`SELECT recipe_id, user_id, name, instructions, image_url, created_at
		 FROM recipes ORDER BY created_at DESC, recipe_id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return collect(rows, func(sc scanner) (models.Recipe, error) {
		var r models.Recipe
		var imageURL sql.NullString
		if err := sc.Scan(&r.RecipeID, &r.UserID, &r.Name, &r.Instructions, &imageURL, &r.CreatedAt); err != nil {
			return r, err
		}
		if imageURL.Valid {
			r.ImageURL = &imageURL.String
		}
		return r, nil
	})
}

// ListRecipeIngredients returns the ingredients of every recipe.
func (s *Store) ListRecipeIngredients(ctx context.Context) ([]models.RecipeIngredient, error) {
	rows, err := s.pool.QueryRows(ctx,
		`SELECT recipe_ingredient_id, recipe_id, ingredient_name, required_quantity
		 FROM recipe_ingredients ORDER BY recipe_ingredient_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe ingredients: %w", err)
	}
	return collect(rows, func(sc scanner) (models.RecipeIngredient, error) {
		var ing models.RecipeIngredient
		err := sc.Scan(&ing.RecipeIngredientID, &ing.RecipeID, &ing.IngredientName, &ing.RequiredQuantity)
		return ing, err
	})
}

// ListShoppingItems returns the shopping list, most recently added first.
func (s *Store) ListShoppingItems(ctx context.Context) ([]models.ShoppingListItem, error) {
	rows, err := s.pool.QueryRows(ctx,
		`SELECT shopping_item_id, user_id, recipe_id, item_name, quantity_needed, is_checked, added_at
		 FROM shopping_list_items ORDER BY added_at DESC, shopping_item_id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping items: %w", err)
	}
	return collect(rows, func(sc scanner) (models.ShoppingListItem, error) {
		var item models.ShoppingListItem
		var recipeID sql.NullInt64
		if err := sc.Scan(&item.ShoppingItemID, &item.UserID, &recipeID, &item.ItemName,
			&item.QuantityNeeded, &item.IsChecked, &item.AddedAt); err != nil {
			return item, err
		}
		item.RecipeID = nullableID(recipeID)
		return item, nil
	})
}

// ListUnreadNotifications returns unread notifications, newest first.
func (s *Store) ListUnreadNotifications(ctx context.Context) ([]models.Notification, error) {
	rows, err := s.pool.QueryRows(ctx,
		`SELECT notification_id, user_id, item_id, message, is_read, created_at
		 FROM notifications WHERE is_read = FALSE
		 ORDER BY created_at DESC, notification_id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return collect(rows, func(sc scanner) (models.Notification, error) {
		var n models.Notification
		var itemID sql.NullInt64
		if err := sc.Scan(&n.NotificationID, &n.UserID, &itemID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return n, err
		}
		n.ItemID = nullableID(itemID)
		return n, nil
	})
}

// UpsertSectionOrder inserts or replaces the user's section order.
func (s *Store) UpsertSectionOrder(ctx context.Context, userID int64, order json.RawMessage) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO user_section_order (user_id, section_order)
		 VALUES (?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET section_order = excluded.section_order`,
		userID, string(order),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert section order: %w", err)
	}
	return nil
}

// GetSectionOrder returns the stored section order for a user.
func (s *Store) GetSectionOrder(ctx context.Context, userID int64) (json.RawMessage, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		"SELECT section_order FROM user_section_order WHERE user_id = ?",
		userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("section order for user %d: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get section order: %w", err)
	}
	return json.RawMessage(raw), nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFoodItem(sc scanner) (models.FoodItem, error) {
	var item models.FoodItem
	var location string
	err := sc.Scan(&item.ItemID, &item.UserID, &item.Name, &item.Quantity, &location,
		&item.ExpirationDate, &item.CreatedAt, &item.UpdatedAt)
	item.Location = models.Location(location)
	return item, err
}

// collect scans every row with scan and closes rows. The result is never nil.
func collect[T any](rows *sql.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return out, nil
}

func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

// isUniqueViolation reports whether err is a unique-constraint failure
// from either supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
