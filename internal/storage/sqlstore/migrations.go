package sqlstore

import (
	"context"

	"github.com/mmynk/larder/pkg/database"
)

// sqliteSchema creates the tables for an embedded SQLite database.
// PostgreSQL deployments are provisioned out of band with the same shape.
// IMPORTANT: recipes and food_items must exist before the tables that reference them.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    user_id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS food_items (
    item_id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    quantity TEXT NOT NULL,
    location TEXT NOT NULL CHECK (location IN ('Pantry', 'Refrigerator', 'Freezer')),
    expiration_date DATE NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS recipes (
    recipe_id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    instructions TEXT NOT NULL DEFAULT '',
    image_url TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS recipe_ingredients (
    recipe_ingredient_id INTEGER PRIMARY KEY AUTOINCREMENT,
    recipe_id INTEGER NOT NULL,
    ingredient_name TEXT NOT NULL,
    required_quantity TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (recipe_id) REFERENCES recipes(recipe_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS shopping_list_items (
    shopping_item_id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    recipe_id INTEGER,
    item_name TEXT NOT NULL,
    quantity_needed TEXT NOT NULL DEFAULT '',
    is_checked BOOLEAN NOT NULL DEFAULT FALSE,
    added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (recipe_id) REFERENCES recipes(recipe_id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS notifications (
    notification_id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    item_id INTEGER,
    message TEXT NOT NULL,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (item_id) REFERENCES food_items(item_id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS user_section_order (
    user_id INTEGER PRIMARY KEY,
    section_order TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_recipe_id ON recipe_ingredients(recipe_id);
CREATE INDEX IF NOT EXISTS idx_shopping_list_items_added_at ON shopping_list_items(added_at);
CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications(is_read, created_at);
`

// bootstrapSchema creates missing tables on SQLite. It is a no-op on
// PostgreSQL, whose schema is managed outside this service.
func bootstrapSchema(ctx context.Context, pool *database.Pool) error {
	if pool.Dialect() != database.DialectSQLite {
		return nil
	}
	_, err := pool.Exec(ctx, sqliteSchema)
	return err
}
