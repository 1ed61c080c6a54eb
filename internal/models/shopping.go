package models

import "time"

// ShoppingListItem is something to buy. RecipeID is set when the entry was
// added on behalf of a recipe.
type ShoppingListItem struct {
	ShoppingItemID int64     `json:"shopping_item_id"`
	UserID         int64     `json:"user_id"`
	RecipeID       *int64    `json:"recipe_id"`
	ItemName       string    `json:"item_name"`
	QuantityNeeded string    `json:"quantity_needed"`
	IsChecked      bool      `json:"is_checked"`
	AddedAt        time.Time `json:"added_at"`
}

// Notification is a message for a user, optionally about a food item
// (for example an upcoming expiration).
type Notification struct {
	NotificationID int64     `json:"notification_id"`
	UserID         int64     `json:"user_id"`
	ItemID         *int64    `json:"item_id"`
	Message        string    `json:"message"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}
