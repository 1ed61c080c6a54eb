// Package models defines the domain records persisted by Larder.
//
// # Models
//
//   - FoodItem: something stored in the pantry, refrigerator or freezer
//   - Recipe and RecipeIngredient: a recipe and the ingredients it needs
//   - ShoppingListItem: an entry on the shopping list, optionally from a recipe
//   - Notification: a message for a user, optionally about a food item
//   - User: a registered account
//   - SectionOrder: a user's preferred ordering of UI sections
//
// # Design Principles
//
//  1. JSON field names match database column names, so API clients see the
//     same shape the database stores.
//  2. Relationships are carried as integer IDs, never pointers to other models.
//  3. Optional foreign keys are pointers and serialize as null when unset.
//
// All state lives in the database; these types are rebuilt on every request.
package models
