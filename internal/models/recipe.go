package models

import "time"

// Recipe is a named set of instructions owned by a user.
type Recipe struct {
	RecipeID     int64     `json:"recipe_id"`
	UserID       int64     `json:"user_id"`
	Name         string    `json:"name"`
	Instructions string    `json:"instructions"`
	ImageURL     *string   `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	// Ingredients is filled in by the recipes listing; always non-nil there.
	Ingredients []RecipeIngredient `json:"ingredients"`
}

// RecipeIngredient is one line of a recipe's ingredient list.
type RecipeIngredient struct {
	RecipeIngredientID int64  `json:"recipe_ingredient_id"`
	RecipeID           int64  `json:"recipe_id"`
	IngredientName     string `json:"ingredient_name"`
	RequiredQuantity   string `json:"required_quantity"`
}

// AttachIngredients groups ingredients onto their recipes by recipe_id.
// Every recipe ends up with a non-nil slice holding exactly the ingredients
// that reference it, in their original order. Ingredients whose recipe is
// not in recipes are dropped.
func AttachIngredients(recipes []Recipe, ingredients []RecipeIngredient) {
	byRecipe := make(map[int64][]RecipeIngredient, len(recipes))
	for _, ing := range ingredients {
		byRecipe[ing.RecipeID] = append(byRecipe[ing.RecipeID], ing)
	}
	for i := range recipes {
		list := byRecipe[recipes[i].RecipeID]
		if list == nil {
			list = []RecipeIngredient{}
		}
		recipes[i].Ingredients = list
	}
}
