package sqlstore

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/larder/internal/models"
	"github.com/mmynk/larder/internal/storage"
	"github.com/mmynk/larder/pkg/database"
)

func newTestStore(t *testing.T) (*Store, *database.Pool) {
	t.Helper()

	cfg := database.DefaultConfig()
	cfg.URL = "sqlite://" + filepath.Join(t.TempDir(), "test.db")

	pool, err := database.Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Failed to open pool: %v", err)
	}

	store, err := New(context.Background(), pool, nil)
	if err != nil {
		pool.Close()
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store, pool
}

func mustExec(t *testing.T, pool *database.Pool, query string, args ...any) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

func countRows(t *testing.T, pool *database.Pool, table string) int {
	t.Helper()
	var n int
	if err := pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestFoodItems(t *testing.T) {
	store, pool := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateFoodItem assigns ID and timestamps", func(t *testing.T) {
		item := &models.FoodItem{
			UserID:         1,
			Name:           "Milk",
			Quantity:       "1L",
			Location:       models.LocationRefrigerator,
			ExpirationDate: mustDate(t, "2025-01-01"),
		}

		before := time.Now().Add(-time.Second)
		if err := store.CreateFoodItem(ctx, item); err != nil {
			t.Fatalf("CreateFoodItem failed: %v", err)
		}

		if item.ItemID == 0 {
			t.Error("Expected item ID to be generated")
		}
		if item.CreatedAt.Before(before) || item.UpdatedAt.Before(before) {
			t.Errorf("Expected fresh timestamps, got created=%s updated=%s", item.CreatedAt, item.UpdatedAt)
		}
		if item.Name != "Milk" || item.Quantity != "1L" || item.Location != models.LocationRefrigerator || item.UserID != 1 {
			t.Errorf("Unexpected stored item: %+v", item)
		}
		if item.ExpirationDate.String() != "2025-01-01" {
			t.Errorf("ExpirationDate = %s, want 2025-01-01", item.ExpirationDate)
		}
	})

	t.Run("location constraint rejects unknown values", func(t *testing.T) {
		item := &models.FoodItem{UserID: 1, Name: "Bike", Quantity: "1", Location: "Garage", ExpirationDate: mustDate(t, "2030-01-01")}
		if err := store.CreateFoodItem(ctx, item); err == nil {
			t.Error("Expected error for invalid location")
		}
	})

	t.Run("DeleteFoodItem removes exactly one row", func(t *testing.T) {
		item := &models.FoodItem{UserID: 1, Name: "Bread", Quantity: "1 loaf", Location: models.LocationPantry, ExpirationDate: mustDate(t, "2025-02-01")}
		if err := store.CreateFoodItem(ctx, item); err != nil {
			t.Fatalf("CreateFoodItem failed: %v", err)
		}

		before := countRows(t, pool, "food_items")
		if err := store.DeleteFoodItem(ctx, item.ItemID); err != nil {
			t.Fatalf("DeleteFoodItem failed: %v", err)
		}
		if after := countRows(t, pool, "food_items"); after != before-1 {
			t.Errorf("Expected %d rows after delete, got %d", before-1, after)
		}
	})

	t.Run("DeleteFoodItem on missing ID returns ErrNotFound", func(t *testing.T) {
		before := countRows(t, pool, "food_items")
		err := store.DeleteFoodItem(ctx, 999999)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		if after := countRows(t, pool, "food_items"); after != before {
			t.Errorf("Row count changed from %d to %d", before, after)
		}
	})
}

func TestListFoodItemsSorting(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	seed := []models.FoodItem{
		{UserID: 1, Name: "Milk", Quantity: "2", Location: models.LocationRefrigerator, ExpirationDate: mustDate(t, "2025-03-01")},
		{UserID: 1, Name: "Apples", Quantity: "5", Location: models.LocationPantry, ExpirationDate: mustDate(t, "2025-01-15")},
		{UserID: 1, Name: "Peas", Quantity: "1", Location: models.LocationFreezer, ExpirationDate: mustDate(t, "2026-06-01")},
	}
	for i := range seed {
		if err := store.CreateFoodItem(ctx, &seed[i]); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	tests := []struct {
		sort, dir string
		want      []string
	}{
		{"", "", []string{"Apples", "Milk", "Peas"}},
		{"name", "asc", []string{"Apples", "Milk", "Peas"}},
		{"name", "desc", []string{"Peas", "Milk", "Apples"}},
		{"name", "DESC", []string{"Apples", "Milk", "Peas"}},
		{"quantity", "asc", []string{"Peas", "Milk", "Apples"}},
		{"location", "asc", []string{"Peas", "Apples", "Milk"}},
		{"location", "desc", []string{"Milk", "Apples", "Peas"}},
		{"expiration_date", "asc", []string{"Apples", "Milk", "Peas"}},
		{"expiration_date", "desc", []string{"Peas", "Milk", "Apples"}},
		{"user_id; DROP TABLE food_items", "asc", []string{"Apples", "Milk", "Peas"}},
		{"created_at", "sideways", []string{"Apples", "Milk", "Peas"}},
	}

	for _, tt := range tests {
		t.Run(tt.sort+"/"+tt.dir, func(t *testing.T) {
			items, err := store.ListFoodItems(ctx, storage.ParseFoodSort(tt.sort, tt.dir))
			if err != nil {
				t.Fatalf("ListFoodItems failed: %v", err)
			}
			if len(items) != len(tt.want) {
				t.Fatalf("Expected %d items, got %d", len(tt.want), len(items))
			}
			for i, name := range tt.want {
				if items[i].Name != name {
					t.Errorf("position %d: got %s, want %s", i, items[i].Name, name)
				}
			}
		})
	}
}

func TestRecipes(t *testing.T) {
	store, pool := newTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	mustExec(t, pool, "INSERT INTO recipes (user_id, name, instructions, image_url, created_at) VALUES (?, ?, ?, ?, ?)",
		1, "Pancakes", "Mix and fry", nil, t0)
	mustExec(t, pool, "INSERT INTO recipes (user_id, name, instructions, image_url, created_at) VALUES (?, ?, ?, ?, ?)",
		1, "Omelette", "Whisk and cook", "https://example.com/omelette.jpg", t0.Add(time.Hour))
	mustExec(t, pool, "INSERT INTO recipe_ingredients (recipe_id, ingredient_name, required_quantity) VALUES (?, ?, ?)", 1, "Flour", "200g")
	mustExec(t, pool, "INSERT INTO recipe_ingredients (recipe_id, ingredient_name, required_quantity) VALUES (?, ?, ?)", 2, "Eggs", "3")
	mustExec(t, pool, "INSERT INTO recipe_ingredients (recipe_id, ingredient_name, required_quantity) VALUES (?, ?, ?)", 1, "Milk", "300ml")

	recipes, err := store.ListRecipes(ctx)
	if err != nil {
		t.Fatalf("ListRecipes failed: %v", err)
	}
	if len(recipes) != 2 {
		t.Fatalf("Expected 2 recipes, got %d", len(recipes))
	}
	if recipes[0].Name != "Omelette" || recipes[1].Name != "Pancakes" {
		t.Errorf("Expected newest first, got %s, %s", recipes[0].Name, recipes[1].Name)
	}
	if recipes[0].ImageURL == nil || *recipes[0].ImageURL != "https://example.com/omelette.jpg" {
		t.Errorf("Unexpected image URL: %v", recipes[0].ImageURL)
	}
	if recipes[1].ImageURL != nil {
		t.Errorf("Expected nil image URL, got %v", *recipes[1].ImageURL)
	}
	if !recipes[1].CreatedAt.Equal(t0) {
		t.Errorf("CreatedAt = %s, want %s", recipes[1].CreatedAt, t0)
	}

	ingredients, err := store.ListRecipeIngredients(ctx)
	if err != nil {
		t.Fatalf("ListRecipeIngredients failed: %v", err)
	}
	if len(ingredients) != 3 {
		t.Fatalf("Expected 3 ingredients, got %d", len(ingredients))
	}
	if ingredients[0].IngredientName != "Flour" || ingredients[0].RecipeID != 1 || ingredients[0].RequiredQuantity != "200g" {
		t.Errorf("Unexpected first ingredient: %+v", ingredients[0])
	}
}

func TestShoppingItemsAndNotifications(t *testing.T) {
	store, pool := newTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	mustExec(t, pool, "INSERT INTO recipes (user_id, name, created_at) VALUES (?, ?, ?)", 1, "Soup", t0)
	mustExec(t, pool, "INSERT INTO shopping_list_items (user_id, recipe_id, item_name, quantity_needed, is_checked, added_at) VALUES (?, ?, ?, ?, ?, ?)",
		1, nil, "Butter", "250g", false, t0)
	mustExec(t, pool, "INSERT INTO shopping_list_items (user_id, recipe_id, item_name, quantity_needed, is_checked, added_at) VALUES (?, ?, ?, ?, ?, ?)",
		1, 1, "Carrots", "4", true, t0.Add(time.Minute))

	t.Run("ListShoppingItems newest first", func(t *testing.T) {
		items, err := store.ListShoppingItems(ctx)
		if err != nil {
			t.Fatalf("ListShoppingItems failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("Expected 2 items, got %d", len(items))
		}
		if items[0].ItemName != "Carrots" || !items[0].IsChecked || items[0].RecipeID == nil || *items[0].RecipeID != 1 {
			t.Errorf("Unexpected first item: %+v", items[0])
		}
		if items[1].ItemName != "Butter" || items[1].IsChecked || items[1].RecipeID != nil {
			t.Errorf("Unexpected second item: %+v", items[1])
		}
	})

	mustExec(t, pool, "INSERT INTO notifications (user_id, item_id, message, is_read, created_at) VALUES (?, ?, ?, ?, ?)",
		1, nil, "Milk expires tomorrow", false, t0)
	mustExec(t, pool, "INSERT INTO notifications (user_id, item_id, message, is_read, created_at) VALUES (?, ?, ?, ?, ?)",
		1, nil, "Already seen", true, t0.Add(time.Hour))
	mustExec(t, pool, "INSERT INTO notifications (user_id, item_id, message, is_read, created_at) VALUES (?, ?, ?, ?, ?)",
		1, nil, "Bread expires today", false, t0.Add(2*time.Hour))

	t.Run("ListUnreadNotifications skips read rows", func(t *testing.T) {
		notes, err := store.ListUnreadNotifications(ctx)
		if err != nil {
			t.Fatalf("ListUnreadNotifications failed: %v", err)
		}
		if len(notes) != 2 {
			t.Fatalf("Expected 2 unread notifications, got %d", len(notes))
		}
		if notes[0].Message != "Bread expires today" || notes[1].Message != "Milk expires tomorrow" {
			t.Errorf("Unexpected order: %q, %q", notes[0].Message, notes[1].Message)
		}
		for _, n := range notes {
			if n.IsRead {
				t.Errorf("Notification %d is read", n.NotificationID)
			}
		}
	})

	t.Run("accessors return raw rows", func(t *testing.T) {
		rows, err := store.AllShoppingItems(ctx)
		if err != nil {
			t.Fatalf("AllShoppingItems failed: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("Expected 2 rows, got %d", len(rows))
		}
		if _, ok := rows[0]["item_name"]; !ok {
			t.Errorf("Expected item_name column, got %v", rows[0])
		}

		food, err := store.AllFoodItems(ctx)
		if err != nil {
			t.Fatalf("AllFoodItems failed: %v", err)
		}
		if len(food) != 0 {
			t.Errorf("Expected no food items, got %d", len(food))
		}
	})
}

func TestUsers(t *testing.T) {
	store, pool := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("cook@example.com", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.UserID == 0 {
		t.Error("Expected user ID to be assigned")
	}

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("cook@example.com", "other"))
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
		if n := countRows(t, pool, "users"); n != 1 {
			t.Errorf("Expected 1 user, got %d", n)
		}
	})

	t.Run("lookup by email and ID", func(t *testing.T) {
		byEmail, err := store.GetUserByEmail(ctx, "cook@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail.UserID != user.UserID || byEmail.PasswordHash != "hash" {
			t.Errorf("Unexpected user: %+v", byEmail)
		}

		byID, err := store.GetUserByID(ctx, user.UserID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.Email != "cook@example.com" {
			t.Errorf("Unexpected email: %s", byID.Email)
		}
	})

	t.Run("missing users", func(t *testing.T) {
		if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetUserByID(ctx, 4242); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestSectionOrder(t *testing.T) {
	store, pool := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetSectionOrder(ctx, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound before first save, got %v", err)
	}

	if err := store.UpsertSectionOrder(ctx, 1, json.RawMessage(`["pantry","recipes"]`)); err != nil {
		t.Fatalf("UpsertSectionOrder failed: %v", err)
	}
	if err := store.UpsertSectionOrder(ctx, 1, json.RawMessage(`["recipes","pantry","shopping"]`)); err != nil {
		t.Fatalf("second UpsertSectionOrder failed: %v", err)
	}

	got, err := store.GetSectionOrder(ctx, 1)
	if err != nil {
		t.Fatalf("GetSectionOrder failed: %v", err)
	}
	var order []string
	if err := json.Unmarshal(got, &order); err != nil {
		t.Fatalf("stored order is not JSON: %v", err)
	}
	if len(order) != 3 || order[0] != "recipes" {
		t.Errorf("Unexpected order: %v", order)
	}
	if n := countRows(t, pool, "user_section_order"); n != 1 {
		t.Errorf("Expected a single row after upsert, got %d", n)
	}
}
