package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestLocationValid(t *testing.T) {
	for _, l := range []Location{LocationPantry, LocationRefrigerator, LocationFreezer} {
		if !l.Valid() {
			t.Errorf("%s should be valid", l)
		}
	}
	for _, l := range []Location{"", "pantry", "Garage", "Fridge"} {
		if l.Valid() {
			t.Errorf("%q should be invalid", l)
		}
	}
}

func TestDate(t *testing.T) {
	t.Run("parse and format", func(t *testing.T) {
		d, err := ParseDate("2025-01-01")
		if err != nil {
			t.Fatalf("ParseDate failed: %v", err)
		}
		if d.String() != "2025-01-01" {
			t.Errorf("String() = %s", d.String())
		}
	})

	t.Run("rejects other layouts", func(t *testing.T) {
		for _, s := range []string{"01/02/2025", "2025-13-01", "tomorrow", ""} {
			if _, err := ParseDate(s); err == nil {
				t.Errorf("expected error for %q", s)
			}
		}
	})

	t.Run("json round trip", func(t *testing.T) {
		item := FoodItem{Name: "Milk", ExpirationDate: Date{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}}
		b, err := json.Marshal(item)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}

		var raw map[string]any
		json.Unmarshal(b, &raw)
		if raw["expiration_date"] != "2025-01-01" {
			t.Errorf("expiration_date = %v", raw["expiration_date"])
		}

		var back FoodItem
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if !back.ExpirationDate.Equal(item.ExpirationDate.Time) {
			t.Errorf("got %s, want %s", back.ExpirationDate, item.ExpirationDate)
		}
	})

	t.Run("scan sources", func(t *testing.T) {
		want := "2025-03-04"
		sources := []any{
			time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 4, 15, 30, 0, 0, time.FixedZone("X", 3600)),
			"2025-03-04",
			"2025-03-04 00:00:00+00:00",
			[]byte("2025-03-04"),
		}
		for _, src := range sources {
			var d Date
			if err := d.Scan(src); err != nil {
				t.Errorf("Scan(%#v) failed: %v", src, err)
				continue
			}
			if d.String() != want {
				t.Errorf("Scan(%#v) = %s, want %s", src, d, want)
			}
		}

		var d Date
		if err := d.Scan(42); err == nil {
			t.Error("expected error scanning int")
		}
	})
}

func TestAttachIngredients(t *testing.T) {
	recipes := []Recipe{{RecipeID: 1, Name: "Pancakes"}, {RecipeID: 2, Name: "Toast"}, {RecipeID: 3, Name: "Water"}}
	ingredients := []RecipeIngredient{
		{RecipeIngredientID: 10, RecipeID: 1, IngredientName: "Flour"},
		{RecipeIngredientID: 11, RecipeID: 2, IngredientName: "Bread"},
		{RecipeIngredientID: 12, RecipeID: 1, IngredientName: "Milk"},
		{RecipeIngredientID: 13, RecipeID: 99, IngredientName: "Orphan"},
	}

	AttachIngredients(recipes, ingredients)

	want := map[int64][]int64{1: {10, 12}, 2: {11}, 3: {}}
	for _, r := range recipes {
		if r.Ingredients == nil {
			t.Errorf("recipe %d has nil ingredients", r.RecipeID)
			continue
		}
		ids := want[r.RecipeID]
		if len(r.Ingredients) != len(ids) {
			t.Errorf("recipe %d: got %d ingredients, want %d", r.RecipeID, len(r.Ingredients), len(ids))
			continue
		}
		for i, ing := range r.Ingredients {
			if ing.RecipeIngredientID != ids[i] || ing.RecipeID != r.RecipeID {
				t.Errorf("recipe %d ingredient %d = %+v", r.RecipeID, i, ing)
			}
		}
	}
}

func TestUserHidesPasswordHash(t *testing.T) {
	b, _ := json.Marshal(NewUser("a@example.com", "$2a$10$hash"))
	var raw map[string]any
	json.Unmarshal(b, &raw)
	if _, ok := raw["password_hash"]; ok {
		t.Error("password hash must not be serialized")
	}
	if raw["email"] != "a@example.com" {
		t.Errorf("email = %v", raw["email"])
	}
}
