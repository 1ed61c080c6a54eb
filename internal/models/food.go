package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Location is where a food item is kept.
type Location string

const (
	LocationPantry       Location = "Pantry"
	LocationRefrigerator Location = "Refrigerator"
	LocationFreezer      Location = "Freezer"
)

// Valid reports whether l is one of the known storage locations.
func (l Location) Valid() bool {
	switch l {
	case LocationPantry, LocationRefrigerator, LocationFreezer:
		return true
	}
	return false
}

// FoodItem is a single item in a household's food inventory.
type FoodItem struct {
	ItemID int64 `json:"item_id"`
	UserID int64 `json:"user_id"`

	Name string `json:"name"`

	// Quantity is free text, e.g. "1L" or "half a loaf".
	Quantity string `json:"quantity"`

	Location       Location `json:"location"`
	ExpirationDate Date     `json:"expiration_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DateLayout is the wire and storage format of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day component.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON writes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD".
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the date as "YYYY-MM-DD", which both PostgreSQL DATE
// columns and SQLite text columns accept.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan reads a date column. PostgreSQL hands back time.Time; SQLite may
// hand back either time.Time or the stored text.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		y, m, day := v.Date()
		d.Time = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) >= len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
