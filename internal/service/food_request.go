package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmynk/larder/internal/models"
)

// foodCommand is the decoded body of POST /api/food-items: either a
// deleteFoodItem or a createFoodItem.
type foodCommand interface {
	isFoodCommand()
}

type deleteFoodItem struct {
	ItemID int64
}

type createFoodItem struct {
	Item models.FoodItem
}

func (deleteFoodItem) isFoodCommand() {}
func (createFoodItem) isFoodCommand() {}

// requestError is a client error detected while decoding a request.
type requestError struct {
	status  int
	message string
	debug   string
}

func (e *requestError) Error() string {
	return e.message
}

func badRequest(format string, args ...any) *requestError {
	return &requestError{status: http.StatusBadRequest, message: fmt.Sprintf(format, args...)}
}

const msgMissingFields = "Missing required fields"

// decodeFoodCommand resolves the request body into a command. Forms
// (urlencoded or multipart, or no content type at all) and JSON objects are
// accepted; a truthy delete_id selects deletion, otherwise the payload must
// describe a new item.
func decodeFoodCommand(w http.ResponseWriter, r *http.Request) (foodCommand, *requestError) {
	payload, rerr := readPayload(w, r)
	if rerr != nil {
		return nil, rerr
	}

	if v := payload["delete_id"]; truthy(v) {
		id, ok := toInt64(v)
		if !ok || id <= 0 {
			return nil, badRequest("Invalid delete_id")
		}
		return deleteFoodItem{ItemID: id}, nil
	}

	for _, field := range []string{"name", "quantity", "location", "expiration_date", "user_id"} {
		if !truthy(payload[field]) {
			return nil, badRequest(msgMissingFields)
		}
	}

	name, ok1 := toText(payload["name"])
	quantity, ok2 := toText(payload["quantity"])
	location, ok3 := toText(payload["location"])
	expiration, ok4 := toText(payload["expiration_date"])
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, badRequest("Invalid field type")
	}

	loc := models.Location(location)
	if !loc.Valid() {
		return nil, badRequest("Invalid location: must be one of %s, %s, %s",
			models.LocationPantry, models.LocationRefrigerator, models.LocationFreezer)
	}

	date, err := models.ParseDate(expiration)
	if err != nil {
		return nil, badRequest("Invalid expiration_date: expected YYYY-MM-DD")
	}

	userID, ok := toInt64(payload["user_id"])
	if !ok || userID <= 0 {
		return nil, badRequest("Invalid user_id")
	}

	return createFoodItem{Item: models.FoodItem{
		UserID:         userID,
		Name:           name,
		Quantity:       quantity,
		Location:       loc,
		ExpirationDate: date,
	}}, nil
}

// readPayload flattens the body into field -> value. Form fields keep their
// first value as a string; JSON values keep their decoded type, with
// numbers as json.Number.
func readPayload(w http.ResponseWriter, r *http.Request) (map[string]any, *requestError) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, badRequest("Invalid request body")
		}
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, badRequest("Invalid request body")
		}
		return flattenForm(values), nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, unsupportedMediaType(contentType)
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, badRequest("Invalid request body")
		}
		return flattenForm(r.PostForm), nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, badRequest("Invalid request body")
		}
		return flattenForm(r.MultipartForm.Value), nil

	case "application/json":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, badRequest("Invalid request body")
		}
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		var payload map[string]any
		if err := decodeOne(dec, &payload); err != nil || payload == nil {
			return nil, badRequest("Invalid JSON")
		}
		return payload, nil

	default:
		return nil, unsupportedMediaType(contentType)
	}
}

func unsupportedMediaType(contentType string) *requestError {
	return &requestError{
		status:  http.StatusUnsupportedMediaType,
		message: "Unsupported Content-Type",
		debug:   contentType,
	}
}

func flattenForm(values map[string][]string) map[string]any {
	out := make(map[string]any, len(values))
	for key, vs := range values {
		if len(vs) > 0 {
			out[key] = vs[0]
		}
	}
	return out
}

// truthy follows the usual loose rules for form and JSON input: missing,
// null, false, "", and numeric zero are all false.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

func toInt64(v any) (int64, bool) {
	var s string
	switch x := v.(type) {
	case string:
		s = strings.TrimSpace(x)
	case json.Number:
		s = x.String()
	default:
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func toText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	default:
		return "", false
	}
}
