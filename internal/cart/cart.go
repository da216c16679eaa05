package cart

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Line is one distinct menu item and its quantity within a cart.
// Price is a whole amount; the configured currency has no subunits.
type Line struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Price    int64  `json:"price" validate:"gte=0"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// Cart is the client-held, not-yet-submitted list of selected menu lines.
type Cart []Line

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// wireLine mirrors the persisted shape before any field is trusted. IDs may be
// stored as strings or numbers; both normalize to a string.
type wireLine struct {
	ID       *json.RawMessage `json:"id"`
	Name     *string          `json:"name"`
	Price    *json.Number     `json:"price"`
	Quantity *json.Number     `json:"quantity"`
}

// DecodeCart decodes and validates a persisted payload in one step. The second
// return is false for any deviation: not a JSON array, a missing or mistyped
// field, a negative price, or a non-positive quantity. Validation is
// all-or-nothing over the whole sequence; a single bad line rejects the cart.
func DecodeCart(raw []byte) (Cart, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var wire []wireLine
	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	decoder.UseNumber()
	if err := decoder.Decode(&wire); err != nil {
		return nil, false
	}

	cart := make(Cart, 0, len(wire))
	for _, w := range wire {
		line, ok := normalizeLine(w)
		if !ok {
			return nil, false
		}
		cart = append(cart, line)
	}

	if err := cart.Validate(); err != nil {
		return nil, false
	}
	return cart, true
}

func normalizeLine(w wireLine) (Line, bool) {
	if w.ID == nil || w.Name == nil || w.Price == nil || w.Quantity == nil {
		return Line{}, false
	}

	id, ok := normalizeID(*w.ID)
	if !ok {
		return Line{}, false
	}

	price, err := w.Price.Int64()
	if err != nil || price < 0 {
		return Line{}, false
	}

	quantity, err := w.Quantity.Int64()
	if err != nil || quantity <= 0 {
		return Line{}, false
	}

	return Line{
		ID:       id,
		Name:     *w.Name,
		Price:    price,
		Quantity: int(quantity),
	}, true
}

func normalizeID(raw json.RawMessage) (string, bool) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if asString == "" {
			return "", false
		}
		return asString, true
	}

	var asNumber json.Number
	numDecoder := json.NewDecoder(strings.NewReader(string(raw)))
	numDecoder.UseNumber()
	if err := numDecoder.Decode(&asNumber); err == nil {
		return asNumber.String(), true
	}

	return "", false
}

// Validate checks every line and the one-line-per-id invariant.
func (c Cart) Validate() error {
	seen := make(map[string]struct{}, len(c))
	for i, line := range c {
		if err := validate.Struct(line); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		if _, dup := seen[line.ID]; dup {
			return fmt.Errorf("line %d: duplicate item id %q", i, line.ID)
		}
		seen[line.ID] = struct{}{}
	}
	return nil
}

// Encode serializes the cart for persistence.
func (c Cart) Encode() ([]byte, error) {
	if c == nil {
		c = Cart{}
	}
	return json.Marshal(c)
}
