package plan

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Ingredient is polymorphic over the two shapes generation backends emit:
// a structured object with name/quantity/unit, or a bare string such as
// "2 tablespoons olive oil". A free-text entry keeps the raw string in
// FreeText and leaves the structured fields empty until it is parsed.
type Ingredient struct {
	Name     string   `json:"name"`
	Quantity Quantity `json:"quantity"`
	Unit     string   `json:"unit"`
	Category string   `json:"category,omitempty"`
	Original string   `json:"original,omitempty"`

	FreeText string `json:"-"`
}

// FreeTextIngredient wraps a raw ingredient string.
func FreeTextIngredient(s string) Ingredient {
	return Ingredient{FreeText: s}
}

// IsFreeText reports whether the entry still carries an unparsed string.
func (in Ingredient) IsFreeText() bool {
	return in.FreeText != ""
}

type ingredientAlias Ingredient

func (in *Ingredient) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*in = Ingredient{FreeText: s}
		return nil
	}
	var alias ingredientAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*in = Ingredient(alias)
	return nil
}

func (in Ingredient) MarshalJSON() ([]byte, error) {
	if in.IsFreeText() {
		return json.Marshal(in.FreeText)
	}
	return json.Marshal(ingredientAlias(in))
}

// Quantity is either a non-negative number or an opaque non-numeric string
// such as "to taste", never both. Numeric strings ("2") decode as numbers
// so that case variants of the same entry can still sum.
type Quantity struct {
	value   float64
	text    string
	numeric bool
}

// Count builds a numeric quantity.
func Count(v float64) Quantity {
	return Quantity{value: v, numeric: true}
}

// ParseQuantity interprets a raw quantity: numbers stay numeric, everything
// else is kept as opaque text.
func ParseQuantity(s string) Quantity {
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return Count(v)
	}
	return Quantity{text: s}
}

// Numeric returns the numeric value when the quantity is a number.
func (q Quantity) Numeric() (float64, bool) {
	return q.value, q.numeric
}

// IsZero reports an unset quantity.
func (q Quantity) IsZero() bool {
	return !q.numeric && q.text == ""
}

// String renders the quantity the way the shopping list exports it:
// numbers without a trailing ".0", text verbatim.
func (q Quantity) String() string {
	if q.numeric {
		return strconv.FormatFloat(q.value, 'f', -1, 64)
	}
	return q.text
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = ParseQuantity(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*q = Count(v)
	return nil
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if q.numeric {
		return json.Marshal(q.value)
	}
	return json.Marshal(q.text)
}
