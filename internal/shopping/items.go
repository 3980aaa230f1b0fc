// Package shopping turns the ingredient entries of a meal plan into a
// consolidated shopping list: free-text entries are parsed, names are
// normalized, duplicates merge by summing quantities, pantry staples are
// dropped and the result is categorized and sorted.
package shopping

// Item is one line of the final shopping list. The field names are the
// externally consumed contract: cart integration and display both depend
// on them.
type Item struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
	Original string `json:"original"`
}
