// Package cart is a mock online grocery cart integration. Product search
// and checkout are simulated; the real service would sit behind the same
// interface.
package cart

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"family-meal-planner/internal/shopping"
)

const cartURL = "https://groceries.example.com/trolley"

// AddedItem is one shopping list entry matched to a store product.
type AddedItem struct {
	Name        string  `json:"name"`
	Quantity    string  `json:"quantity"`
	Unit        string  `json:"unit"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
}

// Result reports the outcome of a cart submission. Missing credentials
// produce an unsuccessful Result, not an error: the cart is a pure sink
// and never blocks the rest of the application.
type Result struct {
	Success       bool        `json:"success"`
	Message       string      `json:"message"`
	ItemsAdded    []AddedItem `json:"items_added,omitempty"`
	ItemsNotFound []string    `json:"items_not_found,omitempty"`
	CartURL       string      `json:"cart_url,omitempty"`
	TotalPrice    float64     `json:"total_price,omitempty"`
}

type product struct {
	keyword string
	id      string
	name    string
	price   float64
}

// Products the mock search always finds, matched by substring against the
// item name in order.
var catalog = []product{
	{"chicken", "12345", "British Chicken Breast Fillets 650G", 4.50},
	{"beef", "23456", "Beef Mince 5% Fat 500G", 3.25},
	{"pasta", "34567", "Italian Spaghetti 500G", 0.95},
	{"rice", "45678", "Easy Cook Long Grain Rice 1Kg", 1.75},
	{"onion", "56789", "Brown Onions 1Kg", 0.85},
	{"garlic", "67890", "Garlic 4 Pack", 0.79},
	{"tomato", "78901", "Salad Tomatoes 6 Pack", 0.90},
	{"cheese", "89012", "British Mature Cheddar 460G", 2.65},
	{"broccoli", "90123", "Broccoli", 0.65},
	{"carrot", "01234", "Carrots 1Kg", 0.45},
}

// Chance of the mock search finding a generic product for an unknown item.
const genericMatchChance = 0.8

// Client submits shopping lists to the grocery service.
type Client struct {
	apiKey string
	userID string
	logger *zap.Logger
	rng    *rand.Rand
}

// New creates a cart client. Empty credentials are allowed; submissions
// will report failure until both are configured.
func New(apiKey, userID string, logger *zap.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		userID: userID,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// AddToCart matches every shopping list item against the store catalog and
// fills the cart with what was found.
func (c *Client) AddToCart(items []shopping.Item) Result {
	if c.apiKey == "" || c.userID == "" {
		return Result{
			Success: false,
			Message: "Grocery API credentials not configured. Please add GROCERY_API_KEY and GROCERY_USER_ID to your .env file.",
		}
	}

	var added []AddedItem
	var notFound []string
	for _, item := range items {
		p, found := c.searchProduct(item.Name)
		if !found {
			notFound = append(notFound, item.Name)
			continue
		}
		added = append(added, AddedItem{
			Name:        item.Name,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			ProductID:   p.id,
			ProductName: p.name,
			Price:       p.price,
		})
	}

	total := 0.0
	for _, a := range added {
		total += a.Price
	}

	c.logger.Info("shopping list submitted to cart",
		zap.Int("added", len(added)), zap.Int("not_found", len(notFound)))

	return Result{
		Success:       true,
		Message:       fmt.Sprintf("Added %d items to your cart.", len(added)),
		ItemsAdded:    added,
		ItemsNotFound: notFound,
		CartURL:       cartURL,
		TotalPrice:    math.Round(total*100) / 100,
	}
}

func (c *Client) searchProduct(name string) (product, bool) {
	lower := strings.ToLower(name)
	for _, p := range catalog {
		if strings.Contains(lower, p.keyword) {
			return p, true
		}
	}

	if c.rng.Float64() < genericMatchChance {
		return product{
			id:    fmt.Sprintf("generic_%04d", hashName(name)%10000),
			name:  titleCase(name),
			price: math.Round((0.5+c.rng.Float64()*4.5)*100) / 100,
		}, true
	}
	return product{}, false
}

func hashName(name string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return h.Sum32()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
