// Package store persists family preferences, meal history and cached
// shopping lists in a single JSON file. Every operation re-reads the file
// so concurrent processes observe each other's writes, and saves go
// through a temp-file rename so a crash never leaves a torn file behind.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"family-meal-planner/internal/plan"
	"family-meal-planner/internal/shopping"
)

const (
	// History keeps at most this many plans; evicting a plan also evicts
	// its cached shopping list.
	historyLimit = 10

	minMealCount = 1
	maxMealCount = 7

	defaultMealCount = 3
)

// FamilyInfo describes the household the plans are generated for.
type FamilyInfo struct {
	Members      int   `json:"members"`
	ChildrenAges []int `json:"children_ages"`
}

type preferences struct {
	LikedFoods          []string `json:"liked_foods"`
	DislikedFoods       []string `json:"disliked_foods"`
	DietaryRequirements []string `json:"dietary_requirements"`
	MealCount           int      `json:"meal_count"`
}

type fileData struct {
	FamilyInfo    FamilyInfo                 `json:"family_info"`
	Preferences   preferences                `json:"preferences"`
	MealHistory   []plan.MealPlan            `json:"meal_history"`
	ShoppingLists map[string][]shopping.Item `json:"shopping_lists"`
}

func defaultData() *fileData {
	return &fileData{
		FamilyInfo: FamilyInfo{
			Members:      4,
			ChildrenAges: []int{6, 8},
		},
		Preferences: preferences{
			LikedFoods: []string{
				"Hotdogs",
				"Burgers",
				"Chicken nuggets and chips",
				"Fish tacos",
				"Fish and broccoli",
				"Fajitas",
				"Bolognese",
			},
			DislikedFoods:       []string{},
			DietaryRequirements: []string{"Include oily fish weekly"},
			MealCount:           defaultMealCount,
		},
		MealHistory:   []plan.MealPlan{},
		ShoppingLists: map[string][]shopping.Item{},
	}
}

// Store is a file-backed preference and history store.
type Store struct {
	path string
	mu   sync.Mutex
}

// New creates a Store backed by path and ensures its directory exists.
// The file itself is created lazily on first write.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}
	return &Store{path: path}, nil
}

// load reads the current file contents, falling back to the default
// structure when the file is missing or corrupt.
func (s *Store) load() *fileData {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return defaultData()
	}
	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return defaultData()
	}
	if data.ShoppingLists == nil {
		data.ShoppingLists = map[string][]shopping.Item{}
	}
	if data.Preferences.MealCount == 0 {
		data.Preferences.MealCount = defaultMealCount
	}
	return &data
}

// save writes the full structure atomically via rename.
func (s *Store) save(data *fileData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("failed to write preferences file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace preferences file: %w", err)
	}
	return nil
}

// update performs a read-modify-write cycle under the lock.
func (s *Store) update(fn func(*fileData)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.load()
	fn(data)
	return s.save(data)
}

// LikedFoods returns the foods the family enjoys.
func (s *Store) LikedFoods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Preferences.LikedFoods
}

// DislikedFoods returns the foods to avoid.
func (s *Store) DislikedFoods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Preferences.DislikedFoods
}

// DietaryRequirements returns the household's standing dietary rules.
func (s *Store) DietaryRequirements() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Preferences.DietaryRequirements
}

// FamilyInfo returns household size and children's ages.
func (s *Store) FamilyInfo() FamilyInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().FamilyInfo
}

// MealCount returns the configured number of meals per plan.
func (s *Store) MealCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Preferences.MealCount
}

// SetMealCount stores the meals-per-plan setting, clamped to [1, 7].
func (s *Store) SetMealCount(count int) error {
	if count < minMealCount {
		count = minMealCount
	} else if count > maxMealCount {
		count = maxMealCount
	}
	return s.update(func(data *fileData) {
		data.Preferences.MealCount = count
	})
}

// AddPreference records a liked or disliked food, ignoring duplicates.
func (s *Store) AddPreference(food string, liked bool) error {
	return s.update(func(data *fileData) {
		list := &data.Preferences.LikedFoods
		if !liked {
			list = &data.Preferences.DislikedFoods
		}
		for _, f := range *list {
			if f == food {
				return
			}
		}
		*list = append(*list, food)
	})
}

// RemovePreference removes a food from the liked or disliked list and
// reports whether it was present.
func (s *Store) RemovePreference(food string, liked bool) (bool, error) {
	removed := false
	err := s.update(func(data *fileData) {
		list := &data.Preferences.LikedFoods
		if !liked {
			list = &data.Preferences.DislikedFoods
		}
		for i, f := range *list {
			if f == food {
				*list = append((*list)[:i], (*list)[i+1:]...)
				removed = true
				return
			}
		}
	})
	return removed, err
}

// RecentPlans returns up to n plans from history, most recent last.
func (s *Store) RecentPlans(n int) []plan.MealPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.load().MealHistory
	if n <= 0 || n >= len(history) {
		return history
	}
	return history[len(history)-n:]
}

// AppendPlan adds a plan to history, evicting the oldest plans and their
// cached shopping lists once the retention limit is exceeded.
func (s *Store) AppendPlan(p plan.MealPlan) error {
	return s.update(func(data *fileData) {
		data.MealHistory = append(data.MealHistory, p)
		if len(data.MealHistory) <= historyLimit {
			return
		}
		evicted := data.MealHistory[:len(data.MealHistory)-historyLimit]
		for _, old := range evicted {
			delete(data.ShoppingLists, old.ID)
		}
		data.MealHistory = data.MealHistory[len(data.MealHistory)-historyLimit:]
	})
}

// CachedShoppingList returns the stored list for a plan, and whether one
// exists.
func (s *Store) CachedShoppingList(planID string) ([]shopping.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.load().ShoppingLists[planID]
	return items, ok
}

// StoreCachedShoppingList caches a shopping list against a plan ID.
// Re-storing the same list is harmless.
func (s *Store) StoreCachedShoppingList(planID string, items []shopping.Item) error {
	return s.update(func(data *fileData) {
		data.ShoppingLists[planID] = items
	})
}
