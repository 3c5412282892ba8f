// internal/service/category/taxonomy.go

// Package category maps noisy upstream place records onto a fixed set of
// emoji categories.
package category

import (
	"strings"
)

// DefaultEmoji is used when no category yields an emoji
const DefaultEmoji = "📍"

// Category is one entry of the taxonomy
type Category struct {
	Name     string
	Emoji    string
	Keywords []string
}

// defaultCategories is ordered; earlier entries win keyword and fuzzy lookups.
// Generic entries stay at the end so specific cuisines are preferred.
var defaultCategories = []Category{
	{Name: "pizza", Emoji: "🍕", Keywords: []string{"pizza", "pizzeria", "pizza_restaurant"}},
	{Name: "beer", Emoji: "🍺", Keywords: []string{"beer", "brewery", "brewpub", "taproom", "pub", "beer_garden"}},
	{Name: "sushi", Emoji: "🍣", Keywords: []string{"sushi", "japanese", "sushi_restaurant", "japanese_restaurant"}},
	{Name: "coffee", Emoji: "☕", Keywords: []string{"coffee", "cafe", "café", "espresso", "coffee_shop"}},
	{Name: "burger", Emoji: "🍔", Keywords: []string{"burger", "hamburger", "hamburger_restaurant", "fast food", "fast_food", "fast_food_restaurant"}},
	{Name: "mexican", Emoji: "🌮", Keywords: []string{"mexican", "taco", "tacos", "burrito", "taqueria", "mexican_restaurant"}},
	{Name: "ramen", Emoji: "🍜", Keywords: []string{"ramen", "noodle", "noodles", "pho", "ramen_restaurant"}},
	{Name: "salad", Emoji: "🥗", Keywords: []string{"salad", "healthy", "vegan", "vegetarian", "vegan_restaurant", "vegetarian_restaurant"}},
	{Name: "dessert", Emoji: "🍦", Keywords: []string{"dessert", "ice cream", "ice_cream", "ice_cream_shop", "gelato", "frozen yogurt", "dessert_shop"}},
	{Name: "wine", Emoji: "🍷", Keywords: []string{"wine", "winery", "wine bar", "wine_bar"}},
	{Name: "asian fusion", Emoji: "🥢", Keywords: []string{"asian", "chinese", "thai", "korean", "vietnamese", "dim sum", "chinese_restaurant", "thai_restaurant", "korean_restaurant", "asian_restaurant"}},
	{Name: "bbq", Emoji: "🍖", Keywords: []string{"bbq", "barbecue", "barbecue_restaurant", "smokehouse"}},
	{Name: "bakery", Emoji: "🥐", Keywords: []string{"bakery", "bread", "pastry", "croissant"}},
	{Name: "seafood", Emoji: "🐟", Keywords: []string{"seafood", "fish", "oyster", "crab", "lobster", "seafood_restaurant"}},
	{Name: "breakfast", Emoji: "🥞", Keywords: []string{"breakfast", "brunch", "pancake", "pancakes", "diner", "breakfast_restaurant", "brunch_restaurant"}},
	{Name: "cocktail", Emoji: "🍸", Keywords: []string{"cocktail", "cocktails", "bar", "lounge", "speakeasy", "night_club"}},
	{Name: "italian", Emoji: "🍝", Keywords: []string{"italian", "pasta", "trattoria", "italian_restaurant"}},
	{Name: "indian", Emoji: "🍛", Keywords: []string{"indian", "curry", "tandoori", "indian_restaurant"}},
	{Name: "sandwich", Emoji: "🥪", Keywords: []string{"sandwich", "sandwiches", "deli", "bagel", "sandwich_shop"}},
	{Name: "steak", Emoji: "🥩", Keywords: []string{"steak", "steakhouse", "steak_house"}},
	{Name: "chicken", Emoji: "🍗", Keywords: []string{"chicken", "wings", "fried chicken"}},
	{Name: "mediterranean", Emoji: "🥙", Keywords: []string{"mediterranean", "greek", "falafel", "kebab", "shawarma", "middle eastern", "mediterranean_restaurant", "greek_restaurant", "middle_eastern_restaurant"}},
	{Name: "donut", Emoji: "🍩", Keywords: []string{"donut", "donuts", "doughnut", "donut_shop"}},
	{Name: "tea", Emoji: "🍵", Keywords: []string{"tea", "bubble tea", "boba", "tea_house"}},
	{Name: "grocery", Emoji: "🛒", Keywords: []string{"grocery", "supermarket", "market", "grocery_store"}},
	{Name: "park", Emoji: "🌳", Keywords: []string{"park", "garden", "playground"}},
	{Name: "museum", Emoji: "🏛️", Keywords: []string{"museum", "gallery", "art_gallery"}},
	{Name: "gym", Emoji: "💪", Keywords: []string{"gym", "fitness", "fitness_center"}},
	{Name: "hotel", Emoji: "🏨", Keywords: []string{"hotel", "motel", "lodging", "inn"}},
	{Name: "restaurant", Emoji: "🍽️", Keywords: []string{"restaurant", "food", "dining", "eatery", "meal_takeaway"}},
}

// Taxonomy indexes categories by name and keyword
type Taxonomy struct {
	categories []Category
	byName     map[string]int
	byKeyword  map[string]int
}

// NewTaxonomy builds a taxonomy. Names and keywords are matched
// case-insensitively; the first category to claim a keyword keeps it.
func NewTaxonomy(categories []Category) *Taxonomy {
	t := &Taxonomy{
		categories: make([]Category, len(categories)),
		byName:     make(map[string]int, len(categories)),
		byKeyword:  make(map[string]int),
	}
	copy(t.categories, categories)

	for i, c := range t.categories {
		name := strings.ToLower(c.Name)
		if _, exists := t.byName[name]; !exists {
			t.byName[name] = i
		}
		if _, exists := t.byKeyword[name]; !exists {
			t.byKeyword[name] = i
		}
		for _, kw := range c.Keywords {
			kw = strings.ToLower(kw)
			if _, exists := t.byKeyword[kw]; !exists {
				t.byKeyword[kw] = i
			}
		}
	}

	return t
}

// DefaultTaxonomy returns the built-in category table
func DefaultTaxonomy() *Taxonomy {
	return NewTaxonomy(defaultCategories)
}

// Categories returns a copy of the table in lookup order
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// FindByKeyword returns the category whose name or keyword list contains kw
func (t *Taxonomy) FindByKeyword(kw string) (Category, bool) {
	i, ok := t.byKeyword[strings.ToLower(kw)]
	if !ok {
		return Category{}, false
	}
	return t.categories[i], true
}

// FindByName returns the category with the given canonical name
func (t *Taxonomy) FindByName(name string) (Category, bool) {
	i, ok := t.byName[strings.ToLower(name)]
	if !ok {
		return Category{}, false
	}
	return t.categories[i], true
}

// FuzzyFind returns the first category whose name contains, or is contained
// in, s
func (t *Taxonomy) FuzzyFind(s string) (Category, bool) {
	s = strings.ToLower(s)
	if s == "" {
		return Category{}, false
	}

	for _, c := range t.categories {
		name := strings.ToLower(c.Name)
		if strings.Contains(s, name) || strings.Contains(name, s) {
			return c, true
		}
	}
	return Category{}, false
}
