package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownCategory = errors.New("unknown category")

// Category is the closed set of product lines the shop sells.
type Category int

const (
	Candles Category = iota + 1
	Diffusers
	Combos
)

// Categories lists every category in display order.
var Categories = []Category{Candles, Diffusers, Combos}

func (c Category) String() string {
	switch c {
	case Candles:
		return "candles"
	case Diffusers:
		return "diffusers"
	case Combos:
		return "combos"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "candles":
		return Candles, nil
	case "diffusers":
		return Diffusers, nil
	case "combos":
		return Combos, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

func (c Category) MarshalText() ([]byte, error) {
	switch c {
	case Candles, Diffusers, Combos:
		return []byte(c.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CategoryFilter selects either every category or exactly one.
// The zero value selects every category.
type CategoryFilter struct {
	category Category
}

var AllCategories = CategoryFilter{}

func OnlyCategory(c Category) CategoryFilter {
	return CategoryFilter{category: c}
}

// ParseCategoryFilter accepts "all" (or an empty string) and every category name.
func ParseCategoryFilter(s string) (CategoryFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return AllCategories, nil
	}
	c, err := ParseCategory(s)
	if err != nil {
		return AllCategories, err
	}
	return OnlyCategory(c), nil
}

func (f CategoryFilter) IsAll() bool {
	return f.category == 0
}

// Category returns the selected category and false when the filter is "all".
func (f CategoryFilter) Category() (Category, bool) {
	return f.category, f.category != 0
}

func (f CategoryFilter) Matches(c Category) bool {
	return f.IsAll() || f.category == c
}

func (f CategoryFilter) String() string {
	if f.IsAll() {
		return "all"
	}
	return f.category.String()
}

type Variant struct {
	ID    string  `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
	Stock int     `json:"stock" yaml:"stock"`
}

type Product struct {
	ID               string    `json:"id" yaml:"id"`
	Slug             string    `json:"slug" yaml:"slug"`
	Name             string    `json:"name" yaml:"name"`
	ShortDescription string    `json:"shortDescription" yaml:"shortDescription"`
	Description      string    `json:"description" yaml:"description"`
	Price            float64   `json:"price" yaml:"price"`
	Category         Category  `json:"category" yaml:"category"`
	Images           []string  `json:"images" yaml:"images"`
	Tags             []string  `json:"tags" yaml:"tags"`
	Notes            []string  `json:"notes" yaml:"notes"`
	IsFeatured       bool      `json:"isFeatured" yaml:"isFeatured"`
	IsNew            bool      `json:"isNew" yaml:"isNew"`
	Variants         []Variant `json:"variants" yaml:"variants"`
}

// Image returns the cover image, or "" when the product has none.
func (p Product) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (p Product) Variant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// TotalStock sums the stock of every variant.
func (p Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}
