package catalog

import (
	_ "embed"
	"fmt"
	"slices"

	"github.com/ManuC12/Raices-de-vida/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var builtinYAML []byte

type builtinData struct {
	Products     []domain.Product     `yaml:"products"`
	Testimonials []domain.Testimonial `yaml:"testimonials"`
}

var builtin = mustParseBuiltin(builtinYAML)

func parseBuiltin(data []byte) (builtinData, error) {
	var b builtinData
	if err := yaml.Unmarshal(data, &b); err != nil {
		return builtinData{}, fmt.Errorf("parse catalog: %w", err)
	}
	for _, p := range b.Products {
		if len(p.Variants) == 0 {
			return builtinData{}, fmt.Errorf("parse catalog: product %q has no variants", p.Slug)
		}
	}
	return b, nil
}

// ParseProducts reads a catalog document laid out like the built-in one.
func ParseProducts(data []byte) ([]domain.Product, error) {
	b, err := parseBuiltin(data)
	if err != nil {
		return nil, err
	}
	return b.Products, nil
}

func mustParseBuiltin(data []byte) builtinData {
	b, err := parseBuiltin(data)
	if err != nil {
		panic(err)
	}
	return b
}

// Fallback returns a fresh copy of the built-in product list.
func Fallback() []domain.Product {
	return cloneProducts(builtin.Products)
}

func cloneProducts(products []domain.Product) []domain.Product {
	if products == nil {
		return nil
	}
	out := make([]domain.Product, len(products))
	for i, p := range products {
		out[i] = cloneProduct(p)
	}
	return out
}

func cloneProduct(p domain.Product) domain.Product {
	p.Images = slices.Clone(p.Images)
	p.Tags = slices.Clone(p.Tags)
	p.Notes = slices.Clone(p.Notes)
	p.Variants = slices.Clone(p.Variants)
	return p
}

func Testimonials() []domain.Testimonial {
	return slices.Clone(builtin.Testimonials)
}
