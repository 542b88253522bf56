package models

import "fmt"

type ProductCategory string

const (
	CategoryGreen  ProductCategory = "green"
	CategoryBlack  ProductCategory = "black"
	CategoryOolong ProductCategory = "oolong"
	CategoryPuer   ProductCategory = "puer"
	CategorySets   ProductCategory = "sets"

	// CategoryAll is the "no filter" pseudo-category. It never appears on a product.
	CategoryAll ProductCategory = "all"
)

var productCategories = []ProductCategory{CategoryGreen, CategoryBlack, CategoryOolong, CategoryPuer, CategorySets}

func ProductCategories() []ProductCategory {
	return append([]ProductCategory(nil), productCategories...)
}

func (c ProductCategory) Valid() bool {
	for _, known := range productCategories {
		if c == known {
			return true
		}
	}

	return false
}

type CategoryOption struct {
	ID    ProductCategory `json:"id"`
	Label string          `json:"label"`
}

type ProductVariant struct {
	ID     string `json:"id"`
	Weight string `json:"weight"`
	Price  int64  `json:"price"`
}

type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    ProductCategory  `json:"category"`
	Tags        []string         `json:"tags"`
	Image       string           `json:"image"`
	Variants    []ProductVariant `json:"variants"`
}

func (p *Product) Variant(variantID string) (*ProductVariant, bool) {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i], true
		}
	}

	return nil, false
}

// Validate checks the catalog invariants: at least one variant, unique
// variant ids and non-negative prices.
func (p *Product) Validate() error {
	if len(p.Variants) == 0 {
		return fmt.Errorf("product %s has no variants", p.ID)
	}

	seen := make(map[string]struct{}, len(p.Variants))

	for _, v := range p.Variants {
		if _, dup := seen[v.ID]; dup {
			return fmt.Errorf("product %s has duplicate variant %s", p.ID, v.ID)
		}
		if v.Price < 0 {
			return fmt.Errorf("product %s variant %s has negative price", p.ID, v.ID)
		}
		seen[v.ID] = struct{}{}
	}

	return nil
}
