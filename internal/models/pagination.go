package models

// ProductQuery filters GET /catalog/products. Zero values are omitted from
// the query string; an empty or "all" category means every category.
type ProductQuery struct {
	Category ProductCategory
	Search   string
	Offset   int
	Limit    int
}

type ProductList struct {
	Total int       `json:"total"`
	Items []Product `json:"items"`
}

type CategoryList struct {
	Items []CategoryOption `json:"items"`
}
