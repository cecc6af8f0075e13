package domain

// LineItem is a rented product entry on an opportunity.
// Quantity is measured in half-hour units.
type LineItem struct {
	ID       int64   `json:"id,omitempty"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// AggregatedItem is the total labour for one product family
type AggregatedItem struct {
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
}

// Product is an entry of the active product catalog
type Product struct {
	ID    int64
	Name  string
	Group string
}

// Catalog is the set of active product names
type Catalog map[string]struct{}

// NewCatalog builds a catalog from product names
func NewCatalog(names ...string) Catalog {
	c := make(Catalog, len(names))
	for _, n := range names {
		c[n] = struct{}{}
	}
	return c
}

// CatalogFromProducts builds a catalog from products
func CatalogFromProducts(products []Product) Catalog {
	c := make(Catalog, len(products))
	for _, p := range products {
		c[p.Name] = struct{}{}
	}
	return c
}

// Contains reports whether the exact name is in the catalog
func (c Catalog) Contains(name string) bool {
	_, ok := c[name]
	return ok
}

// ProductFilter selects products in the CRM
type ProductFilter struct {
	FilterMode   string
	ProductGroup string
}
