package domain

import "time"

// Product is a supplier's catalogue entry.
type Product struct {
	ID               int64
	SupplierID       int64
	Name             string
	Description      string
	Category         string
	SubCategory      string
	Unit             string
	MinOrderQuantity float64
	Price            float64
	DiscountedPrice  *float64
	Stock            int
	Images           []string
	IsAvailable      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// UnitPrice is the price a vendor pays per unit: the discounted price when set.
func (p Product) UnitPrice() float64 {
	if p.DiscountedPrice != nil && *p.DiscountedPrice > 0 {
		return *p.DiscountedPrice
	}
	return p.Price
}

// ProductPatch holds the fields of a catalogue update. Nil fields are left unchanged.
type ProductPatch struct {
	Name             *string
	Description      *string
	Category         *string
	SubCategory      *string
	Unit             *string
	MinOrderQuantity *float64
	Price            *float64
	DiscountedPrice  *float64
	Stock            *int
	Images           []string
	IsAvailable      *bool
}

// Apply copies the set fields of patch onto p.
func (patch ProductPatch) Apply(p *Product) {
	set(&p.Name, patch.Name)
	set(&p.Description, patch.Description)
	set(&p.Category, patch.Category)
	set(&p.SubCategory, patch.SubCategory)
	set(&p.Unit, patch.Unit)
	set(&p.MinOrderQuantity, patch.MinOrderQuantity)
	set(&p.Price, patch.Price)
	set(&p.Stock, patch.Stock)
	set(&p.IsAvailable, patch.IsAvailable)
	if patch.DiscountedPrice != nil {
		d := *patch.DiscountedPrice
		p.DiscountedPrice = &d
	}
	if patch.Images != nil {
		p.Images = patch.Images
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// ProductSort is a catalogue ordering column.
type ProductSort string

// Catalogue orderings.
const (
	SortByCreatedAt ProductSort = "created_at"
	SortByPrice     ProductSort = "price"
	SortByName      ProductSort = "name"
)

// Valid reports whether s is a known ordering.
func (s ProductSort) Valid() bool {
	return s == SortByCreatedAt || s == SortByPrice || s == SortByName
}

// ProductFilter narrows a catalogue listing. Only available products are listed.
type ProductFilter struct {
	Category    string
	SubCategory string
	SupplierID  int64
	MinPrice    *float64
	MaxPrice    *float64
	Search      string
	SortBy      ProductSort
	Descending  bool
}
