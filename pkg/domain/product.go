package domain

// Product is a read-only catalog entry. The cart only reads ID, Name,
// Price and the first image; the rest is presentational.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	MRP         int64    `json:"mrp" yaml:"mrp"`
	Price       int64    `json:"price" yaml:"price"`
	Images      []string `json:"images" yaml:"images"`
	Specs       []string `json:"specs,omitempty" yaml:"specs"`
	Short       string   `json:"short,omitempty" yaml:"short"`
	Description string   `json:"description,omitempty" yaml:"description"`
}

// Image returns the primary image reference, or "" if the product has none.
func (p Product) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// LineItem builds the cart entry for qty units of the product.
func (p Product) LineItem(qty int) LineItem {
	return LineItem{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Image: p.Image(),
		Qty:   qty,
	}
}
