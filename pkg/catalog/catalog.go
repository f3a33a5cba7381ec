// Package catalog provides the read-only product list of the store.
//
// The default catalog is embedded in the binary; deployments can replace it
// with a YAML or JSON file of the same shape.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var defaultProducts []byte

// ErrInvalidCatalog is returned when a catalog document fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// File represents the structure of products.yaml.
type File struct {
	Products []domain.Product `yaml:"products" json:"products"`
}

// Catalog is an ordered, immutable set of products.
type Catalog struct {
	products []domain.Product
	index    map[string]int
}

// Default returns the embedded catalog. It panics if the embedded document is
// invalid, which can only happen through a broken build.
func Default() *Catalog {
	c, err := Load(defaultProducts)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load parses a YAML catalog document.
func Load(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(f.Products)
}

// LoadFile reads a catalog from path. Files ending in .json are parsed as
// JSON, everything else as YAML.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		var f File
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return New(f.Products)
	}
	return Load(data)
}

// New validates products and builds a catalog preserving their order.
// Ids must be unique and non-empty and prices must not be negative.
func New(products []domain.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]domain.Product, 0, len(products)),
		index:    make(map[string]int, len(products)),
	}
	for i, p := range products {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("%w: product %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %q", ErrInvalidCatalog, p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("%w: product %q has a negative price", ErrInvalidCatalog, p.ID)
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// List returns the products in catalog order.
func (c *Catalog) List() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get looks a product up by id.
func (c *Catalog) Get(id string) (domain.Product, error) {
	i, ok := c.index[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return c.products[i], nil
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}
