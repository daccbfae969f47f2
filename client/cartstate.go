package client

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/shopyard/storefront-api/models"
)

// CartLine is one locally held cart entry, a product snapshot plus quantity.
type CartLine struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// CartState is the offline cart container, persisted to a JSON file between
// runs. Adding a product already in the cart merges quantities into the
// existing line. Saves are last-writer-wins.
type CartState struct {
	path string

	mu    sync.Mutex
	lines []CartLine
}

// NewCartState creates a cart state persisted at path.
func NewCartState(path string) *CartState {
	return &CartState{path: path}
}

// Load reads the persisted cart. A missing file means an empty cart.
func (cs *CartState) Load() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	b, err := os.ReadFile(cs.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	return json.Unmarshal(b, &cs.lines)
}

// Add puts quantity units of product into the cart, merging with an
// existing line for the same product.
func (cs *CartState) Add(product models.Product, quantity int) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for i := range cs.lines {
		if cs.lines[i].ProductID == product.ID {
			cs.lines[i].Quantity += quantity
			return cs.saveLocked()
		}
	}
	cs.lines = append(cs.lines, CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  quantity,
	})
	return cs.saveLocked()
}

// UpdateQuantity sets the quantity for a product's line. Unknown products
// are ignored.
func (cs *CartState) UpdateQuantity(productID uint, quantity int) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for i := range cs.lines {
		if cs.lines[i].ProductID == productID {
			cs.lines[i].Quantity = quantity
			break
		}
	}
	return cs.saveLocked()
}

// Remove drops a product's line from the cart.
func (cs *CartState) Remove(productID uint) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	filtered := cs.lines[:0]
	for _, line := range cs.lines {
		if line.ProductID != productID {
			filtered = append(filtered, line)
		}
	}
	cs.lines = filtered
	return cs.saveLocked()
}

// Clear empties the cart.
func (cs *CartState) Clear() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.lines = nil
	return cs.saveLocked()
}

// Lines returns a copy of the cart's lines.
func (cs *CartState) Lines() []CartLine {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]CartLine, len(cs.lines))
	copy(out, cs.lines)
	return out
}

// Total sums price times quantity across all lines.
func (cs *CartState) Total() float64 {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	var total float64
	for _, line := range cs.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// CheckoutItems converts the cart into order line items for CreateOrder.
func (cs *CartState) CheckoutItems() []OrderItemInput {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	items := make([]OrderItemInput, 0, len(cs.lines))
	for _, line := range cs.lines {
		items = append(items, OrderItemInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}
	return items
}

func (cs *CartState) saveLocked() error {
	b, err := json.MarshalIndent(cs.lines, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(cs.path, b, 0600)
}
