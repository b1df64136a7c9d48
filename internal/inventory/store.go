package inventory

import (
	"errors"

	"github.com/AJFrosty/YouWee/internal/domain"
)

// Common errors returned by the store
var (
	ErrItemNotFound  = errors.New("item not found")
	ErrItemExists    = errors.New("item already exists")
	ErrNegativeStock = errors.New("stock cannot be negative")
)

// Store defines the interface for inventory storage operations
type Store interface {
	// Get returns the item with the given ID
	Get(itemID string) (domain.Item, error)

	// List returns all items ordered by ID
	List() []domain.Item

	// Exists reports whether an item with the given ID is known
	Exists(itemID string) bool

	// InStock reports whether at least quantity units are on hand
	InStock(itemID string, quantity int) bool

	// Add inserts a new item and persists the inventory
	Add(item domain.Item) error

	// Remove deletes an item and persists the inventory
	Remove(itemID string) error

	// SetStock sets the stock level for one item and persists the inventory
	SetStock(itemID string, stock int) error

	// SetSeasonal flips the seasonal flag for one item and persists the inventory
	SetSeasonal(itemID string, seasonal bool) error

	// UpdateStock applies a batch of stock levels (post-sale write-back) and
	// persists once; unknown IDs are reported and skipped, not fatal
	UpdateStock(stocks map[string]int) error
}
