// Package cart holds one member's shopping session: a mutable mapping of
// item IDs to quantities, accumulated until checkout finalizes it.
package cart

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/AJFrosty/YouWee/internal/domain"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNotInCart       = errors.New("item not in cart")
	ErrExcessQuantity  = errors.New("quantity exceeds amount in cart")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrUnknownItem     = errors.New("item not in catalog")
)

// Cart is scoped to exactly one member for one shopping session.
// Quantities are always positive; removing to zero deletes the entry.
type Cart struct {
	memberID string
	items    map[string]int
}

// New returns an empty cart for the given member.
func New(memberID string) *Cart {
	return &Cart{
		memberID: memberID,
		items:    make(map[string]int),
	}
}

// MemberID returns the member this cart belongs to.
func (c *Cart) MemberID() string {
	return c.memberID
}

// Add increments an existing entry or inserts a new one.
func (c *Cart) Add(itemID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	c.items[itemID] += quantity
	return nil
}

// Remove decrements an entry, deleting it when the full held quantity is
// removed. Removing more than is held is rejected, not clamped.
func (c *Cart) Remove(itemID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	held, ok := c.items[itemID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInCart, itemID)
	}
	if quantity > held {
		return fmt.Errorf("%w: %s holds %d, asked to remove %d", ErrExcessQuantity, itemID, held, quantity)
	}
	if quantity == held {
		delete(c.items, itemID)
		return nil
	}
	c.items[itemID] -= quantity
	return nil
}

// IsEmpty reports whether the cart has no entries.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Len returns the number of distinct items in the cart.
func (c *Cart) Len() int {
	return len(c.items)
}

// Quantity returns the held quantity for an item, zero if absent.
func (c *Cart) Quantity(itemID string) int {
	return c.items[itemID]
}

// Items returns a copy of the cart's contents.
func (c *Cart) Items() map[string]int {
	items := make(map[string]int, len(c.items))
	for id, qty := range c.items {
		items[id] = qty
	}
	return items
}

// ItemIDs returns the cart's item IDs in lexicographic order.
func (c *Cart) ItemIDs() []string {
	ids := make([]string, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Total sums unit price times quantity across entries, minus discount.
// The result is not clamped at zero; the caller must guard.
func (c *Cart) Total(items map[string]domain.Item, discount decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for id, qty := range c.items {
		item, ok := items[id]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownItem, id)
		}
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total.Sub(discount), nil
}

// ProjectedStock computes the post-sale stock level for every cart entry,
// floored at zero. Entries requesting more than is on hand, and entries
// missing from the catalog, are returned as warnings but do not fail the
// projection; the checkout write-back depends on always getting a value.
func (c *Cart) ProjectedStock(items map[string]domain.Item) (map[string]int, []string) {
	projected := make(map[string]int, len(c.items))
	var warnings []string

	for _, id := range c.ItemIDs() {
		item, ok := items[id]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("item %s not in catalog", id))
			continue
		}
		qty := c.items[id]
		if qty > item.Stock {
			warnings = append(warnings, fmt.Sprintf("item %s: requested %d exceeds stock %d", id, qty, item.Stock))
		}
		remaining := item.Stock - qty
		if remaining < 0 {
			remaining = 0
		}
		projected[id] = remaining
	}
	return projected, warnings
}

// Finalize returns a snapshot of the cart's contents for receipt purposes
// and clears the cart. Finalizing an empty cart is an error.
func (c *Cart) Finalize() (map[string]int, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	snapshot := c.items
	c.items = make(map[string]int)
	return snapshot, nil
}
