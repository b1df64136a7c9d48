package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryLen is the number of leading item-id characters that form a category code.
const CategoryLen = 3

// Item is a single inventory record.
type Item struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Stock    int
	Seasonal bool
}

// Category returns the item's category code, the first three characters of its ID.
func (i Item) Category() string {
	if len(i.ID) < CategoryLen {
		return i.ID
	}
	return i.ID[:CategoryLen]
}

// Member is a registered loyalty-program customer.
type Member struct {
	ID     string
	Name   string
	Email  string
	Points int
	Tier   Tier
}

// PurchaseHistory maps a purchase date (YYYY-MM-DD) to the items bought on
// that date and their cumulative quantities.
type PurchaseHistory map[string]map[string]int

// Merge adds the given quantities under date, summing with existing entries.
func (h PurchaseHistory) Merge(date string, items map[string]int) {
	day, ok := h[date]
	if !ok {
		day = make(map[string]int, len(items))
		h[date] = day
	}
	for id, qty := range items {
		day[id] += qty
	}
}

// Contains reports whether itemID appears under any date.
func (h PurchaseHistory) Contains(itemID string) bool {
	for _, day := range h {
		if _, ok := day[itemID]; ok {
			return true
		}
	}
	return false
}

// RewardTransaction is the outcome of applying one reward at checkout.
// It is never persisted; it feeds the member update and the receipt.
type RewardTransaction struct {
	Tier         Tier
	Discount     decimal.Decimal
	PointsEarned int
}

// ReceiptLine is one cart line as it appears on the receipt.
type ReceiptLine struct {
	ItemID    string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// ReceiptData is everything a checkout produces for receipt rendering.
// GrandTotal is Total minus Discount and is deliberately not clamped at zero.
type ReceiptData struct {
	TransactionID string
	MemberID      string
	Date          time.Time
	Lines         []ReceiptLine
	Total         decimal.Decimal
	Discount      decimal.Decimal
	GrandTotal    decimal.Decimal
	PointsEarned  int
}
