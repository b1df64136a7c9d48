// Package checkout orchestrates the fixed checkout pipeline: cart totals,
// reward application, points and history persistence, stock write-back,
// and receipt data. Each step fails closed; nothing is persisted until the
// cart and member have been validated.
package checkout

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AJFrosty/YouWee/internal/cart"
	"github.com/AJFrosty/YouWee/internal/domain"
	"github.com/AJFrosty/YouWee/internal/rewards"
)

// dateLayout is the purchase-history date key format.
const dateLayout = "2006-01-02"

// InventoryStore is the slice of the inventory store checkout needs.
type InventoryStore interface {
	List() []domain.Item
	UpdateStock(stocks map[string]int) error
}

// MemberStore is the slice of the member store checkout needs.
type MemberStore interface {
	Get(memberID string) (domain.Member, error)
	AddPoints(memberID string, delta int) error
	History(memberID string) domain.PurchaseHistory
	AppendHistory(memberID, date string, items map[string]int) error
}

// Coordinator runs checkouts against the stores and the rewards engine.
type Coordinator struct {
	inventory InventoryStore
	members   MemberStore
	engine    *rewards.Engine
	now       func() time.Time
	log       *zap.Logger
}

// NewCoordinator wires a coordinator using the real clock.
func NewCoordinator(inv InventoryStore, members MemberStore, engine *rewards.Engine, log *zap.Logger) *Coordinator {
	return &Coordinator{
		inventory: inv,
		members:   members,
		engine:    engine,
		now:       time.Now,
		log:       log,
	}
}

// EligibleRewards returns the reward tiers the member currently qualifies
// for with this cart, for display before the customer picks one.
func (c *Coordinator) EligibleRewards(crt *cart.Cart, memberID string) ([]domain.Tier, error) {
	if crt.IsEmpty() {
		return nil, cart.ErrEmptyCart
	}
	catalog := c.catalog()
	total, err := crt.Total(catalog, decimal.Zero)
	if err != nil {
		return nil, err
	}
	member, err := c.members.Get(memberID)
	if err != nil {
		return nil, err
	}
	history := c.members.History(memberID)
	return c.engine.EligibleTiers(member.Tier, total, crt.Items(), catalog, history), nil
}

// Checkout converts an active cart into persisted points, history, stock
// changes, and receipt data. reward selects the perk to apply; nil means no
// reward. An ineligible or invalid selection degrades to a zero discount
// rather than aborting the sale.
func (c *Coordinator) Checkout(crt *cart.Cart, memberID string, reward *domain.Tier) (domain.ReceiptData, error) {
	if crt.IsEmpty() {
		return domain.ReceiptData{}, cart.ErrEmptyCart
	}

	catalog := c.catalog()
	total, err := crt.Total(catalog, decimal.Zero)
	if err != nil {
		return domain.ReceiptData{}, fmt.Errorf("computing total: %w", err)
	}

	member, err := c.members.Get(memberID)
	if err != nil {
		return domain.ReceiptData{}, fmt.Errorf("looking up member: %w", err)
	}
	history := c.members.History(memberID)
	lines := crt.Items()

	discount := decimal.Zero
	pointsDelta := 0
	tx := domain.RewardTransaction{Discount: decimal.Zero}
	if reward != nil {
		discount, pointsDelta = c.engine.Apply(member.Tier, *reward, total, lines, catalog, history)
		tx = domain.RewardTransaction{Tier: *reward, Discount: discount}
	}

	now := c.now()
	points, err := c.engine.Points(lines, catalog, now.Weekday(), pointsDelta)
	if err != nil {
		return domain.ReceiptData{}, fmt.Errorf("computing points: %w", err)
	}
	tx.PointsEarned = points

	if err := c.members.AddPoints(memberID, points); err != nil {
		return domain.ReceiptData{}, fmt.Errorf("adding points: %w", err)
	}
	if err := c.members.AppendHistory(memberID, now.Format(dateLayout), lines); err != nil {
		return domain.ReceiptData{}, fmt.Errorf("recording purchase: %w", err)
	}

	projected, warnings := crt.ProjectedStock(catalog)
	for _, w := range warnings {
		c.log.Warn("stock projection", zap.String("detail", w), zap.String("member_id", memberID))
	}
	if err := c.inventory.UpdateStock(projected); err != nil {
		return domain.ReceiptData{}, fmt.Errorf("writing stock: %w", err)
	}

	snapshot, err := crt.Finalize()
	if err != nil {
		return domain.ReceiptData{}, err
	}

	data := domain.ReceiptData{
		TransactionID: uuid.New().String(),
		MemberID:      memberID,
		Date:          now,
		Lines:         receiptLines(snapshot, catalog),
		Total:         total,
		Discount:      tx.Discount,
		GrandTotal:    total.Sub(tx.Discount),
		PointsEarned:  tx.PointsEarned,
	}

	c.log.Info("checkout complete",
		zap.String("transaction_id", data.TransactionID),
		zap.String("member_id", memberID),
		zap.String("total", data.Total.StringFixed(2)),
		zap.String("discount", data.Discount.StringFixed(2)),
		zap.Int("points", data.PointsEarned))
	return data, nil
}

func (c *Coordinator) catalog() map[string]domain.Item {
	items := c.inventory.List()
	catalog := make(map[string]domain.Item, len(items))
	for _, item := range items {
		catalog[item.ID] = item
	}
	return catalog
}

func receiptLines(snapshot map[string]int, catalog map[string]domain.Item) []domain.ReceiptLine {
	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lines := make([]domain.ReceiptLine, 0, len(ids))
	for _, id := range ids {
		item := catalog[id]
		qty := snapshot[id]
		lines = append(lines, domain.ReceiptLine{
			ItemID:    id,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  qty,
			LineTotal: item.Price.Mul(decimal.NewFromInt(int64(qty))),
		})
	}
	return lines
}
