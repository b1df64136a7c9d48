package rewards

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AJFrosty/YouWee/internal/domain"
)

// explorerPerk discounts one cart line chosen uniformly among the lines
// whose item appears anywhere in the member's purchase history. Eligibility
// already verified an overlap exists, but the pool is rebuilt here from a
// fresh snapshot, so the empty case still returns zero.
func (e *Engine) explorerPerk(lines map[string]int, items map[string]domain.Item, history domain.PurchaseHistory) decimal.Decimal {
	var pool []string
	for _, id := range sortedIDs(lines) {
		if history.Contains(id) {
			pool = append(pool, id)
		}
	}
	if len(pool) == 0 {
		e.log.Warn("explorer perk found no previously bought cart items")
		return decimal.Zero
	}

	id := pool[e.rand.Intn(len(pool))]
	item := items[id]
	lineCost := item.Price.Mul(decimal.NewFromInt(int64(lines[id])))
	return lineCost.Mul(e.cfg.Explorer.Rate)
}

// samplePerk draws a discount percentage in [MinPercent, MaxPercent], then a
// count in [0, distinct/Divisor], then that many distinct items uniformly
// without replacement. The discount is the sum of unit price times the drawn
// percentage over the selected items.
func (e *Engine) samplePerk(lines map[string]int, items map[string]domain.Item, p SamplePerk) decimal.Decimal {
	percent := p.MinPercent + e.rand.Intn(p.MaxPercent-p.MinPercent+1)
	rate := decimal.NewFromInt(int64(percent)).Div(decimal.NewFromInt(100))

	count := e.rand.Intn(len(lines)/p.Divisor + 1)

	// Partial Fisher-Yates over the sorted pool selects count items.
	ids := sortedIDs(lines)
	for i := 0; i < count; i++ {
		j := i + e.rand.Intn(len(ids)-i)
		ids[i], ids[j] = ids[j], ids[i]
	}

	discount := decimal.Zero
	for _, id := range ids[:count] {
		discount = discount.Add(items[id].Price.Mul(rate))
	}
	return discount
}

// legendPerk removes the full cost of the highest-cost seasonal line. The
// strict comparison over lexicographically ordered IDs means ties go to the
// first ID. The perk's point cost is charged by Apply.
func (e *Engine) legendPerk(lines map[string]int, items map[string]domain.Item) decimal.Decimal {
	highest := decimal.Zero
	var highestID string

	for _, id := range sortedIDs(lines) {
		item, ok := items[id]
		if !ok || !item.Seasonal {
			continue
		}
		cost := item.Price.Mul(decimal.NewFromInt(int64(lines[id])))
		if cost.GreaterThan(highest) {
			highest = cost
			highestID = id
		}
	}

	if highestID != "" {
		e.log.Info("legend perk applied",
			zap.String("item_id", highestID),
			zap.String("discount", highest.StringFixed(2)))
	}
	return highest
}
