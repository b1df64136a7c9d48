// Package rewards implements the loyalty rewards engine: tier eligibility,
// day-of-week multiplied points, and per-tier discount perks. The engine
// holds no state between checkouts; every computation is a pure function of
// its inputs plus the injected random source.
package rewards

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AJFrosty/YouWee/internal/domain"
)

// ErrUnknownItem is returned when a cart line has no catalog entry.
var ErrUnknownItem = errors.New("item not in catalog")

// Config tunes the engine. Multipliers maps a weekday to its category
// multiplier table; unlisted categories default to 1.
type Config struct {
	Multipliers     map[time.Weekday]map[string]int
	Apprentice      ApprenticePerk
	Explorer        ExplorerPerk
	Expert          SamplePerk
	Master          SamplePerk
	LegendPointCost int
}

// ApprenticePerk discounts a flat rate off the cart total once it passes MinTotal.
type ApprenticePerk struct {
	Rate     decimal.Decimal
	MinTotal decimal.Decimal
}

// ExplorerPerk discounts one randomly chosen previously-bought cart line.
type ExplorerPerk struct {
	Rate decimal.Decimal
}

// SamplePerk discounts a random percentage in [MinPercent, MaxPercent] off a
// random sample of up to distinctItems/Divisor cart items.
type SamplePerk struct {
	MinPercent int
	MaxPercent int
	Divisor    int
}

// Engine computes reward eligibility, points, and perk discounts.
type Engine struct {
	cfg  Config
	rand Rand
	log  *zap.Logger
}

// NewEngine builds an engine with the given tuning and random source.
func NewEngine(cfg Config, rnd Rand, log *zap.Logger) *Engine {
	return &Engine{cfg: cfg, rand: rnd, log: log}
}

// Multiplier returns the points multiplier for a category on the given day,
// defaulting to 1.
func (e *Engine) Multiplier(day time.Weekday, category string) int {
	if m, ok := e.cfg.Multipliers[day][category]; ok {
		return m
	}
	return 1
}

// BasePoints returns the points a single unit earns before multipliers:
// one fifth of the price, floored, plus one.
func (e *Engine) BasePoints(price decimal.Decimal) int {
	return int(price.Mul(decimal.NewFromFloat(0.2)).Floor().IntPart()) + 1
}

// Points computes the points earned by a cart on the given day, plus an
// optional delta (used by the Legend perk to charge its point cost).
func (e *Engine) Points(lines map[string]int, items map[string]domain.Item, day time.Weekday, delta int) (int, error) {
	total := 0
	for id, qty := range lines {
		item, ok := items[id]
		if !ok {
			return 0, fmt.Errorf("points: %w: %s", ErrUnknownItem, id)
		}
		total += e.BasePoints(item.Price) * e.Multiplier(day, item.Category()) * qty
	}
	return total + delta, nil
}

// ValidTier reports whether name matches a known tier. The interactive
// re-prompt loop around reward selection lives in the caller; only this
// validator belongs to the engine.
func (e *Engine) ValidTier(name string) bool {
	_, err := domain.ParseTier(name)
	return err == nil
}

// Eligible reports whether a member of the given tier qualifies for the
// reward tier with this cart. Each rule is evaluated independently.
func (e *Engine) Eligible(member, reward domain.Tier, total decimal.Decimal, lines map[string]int, items map[string]domain.Item, history domain.PurchaseHistory) bool {
	switch reward {
	case domain.Apprentice:
		return total.GreaterThan(e.cfg.Apprentice.MinTotal)

	case domain.Explorer:
		if len(history) == 0 || member < domain.Explorer {
			return false
		}
		for id := range lines {
			if history.Contains(id) {
				return true
			}
		}
		return false

	case domain.Expert:
		return len(lines) >= 4 && member >= domain.Expert

	case domain.Master:
		return len(lines) >= 3 && member >= domain.Master

	case domain.Legend:
		if member != domain.Legend {
			return false
		}
		for id := range lines {
			if item, ok := items[id]; ok && item.Seasonal {
				return true
			}
		}
		return false
	}
	return false
}

// EligibleTiers returns every reward tier the member currently qualifies
// for, in ascending tier order. Selection of which one to apply is the
// caller's business; one reward per checkout.
func (e *Engine) EligibleTiers(member domain.Tier, total decimal.Decimal, lines map[string]int, items map[string]domain.Item, history domain.PurchaseHistory) []domain.Tier {
	var eligible []domain.Tier
	for _, t := range domain.Tiers() {
		if e.Eligible(member, t, total, lines, items, history) {
			eligible = append(eligible, t)
		}
	}
	return eligible
}

// Apply re-checks eligibility and dispatches to exactly one discount rule,
// returning the discount and a points delta (non-zero only for Legend).
// An ineligible request degrades to a zero discount.
func (e *Engine) Apply(member, reward domain.Tier, total decimal.Decimal, lines map[string]int, items map[string]domain.Item, history domain.PurchaseHistory) (decimal.Decimal, int) {
	if !e.Eligible(member, reward, total, lines, items, history) {
		e.log.Warn("reward requested without eligibility",
			zap.Stringer("reward", reward),
			zap.Stringer("member_tier", member))
		return decimal.Zero, 0
	}

	switch reward {
	case domain.Apprentice:
		return total.Mul(e.cfg.Apprentice.Rate), 0
	case domain.Explorer:
		return e.explorerPerk(lines, items, history), 0
	case domain.Expert:
		return e.samplePerk(lines, items, e.cfg.Expert), 0
	case domain.Master:
		return e.samplePerk(lines, items, e.cfg.Master), 0
	case domain.Legend:
		return e.legendPerk(lines, items), -e.cfg.LegendPointCost
	}
	return decimal.Zero, 0
}

// sortedIDs returns the line item IDs in lexicographic order so random
// draws are reproducible for a given seed.
func sortedIDs(lines map[string]int) []string {
	ids := make([]string, 0, len(lines))
	for id := range lines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
