package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownTier is returned when a tier name does not match any known tier.
var ErrUnknownTier = errors.New("unknown tier")

// Tier is an ordered loyalty rank derived from accumulated points.
type Tier int

const (
	Apprentice Tier = iota
	Explorer
	Expert
	Master
	Legend
)

var tierNames = [...]string{"Apprentice", "Explorer", "Expert", "Master", "Legend"}

func (t Tier) String() string {
	if t < Apprentice || t > Legend {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// ParseTier maps a tier name to its Tier value.
func ParseTier(name string) (Tier, error) {
	for i, n := range tierNames {
		if n == name {
			return Tier(i), nil
		}
	}
	return Apprentice, fmt.Errorf("%w: %q", ErrUnknownTier, name)
}

// Tiers returns all tiers in ascending order.
func Tiers() []Tier {
	return []Tier{Apprentice, Explorer, Expert, Master, Legend}
}

// TierForPoints derives the tier implied by a points balance. thresholds
// holds the exclusive upper bound of each tier below the highest, in
// ascending order; points at or above the last bound map to Legend.
func TierForPoints(points int, thresholds []int) Tier {
	for i, limit := range thresholds {
		if points < limit {
			return Tier(i)
		}
	}
	return Legend
}
