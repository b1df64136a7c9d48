package member

import (
	"errors"

	"github.com/AJFrosty/YouWee/internal/domain"
)

// Common errors returned by the store
var (
	ErrMemberNotFound = errors.New("member not found")
	ErrMemberExists   = errors.New("member already registered")
	ErrInvalidName    = errors.New("name must be two alphabetic words")
	ErrInvalidEmail   = errors.New("malformed email address")
)

// Store defines the interface for member and purchase-history storage
type Store interface {
	// Get returns the member with the given ID
	Get(memberID string) (domain.Member, error)

	// List returns all members ordered by ID
	List() []domain.Member

	// Register validates name and email, assigns a new member ID and
	// persists the member. Duplicate name+email pairs are rejected.
	Register(name, email string) (string, error)

	// AddPoints adjusts a member's points balance and persists. The stored
	// balance never goes below zero.
	AddPoints(memberID string, delta int) error

	// Tier returns the member's current tier
	Tier(memberID string) (domain.Tier, error)

	// History returns the member's purchase history, empty if none
	History(memberID string) domain.PurchaseHistory

	// AppendHistory records a purchase under the given date, merging
	// quantities with any existing entries for that date.
	AppendHistory(memberID, date string, items map[string]int) error

	// Save rewrites the members file, reconciling each stored tier with
	// the tier implied by its points.
	Save() error
}
