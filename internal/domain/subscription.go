package domain

import (
	"time"

	"github.com/google/uuid"
)

// Cycle represents the billing period of a subscription.
type Cycle string

const (
	CycleMonthly Cycle = "monthly"
	CycleYearly  Cycle = "yearly"
)

func (c Cycle) String() string { return string(c) }

func (c Cycle) IsValid() bool {
	switch c {
	case CycleMonthly, CycleYearly:
		return true
	}
	return false
}

// Cents is a money amount in integer cents. Prices are stored and summed as
// integers; formatting to a 2-decimal string happens only at the edges.
type Cents int64

// Subscription is a recurring payment tracked by a user. Price is denominated
// per billing cycle: a yearly subscription's Price is the amount charged once
// a year. RenewalDate carries a calendar date only (UTC midnight); nil means
// no scheduled renewal. Category is the raw stored value; an empty one is
// coerced to "Uncategorized" during aggregation, never in storage.
type Subscription struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Price       Cents
	Cycle       Cycle
	RenewalDate *time.Time
	Category    *string
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
