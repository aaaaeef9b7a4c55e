// Package renewal contains the renewal-window and spend-aggregation
// calculations shared by the dashboard summary, the upcoming-renewals
// endpoints, and the client cache. Every caller derives its figures from
// this package; the arithmetic is deliberately not duplicated anywhere.
//
// All functions are pure: given the same subscriptions and reference time
// they return the same result.
package renewal

import (
	"sort"
	"time"

	"github.com/subtally/subtally/internal/domain"
)

// Bucket classifies a subscription by how close its renewal is.
type Bucket string

const (
	BucketOverdue   Bucket = "overdue"
	BucketToday     Bucket = "today"
	BucketDueSoon   Bucket = "due_soon"
	BucketScheduled Bucket = "scheduled"
)

// DueSoonDays is the upper bound (inclusive) of the due-soon bucket.
const DueSoonDays = 7

// DaysUntil returns the signed calendar-day difference between the
// subscription's renewal date and now. The second return is false when no
// renewal date is set. The difference is computed on UTC calendar dates, so
// a renewal dated today yields 0 at any time of day.
func DaysUntil(s domain.Subscription, now time.Time) (int, bool) {
	if s.RenewalDate == nil {
		return 0, false
	}
	return civilDay(*s.RenewalDate) - civilDay(now), true
}

// civilDay maps a timestamp to its UTC calendar day number.
func civilDay(t time.Time) int {
	y, m, d := t.UTC().Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// BucketFor classifies a days-until value. Boundaries are inclusive:
// exactly 0 is today, exactly DueSoonDays is still due soon.
func BucketFor(daysUntil int) Bucket {
	switch {
	case daysUntil < 0:
		return BucketOverdue
	case daysUntil == 0:
		return BucketToday
	case daysUntil <= DueSoonDays:
		return BucketDueSoon
	default:
		return BucketScheduled
	}
}

// MonthlyEquivalent returns the subscription's cost normalized to one month.
func MonthlyEquivalent(s domain.Subscription) Amount {
	if s.Cycle == domain.CycleYearly {
		return Amount(s.Price) // price twelfths-of-a-cent == price/12 cents
	}
	return FromCents(s.Price)
}

// YearlyEquivalent returns the subscription's cost normalized to one year.
func YearlyEquivalent(s domain.Subscription) Amount {
	if s.Cycle == domain.CycleYearly {
		return FromCents(s.Price)
	}
	return FromCents(s.Price) * 12
}

// TotalMonthly sums the monthly-equivalent cost of all subscriptions.
func TotalMonthly(subs []domain.Subscription) Amount {
	var total Amount
	for _, s := range subs {
		total += MonthlyEquivalent(s)
	}
	return total
}

// TotalYearly sums the yearly-equivalent cost of all subscriptions.
func TotalYearly(subs []domain.Subscription) Amount {
	var total Amount
	for _, s := range subs {
		total += YearlyEquivalent(s)
	}
	return total
}

// UncategorizedLabel is the synthetic bucket for subscriptions without a
// category. The stored value stays empty; only aggregation uses this label.
const UncategorizedLabel = "Uncategorized"

// AggregateByCategory sums monthly-equivalent cost per category. Absent or
// blank categories land in UncategorizedLabel. The sum over all buckets
// equals TotalMonthly for the same input.
func AggregateByCategory(subs []domain.Subscription) map[string]Amount {
	byCategory := make(map[string]Amount)
	for _, s := range subs {
		category := UncategorizedLabel
		if s.Category != nil && *s.Category != "" {
			category = *s.Category
		}
		byCategory[category] += MonthlyEquivalent(s)
	}
	return byCategory
}

// UpcomingWithin returns subscriptions renewing between now and now+days
// (both bounds inclusive, overdue excluded), ordered by renewal date
// ascending. The sort is stable: ties keep their input order, so callers
// taking the first K entries see a deterministic list.
func UpcomingWithin(subs []domain.Subscription, days int, now time.Time) []domain.Subscription {
	var upcoming []domain.Subscription
	for _, s := range subs {
		d, ok := DaysUntil(s, now)
		if !ok || d < 0 || d > days {
			continue
		}
		upcoming = append(upcoming, s)
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].RenewalDate.Before(*upcoming[j].RenewalDate)
	})
	return upcoming
}
