package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/subtally/subtally/internal/domain"
	"github.com/subtally/subtally/internal/renewal"
)

const dateLayout = "2006-01-02"

// parsePrice turns a decimal amount like "9.99" into cents. More than two
// fractional digits is an error rather than a silent rounding.
func parsePrice(s string) (domain.Cents, error) {
	whole, frac, found := strings.Cut(strings.TrimSpace(s), ".")
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 {
		return 0, fmt.Errorf("invalid price %q", s)
	}

	cents := units * 100
	if found {
		if len(frac) > 2 {
			return 0, fmt.Errorf("invalid price %q: at most two decimal places", s)
		}
		for len(frac) < 2 {
			frac += "0"
		}
		c, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q", s)
		}
		cents += c
	}
	return domain.Cents(cents), nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return &t, nil
}

func printSubscriptions(subs []domain.Subscription) {
	if len(subs) == 0 {
		fmt.Println("No subscriptions.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tCYCLE\tRENEWS\tCATEGORY")
	for _, s := range subs {
		renews := "-"
		if s.RenewalDate != nil {
			renews = s.RenewalDate.Format(dateLayout)
			if d, ok := renewal.DaysUntil(s, time.Now()); ok {
				switch renewal.BucketFor(d) {
				case renewal.BucketOverdue:
					renews += " (overdue)"
				case renewal.BucketToday:
					renews += " (today)"
				case renewal.BucketDueSoon:
					renews += fmt.Sprintf(" (in %dd)", d)
				}
			}
		}
		category := renewal.UncategorizedLabel
		if s.Category != nil && *s.Category != "" {
			category = *s.Category
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(s.ID.String()), s.Name, renewal.FromCents(s.Price).String(), s.Cycle, renews, category)
	}
	w.Flush()
}

// shortID keeps tables readable; commands accept both full and short IDs.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
