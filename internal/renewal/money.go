package renewal

import (
	"fmt"

	"github.com/subtally/subtally/internal/domain"
)

// Amount is a money value in twelfths of a cent. A yearly price divided
// across twelve months is exact in this unit, so per-category and total
// sums accumulate without drift. Rounding to cents happens once, at the
// presentation edge.
type Amount int64

// FromCents converts a cent amount into an Amount.
func FromCents(c domain.Cents) Amount { return Amount(c) * 12 }

// Cents rounds the amount to whole cents, half away from zero.
func (a Amount) Cents() domain.Cents {
	if a >= 0 {
		return domain.Cents((a + 6) / 12)
	}
	return domain.Cents((a - 6) / 12)
}

// String formats the amount as a plain 2-decimal figure, e.g. "19.99".
func (a Amount) String() string {
	c := a.Cents()
	neg := ""
	if c < 0 {
		neg = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", neg, c/100, c%100)
}
