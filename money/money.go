// Package money provides a fixed-point monetary representation.
//
// Amounts are stored as integer minor units (hundredths) so that arithmetic
// across many small transactions never accumulates binary floating-point
// drift. Conversion to and from a decimal display representation happens
// only at the boundary.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is a signed monetary amount in integer minor units.
type Cents int64

var hundred = decimal.NewFromInt(100)

// Parse converts a decimal string such as "12.34" into minor units.
// It rejects values with more than two fractional digits rather than
// rounding them silently.
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.Exponent() < -2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	return Cents(d.Mul(hundred).IntPart()), nil
}

// String renders the amount as a decimal string with two fractional digits.
func (c Cents) String() string {
	return decimal.New(int64(c), -2).StringFixed(2)
}

// Abs returns the magnitude of the amount.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// MarshalJSON renders the amount as a quoted decimal string.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted decimal strings and bare JSON numbers.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
