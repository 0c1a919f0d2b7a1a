// Package types - Billing period for license prices
package types

import "strings"

// BillingPeriod is the unit a license cost is quoted in. The declaration
// order is the ascending period order used when searching for the closest
// billing period of a contractual term.
type BillingPeriod int

const (
	Hourly BillingPeriod = iota
	Monthly
	Yearly
)

// BillingPeriods lists all periods in ascending order.
var BillingPeriods = []BillingPeriod{Hourly, Monthly, Yearly}

// String returns the string representation
func (b BillingPeriod) String() string {
	switch b {
	case Hourly:
		return "hourly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		return "unknown"
	}
}

// ParseBillingPeriod resolves a billing period token such as "hourly" or
// "YEARLY". The second return value reports whether the token was recognized.
func ParseBillingPeriod(s string) (BillingPeriod, bool) {
	switch strings.ToLower(s) {
	case "hourly":
		return Hourly, true
	case "monthly":
		return Monthly, true
	case "yearly":
		return Yearly, true
	default:
		return Hourly, false
	}
}

// MarshalText implements encoding.TextMarshaler for JSON config files.
func (b BillingPeriod) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for JSON config files.
func (b *BillingPeriod) UnmarshalText(text []byte) error {
	p, _ := ParseBillingPeriod(string(text))
	*b = p
	return nil
}
