// Package terms loads the contractual term definitions and derives the
// billing-period conversion factors used by the pricing algebra.
package terms

import (
	_ "embed"
	"encoding/json"
	"strings"

	"outscale-cost/core/types"
	"outscale-cost/db"
	"outscale-cost/internal/errors"
)

//go:embed data/terms.json
var rawTerms []byte

// Term is a contractual term: on-demand or a reservation with a commitment
// period and a discounted rate.
type Term struct {
	// Name is the display name, also the key in the definition file.
	Name string `json:"-"`

	// BillingPeriod is the period this term is naturally quoted in.
	BillingPeriod types.BillingPeriod `json:"billingPeriod"`

	// Period is the commitment length in months, 0 for on-demand.
	Period int `json:"period"`

	// Rate is the cost multiplier, 1 minus the discount.
	Rate float64 `json:"rate"`

	// Converters express a cost quoted per billing period as a cost over this
	// term's period. The hourly factor always exists; monthly only when the
	// period reaches one month, yearly only when it reaches a year.
	Converters map[types.BillingPeriod]float64 `json:"-"`

	// Entity is the persisted term, resolved at the start of a run.
	Entity *db.PriceTerm `json:"-"`
}

// Code returns the canonical term code: the lowercased name without spaces.
func (t *Term) Code() string {
	return strings.ReplaceAll(strings.ToLower(t.Name), " ", "")
}

// Reservation reports whether this term is a reserved-capacity commitment.
func (t *Term) Reservation() bool {
	return strings.HasPrefix(t.Code(), "ri")
}

// Convert expresses a cost quoted in the given billing period as a cost over
// this term's period. The second return value is false when this term has no
// conversion for that period.
func (t *Term) Convert(cost float64, period types.BillingPeriod) (float64, bool) {
	factor, ok := t.Converters[period]
	if !ok {
		return 0, false
	}
	return cost * factor, true
}

// Load parses the embedded term definitions and derives their converters for
// the given hours-per-month factor.
func Load(hoursPerMonth float64) (map[string]*Term, error) {
	var defs map[string]*Term
	if err := json.Unmarshal(rawTerms, &defs); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "invalid term definitions", err)
	}

	for name, term := range defs {
		term.Name = name
		months := float64(term.Period)
		if months < 1 {
			months = 1
		}
		term.Converters = map[types.BillingPeriod]float64{
			types.Hourly: months * hoursPerMonth,
		}
		if term.Period >= 1 {
			term.Converters[types.Monthly] = months
		}
		if term.Period >= 12 {
			term.Converters[types.Yearly] = months / 12
		}
	}
	return defs, nil
}
