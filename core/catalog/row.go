// Package catalog decodes the vendor price sheet into typed price rows and
// derives the semantic attributes the sheet only carries as free text.
package catalog

import "outscale-cost/core/types"

// PriceRow is one decoded catalog row. Rows live for a single import run:
// decoded, annotated, folded, then read by the reconciliation engine.
type PriceRow struct {
	// Service is the vendor service (FCU, BSU, OSU, Licences, ...).
	Service string

	// Family is the product family within the service.
	Family string

	// Code is the reference code addressing this row. Folding clears it when
	// the row has been absorbed as a billing-period sibling.
	Code string

	// SKU is the raw SKU cell, kept for diagnostics.
	SKU string

	// Name is the human description.
	Name string

	// Regions maps a region identifier to the raw cost quoted there. A region
	// without a price is absent from the map.
	Regions map[string]float64

	// Attributes resolved by inference.
	OS            types.OS
	Software      string
	BillingPeriod types.BillingPeriod
	MinCPU        int

	// IncrementCPU is the per-core pricing divisor, nil for flat per-VM
	// prices.
	IncrementCPU *float64

	// Siblings lists the billing-period variants of this license, itself
	// included, one entry per distinct billing period.
	Siblings []*PriceRow
}

// Cost returns the raw cost quoted in the given region.
func (r *PriceRow) Cost(region string) (float64, bool) {
	c, ok := r.Regions[region]
	return c, ok
}
