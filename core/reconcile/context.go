// Package reconcile implements the pricing reconciliation engine: it walks
// the decoded catalog per enabled region and contractual term, composes
// monthly costs and upserts the priced entities against the previous state.
package reconcile

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"outscale-cost/core/catalog"
	"outscale-cost/core/terms"
	"outscale-cost/db"
)

// Context is the state bag of one import run, passed explicitly through
// every reconciliation call. It owns the previous-state maps; all lookups
// and creations are sequential, so a code is never created twice.
type Context struct {
	// HoursPerMonth converts hourly rates to monthly costs.
	HoursPerMonth float64

	// Force rewrites cost fields even when unchanged.
	Force bool

	validRegion *regexp.Regexp
	validType   *regexp.Regexp
	validOS     *regexp.Regexp

	// Previous state, keyed by code (regions by name).
	Regions        map[string]*db.Region
	InstanceTypes  map[string]*db.InstanceType
	PriceTerms     map[string]*db.PriceTerm
	InstancePrices map[string]*db.InstancePrice
	StorageTypes   map[string]*db.StorageType
	StoragePrices  map[string]*db.StoragePrice
	SupportTypes   map[string]*db.SupportType
	SupportPrices  map[string]*db.SupportPrice

	// Terms keyed by definition name.
	Terms map[string]*terms.Term

	// Catalog is the in-memory price index of this run.
	Catalog *catalog.Index

	// RAMCost is the per-GiB RAM unit cost row, DedicatedRate the
	// dedicated-tenancy surcharge row.
	RAMCost       *catalog.PriceRow
	DedicatedRate *catalog.PriceRow

	// regionNames maps a region identifier to its display name.
	regionNames map[string]string

	// Result aggregates the run counters.
	Result Result
}

// Result summarizes an import run.
type Result struct {
	// PricesProcessed counts every price combination the engine evaluated.
	PricesProcessed int `json:"prices_processed"`

	// PricesSaved counts prices actually written to the store.
	PricesSaved int `json:"prices_saved"`

	// TypesCreated counts newly created instance and storage types.
	TypesCreated int `json:"types_created"`
}

func (c *Context) enabledRegion(id string) bool {
	return c.validRegion.MatchString(id)
}

func (c *Context) enabledType(code string) bool {
	return c.validType.MatchString(code)
}

func (c *Context) enabledOS(os string) bool {
	return c.validOS.MatchString(os)
}

// instanceType returns the previously known type for the code, or inserts a
// fresh one. The second return value reports a creation.
func (c *Context) instanceType(code string) (*db.InstanceType, bool) {
	if t, ok := c.InstanceTypes[code]; ok {
		return t, false
	}
	t := &db.InstanceType{ID: uuid.New(), Code: code}
	c.InstanceTypes[code] = t
	return t, true
}

func (c *Context) priceTerm(code string) (*db.PriceTerm, bool) {
	if t, ok := c.PriceTerms[code]; ok {
		return t, false
	}
	t := &db.PriceTerm{ID: uuid.New(), Code: code}
	c.PriceTerms[code] = t
	return t, true
}

func (c *Context) instancePrice(code string) (*db.InstancePrice, bool) {
	if p, ok := c.InstancePrices[code]; ok {
		return p, false
	}
	p := &db.InstancePrice{ID: uuid.New(), Code: code}
	c.InstancePrices[code] = p
	return p, true
}

func (c *Context) storageType(code string) (*db.StorageType, bool) {
	if t, ok := c.StorageTypes[code]; ok {
		return t, false
	}
	t := &db.StorageType{ID: uuid.New(), Code: code}
	c.StorageTypes[code] = t
	return t, true
}

func (c *Context) storagePrice(code string) (*db.StoragePrice, bool) {
	if p, ok := c.StoragePrices[code]; ok {
		return p, false
	}
	p := &db.StoragePrice{ID: uuid.New(), Code: code}
	c.StoragePrices[code] = p
	return p, true
}

func (c *Context) supportType(code string) (*db.SupportType, bool) {
	if t, ok := c.SupportTypes[code]; ok {
		return t, false
	}
	t := &db.SupportType{ID: uuid.New(), Code: code, Name: code}
	c.SupportTypes[code] = t
	return t, true
}

func (c *Context) supportPrice(code string) (*db.SupportPrice, bool) {
	if p, ok := c.SupportPrices[code]; ok {
		return p, false
	}
	p := &db.SupportPrice{ID: uuid.New(), Code: code}
	c.SupportPrices[code] = p
	return p, true
}

// round3 rounds a monetary value to 3 decimals so float noise never triggers
// a spurious cost update.
func round3(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(3).Float64()
	return f
}
