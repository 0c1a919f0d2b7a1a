package reconcile

import (
	"context"
	"strings"

	"outscale-cost/core/catalog"
	"outscale-cost/core/terms"
	"outscale-cost/core/types"
	"outscale-cost/db"
	"outscale-cost/internal/errors"
)

// Reference codes of the context-wide compute cost rows.
const (
	codeRAMCost       = "c_fcu_ram"
	codeDedicatedRate = "c_fcu_dedicated_vm_extra_hourly"
)

// installInstances reconciles every enabled compute row against the previous
// state: baseline prices, OS license surcharges and software surcharges, for
// shared and dedicated tenancy, across every term.
func (e *Engine) installInstances(ctx context.Context, uc *Context) error {
	uc.RAMCost = uc.Catalog.Row(catalog.ServiceCompute, catalog.FamilyVirtualMachines, codeRAMCost)
	if uc.RAMCost == nil {
		uc.RAMCost = &catalog.PriceRow{Regions: map[string]float64{}}
	}
	uc.DedicatedRate = uc.Catalog.Row(catalog.ServiceCompute, catalog.FamilyVirtualMachines, codeDedicatedRate)
	if uc.DedicatedRate == nil {
		uc.DedicatedRate = &catalog.PriceRow{Regions: map[string]float64{}}
	}

	// Resolve license attributes and fold the billing-period variants.
	uc.Catalog.FoldBillingPeriods()

	for _, row := range uc.Catalog.Rows(catalog.ServiceCompute, catalog.FamilyVirtualMachines) {
		for region, cost := range row.Regions {
			if !uc.enabledRegion(region) {
				continue
			}
			if err := e.installInstancePrices(ctx, uc, row, region, cost); err != nil {
				return err
			}
		}
	}
	return nil
}

// installInstancePrices prices one compute row in one region, across terms.
func (e *Engine) installInstancePrices(ctx context.Context, uc *Context, row *catalog.PriceRow, region string, cpuCost float64) error {
	typ, err := e.resolveInstanceType(ctx, uc, row)
	if err != nil || typ == nil {
		// Not a priced compute SKU, or disabled by filter.
		return err
	}

	ramUnit := uc.RAMCost.Regions[region]
	dedicatedRate := uc.DedicatedRate.Regions[region] + 1

	for _, term := range uc.Terms {
		if err := e.installTermPrices(ctx, uc, row, region, cpuCost, term, ramUnit, dedicatedRate, typ); err != nil {
			return err
		}
	}
	return nil
}

// installTermPrices applies the cost algebra of one term: scale the raw
// hourly costs to the term's period, derive the dedicated variant, then add
// the OS and software license surcharges.
func (e *Engine) installTermPrices(ctx context.Context, uc *Context, row *catalog.PriceRow, region string, cpuCost float64, term *terms.Term, ramUnit, dedicatedRate float64, typ *db.InstanceType) error {
	termRate := uc.HoursPerMonth * term.Rate
	tCPU := cpuCost * termRate
	tRAM := ramUnit * termRate
	dCPU := tCPU * dedicatedRate
	dRAM := tRAM * dedicatedRate

	// Baseline price, no license.
	if uc.enabledOS(string(row.OS)) {
		if err := e.upsertInstancePrice(ctx, uc, region, term, typ, 0, tCPU, tRAM, types.TenancyShared, row); err != nil {
			return err
		}
		if err := e.upsertInstancePrice(ctx, uc, region, term, typ, 0, dCPU, dRAM, types.TenancyDedicated, row); err != nil {
			return err
		}
	}

	for _, os := range licenseOSes(uc) {
		if !uc.enabledOS(string(os)) {
			continue
		}
		osRow := closestBilling(uc, func(r *catalog.PriceRow) bool { return r.Software == "" }, os, region, term)
		if osRow == nil {
			continue
		}
		osCost, ok := licenseCost(osRow, region, term)
		if !ok {
			continue
		}

		// A license is either flat per VM or per core group, never both.
		var osVM, osCPU float64
		if osRow.IncrementCPU == nil {
			osVM = osCost
		} else {
			osCPU = osCost / *osRow.IncrementCPU
		}

		if err := e.upsertInstancePrice(ctx, uc, region, term, typ, osVM, tCPU+osCPU, tRAM, types.TenancyShared, osRow); err != nil {
			return err
		}
		if err := e.upsertInstancePrice(ctx, uc, region, term, typ, osVM, dCPU+osCPU, dRAM, types.TenancyDedicated, osRow); err != nil {
			return err
		}

		for _, software := range softwareOf(uc, os) {
			sRow := closestBilling(uc, func(r *catalog.PriceRow) bool { return r.Software == software }, os, region, term)
			if sRow == nil || sRow.IncrementCPU == nil {
				// Software is licensed per core group only.
				continue
			}
			sCost, ok := licenseCost(sRow, region, term)
			if !ok {
				continue
			}
			sCPU := sCost / *sRow.IncrementCPU

			if err := e.upsertInstancePrice(ctx, uc, region, term, typ, osVM, tCPU+osCPU+sCPU, tRAM, types.TenancyShared, sRow); err != nil {
				return err
			}
			if err := e.upsertInstancePrice(ctx, uc, region, term, typ, osVM, dCPU+osCPU+sCPU, dRAM, types.TenancyDedicated, sRow); err != nil {
				return err
			}
		}
	}
	return nil
}

// licenseOSes returns the distinct operating systems among plain OS licenses.
func licenseOSes(uc *Context) []types.OS {
	seen := make(map[types.OS]bool)
	var out []types.OS
	for _, row := range uc.Catalog.Licenses() {
		if row.Software != "" || seen[row.OS] {
			continue
		}
		seen[row.OS] = true
		out = append(out, row.OS)
	}
	return out
}

// softwareOf returns the distinct software labels licensed for an OS.
func softwareOf(uc *Context, os types.OS) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range uc.Catalog.Licenses() {
		if row.OS != os || row.Software == "" || seen[row.Software] {
			continue
		}
		seen[row.Software] = true
		out = append(out, row.Software)
	}
	return out
}

// closestBilling returns the license sibling priced in this region whose
// billing period is the first at or above the term's own period, in
// ascending order, and convertible into the term's period.
func closestBilling(uc *Context, filter func(*catalog.PriceRow) bool, os types.OS, region string, term *terms.Term) *catalog.PriceRow {
	var siblings []*catalog.PriceRow
	for _, row := range uc.Catalog.Licenses() {
		if row.OS != os || !filter(row) {
			continue
		}
		siblings = append(siblings, row.Siblings...)
	}

	for _, period := range types.BillingPeriods {
		if period < term.BillingPeriod {
			continue
		}
		if _, ok := term.Converters[period]; !ok {
			continue
		}
		for _, s := range siblings {
			if s.BillingPeriod != period {
				continue
			}
			if _, ok := s.Regions[region]; ok {
				return s
			}
		}
	}
	return nil
}

// licenseCost converts a license row's regional cost into the term's period.
func licenseCost(row *catalog.PriceRow, region string, term *terms.Term) (float64, bool) {
	cost, ok := row.Regions[region]
	if !ok {
		return 0, false
	}
	return term.Convert(cost, row.BillingPeriod)
}

// upsertInstancePrice builds the deterministic composite code, merges the
// structural fields unconditionally and writes the cost fields only when the
// per-CPU cost actually changed.
func (e *Engine) upsertInstancePrice(ctx context.Context, uc *Context, region string, term *terms.Term, typ *db.InstanceType, vmCost, cpuCost, ramCost float64, tenancy types.Tenancy, row *catalog.PriceRow) error {
	parts := []string{region, term.Entity.Code, string(row.OS), typ.Code}
	if tenancy != types.TenancyShared {
		parts = append(parts, string(tenancy))
	}
	if row.Software != "" {
		parts = append(parts, row.Software)
	}
	code := strings.ToLower(strings.Join(parts, "/"))

	location, err := e.installRegion(ctx, uc, region)
	if err != nil {
		return err
	}

	price, created := uc.instancePrice(code)
	price.Region = location.Name
	price.OS = row.OS
	price.Term = term.Entity.Code
	price.Tenancy = tenancy
	price.Type = typ.Code
	price.Software = row.Software
	price.MinCPU = float64(row.MinCPU)
	price.Period = term.Period
	if row.IncrementCPU != nil {
		price.IncrementCPU = *row.IncrementCPU
	} else {
		price.IncrementCPU = 1
	}

	uc.Result.PricesProcessed++
	newCPU := round3(cpuCost)
	if created || uc.Force || price.CostCPU != newCPU {
		price.CostCPU = newCPU
		price.CostRAM = round3(ramCost)
		price.Cost = round3(vmCost)
		months := float64(term.Period)
		if months < 1 {
			months = 1
		}
		price.CostPeriod = round3(vmCost * months)
		if err := e.store.SaveInstancePrice(ctx, price); err != nil {
			return errors.Store("saving instance price", err)
		}
		uc.Result.PricesSaved++
	}
	return nil
}
