package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"outscale-cost/core/types"
)

// Pattern rules extracting semantic attributes from the SKU code and the
// free-text description. Evaluated in a fixed order, all pure.
var (
	softwarePattern     = regexp.MustCompile(`.*(SQL Server.*)\s+Edition.*`)
	billingPattern      = regexp.MustCompile(`.*_([hmy][^_]+ly).*`)
	minCPUPattern       = regexp.MustCompile(`.*\s+([0-9]+)\s+c[^\s]+\s+min.*`)
	incrementCPUPattern = regexp.MustCompile(`.*_([0-9]+)cores.*`)
)

// LicenseOS derives the operating system of a license row from its code.
// Unmatched licenses default to Windows: the catalog only prices licensed
// systems here, and the unlabeled rows are the Windows ones.
func LicenseOS(code string) types.OS {
	if strings.Contains(code, "oracle") {
		return types.OSOracle
	}
	if strings.Contains(code, "rhel") {
		return types.OSRHEL
	}
	return types.OSWindows
}

// Software extracts the software product-edition phrase from the description,
// uppercased with known abbreviations expanded. Empty when the row is a plain
// OS license.
func Software(name string) string {
	m := softwarePattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(strings.ToUpper(m[1]), "STD", "STANDARD"))
}

// BillingPeriodOf extracts the billing period token from a code suffix such
// as "_monthly". Hourly when absent, the shortest period.
func BillingPeriodOf(code string) types.BillingPeriod {
	m := billingPattern.FindStringSubmatch(code)
	if m == nil {
		return types.Hourly
	}
	p, _ := types.ParseBillingPeriod(m[1])
	return p
}

// MinCPU extracts the minimal vCPU count from a "<N> cores min" phrase in the
// description, 0 when absent.
func MinCPU(name string) int {
	m := minCPUPattern.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// IncrementCPU extracts the per-core pricing divisor from a "_<N>cores" code
// suffix. Nil when the price is a flat per-VM price.
func IncrementCPU(code string) *float64 {
	m := incrementCPUPattern.FindStringSubmatch(code)
	if m == nil {
		return nil
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &n
}

// Annotate resolves all inferred attributes of a license row in place and
// resets its sibling list. Idempotent: re-running it yields the same result.
func Annotate(row *PriceRow) {
	row.OS = LicenseOS(row.Code)
	row.Software = Software(row.Name)
	row.BillingPeriod = BillingPeriodOf(row.Code)
	row.MinCPU = MinCPU(row.Name)
	row.IncrementCPU = IncrementCPU(row.Code)
	row.Siblings = nil
}
