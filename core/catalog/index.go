package catalog

import "io"

// Service and family names carrying special semantics in the sheet.
const (
	ServiceCompute  = "FCU"
	ServiceBlock    = "BSU"
	ServiceObject   = "OSU"
	ServiceLicenses = "Licences"

	FamilyVirtualMachines = "Virtual machines"

	// familyWindows10 is a desktop licensing family, not priced for servers.
	familyWindows10 = "Windows 10"
)

// Index is the nested catalog lookup: service, then product family, then the
// ordered rows as they appeared in the sheet. Built once per import and read
// only afterwards.
type Index struct {
	services map[string]map[string][]*PriceRow
}

// BuildIndex drains the decoder into an index.
func BuildIndex(dec *Decoder) (*Index, error) {
	idx := &Index{services: make(map[string]map[string][]*PriceRow)}
	for {
		row, err := dec.Read()
		if err == io.EOF {
			return idx, nil
		}
		if err != nil {
			return nil, err
		}
		families := idx.services[row.Service]
		if families == nil {
			families = make(map[string][]*PriceRow)
			idx.services[row.Service] = families
		}
		families[row.Family] = append(families[row.Family], row)
	}
}

// Rows returns the rows of a service and product family, nil when absent.
func (i *Index) Rows(service, family string) []*PriceRow {
	return i.services[service][family]
}

// Row returns the first row of a service and family with the given code.
func (i *Index) Row(service, family, code string) *PriceRow {
	for _, row := range i.Rows(service, family) {
		if row.Code == code {
			return row
		}
	}
	return nil
}

// Licenses returns the addressable license rows, all families of the license
// service except desktop licensing, skipping rows absorbed by folding.
func (i *Index) Licenses() []*PriceRow {
	var out []*PriceRow
	for family, rows := range i.services[ServiceLicenses] {
		if family == familyWindows10 {
			continue
		}
		for _, row := range rows {
			if row.Code != "" {
				out = append(out, row)
			}
		}
	}
	return out
}

// FoldBillingPeriods annotates every license row and folds the rows sharing
// an OS and software but quoted in different billing periods into a single
// addressable row. Absorbed rows get their code cleared so they are never
// processed as standalone prices again; the keeper's sibling list ends with
// exactly one entry per distinct billing period, itself included.
func (i *Index) FoldBillingPeriods() {
	for _, row := range i.Licenses() {
		Annotate(row)
	}
	for _, row := range i.Licenses() {
		if row.Code == "" {
			// Absorbed by an earlier iteration.
			continue
		}
		for _, other := range i.Licenses() {
			if other == row || other.OS != row.OS || other.Software != row.Software {
				continue
			}
			if other.BillingPeriod == row.BillingPeriod {
				continue
			}
			other.Code = ""
			row.Siblings = append(row.Siblings, other)
		}
		row.Siblings = append(row.Siblings, row)
	}
}
