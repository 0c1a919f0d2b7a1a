package catalog

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"outscale-cost/core/types"
	"outscale-cost/internal/errors"
)

// headerMarker identifies the real header row: everything before it is sheet
// decoration and skipped.
const headerMarker = "SKU"

// minColumns is the validity threshold: a row with fewer cells is dropped.
const minColumns = 10

// Semantic fields a header cell can map to. Unrecognized headers map to
// fieldDrop and their values are discarded.
type field int

const (
	fieldDrop field = iota
	fieldSKU
	fieldService
	fieldFamily
	fieldName
	fieldCode
	fieldRegion
)

// headerFields maps known header tokens to semantic fields. Region columns
// are resolved separately against the known region identifiers.
var headerFields = map[string]field{
	"SKU":                             fieldSKU,
	"Service":                         fieldService,
	"Type":                            fieldFamily,
	"Name":                            fieldName,
	"Description":                     fieldName,
	"Excel named range for reference": fieldCode,
}

// column binds a CSV position to a semantic field; region holds the region
// identifier for fieldRegion columns.
type column struct {
	field  field
	region string
}

// Decoder streams PriceRow values from a raw vendor sheet. It is lazy,
// finite and not restartable.
type Decoder struct {
	reader  *csv.Reader
	columns []column
}

// NewDecoder scans the stream until the header row and prepares the column
// mapping. regionIDs are the region identifiers whose columns carry prices.
// It fails when the stream ends before a header row is found.
func NewDecoder(r io.Reader, regionIDs []string) (*Decoder, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	regions := make(map[string]bool, len(regionIDs))
	for _, id := range regionIDs {
		regions[id] = true
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil, errors.Parsing("premature end of catalog, header row not found", nil)
		}
		if err != nil {
			return nil, errors.Parsing("unreadable catalog stream", err)
		}
		if len(record) == 0 || record[0] != headerMarker {
			continue
		}

		columns := make([]column, len(record))
		for i, cell := range record {
			cell = strings.TrimSpace(cell)
			if f, ok := headerFields[cell]; ok {
				columns[i] = column{field: f}
			} else if regions[cell] {
				columns[i] = column{field: fieldRegion, region: cell}
			}
		}
		return &Decoder{reader: reader, columns: columns}, nil
	}
}

// Read returns the next valid price row, or io.EOF at end of stream. Rows
// with too few cells are silently dropped.
func (d *Decoder) Read() (*PriceRow, error) {
	for {
		record, err := d.reader.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, errors.Parsing("unreadable catalog row", err)
		}
		if len(record) <= minColumns {
			continue
		}

		row := &PriceRow{Regions: make(map[string]float64)}
		for i, cell := range record {
			if i >= len(d.columns) {
				break
			}
			cell = strings.TrimSpace(cell)
			switch d.columns[i].field {
			case fieldSKU:
				row.SKU = cell
			case fieldService:
				row.Service = cell
			case fieldFamily:
				row.Family = cell
			case fieldName:
				row.Name = cell
			case fieldCode:
				row.Code = cell
			case fieldRegion:
				if cost, err := strconv.ParseFloat(cell, 64); err == nil {
					row.Regions[d.columns[i].region] = cost
				}
			}
		}

		// The reference code addresses the row; fall back to the SKU cell
		// when the sheet left it empty.
		if row.Code == "" {
			row.Code = row.SKU
		}

		// Rows are quoted unlicensed; annotation overrides this for the
		// license rows.
		row.OS = types.OSLinux
		return row, nil
	}
}
