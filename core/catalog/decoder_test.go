package catalog

import (
	"io"
	"strings"
	"testing"

	"outscale-cost/core/types"
	"outscale-cost/internal/errors"
)

var testRegions = []string{"eu-west-2", "us-west-1"}

// sheet builds a raw catalog stream: decoration rows, the header, then the
// given data rows.
func sheet(rows ...string) string {
	var b strings.Builder
	b.WriteString("Outscale Public Price List,,,,,,,,,,,\n")
	b.WriteString(",,,,,,,,,,,\n")
	b.WriteString("SKU,Service,Type,Name,Excel named range for reference,eu-west-2,us-west-1,A,B,C,D,E\n")
	for _, row := range rows {
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

func TestDecoderScansToHeader(t *testing.T) {
	dec, err := NewDecoder(strings.NewReader(sheet(
		"c_fcu_vcorev5_high,FCU,Virtual machines,Tina v5 High,c_fcu_vcorev5_high,0.05,0.04,,,,,",
	)), testRegions)
	if err != nil {
		t.Fatalf("unexpected decoder error: %v", err)
	}

	row, err := dec.Read()
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if row.Service != "FCU" || row.Family != "Virtual machines" {
		t.Fatalf("unexpected service/family: %s/%s", row.Service, row.Family)
	}
	if row.Code != "c_fcu_vcorev5_high" {
		t.Fatalf("unexpected code: %s", row.Code)
	}
	if cost := row.Regions["eu-west-2"]; cost != 0.05 {
		t.Fatalf("unexpected eu-west-2 cost: %v", cost)
	}
	if cost := row.Regions["us-west-1"]; cost != 0.04 {
		t.Fatalf("unexpected us-west-1 cost: %v", cost)
	}
	if row.OS != types.OSLinux {
		t.Fatalf("rows must decode unlicensed, got OS %s", row.OS)
	}

	if _, err := dec.Read(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestDecoderFailsWithoutHeader(t *testing.T) {
	_, err := NewDecoder(strings.NewReader("just,some,cells\nwithout,a,header\n"), testRegions)
	if err == nil {
		t.Fatal("expected an error for a stream without header row")
	}
	if !errors.IsType(err, errors.TypeParsing) {
		t.Fatalf("expected a parsing error, got %v", err)
	}
}

func TestDecoderSkipsShortRows(t *testing.T) {
	dec, err := NewDecoder(strings.NewReader(sheet(
		"short,row,only",
		"c_fcu_ram,FCU,Virtual machines,RAM per GiB,c_fcu_ram,0.002,,,,,,",
	)), testRegions)
	if err != nil {
		t.Fatalf("unexpected decoder error: %v", err)
	}

	row, err := dec.Read()
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if row.Code != "c_fcu_ram" {
		t.Fatalf("short row was not skipped, got code %s", row.Code)
	}
}

func TestDecoderEmptyRegionCellMeansNoPrice(t *testing.T) {
	dec, err := NewDecoder(strings.NewReader(sheet(
		"c_fcu_ram,FCU,Virtual machines,RAM per GiB,c_fcu_ram,0.002,,,,,,",
	)), testRegions)
	if err != nil {
		t.Fatalf("unexpected decoder error: %v", err)
	}

	row, err := dec.Read()
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if _, ok := row.Regions["us-west-1"]; ok {
		t.Fatal("empty cell must not produce a price")
	}
	if len(row.Regions) != 1 {
		t.Fatalf("expected a single priced region, got %d", len(row.Regions))
	}
}

func TestDecoderFallsBackToSKU(t *testing.T) {
	dec, err := NewDecoder(strings.NewReader(sheet(
		"c_fcu_vcorev5_high,FCU,Virtual machines,Tina v5 High,,0.05,,,,,,",
	)), testRegions)
	if err != nil {
		t.Fatalf("unexpected decoder error: %v", err)
	}

	row, err := dec.Read()
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if row.Code != "c_fcu_vcorev5_high" {
		t.Fatalf("expected SKU fallback, got code %q", row.Code)
	}
}
