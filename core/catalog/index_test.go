package catalog

import (
	"strings"
	"testing"

	"outscale-cost/core/types"
)

func buildTestIndex(t *testing.T, rows ...string) *Index {
	t.Helper()
	dec, err := NewDecoder(strings.NewReader(sheet(rows...)), testRegions)
	if err != nil {
		t.Fatalf("unexpected decoder error: %v", err)
	}
	idx, err := BuildIndex(dec)
	if err != nil {
		t.Fatalf("unexpected index error: %v", err)
	}
	return idx
}

func TestLicensesExcludeDesktopFamily(t *testing.T) {
	idx := buildTestIndex(t,
		"c_fcu_license_windows,Licences,Licenses,Windows Server license,c_fcu_license_windows,0.01,,,,,,",
		"c_fcu_license_windows10,Licences,Windows 10,Windows 10 license,c_fcu_license_windows10,0.02,,,,,,",
	)

	licenses := idx.Licenses()
	if len(licenses) != 1 {
		t.Fatalf("expected 1 license, got %d", len(licenses))
	}
	if licenses[0].Code != "c_fcu_license_windows" {
		t.Fatalf("unexpected license: %s", licenses[0].Code)
	}
}

func TestFoldBillingPeriodsClosure(t *testing.T) {
	idx := buildTestIndex(t,
		"c_fcu_license_windows,Licences,Licenses,Windows Server license,c_fcu_license_windows,0.01,,,,,,",
		"c_fcu_license_windows_monthly,Licences,Licenses,Windows Server license,c_fcu_license_windows_monthly,6.0,,,,,,",
		"c_fcu_license_windows_yearly,Licences,Licenses,Windows Server license,c_fcu_license_windows_yearly,60.0,,,,,,",
		"c_fcu_license_oracle,Licences,Licenses,Oracle Linux license,c_fcu_license_oracle,0.02,,,,,,",
	)
	idx.FoldBillingPeriods()

	licenses := idx.Licenses()
	if len(licenses) != 2 {
		t.Fatalf("expected 2 addressable licenses after folding, got %d", len(licenses))
	}

	for _, row := range licenses {
		var want int
		switch row.OS {
		case types.OSWindows:
			want = 3
		case types.OSOracle:
			want = 1
		default:
			t.Fatalf("unexpected license OS: %s", row.OS)
		}
		if len(row.Siblings) != want {
			t.Fatalf("%s: expected %d siblings, got %d", row.OS, want, len(row.Siblings))
		}

		seen := make(map[types.BillingPeriod]bool)
		for _, s := range row.Siblings {
			if seen[s.BillingPeriod] {
				t.Fatalf("%s: duplicate billing period %s in sibling set", row.OS, s.BillingPeriod)
			}
			seen[s.BillingPeriod] = true
		}
	}
}

func TestFoldBillingPeriodsKeepsSoftwareApart(t *testing.T) {
	idx := buildTestIndex(t,
		"c_fcu_license_windows,Licences,Licenses,Windows Server license,c_fcu_license_windows,0.01,,,,,,",
		"c_fcu_license_sqlserver_std_2cores_monthly,Licences,Licenses,Microsoft SQL Server Std Edition 4 cores min,c_fcu_license_sqlserver_std_2cores_monthly,30.0,,,,,,",
	)
	idx.FoldBillingPeriods()

	licenses := idx.Licenses()
	if len(licenses) != 2 {
		t.Fatalf("a software license must not fold into the plain OS license, got %d rows", len(licenses))
	}
	for _, row := range licenses {
		if len(row.Siblings) != 1 {
			t.Fatalf("%s: expected a self-only sibling set, got %d", row.Code, len(row.Siblings))
		}
	}
}

func TestRowLookup(t *testing.T) {
	idx := buildTestIndex(t,
		"c_fcu_ram,FCU,Virtual machines,RAM per GiB,c_fcu_ram,0.002,,,,,,",
	)
	if idx.Row(ServiceCompute, FamilyVirtualMachines, "c_fcu_ram") == nil {
		t.Fatal("expected the RAM row to be addressable")
	}
	if idx.Row(ServiceCompute, FamilyVirtualMachines, "missing") != nil {
		t.Fatal("unexpected row for a missing code")
	}
	if idx.Rows("BSU", "Bloc storage") != nil {
		t.Fatal("unexpected rows for an absent service")
	}
}
