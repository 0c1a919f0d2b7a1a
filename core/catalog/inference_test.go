package catalog

import (
	"testing"

	"outscale-cost/core/types"
)

func TestLicenseOS(t *testing.T) {
	tests := []struct {
		code string
		want types.OS
	}{
		{"c_fcu_license_oracle_linux", types.OSOracle},
		{"c_fcu_license_rhel", types.OSRHEL},
		{"c_fcu_license_windows", types.OSWindows},
		{"c_fcu_license_sqlserver_std_2cores", types.OSWindows},
	}
	for _, tt := range tests {
		if got := LicenseOS(tt.code); got != tt.want {
			t.Errorf("LicenseOS(%q) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestSoftware(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Microsoft SQL Server Std Edition license", "SQL SERVER STANDARD"},
		{"Microsoft SQL Server Enterprise Edition license", "SQL SERVER ENTERPRISE"},
		{"Windows Server license", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Software(tt.name); got != tt.want {
			t.Errorf("Software(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestBillingPeriodOf(t *testing.T) {
	tests := []struct {
		code string
		want types.BillingPeriod
	}{
		{"c_fcu_license_windows_monthly", types.Monthly},
		{"c_fcu_license_windows_yearly", types.Yearly},
		{"c_fcu_license_windows_hourly", types.Hourly},
		{"c_fcu_license_windows", types.Hourly},
	}
	for _, tt := range tests {
		if got := BillingPeriodOf(tt.code); got != tt.want {
			t.Errorf("BillingPeriodOf(%q) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestMinCPU(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"SQL Server Std Edition 4 cores min", 4},
		{"SQL Server Std Edition", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := MinCPU(tt.name); got != tt.want {
			t.Errorf("MinCPU(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestIncrementCPU(t *testing.T) {
	if got := IncrementCPU("c_fcu_license_sqlserver_std_2cores_monthly"); got == nil || *got != 2 {
		t.Fatalf("expected increment 2, got %v", got)
	}
	if got := IncrementCPU("c_fcu_license_windows_monthly"); got != nil {
		t.Fatalf("expected nil increment for a flat license, got %v", *got)
	}
}

func TestAnnotateIsIdempotent(t *testing.T) {
	row := &PriceRow{
		Code: "c_fcu_license_sqlserver_std_2cores_monthly",
		Name: "Microsoft SQL Server Std Edition 4 cores min",
	}
	Annotate(row)
	first := *row
	Annotate(row)

	if row.OS != first.OS || row.Software != first.Software ||
		row.BillingPeriod != first.BillingPeriod || row.MinCPU != first.MinCPU {
		t.Fatal("annotation changed on a second run")
	}
	if row.OS != types.OSWindows || row.Software != "SQL SERVER STANDARD" {
		t.Fatalf("unexpected annotation: %s / %s", row.OS, row.Software)
	}
	if row.BillingPeriod != types.Monthly || row.MinCPU != 4 {
		t.Fatalf("unexpected annotation: %s / %d", row.BillingPeriod, row.MinCPU)
	}
}
