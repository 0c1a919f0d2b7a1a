package terms

import (
	"testing"

	"outscale-cost/core/types"
)

func TestLoadDerivesConverters(t *testing.T) {
	defs, err := Load(720)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	tests := []struct {
		name    string
		period  types.BillingPeriod
		want    float64
		present bool
	}{
		{"OnDemand", types.Hourly, 720, true},
		{"OnDemand", types.Monthly, 0, false},
		{"OnDemand", types.Yearly, 0, false},
		{"RI-1m", types.Hourly, 720, true},
		{"RI-1m", types.Monthly, 1, true},
		{"RI-1m", types.Yearly, 0, false},
		{"RI-1y", types.Hourly, 8640, true},
		{"RI-1y", types.Monthly, 12, true},
		{"RI-1y", types.Yearly, 1, true},
		{"RI-3y", types.Yearly, 3, true},
	}
	for _, tt := range tests {
		term, ok := defs[tt.name]
		if !ok {
			t.Fatalf("missing term %s", tt.name)
		}
		factor, ok := term.Converters[tt.period]
		if ok != tt.present {
			t.Errorf("%s/%s: converter presence = %t, want %t", tt.name, tt.period, ok, tt.present)
			continue
		}
		if ok && factor != tt.want {
			t.Errorf("%s/%s: converter = %v, want %v", tt.name, tt.period, factor, tt.want)
		}
	}
}

func TestTermCodes(t *testing.T) {
	defs, err := Load(730)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	tests := []struct {
		name        string
		code        string
		reservation bool
	}{
		{"OnDemand", "ondemand", false},
		{"RI-1m", "ri-1m", true},
		{"RI-1y", "ri-1y", true},
		{"RI-3y", "ri-3y", true},
	}
	for _, tt := range tests {
		term := defs[tt.name]
		if term == nil {
			t.Fatalf("missing term %s", tt.name)
		}
		if term.Code() != tt.code {
			t.Errorf("%s: code = %q, want %q", tt.name, term.Code(), tt.code)
		}
		if term.Reservation() != tt.reservation {
			t.Errorf("%s: reservation = %t, want %t", tt.name, term.Reservation(), tt.reservation)
		}
	}
}

func TestConvert(t *testing.T) {
	defs, err := Load(720)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	ri1m := defs["RI-1m"]
	if cost, ok := ri1m.Convert(6.0, types.Monthly); !ok || cost != 6.0 {
		t.Fatalf("RI-1m monthly conversion = %v/%t, want 6.0/true", cost, ok)
	}
	if cost, ok := ri1m.Convert(0.01, types.Hourly); !ok || cost != 7.2 {
		t.Fatalf("RI-1m hourly conversion = %v/%t, want 7.2/true", cost, ok)
	}
	if _, ok := ri1m.Convert(60.0, types.Yearly); ok {
		t.Fatal("RI-1m must not convert yearly quotes")
	}
}
