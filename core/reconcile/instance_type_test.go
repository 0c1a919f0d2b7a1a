package reconcile

import (
	"context"
	"testing"

	"outscale-cost/core/types"
	"outscale-cost/db"
)

func newTestStore(t *testing.T) *db.MemoryStore {
	t.Helper()
	store := db.NewMemoryStore()
	runImport(t, store, testConfig(), buildSheet(fixtureRows...), false)
	return store
}

func instanceTypesByCode(t *testing.T, store db.Store) map[string]*db.InstanceType {
	t.Helper()
	instanceTypes, err := store.InstanceTypes(context.Background())
	if err != nil {
		t.Fatalf("loading instance types: %v", err)
	}
	byCode := make(map[string]*db.InstanceType, len(instanceTypes))
	for _, typ := range instanceTypes {
		byCode[typ.Code] = typ
	}
	return byCode
}

func TestTierRatingAtLatestGeneration(t *testing.T) {
	tests := []struct {
		tier string
		want types.Rating
	}{
		{"medium", types.RatingMedium},
		{"high", types.RatingGood},
		{"highest", types.RatingBest},
	}
	for _, tt := range tests {
		if got := tierRating(tt.tier, latestGeneration); got != tt.want {
			t.Errorf("tierRating(%q, %d) = %s, want %s", tt.tier, latestGeneration, got, tt.want)
		}
	}
}

func TestTierRatingClampsToFloor(t *testing.T) {
	tests := []struct {
		tier       string
		generation int
		want       types.Rating
	}{
		{"medium", 2, types.RatingWorst},
		{"medium", 4, types.RatingLow},
		{"high", 2, types.RatingLow},
		{"high", 4, types.RatingMedium},
		{"highest", 2, types.RatingMedium},
		{"highest", 3, types.RatingMedium},
		{"highest", 4, types.RatingGood},
	}
	for _, tt := range tests {
		if got := tierRating(tt.tier, tt.generation); got != tt.want {
			t.Errorf("tierRating(%q, %d) = %s, want %s", tt.tier, tt.generation, got, tt.want)
		}
	}
}

func TestTierRatingMonotonicOverGenerations(t *testing.T) {
	for _, tier := range []string{"medium", "high", "highest"} {
		previous := types.RatingWorst
		for generation := 2; generation <= latestGeneration; generation++ {
			r := tierRating(tier, generation)
			if r < previous {
				t.Errorf("%s: rating regressed from %s to %s at generation %d",
					tier, previous, r, generation)
			}
			previous = r
		}
	}
}

func TestResolveInstanceTypeAttributes(t *testing.T) {
	store := newTestStore(t)
	prices := instanceTypesByCode(t, store)

	typ := prices["tinav5.cxry.high"]
	if typ == nil {
		t.Fatal("missing resolved type")
	}
	if typ.Name != "tinav5.cXrY.high" {
		t.Errorf("name = %q", typ.Name)
	}
	if typ.Processor != "Intel Xeon Skylake" {
		t.Errorf("processor = %q", typ.Processor)
	}
	if typ.Baseline != 100 {
		t.Errorf("baseline = %v, want 100 for a non-medium tier", typ.Baseline)
	}
	if !typ.AutoScale {
		t.Error("per-core types must auto-scale")
	}
	if typ.CPURate != types.RatingGood || typ.RAMRate != types.RatingGood {
		t.Errorf("cpu/ram rate = %s/%s, want good", typ.CPURate, typ.RAMRate)
	}
	if typ.NetworkRate != types.RatingMedium || typ.StorageRate != types.RatingMedium {
		t.Errorf("network/storage rate = %s/%s, want medium", typ.NetworkRate, typ.StorageRate)
	}
}
