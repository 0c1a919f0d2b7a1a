package reconcile

import (
	"context"
	"strings"

	"outscale-cost/core/catalog"
	"outscale-cost/core/types"
	"outscale-cost/db"
	"outscale-cost/internal/errors"
)

// Product families of the storage services in the sheet.
const (
	familyBlockStorage  = "Bloc storage"
	familyObjectStorage = "Object storage"
)

// storageSpec customizes one fixed storage type over the common defaults.
type storageSpec struct {
	name         string
	latency      types.Rating
	optimized    types.StorageOptimized
	iops         int
	throughput   int
	durability9  int
	minimal      float64
	unboundSize  bool
	instanceType string
}

// storageSpecs are the storage offers. Volume bounds and replication specs
// come from the vendor documentation, not the price sheet.
var storageSpecs = []struct {
	code string
	spec storageSpec
}{
	{"bsu-standard", storageSpec{
		name: "Magnetic", latency: types.RatingGood,
		iops: 400, throughput: 40, minimal: 1, instanceType: "%",
	}},
	{"bsu-gp2", storageSpec{
		name: "Performance", latency: types.RatingBest,
		optimized: types.OptimizedIOPS, iops: 10000, throughput: 160,
		minimal: 1, instanceType: "%",
	}},
	{"bsu-io1", storageSpec{
		name: "Enterprise", latency: types.RatingBest,
		optimized: types.OptimizedIOPS, iops: 10000, throughput: 200,
		minimal: 4, instanceType: "%",
	}},
	{"bsu-snapshot", storageSpec{
		name: "Snapshot", latency: types.RatingLow,
		optimized: types.OptimizedDurability, durability9: 11,
		unboundSize: true,
	}},
	{"osu-enterprise", storageSpec{
		name: "OSU Enterprise", latency: types.RatingMedium,
		optimized: types.OptimizedDurability, durability9: 11,
		unboundSize: true,
	}},
	{"osu-premium", storageSpec{
		name: "OSU Premium", latency: types.RatingMedium,
		optimized: types.OptimizedDurability, durability9: 11,
		unboundSize: true,
	}},
}

// maximalVolumeGiB is the block volume size limit.
const maximalVolumeGiB = 14901.0

// installStorage installs the fixed storage types, then prices them from the
// block and object storage rows of the sheet.
func (e *Engine) installStorage(ctx context.Context, uc *Context) error {
	for _, s := range storageSpecs {
		if err := e.installStorageType(ctx, uc, s.code, s.spec); err != nil {
			return err
		}
	}

	if err := e.installStoragePrices(ctx, uc, catalog.ServiceBlock, familyBlockStorage); err != nil {
		return err
	}
	return e.installStoragePrices(ctx, uc, catalog.ServiceObject, familyObjectStorage)
}

// installStorageType merges a fixed storage type into the previous state.
func (e *Engine) installStorageType(ctx context.Context, uc *Context, code string, spec storageSpec) error {
	typ, created := uc.storageType(code)
	typ.Name = spec.name
	typ.Latency = spec.latency
	typ.Optimized = spec.optimized
	typ.IOPS = spec.iops
	typ.Throughput = spec.throughput
	typ.Durability9 = spec.durability9
	typ.Minimal = spec.minimal
	typ.Availability = 99
	typ.InstanceType = spec.instanceType
	typ.Increment = nil
	if spec.unboundSize {
		typ.Maximal = nil
	} else {
		max := maximalVolumeGiB
		typ.Maximal = &max
	}

	if created || uc.Force {
		if err := e.store.SaveStorageType(ctx, typ); err != nil {
			return errors.Store("saving storage type", err)
		}
		if created {
			uc.Result.TypesCreated++
		}
	}
	return nil
}

// installStoragePrices prices all rows of one storage service across the
// enabled regions. Rows whose SKU fragment matches no installed type are
// skipped.
func (e *Engine) installStoragePrices(ctx context.Context, uc *Context, service, family string) error {
	for _, row := range uc.Catalog.Rows(service, family) {
		typ := uc.resolveStorageType(service, row.Code)
		if typ == nil {
			continue
		}
		for region, cost := range row.Regions {
			if !uc.enabledRegion(region) {
				continue
			}
			if err := e.upsertStoragePrice(ctx, uc, region, typ, cost); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveStorageType maps a SKU code to an installed storage type through
// its trailing underscore fragment: the bare fragment, then prefixed by the
// service, then with the "std" abbreviation expanded.
func (uc *Context) resolveStorageType(service, code string) *db.StorageType {
	parts := strings.Split(code, "_")
	last := parts[len(parts)-1]
	svc := strings.ToLower(service)
	for _, candidate := range []string{
		last,
		svc + "-" + last,
		svc + "-" + strings.ReplaceAll(last, "std", "standard"),
	} {
		if typ, ok := uc.StorageTypes[candidate]; ok {
			return typ
		}
	}
	return nil
}

// upsertStoragePrice writes one (region, type) storage price, saving only
// when the rounded cost changed.
func (e *Engine) upsertStoragePrice(ctx context.Context, uc *Context, region string, typ *db.StorageType, cost float64) error {
	location, err := e.installRegion(ctx, uc, region)
	if err != nil {
		return err
	}

	code := region + "/" + typ.Code
	price, created := uc.storagePrice(code)
	price.Region = location.Name
	price.Type = typ.Code

	uc.Result.PricesProcessed++
	newCost := round3(cost)
	if created || uc.Force || price.CostGB != newCost {
		price.CostGB = newCost
		if err := e.store.SaveStoragePrice(ctx, price); err != nil {
			return errors.Store("saving storage price", err)
		}
		uc.Result.PricesSaved++
	}
	return nil
}
