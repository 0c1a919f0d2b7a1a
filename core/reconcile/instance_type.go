package reconcile

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"outscale-cost/core/catalog"
	"outscale-cost/core/types"
	"outscale-cost/db"
	"outscale-cost/internal/errors"
)

// tinaPattern extracts the generation and performance tier from a per-core
// compute SKU such as "c_fcu_vcorev5_high".
var tinaPattern = regexp.MustCompile(`c_fcu_vcorev([0-9]+)_([a-z]+)`)

// latestGeneration is the hardware generation the tier ratings are defined
// for. Older generations step the rating down once per generation behind.
const latestGeneration = 5

// tierSpec carries the tier's rating at the latest generation and the floor
// an old generation can never rate below.
type tierSpec struct {
	rating types.Rating
	floor  types.Rating
}

var tierSpecs = map[string]tierSpec{
	"medium":  {types.RatingMedium, types.RatingWorst},
	"high":    {types.RatingGood, types.RatingLow},
	"highest": {types.RatingBest, types.RatingMedium},
}

// processors maps a hardware generation to its processor marketing name.
var processors = map[int]string{
	2: "Intel Xeon Skylake",
	3: "Intel Xeon Haswell",
	4: "Intel Xeon Broadwell",
	5: "Intel Xeon Skylake",
}

// resolveInstanceType resolves and persists the instance type of a compute
// row. A nil type without error means the row is not a per-core compute SKU,
// or the type is disabled by configuration.
func (e *Engine) resolveInstanceType(ctx context.Context, uc *Context, row *catalog.PriceRow) (*db.InstanceType, error) {
	m := tinaPattern.FindStringSubmatch(row.Code)
	if m == nil {
		return nil, nil
	}
	generation, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, nil
	}
	tier := m[2]

	name := fmt.Sprintf("tinav%d.cXrY.%s", generation, tier)
	code := strings.ToLower(name)
	if !uc.enabledType(code) {
		return nil, nil
	}

	typ, created := uc.instanceType(code)
	typ.Name = name
	typ.Processor = processors[generation]
	typ.AutoScale = true
	if tier == "medium" {
		typ.Baseline = 20
	} else {
		typ.Baseline = 100
	}
	typ.CPURate = tierRating(tier, generation)
	typ.RAMRate = typ.CPURate
	typ.NetworkRate = types.RatingMedium
	typ.StorageRate = types.RatingMedium

	if created || uc.Force {
		if err := e.store.SaveInstanceType(ctx, typ); err != nil {
			return nil, errors.Store("saving instance type", err)
		}
		if created {
			uc.Result.TypesCreated++
		}
	}
	return typ, nil
}

// tierRating rates a tier at a given generation: the tier's rating at the
// latest generation, stepped down once per generation behind, never below
// the tier floor and never above the scale.
func tierRating(tier string, generation int) types.Rating {
	spec, ok := tierSpecs[tier]
	if !ok {
		return types.RatingMedium
	}
	r := spec.rating - types.Rating(latestGeneration-generation)
	if r < spec.floor {
		r = spec.floor
	}
	if r > types.RatingBest {
		r = types.RatingBest
	}
	return r
}
