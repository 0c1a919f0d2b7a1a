package reconcile

import (
	"context"
	_ "embed"
	"encoding/json"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"outscale-cost/core/catalog"
	"outscale-cost/core/terms"
	"outscale-cost/db"
	"outscale-cost/internal/config"
	"outscale-cost/internal/errors"
)

//go:embed data/regions.json
var rawRegions []byte

// Engine drives one catalog import: retrieve, decode, reconcile, persist.
type Engine struct {
	store   db.Store
	fetcher catalog.Fetcher
	cfg     config.CatalogConfig
	log     *zap.Logger
}

// New creates an import engine.
func New(store db.Store, fetcher catalog.Fetcher, cfg config.CatalogConfig, log *zap.Logger) *Engine {
	return &Engine{store: store, fetcher: fetcher, cfg: cfg, log: log}
}

// Run performs a full import. With force, cost fields are rewritten even
// when unchanged. Only a fatal retrieval or decoding failure aborts the run;
// unresolvable rows are skipped silently.
func (e *Engine) Run(ctx context.Context, force bool) (*Result, error) {
	uc, err := e.initialize(ctx, force)
	if err != nil {
		return nil, err
	}

	e.log.Info("catalog import started", zap.String("url", e.cfg.PricesURL))
	if err := e.retrieveCatalog(ctx, uc); err != nil {
		return nil, err
	}

	e.log.Info("installing instance prices")
	if err := e.installInstances(ctx, uc); err != nil {
		return nil, err
	}

	e.log.Info("installing storage prices")
	if err := e.installStorage(ctx, uc); err != nil {
		return nil, err
	}

	e.log.Info("installing support prices")
	if err := e.installSupport(ctx, uc); err != nil {
		return nil, err
	}

	e.log.Info("catalog import finished",
		zap.Int("prices_processed", uc.Result.PricesProcessed),
		zap.Int("prices_saved", uc.Result.PricesSaved),
		zap.Int("types_created", uc.Result.TypesCreated))
	result := uc.Result
	return &result, nil
}

// initialize compiles the runtime filters, loads the static resources and
// the complete previous state.
func (e *Engine) initialize(ctx context.Context, force bool) (*Context, error) {
	uc := &Context{
		HoursPerMonth:  e.cfg.HoursPerMonth,
		Force:          force,
		Regions:        make(map[string]*db.Region),
		InstanceTypes:  make(map[string]*db.InstanceType),
		PriceTerms:     make(map[string]*db.PriceTerm),
		InstancePrices: make(map[string]*db.InstancePrice),
		StorageTypes:   make(map[string]*db.StorageType),
		StoragePrices:  make(map[string]*db.StoragePrice),
		SupportTypes:   make(map[string]*db.SupportType),
		SupportPrices:  make(map[string]*db.SupportPrice),
	}

	var err error
	if uc.validRegion, err = regexp.Compile(e.cfg.Regions); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "invalid region filter", err)
	}
	if uc.validType, err = regexp.Compile("(?i)" + e.cfg.InstanceTypes); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "invalid instance type filter", err)
	}
	if uc.validOS, err = regexp.Compile("(?i)" + e.cfg.OS); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "invalid os filter", err)
	}

	if err := json.Unmarshal(rawRegions, &uc.regionNames); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "invalid region definitions", err)
	}

	if err := e.loadPrevious(ctx, uc); err != nil {
		return nil, err
	}

	if uc.Terms, err = terms.Load(uc.HoursPerMonth); err != nil {
		return nil, err
	}
	for _, term := range uc.Terms {
		entity, err := e.installPriceTerm(ctx, uc, term)
		if err != nil {
			return nil, err
		}
		term.Entity = entity
	}
	return uc, nil
}

// loadPrevious fills the previous-state maps from the store.
func (e *Engine) loadPrevious(ctx context.Context, uc *Context) error {
	regions, err := e.store.Regions(ctx)
	if err != nil {
		return errors.Store("loading regions", err)
	}
	for _, r := range regions {
		if uc.enabledRegion(r.Name) {
			uc.Regions[r.Name] = r
		}
	}

	instanceTypes, err := e.store.InstanceTypes(ctx)
	if err != nil {
		return errors.Store("loading instance types", err)
	}
	for _, t := range instanceTypes {
		uc.InstanceTypes[t.Code] = t
	}

	priceTerms, err := e.store.PriceTerms(ctx)
	if err != nil {
		return errors.Store("loading price terms", err)
	}
	for _, t := range priceTerms {
		uc.PriceTerms[t.Code] = t
	}

	prices, err := e.store.InstancePrices(ctx)
	if err != nil {
		return errors.Store("loading instance prices", err)
	}
	for _, p := range prices {
		uc.InstancePrices[p.Code] = p
	}

	storageTypes, err := e.store.StorageTypes(ctx)
	if err != nil {
		return errors.Store("loading storage types", err)
	}
	for _, t := range storageTypes {
		uc.StorageTypes[t.Code] = t
	}

	storagePrices, err := e.store.StoragePrices(ctx)
	if err != nil {
		return errors.Store("loading storage prices", err)
	}
	for _, p := range storagePrices {
		uc.StoragePrices[p.Code] = p
	}

	supportTypes, err := e.store.SupportTypes(ctx)
	if err != nil {
		return errors.Store("loading support types", err)
	}
	for _, t := range supportTypes {
		uc.SupportTypes[t.Code] = t
	}

	supportPrices, err := e.store.SupportPrices(ctx)
	if err != nil {
		return errors.Store("loading support prices", err)
	}
	for _, p := range supportPrices {
		uc.SupportPrices[p.Code] = p
	}
	return nil
}

// retrieveCatalog fetches the remote sheet and builds the in-memory index.
// Any failure here is fatal for the run.
func (e *Engine) retrieveCatalog(ctx context.Context, uc *Context) error {
	stream, err := e.fetcher.Fetch(ctx)
	if err != nil {
		return err
	}
	defer stream.Close()

	regionIDs := make([]string, 0, len(uc.regionNames))
	for id := range uc.regionNames {
		regionIDs = append(regionIDs, id)
	}
	dec, err := catalog.NewDecoder(stream, regionIDs)
	if err != nil {
		return err
	}
	uc.Catalog, err = catalog.BuildIndex(dec)
	return err
}

// installRegion resolves a persisted region by identifier, creating it with
// its display name on first sight.
func (e *Engine) installRegion(ctx context.Context, uc *Context, id string) (*db.Region, error) {
	if r, ok := uc.Regions[id]; ok {
		return r, nil
	}
	r := &db.Region{ID: uuid.New(), Name: id, Description: uc.regionNames[id]}
	if err := e.store.SaveRegion(ctx, r); err != nil {
		return nil, errors.Store("saving region", err)
	}
	uc.Regions[id] = r
	return r, nil
}

// installPriceTerm resolves the persisted entity of a term definition and
// completes its specifications.
func (e *Engine) installPriceTerm(ctx context.Context, uc *Context, term *terms.Term) (*db.PriceTerm, error) {
	entity, created := uc.priceTerm(term.Code())
	entity.Name = term.Name
	entity.Period = term.Period
	entity.Reservation = term.Reservation()
	entity.ConvertibleOS = true
	entity.Ephemeral = false
	if created || uc.Force {
		if err := e.store.SavePriceTerm(ctx, entity); err != nil {
			return nil, errors.Store("saving price term", err)
		}
	}
	return entity, nil
}
