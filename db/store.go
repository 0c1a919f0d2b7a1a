package db

import "context"

// Store is the persistence contract of the importer. The engine loads the
// complete previous state once per run, mutates entities in memory, and saves
// only what changed. Implementations must keep one row per code.
type Store interface {
	// Previous state, loaded once at the start of a run.
	Regions(ctx context.Context) ([]*Region, error)
	InstanceTypes(ctx context.Context) ([]*InstanceType, error)
	PriceTerms(ctx context.Context) ([]*PriceTerm, error)
	InstancePrices(ctx context.Context) ([]*InstancePrice, error)
	StorageTypes(ctx context.Context) ([]*StorageType, error)
	StoragePrices(ctx context.Context) ([]*StoragePrice, error)
	SupportTypes(ctx context.Context) ([]*SupportType, error)
	SupportPrices(ctx context.Context) ([]*SupportPrice, error)

	// Save persists a new or updated entity under its code.
	SaveRegion(ctx context.Context, r *Region) error
	SaveInstanceType(ctx context.Context, t *InstanceType) error
	SavePriceTerm(ctx context.Context, t *PriceTerm) error
	SaveInstancePrice(ctx context.Context, p *InstancePrice) error
	SaveStorageType(ctx context.Context, t *StorageType) error
	SaveStoragePrice(ctx context.Context, p *StoragePrice) error
	SaveSupportType(ctx context.Context, t *SupportType) error
	SaveSupportPrice(ctx context.Context, p *SupportPrice) error
}
