package db

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used by dry runs and tests.
type MemoryStore struct {
	mu sync.Mutex

	regions        map[string]*Region
	instanceTypes  map[string]*InstanceType
	priceTerms     map[string]*PriceTerm
	instancePrices map[string]*InstancePrice
	storageTypes   map[string]*StorageType
	storagePrices  map[string]*StoragePrice
	supportTypes   map[string]*SupportType
	supportPrices  map[string]*SupportPrice

	// Saves counts every Save* call, useful to assert idempotence.
	Saves int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		regions:        make(map[string]*Region),
		instanceTypes:  make(map[string]*InstanceType),
		priceTerms:     make(map[string]*PriceTerm),
		instancePrices: make(map[string]*InstancePrice),
		storageTypes:   make(map[string]*StorageType),
		storagePrices:  make(map[string]*StoragePrice),
		supportTypes:   make(map[string]*SupportType),
		supportPrices:  make(map[string]*SupportPrice),
	}
}

func (s *MemoryStore) Regions(context.Context) ([]*Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Region, 0, len(s.regions))
	for _, r := range s.regions {
		out = append(out, r)
	}
	return out, nil
}

func (s *MemoryStore) InstanceTypes(context.Context) ([]*InstanceType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*InstanceType, 0, len(s.instanceTypes))
	for _, t := range s.instanceTypes {
		out = append(out, t)
	}
	return out, nil
}

func (s *MemoryStore) PriceTerms(context.Context) ([]*PriceTerm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*PriceTerm, 0, len(s.priceTerms))
	for _, t := range s.priceTerms {
		out = append(out, t)
	}
	return out, nil
}

func (s *MemoryStore) InstancePrices(context.Context) ([]*InstancePrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*InstancePrice, 0, len(s.instancePrices))
	for _, p := range s.instancePrices {
		out = append(out, p)
	}
	return out, nil
}

func (s *MemoryStore) StorageTypes(context.Context) ([]*StorageType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*StorageType, 0, len(s.storageTypes))
	for _, t := range s.storageTypes {
		out = append(out, t)
	}
	return out, nil
}

func (s *MemoryStore) StoragePrices(context.Context) ([]*StoragePrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*StoragePrice, 0, len(s.storagePrices))
	for _, p := range s.storagePrices {
		out = append(out, p)
	}
	return out, nil
}

func (s *MemoryStore) SupportTypes(context.Context) ([]*SupportType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*SupportType, 0, len(s.supportTypes))
	for _, t := range s.supportTypes {
		out = append(out, t)
	}
	return out, nil
}

func (s *MemoryStore) SupportPrices(context.Context) ([]*SupportPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*SupportPrice, 0, len(s.supportPrices))
	for _, p := range s.supportPrices {
		out = append(out, p)
	}
	return out, nil
}

func (s *MemoryStore) SaveRegion(_ context.Context, r *Region) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions[r.Name] = r
	s.Saves++
	return nil
}

func (s *MemoryStore) SaveInstanceType(_ context.Context, t *InstanceType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instanceTypes[t.Code] = t
	s.Saves++
	return nil
}

func (s *MemoryStore) SavePriceTerm(_ context.Context, t *PriceTerm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.priceTerms[t.Code] = t
	s.Saves++
	return nil
}

func (s *MemoryStore) SaveInstancePrice(_ context.Context, p *InstancePrice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instancePrices[p.Code] = p
	s.Saves++
	return nil
}

func (s *MemoryStore) SaveStorageType(_ context.Context, t *StorageType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storageTypes[t.Code] = t
	s.Saves++
	return nil
}

func (s *MemoryStore) SaveStoragePrice(_ context.Context, p *StoragePrice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storagePrices[p.Code] = p
	s.Saves++
	return nil
}

func (s *MemoryStore) SaveSupportType(_ context.Context, t *SupportType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supportTypes[t.Code] = t
	s.Saves++
	return nil
}

func (s *MemoryStore) SaveSupportPrice(_ context.Context, p *SupportPrice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supportPrices[p.Code] = p
	s.Saves++
	return nil
}
