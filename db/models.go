// Package db defines the persisted pricing entities and the storage contract
// used by the catalog importer. Entities are addressed by a deterministic
// code so repeated imports update rather than duplicate them.
package db

import (
	"github.com/google/uuid"

	"outscale-cost/core/types"
)

// Region is a persisted vendor region.
type Region struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

// InstanceType is a persisted compute type, resolved from the SKU pattern.
type InstanceType struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Processor   string    `json:"processor,omitempty"`

	// CPU and RAM are zero: capacity is chosen at provisioning time.
	CPU float64 `json:"cpu"`
	RAM int     `json:"ram"`

	// Baseline is the guaranteed CPU percentage.
	Baseline  float64 `json:"baseline"`
	AutoScale bool    `json:"auto_scale"`

	CPURate     types.Rating `json:"cpu_rate"`
	RAMRate     types.Rating `json:"ram_rate"`
	NetworkRate types.Rating `json:"network_rate"`
	StorageRate types.Rating `json:"storage_rate"`
}

// PriceTerm is a persisted contractual term (on-demand, reservation, ...).
type PriceTerm struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`

	// Period is the commitment length in months, 0 for on-demand.
	Period int `json:"period"`

	Reservation   bool `json:"reservation"`
	ConvertibleOS bool `json:"convertible_os"`
	Ephemeral     bool `json:"ephemeral"`
}

// InstancePrice is a priced (region, term, OS, type, tenancy[, software])
// combination. Code is the deterministic upsert key.
type InstancePrice struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`

	Region   string        `json:"region"`
	Term     string        `json:"term"`
	Type     string        `json:"type"`
	OS       types.OS      `json:"os"`
	Tenancy  types.Tenancy `json:"tenancy"`
	Software string        `json:"software,omitempty"`

	// Decomposed monthly costs: per vCPU, per GiB of RAM, and flat per VM.
	CostCPU float64 `json:"cost_cpu"`
	CostRAM float64 `json:"cost_ram"`
	Cost    float64 `json:"cost"`

	// CostPeriod is the flat cost over the whole term period.
	CostPeriod float64 `json:"cost_period"`

	MinCPU       float64 `json:"min_cpu"`
	IncrementCPU float64 `json:"increment_cpu"`
	Period       int     `json:"period"`
}

// StorageType is a persisted block or object storage type.
type StorageType struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`

	Latency    types.Rating           `json:"latency"`
	Optimized  types.StorageOptimized `json:"optimized,omitempty"`
	IOPS       int                    `json:"iops,omitempty"`
	Throughput int                    `json:"throughput,omitempty"`

	// Minimal and Maximal bound the volume size in GiB. Maximal is nil when
	// unbounded. Increment is nil when any size is allowed.
	Minimal   float64  `json:"minimal"`
	Maximal   *float64 `json:"maximal,omitempty"`
	Increment *float64 `json:"increment,omitempty"`

	Availability float64 `json:"availability"`
	Durability9  int     `json:"durability9,omitempty"`

	// InstanceType is a match pattern restricting which instance types can
	// attach this storage, "%" for all.
	InstanceType string `json:"instance_type,omitempty"`
}

// StoragePrice is a priced (region, storage type) combination.
type StoragePrice struct {
	ID     uuid.UUID `json:"id"`
	Code   string    `json:"code"`
	Region string    `json:"region"`
	Type   string    `json:"type"`

	// CostGB is the monthly cost per GiB.
	CostGB float64 `json:"cost_gb"`
}

// SupportType is a persisted support tier definition, merged field by field
// from the reference table.
type SupportType struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`

	AccessAPI   string `json:"access_api,omitempty"`
	AccessChat  string `json:"access_chat,omitempty"`
	AccessEmail string `json:"access_email,omitempty"`
	AccessPhone string `json:"access_phone,omitempty"`

	SLAStartTime int  `json:"sla_start_time"`
	SLAEndTime   int  `json:"sla_end_time"`
	SLAWeekend   bool `json:"sla_weekend"`

	// Response commitments in minutes per severity, 0 when not committed.
	SLAGeneralGuidance      int `json:"sla_general_guidance"`
	SLASystemImpaired       int `json:"sla_system_impaired"`
	SLAProductionImpaired   int `json:"sla_production_impaired"`
	SLAProductionDown       int `json:"sla_production_down"`
	SLABusinessCriticalDown int `json:"sla_business_critical_down"`

	// Commitment is the minimal subscription length in months.
	Commitment int    `json:"commitment"`
	Seats      *int   `json:"seats,omitempty"`
	Level      string `json:"level,omitempty"`
}

// SupportPrice is a priced support tier. Rate is a percentage applied to the
// monthly consumption, Min the monthly floor, Limit the cap (0 = none).
type SupportPrice struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Type string    `json:"type"`

	Cost  float64 `json:"cost"`
	Limit int     `json:"limit"`
	Min   int     `json:"min"`
	Rate  int     `json:"rate"`
}
