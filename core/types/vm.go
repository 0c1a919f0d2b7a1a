// Package types - Shared catalog domain types
package types

// OS identifies an operating system family priced by the catalog.
type OS string

const (
	OSLinux   OS = "LINUX"
	OSWindows OS = "WINDOWS"
	OSOracle  OS = "ORACLE"
	OSRHEL    OS = "RHEL"
)

// String returns the string representation
func (o OS) String() string {
	return string(o)
}

// Tenancy is the physical host allocation model of an instance price.
type Tenancy string

const (
	// TenancyShared is the default multi-tenant placement.
	TenancyShared Tenancy = "SHARED"

	// TenancyDedicated carries the per-region dedicated host surcharge.
	TenancyDedicated Tenancy = "DEDICATED"
)

// String returns the string representation
func (t Tenancy) String() string {
	return string(t)
}

// Rating is a coarse performance rating used for CPU, RAM, network and
// storage classifications of an instance type.
type Rating int

const (
	RatingWorst Rating = iota
	RatingLow
	RatingMedium
	RatingGood
	RatingBest
)

// String returns the string representation
func (r Rating) String() string {
	switch r {
	case RatingWorst:
		return "worst"
	case RatingLow:
		return "low"
	case RatingMedium:
		return "medium"
	case RatingGood:
		return "good"
	case RatingBest:
		return "best"
	default:
		return "unknown"
	}
}

// StorageOptimized classifies what a storage type is optimized for.
type StorageOptimized string

const (
	OptimizedIOPS       StorageOptimized = "IOPS"
	OptimizedThroughput StorageOptimized = "THROUGHPUT"
	OptimizedDurability StorageOptimized = "DURABILITY"
)
