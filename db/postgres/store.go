// Package postgres provides the PostgreSQL implementation of db.Store.
// Every entity table is keyed by its deterministic code so saves are plain
// upserts.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"outscale-cost/db"
)

// Store implements db.Store on top of PostgreSQL.
type Store struct {
	conn *sql.DB
}

// NewStore opens a connection from a lib/pq DSN and prepares the schema.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	s := &Store{conn: conn}
	if err := s.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS regions (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS instance_types (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		processor TEXT NOT NULL DEFAULT '',
		cpu DOUBLE PRECISION NOT NULL DEFAULT 0,
		ram INTEGER NOT NULL DEFAULT 0,
		baseline DOUBLE PRECISION NOT NULL DEFAULT 0,
		auto_scale BOOLEAN NOT NULL DEFAULT FALSE,
		cpu_rate INTEGER NOT NULL DEFAULT 0,
		ram_rate INTEGER NOT NULL DEFAULT 0,
		network_rate INTEGER NOT NULL DEFAULT 0,
		storage_rate INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS price_terms (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		period INTEGER NOT NULL DEFAULT 0,
		reservation BOOLEAN NOT NULL DEFAULT FALSE,
		convertible_os BOOLEAN NOT NULL DEFAULT FALSE,
		ephemeral BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS instance_prices (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		region TEXT NOT NULL,
		term TEXT NOT NULL,
		type TEXT NOT NULL,
		os TEXT NOT NULL,
		tenancy TEXT NOT NULL,
		software TEXT NOT NULL DEFAULT '',
		cost_cpu DOUBLE PRECISION NOT NULL DEFAULT 0,
		cost_ram DOUBLE PRECISION NOT NULL DEFAULT 0,
		cost DOUBLE PRECISION NOT NULL DEFAULT 0,
		cost_period DOUBLE PRECISION NOT NULL DEFAULT 0,
		min_cpu DOUBLE PRECISION NOT NULL DEFAULT 0,
		increment_cpu DOUBLE PRECISION NOT NULL DEFAULT 1,
		period INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS storage_types (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		latency INTEGER NOT NULL DEFAULT 0,
		optimized TEXT NOT NULL DEFAULT '',
		iops INTEGER NOT NULL DEFAULT 0,
		throughput INTEGER NOT NULL DEFAULT 0,
		minimal DOUBLE PRECISION NOT NULL DEFAULT 0,
		maximal DOUBLE PRECISION,
		increment DOUBLE PRECISION,
		availability DOUBLE PRECISION NOT NULL DEFAULT 0,
		durability9 INTEGER NOT NULL DEFAULT 0,
		instance_type TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS storage_prices (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		region TEXT NOT NULL,
		type TEXT NOT NULL,
		cost_gb DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS support_types (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		access_api TEXT NOT NULL DEFAULT '',
		access_chat TEXT NOT NULL DEFAULT '',
		access_email TEXT NOT NULL DEFAULT '',
		access_phone TEXT NOT NULL DEFAULT '',
		sla_start_time INTEGER NOT NULL DEFAULT 0,
		sla_end_time INTEGER NOT NULL DEFAULT 0,
		sla_weekend BOOLEAN NOT NULL DEFAULT FALSE,
		sla_general_guidance INTEGER NOT NULL DEFAULT 0,
		sla_system_impaired INTEGER NOT NULL DEFAULT 0,
		sla_production_impaired INTEGER NOT NULL DEFAULT 0,
		sla_production_down INTEGER NOT NULL DEFAULT 0,
		sla_business_critical_down INTEGER NOT NULL DEFAULT 0,
		commitment INTEGER NOT NULL DEFAULT 0,
		seats INTEGER,
		level TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS support_prices (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		type TEXT NOT NULL,
		cost DOUBLE PRECISION NOT NULL DEFAULT 0,
		lim INTEGER NOT NULL DEFAULT 0,
		min INTEGER NOT NULL DEFAULT 0,
		rate INTEGER NOT NULL DEFAULT 0
	)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to prepare schema: %w", err)
		}
	}
	return nil
}

// Regions loads all persisted regions.
func (s *Store) Regions(ctx context.Context) ([]*db.Region, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, name, description FROM regions`)
	if err != nil {
		return nil, fmt.Errorf("failed to load regions: %w", err)
	}
	defer rows.Close()

	var out []*db.Region
	for rows.Next() {
		var r db.Region
		if err := rows.Scan(&r.ID, &r.Name, &r.Description); err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// InstanceTypes loads all persisted instance types.
func (s *Store) InstanceTypes(ctx context.Context) ([]*db.InstanceType, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, code, name, description, processor, cpu, ram, baseline,
		       auto_scale, cpu_rate, ram_rate, network_rate, storage_rate
		FROM instance_types`)
	if err != nil {
		return nil, fmt.Errorf("failed to load instance types: %w", err)
	}
	defer rows.Close()

	var out []*db.InstanceType
	for rows.Next() {
		var t db.InstanceType
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Description, &t.Processor,
			&t.CPU, &t.RAM, &t.Baseline, &t.AutoScale,
			&t.CPURate, &t.RAMRate, &t.NetworkRate, &t.StorageRate); err != nil {
			return nil, fmt.Errorf("failed to scan instance type: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// PriceTerms loads all persisted price terms.
func (s *Store) PriceTerms(ctx context.Context) ([]*db.PriceTerm, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, code, name, period, reservation, convertible_os, ephemeral
		FROM price_terms`)
	if err != nil {
		return nil, fmt.Errorf("failed to load price terms: %w", err)
	}
	defer rows.Close()

	var out []*db.PriceTerm
	for rows.Next() {
		var t db.PriceTerm
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Period,
			&t.Reservation, &t.ConvertibleOS, &t.Ephemeral); err != nil {
			return nil, fmt.Errorf("failed to scan price term: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// InstancePrices loads all persisted instance prices.
func (s *Store) InstancePrices(ctx context.Context) ([]*db.InstancePrice, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, code, region, term, type, os, tenancy, software,
		       cost_cpu, cost_ram, cost, cost_period, min_cpu, increment_cpu, period
		FROM instance_prices`)
	if err != nil {
		return nil, fmt.Errorf("failed to load instance prices: %w", err)
	}
	defer rows.Close()

	var out []*db.InstancePrice
	for rows.Next() {
		var p db.InstancePrice
		if err := rows.Scan(&p.ID, &p.Code, &p.Region, &p.Term, &p.Type,
			&p.OS, &p.Tenancy, &p.Software,
			&p.CostCPU, &p.CostRAM, &p.Cost, &p.CostPeriod,
			&p.MinCPU, &p.IncrementCPU, &p.Period); err != nil {
			return nil, fmt.Errorf("failed to scan instance price: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// StorageTypes loads all persisted storage types.
func (s *Store) StorageTypes(ctx context.Context) ([]*db.StorageType, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, code, name, description, latency, optimized, iops, throughput,
		       minimal, maximal, increment, availability, durability9, instance_type
		FROM storage_types`)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage types: %w", err)
	}
	defer rows.Close()

	var out []*db.StorageType
	for rows.Next() {
		var t db.StorageType
		var maximal, increment sql.NullFloat64
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Description,
			&t.Latency, &t.Optimized, &t.IOPS, &t.Throughput,
			&t.Minimal, &maximal, &increment,
			&t.Availability, &t.Durability9, &t.InstanceType); err != nil {
			return nil, fmt.Errorf("failed to scan storage type: %w", err)
		}
		if maximal.Valid {
			t.Maximal = &maximal.Float64
		}
		if increment.Valid {
			t.Increment = &increment.Float64
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// StoragePrices loads all persisted storage prices.
func (s *Store) StoragePrices(ctx context.Context) ([]*db.StoragePrice, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, code, region, type, cost_gb FROM storage_prices`)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage prices: %w", err)
	}
	defer rows.Close()

	var out []*db.StoragePrice
	for rows.Next() {
		var p db.StoragePrice
		if err := rows.Scan(&p.ID, &p.Code, &p.Region, &p.Type, &p.CostGB); err != nil {
			return nil, fmt.Errorf("failed to scan storage price: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// SupportTypes loads all persisted support types.
func (s *Store) SupportTypes(ctx context.Context) ([]*db.SupportType, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, code, name, description, access_api, access_chat, access_email,
		       access_phone, sla_start_time, sla_end_time, sla_weekend,
		       sla_general_guidance, sla_system_impaired, sla_production_impaired,
		       sla_production_down, sla_business_critical_down, commitment, seats, level
		FROM support_types`)
	if err != nil {
		return nil, fmt.Errorf("failed to load support types: %w", err)
	}
	defer rows.Close()

	var out []*db.SupportType
	for rows.Next() {
		var t db.SupportType
		var seats sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Description,
			&t.AccessAPI, &t.AccessChat, &t.AccessEmail, &t.AccessPhone,
			&t.SLAStartTime, &t.SLAEndTime, &t.SLAWeekend,
			&t.SLAGeneralGuidance, &t.SLASystemImpaired, &t.SLAProductionImpaired,
			&t.SLAProductionDown, &t.SLABusinessCriticalDown,
			&t.Commitment, &seats, &t.Level); err != nil {
			return nil, fmt.Errorf("failed to scan support type: %w", err)
		}
		if seats.Valid {
			n := int(seats.Int64)
			t.Seats = &n
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// SupportPrices loads all persisted support prices.
func (s *Store) SupportPrices(ctx context.Context) ([]*db.SupportPrice, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, code, type, cost, lim, min, rate FROM support_prices`)
	if err != nil {
		return nil, fmt.Errorf("failed to load support prices: %w", err)
	}
	defer rows.Close()

	var out []*db.SupportPrice
	for rows.Next() {
		var p db.SupportPrice
		if err := rows.Scan(&p.ID, &p.Code, &p.Type, &p.Cost, &p.Limit, &p.Min, &p.Rate); err != nil {
			return nil, fmt.Errorf("failed to scan support price: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// SaveRegion upserts a region by name.
func (s *Store) SaveRegion(ctx context.Context, r *db.Region) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO regions (id, name, description) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description`,
		r.ID, r.Name, r.Description)
	if err != nil {
		return fmt.Errorf("failed to save region: %w", err)
	}
	return nil
}

// SaveInstanceType upserts an instance type by code.
func (s *Store) SaveInstanceType(ctx context.Context, t *db.InstanceType) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO instance_types (id, code, name, description, processor, cpu, ram,
			baseline, auto_scale, cpu_rate, ram_rate, network_rate, storage_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description,
			processor = EXCLUDED.processor, cpu = EXCLUDED.cpu, ram = EXCLUDED.ram,
			baseline = EXCLUDED.baseline, auto_scale = EXCLUDED.auto_scale,
			cpu_rate = EXCLUDED.cpu_rate, ram_rate = EXCLUDED.ram_rate,
			network_rate = EXCLUDED.network_rate, storage_rate = EXCLUDED.storage_rate`,
		t.ID, t.Code, t.Name, t.Description, t.Processor, t.CPU, t.RAM,
		t.Baseline, t.AutoScale, t.CPURate, t.RAMRate, t.NetworkRate, t.StorageRate)
	if err != nil {
		return fmt.Errorf("failed to save instance type: %w", err)
	}
	return nil
}

// SavePriceTerm upserts a price term by code.
func (s *Store) SavePriceTerm(ctx context.Context, t *db.PriceTerm) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO price_terms (id, code, name, period, reservation, convertible_os, ephemeral)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name, period = EXCLUDED.period,
			reservation = EXCLUDED.reservation,
			convertible_os = EXCLUDED.convertible_os, ephemeral = EXCLUDED.ephemeral`,
		t.ID, t.Code, t.Name, t.Period, t.Reservation, t.ConvertibleOS, t.Ephemeral)
	if err != nil {
		return fmt.Errorf("failed to save price term: %w", err)
	}
	return nil
}

// SaveInstancePrice upserts an instance price by code.
func (s *Store) SaveInstancePrice(ctx context.Context, p *db.InstancePrice) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO instance_prices (id, code, region, term, type, os, tenancy, software,
			cost_cpu, cost_ram, cost, cost_period, min_cpu, increment_cpu, period)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (code) DO UPDATE SET
			region = EXCLUDED.region, term = EXCLUDED.term, type = EXCLUDED.type,
			os = EXCLUDED.os, tenancy = EXCLUDED.tenancy, software = EXCLUDED.software,
			cost_cpu = EXCLUDED.cost_cpu, cost_ram = EXCLUDED.cost_ram,
			cost = EXCLUDED.cost, cost_period = EXCLUDED.cost_period,
			min_cpu = EXCLUDED.min_cpu, increment_cpu = EXCLUDED.increment_cpu,
			period = EXCLUDED.period`,
		p.ID, p.Code, p.Region, p.Term, p.Type, string(p.OS), string(p.Tenancy), p.Software,
		p.CostCPU, p.CostRAM, p.Cost, p.CostPeriod, p.MinCPU, p.IncrementCPU, p.Period)
	if err != nil {
		return fmt.Errorf("failed to save instance price: %w", err)
	}
	return nil
}

// SaveStorageType upserts a storage type by code.
func (s *Store) SaveStorageType(ctx context.Context, t *db.StorageType) error {
	var maximal, increment sql.NullFloat64
	if t.Maximal != nil {
		maximal = sql.NullFloat64{Float64: *t.Maximal, Valid: true}
	}
	if t.Increment != nil {
		increment = sql.NullFloat64{Float64: *t.Increment, Valid: true}
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO storage_types (id, code, name, description, latency, optimized,
			iops, throughput, minimal, maximal, increment, availability, durability9, instance_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description,
			latency = EXCLUDED.latency, optimized = EXCLUDED.optimized,
			iops = EXCLUDED.iops, throughput = EXCLUDED.throughput,
			minimal = EXCLUDED.minimal, maximal = EXCLUDED.maximal,
			increment = EXCLUDED.increment, availability = EXCLUDED.availability,
			durability9 = EXCLUDED.durability9, instance_type = EXCLUDED.instance_type`,
		t.ID, t.Code, t.Name, t.Description, t.Latency, string(t.Optimized),
		t.IOPS, t.Throughput, t.Minimal, maximal, increment,
		t.Availability, t.Durability9, t.InstanceType)
	if err != nil {
		return fmt.Errorf("failed to save storage type: %w", err)
	}
	return nil
}

// SaveStoragePrice upserts a storage price by code.
func (s *Store) SaveStoragePrice(ctx context.Context, p *db.StoragePrice) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO storage_prices (id, code, region, type, cost_gb)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE SET
			region = EXCLUDED.region, type = EXCLUDED.type, cost_gb = EXCLUDED.cost_gb`,
		p.ID, p.Code, p.Region, p.Type, p.CostGB)
	if err != nil {
		return fmt.Errorf("failed to save storage price: %w", err)
	}
	return nil
}

// SaveSupportType upserts a support type by code.
func (s *Store) SaveSupportType(ctx context.Context, t *db.SupportType) error {
	var seats sql.NullInt64
	if t.Seats != nil {
		seats = sql.NullInt64{Int64: int64(*t.Seats), Valid: true}
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO support_types (id, code, name, description, access_api, access_chat,
			access_email, access_phone, sla_start_time, sla_end_time, sla_weekend,
			sla_general_guidance, sla_system_impaired, sla_production_impaired,
			sla_production_down, sla_business_critical_down, commitment, seats, level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description,
			access_api = EXCLUDED.access_api, access_chat = EXCLUDED.access_chat,
			access_email = EXCLUDED.access_email, access_phone = EXCLUDED.access_phone,
			sla_start_time = EXCLUDED.sla_start_time, sla_end_time = EXCLUDED.sla_end_time,
			sla_weekend = EXCLUDED.sla_weekend,
			sla_general_guidance = EXCLUDED.sla_general_guidance,
			sla_system_impaired = EXCLUDED.sla_system_impaired,
			sla_production_impaired = EXCLUDED.sla_production_impaired,
			sla_production_down = EXCLUDED.sla_production_down,
			sla_business_critical_down = EXCLUDED.sla_business_critical_down,
			commitment = EXCLUDED.commitment, seats = EXCLUDED.seats, level = EXCLUDED.level`,
		t.ID, t.Code, t.Name, t.Description, t.AccessAPI, t.AccessChat,
		t.AccessEmail, t.AccessPhone, t.SLAStartTime, t.SLAEndTime, t.SLAWeekend,
		t.SLAGeneralGuidance, t.SLASystemImpaired, t.SLAProductionImpaired,
		t.SLAProductionDown, t.SLABusinessCriticalDown, t.Commitment, seats, t.Level)
	if err != nil {
		return fmt.Errorf("failed to save support type: %w", err)
	}
	return nil
}

// SaveSupportPrice upserts a support price by code.
func (s *Store) SaveSupportPrice(ctx context.Context, p *db.SupportPrice) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO support_prices (id, code, type, cost, lim, min, rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO UPDATE SET
			type = EXCLUDED.type, cost = EXCLUDED.cost,
			lim = EXCLUDED.lim, min = EXCLUDED.min, rate = EXCLUDED.rate`,
		p.ID, p.Code, p.Type, p.Cost, p.Limit, p.Min, p.Rate)
	if err != nil {
		return fmt.Errorf("failed to save support price: %w", err)
	}
	return nil
}
