package reconcile

import (
	"context"
	_ "embed"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"outscale-cost/internal/errors"
)

// Support tiers are not in the price sheet; they are maintained as reference
// tables embedded with the binary, merged field by field on every run.
var (
	//go:embed data/support-types.csv
	rawSupportTypes []byte

	//go:embed data/support-prices.csv
	rawSupportPrices []byte
)

// installSupport merges the reference support tiers and their prices into
// the previous state.
func (e *Engine) installSupport(ctx context.Context, uc *Context) error {
	typeRecords, err := readReferenceCSV(rawSupportTypes)
	if err != nil {
		return errors.Parsing("invalid support type table", err)
	}
	for _, rec := range typeRecords {
		if err := e.installSupportType(ctx, uc, rec); err != nil {
			return err
		}
	}

	priceRecords, err := readReferenceCSV(rawSupportPrices)
	if err != nil {
		return errors.Parsing("invalid support price table", err)
	}
	for _, rec := range priceRecords {
		if err := e.installSupportPrice(ctx, uc, rec); err != nil {
			return err
		}
	}
	return nil
}

// record is one reference CSV row addressed by header name. Missing and
// empty cells read as zero values.
type record map[string]string

func (r record) str(key string) string { return r[key] }

func (r record) num(key string) int {
	n, _ := strconv.Atoi(r[key])
	return n
}

func (r record) boolean(key string) bool {
	return strings.EqualFold(r[key], "true")
}

// readReferenceCSV parses a semicolon-separated reference table into named
// records, first row being the header.
func readReferenceCSV(raw []byte) ([]record, error) {
	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.Comma = ';'

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	var records []record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		rec := make(record, len(header))
		for i, cell := range row {
			rec[header[i]] = strings.TrimSpace(cell)
		}
		records = append(records, rec)
	}
}

func (e *Engine) installSupportType(ctx context.Context, uc *Context, rec record) error {
	typ, created := uc.supportType(rec.str("code"))
	typ.Description = rec.str("description")
	typ.AccessAPI = rec.str("access_api")
	typ.AccessChat = rec.str("access_chat")
	typ.AccessEmail = rec.str("access_email")
	typ.AccessPhone = rec.str("access_phone")
	typ.SLAStartTime = rec.num("sla_start_time")
	typ.SLAEndTime = rec.num("sla_end_time")
	typ.SLAWeekend = rec.boolean("sla_weekend")
	typ.SLAGeneralGuidance = rec.num("sla_general_guidance")
	typ.SLASystemImpaired = rec.num("sla_system_impaired")
	typ.SLAProductionImpaired = rec.num("sla_production_impaired")
	typ.SLAProductionDown = rec.num("sla_production_down")
	typ.SLABusinessCriticalDown = rec.num("sla_business_critical_down")
	typ.Commitment = rec.num("commitment")
	typ.Level = rec.str("level")
	if s := rec.str("seats"); s == "" {
		typ.Seats = nil
	} else {
		seats := rec.num("seats")
		typ.Seats = &seats
	}

	if created || uc.Force {
		if err := e.store.SaveSupportType(ctx, typ); err != nil {
			return errors.Store("saving support type", err)
		}
	}
	return nil
}

func (e *Engine) installSupportPrice(ctx context.Context, uc *Context, rec record) error {
	price, created := uc.supportPrice(rec.str("code"))
	price.Type = rec.str("type")
	price.Limit = rec.num("limit")
	price.Min = rec.num("min")
	price.Rate = rec.num("rate")

	uc.Result.PricesProcessed++
	newCost, _ := strconv.ParseFloat(rec.str("cost"), 64)
	newCost = round3(newCost)
	if created || uc.Force || price.Cost != newCost {
		price.Cost = newCost
		if err := e.store.SaveSupportPrice(ctx, price); err != nil {
			return errors.Store("saving support price", err)
		}
		uc.Result.PricesSaved++
	}
	return nil
}
