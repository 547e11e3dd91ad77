package estimate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rucost/internal/logging"
	"rucost/internal/mysql"
	"rucost/internal/pricing"
	pricingconfig "rucost/internal/pricing/config"
	"rucost/internal/pricing/models"
)

// Options configures one estimation run
type Options struct {
	// Schema is the database to estimate (required)
	Schema string

	// Region selects the pricing table
	Region string

	// Sample enables the live workload sampling path
	Sample bool

	// SampleDuration is the sampling window length
	SampleDuration time.Duration

	// ScanRatio is passed through to the sampler's read classification
	ScanRatio float64

	// MinWindow is the shortest window considered representative
	MinWindow time.Duration

	// ShowProgress renders a progress bar during the sampling wait
	ShowProgress bool
}

// Report is the engine's sole externally visible artifact: the collected
// workload description plus the synthesized cost estimate.
type Report struct {
	Schema   string                  `json:"schema" yaml:"schema"`
	Flavor   string                  `json:"flavor" yaml:"flavor"`
	Tables   []mysql.TableStatistics `json:"tables" yaml:"tables"`
	Summary  *mysql.WorkloadSummary  `json:"workload,omitempty" yaml:"workload,omitempty"`
	Estimate *models.CostEstimate    `json:"estimate,omitempty" yaml:"estimate,omitempty"`

	// AlreadyServerless is set when the source itself is the target service;
	// there is nothing to estimate, billing is already live.
	AlreadyServerless bool `json:"already_serverless,omitempty" yaml:"already_serverless,omitempty"`
}

// Engine drives the pipeline: collect, optionally sample, price,
// extrapolate, synthesize. One engine serves one run.
type Engine struct {
	db           *sql.DB
	opts         Options
	pricingTable *pricingconfig.Table
	estimator    *pricing.CostEstimator
	extrapolator *pricing.Extrapolator
}

// New validates the region and builds an engine. The region lookup happens
// here, before any database work, so a bad region fails fast.
func New(db *sql.DB, opts Options) (*Engine, error) {
	pt, err := pricingconfig.Lookup(opts.Region)
	if err != nil {
		return nil, err
	}
	// A closed sampling window always has a positive duration; rate
	// derivation divides by it.
	if opts.Sample && opts.SampleDuration <= 0 {
		return nil, fmt.Errorf("sampling window must be greater than zero, got %s", opts.SampleDuration)
	}
	if opts.MinWindow <= 0 {
		opts.MinWindow = time.Minute
	}
	return &Engine{
		db:           db,
		opts:         opts,
		pricingTable: pt,
		estimator:    pricing.NewCostEstimator(),
		extrapolator: pricing.NewExtrapolator(opts.MinWindow),
	}, nil
}

// Run executes the pipeline and synthesizes the cost estimate. Fatal errors
// (CollectionError, PricingLookupError) abort; everything else degrades into
// notes on the report, in stage order.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	report := &Report{Schema: e.opts.Schema}

	flavor, err := mysql.DetectFlavor(ctx, e.db)
	if err != nil {
		return nil, &mysql.CollectionError{Schema: e.opts.Schema, Op: "server detection", Err: err}
	}
	report.Flavor = flavor.String()
	if flavor == mysql.FlavorTiDBServerless {
		report.AlreadyServerless = true
		return report, nil
	}

	// Notes accumulate in pipeline order: detection, collector, sampler,
	// cost model, extrapolator. Nothing is ever dropped.
	var notes []string
	if flavor == mysql.FlavorTiDB && e.opts.Sample {
		notes = append(notes, "The source reports as self-hosted TiDB; its cluster-wide statement summary differs from the per-instance performance_schema counters this sampler reads, so activity on other nodes is not observed.")
	}

	// Collector
	collector := mysql.NewCollector(e.db)
	tables, err := collector.Collect(ctx, e.opts.Schema)
	if err != nil {
		return nil, err
	}
	report.Tables = tables
	if len(tables) == 0 {
		notes = append(notes, fmt.Sprintf("Schema %q contains no base tables; the estimate is zero.", e.opts.Schema))
	}
	for _, t := range tables {
		if t.Engine != "" && t.Engine != "InnoDB" {
			notes = append(notes, fmt.Sprintf("Table %q uses storage engine %q; its size statistics may be approximate.", t.Name, t.Engine))
		}
	}

	// Sampler (optional). Every sampler failure is soft: note it and fall
	// back to the static heuristic path.
	var (
		summary      *mysql.WorkloadSummary
		sampleFailed bool
	)
	if e.opts.Sample {
		sampler := mysql.NewSampler(e.db, mysql.SamplerConfig{
			Schema:       e.opts.Schema,
			Window:       e.opts.SampleDuration,
			ScanRatio:    e.opts.ScanRatio,
			ShowProgress: e.opts.ShowProgress,
		})
		summary, err = sampler.Sample(ctx, tables)
		if err != nil {
			var unavailable *mysql.SamplingUnavailable
			if !errors.As(err, &unavailable) {
				return nil, err
			}
			logging.SampleUnavailable(e.opts.Schema, unavailable)
			note := fmt.Sprintf("Live workload sampling was skipped: %s. The estimate falls back to low-confidence schema heuristics.", unavailable.Reason)
			if flavor == mysql.FlavorMariaDB {
				note += " MariaDB ships with performance_schema off; set performance_schema=ON in the server configuration to sample live traffic."
			}
			notes = append(notes, note)
			summary = nil
			sampleFailed = true
		}
	}
	report.Summary = summary

	// Cost model
	var (
		ruPerSecond float64
		window      time.Duration
	)
	if summary != nil {
		ruPerSecond, err = e.estimator.RateFromSummary(summary, e.pricingTable)
		if err != nil {
			return nil, err
		}
		window = summary.Window
	} else {
		ruPerSecond, err = e.estimator.RateFromStatistics(tables, e.pricingTable)
		if err != nil {
			return nil, err
		}
		// A failed sampling attempt already carries its own note.
		if len(tables) > 0 && !sampleFailed {
			notes = append(notes, "Request units were estimated from schema statistics alone, without observing live traffic; treat the result as low confidence.")
		}
		// The heuristic rate has no sampling window; it is already flagged
		// as low confidence, so skip the short-window widening.
		window = e.opts.MinWindow
	}

	// Extrapolator
	extrapolation := e.extrapolator.Extrapolate(ruPerSecond, window)
	if extrapolation.Note != "" {
		notes = append(notes, extrapolation.Note)
	}

	report.Estimate = e.synthesize(ruPerSecond, extrapolation.MonthlyRU, tables, notes)
	return report, nil
}

// synthesize merges the priced components into the terminal CostEstimate.
// Total is RU plus storage by construction; the free credit only affects
// TotalAfterCredit.
func (e *Engine) synthesize(ruPerSecond float64, monthlyRU models.RURange, tables []mysql.TableStatistics, notes []string) *models.CostEstimate {
	ruCharge := e.estimator.RUCharge(monthlyRU, e.pricingTable)
	storageBytes, storageCharge := e.estimator.StorageCharge(tables, e.pricingTable)

	total := ruCharge.Add(storageCharge)
	return &models.CostEstimate{
		Region:           e.pricingTable.Region,
		RUPerSecond:      ruPerSecond,
		MonthlyRU:        monthlyRU,
		RUCharge:         ruCharge,
		StorageBytes:     storageBytes,
		StorageCharge:    storageCharge,
		Total:            total,
		FreeCredit:       e.pricingTable.FreeCredit,
		TotalAfterCredit: total.Sub(e.pricingTable.FreeCredit),
		Notes:            notes,
	}
}
