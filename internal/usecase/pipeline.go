package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/watchlens/scraper/internal/domain"
)

// Summary describes one pipeline pass
type Summary struct {
	BuildID    string        `json:"buildId"`
	Mode       string        `json:"mode"`
	Total      int           `json:"total"`
	PagesRead  int           `json:"pagesRead"`
	Lots       int           `json:"lots"`
	Valued     int           `json:"valued"`
	Unvalued   int           `json:"unvalued"`
	Duration   time.Duration `json:"durationNs"`
	ExportErrs []string      `json:"exportErrors,omitempty"`
}

// Result is the output of Run
type Result struct {
	Rows    []domain.OutputRow `json:"rows"`
	Summary Summary            `json:"summary"`
}

// Pipeline runs collect -> value -> aggregate -> export in sequence
type Pipeline struct {
	collector *Collector
	valuer    *ValuationService
	pricing   Pricing
	defaults  domain.Query
	exporters []domain.Exporter
}

// NewPipeline creates a pipeline. defaults fill in any zero fields of the
// query given to Run.
func NewPipeline(
	collector *Collector,
	valuer *ValuationService,
	pricing Pricing,
	defaults domain.Query,
	exporters ...domain.Exporter,
) *Pipeline {
	return &Pipeline{
		collector: collector,
		valuer:    valuer,
		pricing:   pricing,
		defaults:  defaults,
		exporters: exporters,
	}
}

// Defaults returns the query used for zero fields
func (p *Pipeline) Defaults() domain.Query {
	return p.defaults
}

// Run executes one pass. Collection failures and cancellation abort the run;
// every exporter is attempted and their failures are joined into the error.
func (p *Pipeline) Run(ctx context.Context, query domain.Query) (*Result, error) {
	started := time.Now()
	query = p.withDefaults(query)
	log.Printf("[PIPELINE] Starting %s run (max %d lots)", query.Mode(), query.MaxLots)

	collection, err := p.collector.Collect(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := p.valuer.ValueAll(ctx, collection.Records)
	if err != nil {
		return nil, err
	}

	rows, err := Aggregate(collection.Records, results, p.pricing)
	if err != nil {
		return nil, err
	}

	summary := Summary{
		BuildID:   collection.BuildID,
		Mode:      query.Mode().String(),
		Total:     collection.Total,
		PagesRead: collection.PagesRead,
		Lots:      len(rows),
	}
	for _, row := range rows {
		if row.Valuation != nil {
			summary.Valued++
		} else {
			summary.Unvalued++
		}
	}

	var exportErr error
	for _, exporter := range p.exporters {
		if err := exporter.Export(rows); err != nil {
			log.Printf("[PIPELINE] Export failed: %v", err)
			summary.ExportErrs = append(summary.ExportErrs, err.Error())
			exportErr = errors.Join(exportErr, err)
		}
	}

	summary.Duration = time.Since(started)
	log.Printf("[PIPELINE] Done: %d lots, %d valued, %d unvalued in %s",
		summary.Lots, summary.Valued, summary.Unvalued, summary.Duration.Round(time.Millisecond))

	result := &Result{Rows: rows, Summary: summary}
	if exportErr != nil {
		return result, fmt.Errorf("export: %w", exportErr)
	}
	return result, nil
}

func (p *Pipeline) withDefaults(q domain.Query) domain.Query {
	if q.Search == "" {
		q.Search = p.defaults.Search
	}
	if q.Sort == "" {
		q.Sort = p.defaults.Sort
	}
	if q.Filters == "" {
		q.Filters = p.defaults.Filters
	}
	if q.MaxLots == 0 {
		q.MaxLots = p.defaults.MaxLots
	}
	return q
}
