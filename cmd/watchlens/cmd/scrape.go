package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/watchlens/scraper/config"
	"github.com/watchlens/scraper/internal/domain"
	"github.com/watchlens/scraper/internal/infrastructure/export"
)

type scrapeFlags struct {
	search  string
	sort    string
	filters string
	maxLots int
	csv     string
	json    string
	noTable bool
}

var scrapeOpts scrapeFlags

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Collects lots, values them and writes CSV and JSON files.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyScrapeFlags(cmd, cfg, scrapeOpts)

		exporters := []domain.Exporter{
			export.NewCSVExporter(cfg.Export.CSVPath),
			export.NewJSONExporter(cfg.Export.JSONPath),
		}
		if cfg.Export.PrintTable {
			exporters = append(exporters, export.NewTableExporter(cmd.OutOrStdout()))
		}

		pipeline := buildPipeline(cfg, exporters...)

		result, err := pipeline.Run(cmd.Context(), pipeline.Defaults())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d lots, %d valued, %d unvalued. Wrote %s and %s\n",
			result.Summary.Lots, result.Summary.Valued, result.Summary.Unvalued,
			cfg.Export.CSVPath, cfg.Export.JSONPath)
		return nil
	},
}

func init() {
	flags := scrapeCmd.Flags()
	flags.StringVar(&scrapeOpts.search, "search", "", "keyword search instead of the category listing")
	flags.StringVar(&scrapeOpts.sort, "sort", "", "sort order sent to the marketplace")
	flags.StringVar(&scrapeOpts.filters, "filters", "", "raw filter string sent to the marketplace")
	flags.IntVar(&scrapeOpts.maxLots, "max-lots", 0, "maximum number of lots to collect")
	flags.StringVar(&scrapeOpts.csv, "csv", "", "CSV output path")
	flags.StringVar(&scrapeOpts.json, "json", "", "JSON output path")
	flags.BoolVar(&scrapeOpts.noTable, "no-table", false, "do not print the result table")
}

// applyScrapeFlags overrides configuration with flags the user actually set
func applyScrapeFlags(cmd *cobra.Command, cfg *config.Config, opts scrapeFlags) {
	flags := cmd.Flags()
	if flags.Changed("search") {
		cfg.Query.Search = opts.search
	}
	if flags.Changed("sort") {
		cfg.Query.Sort = opts.sort
	}
	if flags.Changed("filters") {
		cfg.Query.Filters = opts.filters
	}
	if flags.Changed("max-lots") {
		cfg.Query.MaxLots = opts.maxLots
	}
	if flags.Changed("csv") {
		cfg.Export.CSVPath = opts.csv
	}
	if flags.Changed("json") {
		cfg.Export.JSONPath = opts.json
	}
	if opts.noTable {
		cfg.Export.PrintTable = false
	}
}
