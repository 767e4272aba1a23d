package usecase

import (
	"fmt"

	"github.com/watchlens/scraper/internal/domain"
)

// Aggregate joins records with their valuations into export rows, keeping
// input order. results must be index-aligned with records.
func Aggregate(records []domain.Record, results []domain.ValuationResult, pricing Pricing) ([]domain.OutputRow, error) {
	if len(records) != len(results) {
		return nil, fmt.Errorf("aggregate: %d records but %d valuations", len(records), len(results))
	}

	rows := make([]domain.OutputRow, 0, len(records))
	for i, record := range records {
		rows = append(rows, buildRow(record, results[i], pricing))
	}
	return rows, nil
}

func buildRow(record domain.Record, result domain.ValuationResult, pricing Pricing) domain.OutputRow {
	final := pricing.FinalPrice(record.HighestBid)

	row := domain.OutputRow{
		ID:            record.ID,
		Title:         record.Title,
		Subtitle:      record.Subtitle,
		URL:           record.URL,
		Thumbnail:     record.Thumbnail,
		TimeRemaining: record.TimeRemaining,
		BuyNowPrice:   record.BuyNowPrice,
		HighestBid:    record.HighestBid,
		CatawikiFee:   pricing.Fee(record.HighestBid),
		DeliveryFee:   pricing.DeliveryFee,
		FinalPrice:    final,
	}
	if record.BiddingStart != "" {
		start := record.BiddingStart
		row.BiddingStart = &start
	}
	if result.Parsed() {
		row.MarketEstimate = result.Estimate
		row.Valuation = result.Label
		row.Ratio = Ratio(final, result.Estimate)
	}
	return row
}
