package catawiki

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/watchlens/scraper/internal/domain"
)

// TimeEnded is shown for lots whose bidding deadline has passed
const TimeEnded = "Ended"

// NormalizeLot maps a raw lot to a Record. now is the reference time for the
// time remaining column.
func NormalizeLot(lot domain.Lot, now time.Time) domain.Record {
	record := domain.Record{
		ID:           lot.ID,
		Title:        lot.Title,
		Subtitle:     lot.Subtitle,
		BiddingStart: rawValue(lot.BiddingStartTime),
		URL:          lot.URL,
		Thumbnail:    lot.ThumbImageURL,
	}

	if lot.BuyNow != nil {
		record.BuyNowPrice = lot.BuyNow.PriceEUR
	}

	if lot.Live != nil {
		if lot.Live.Bid != nil {
			record.HighestBid = lot.Live.Bid.EUR
		}
		if lot.Live.BiddingEndTime != nil && *lot.Live.BiddingEndTime != 0 {
			end := time.UnixMilli(int64(*lot.Live.BiddingEndTime))
			remaining := FormatTimeRemaining(end, now)
			record.TimeRemaining = &remaining
		}
	}

	return record
}

// NormalizeLots maps a page of lots in order
func NormalizeLots(lots []domain.Lot, now time.Time) []domain.Record {
	records := make([]domain.Record, 0, len(lots))
	for _, lot := range lots {
		records = append(records, NormalizeLot(lot, now))
	}
	return records
}

// FormatTimeRemaining renders the time until end as "2d 5h 13m". Days are
// omitted when zero, hours are omitted when both days and hours are zero,
// minutes are always present. A deadline at or before now yields "Ended".
func FormatTimeRemaining(end, now time.Time) string {
	delta := end.Sub(now)
	if delta <= 0 {
		return TimeEnded
	}

	days := int(delta / (24 * time.Hour))
	rest := delta % (24 * time.Hour)
	hours := int(rest / time.Hour)
	minutes := int((rest % time.Hour) / time.Minute)

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	parts = append(parts, fmt.Sprintf("%dm", minutes))

	return strings.Join(parts, " ")
}

// rawValue renders a JSON scalar as text: strings are unquoted, other
// literals are kept verbatim, null and missing become "".
func rawValue(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}
