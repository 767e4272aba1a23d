package domain

import "strconv"

// Columns is the fixed export column order
var Columns = []string{
	"ID",
	"Title",
	"Subtitle",
	"URL",
	"Thumbnail",
	"Time Remaining",
	"Bidding Start",
	"Buy Now Price (EUR)",
	"Highest Bid (EUR)",
	"Catawiki Fee (EUR)",
	"Delivery Fee (EUR)",
	"Final Price (EUR)",
	"Market Price Estimate (EUR)",
	"Final Price vs. Market Est. Ratio",
	"Valuation",
}

// OutputRow is one exported line. Field order and JSON names match Columns.
type OutputRow struct {
	ID             int64      `json:"ID"`
	Title          string     `json:"Title"`
	Subtitle       string     `json:"Subtitle"`
	URL            string     `json:"URL"`
	Thumbnail      string     `json:"Thumbnail"`
	TimeRemaining  *string    `json:"Time Remaining"`
	BiddingStart   *string    `json:"Bidding Start"`
	BuyNowPrice    *float64   `json:"Buy Now Price (EUR)"`
	HighestBid     *float64   `json:"Highest Bid (EUR)"`
	CatawikiFee    float64    `json:"Catawiki Fee (EUR)"`
	DeliveryFee    float64    `json:"Delivery Fee (EUR)"`
	FinalPrice     float64    `json:"Final Price (EUR)"`
	MarketEstimate *float64   `json:"Market Price Estimate (EUR)"`
	Ratio          *float64   `json:"Final Price vs. Market Est. Ratio"`
	Valuation      *Valuation `json:"Valuation"`
}

// Strings renders the row as text cells in Columns order; absent values are empty
func (r OutputRow) Strings() []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Title,
		r.Subtitle,
		r.URL,
		r.Thumbnail,
		optString(r.TimeRemaining),
		optString(r.BiddingStart),
		optFloat(r.BuyNowPrice),
		optFloat(r.HighestBid),
		formatFloat(r.CatawikiFee),
		formatFloat(r.DeliveryFee),
		formatFloat(r.FinalPrice),
		optFloat(r.MarketEstimate),
		optFloat(r.Ratio),
		optValuation(r.Valuation),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func optFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optValuation(v *Valuation) string {
	if v == nil {
		return ""
	}
	return string(*v)
}
