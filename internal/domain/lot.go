package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Lot is a single auction listing as returned by the marketplace data API.
// Only the fields the pipeline reads are declared; everything else is ignored.
type Lot struct {
	ID               int64           `json:"id"`
	Title            string          `json:"title"`
	Subtitle         string          `json:"subtitle"`
	BuyNow           *BuyNow         `json:"buyNow"`
	Live             *LiveState      `json:"live"`
	BiddingStartTime json.RawMessage `json:"biddingStartTime"`
	URL              string          `json:"url"`
	ThumbImageURL    string          `json:"thumbImageUrl"`
}

// BuyNow holds the optional fixed price offer
type BuyNow struct {
	PriceEUR *float64 `json:"price_eur"`
}

// UnmarshalJSON reads price_eur as a number or numeric string. Any other
// shape leaves the price absent instead of failing the lot.
func (b *BuyNow) UnmarshalJSON(data []byte) error {
	var raw struct {
		PriceEUR json.RawMessage `json:"price_eur"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	b.PriceEUR = lenientFloat(raw.PriceEUR)
	return nil
}

// LiveState holds the live auction state of a lot
type LiveState struct {
	Bid            *LiveBid `json:"bid"`
	BiddingEndTime *float64 `json:"biddingEndTime"` // epoch milliseconds
}

// UnmarshalJSON tolerates a malformed bid block or end time
func (l *LiveState) UnmarshalJSON(data []byte) error {
	var raw struct {
		Bid            json.RawMessage `json:"bid"`
		BiddingEndTime json.RawMessage `json:"biddingEndTime"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if len(raw.Bid) > 0 && !bytes.Equal(bytes.TrimSpace(raw.Bid), []byte("null")) {
		var bid LiveBid
		_ = json.Unmarshal(raw.Bid, &bid)
		l.Bid = &bid
	}
	l.BiddingEndTime = lenientFloat(raw.BiddingEndTime)
	return nil
}

// LiveBid holds the current highest bid per currency
type LiveBid struct {
	EUR *float64 `json:"EUR"`
}

// UnmarshalJSON reads EUR as a number or numeric string
func (b *LiveBid) UnmarshalJSON(data []byte) error {
	var raw struct {
		EUR json.RawMessage `json:"EUR"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	b.EUR = lenientFloat(raw.EUR)
	return nil
}

// lenientFloat decodes a JSON number or a quoted number. null, missing and
// anything unparsable give nil.
func lenientFloat(raw json.RawMessage) *float64 {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(trimmed, &f); err == nil {
		return &f
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Page is one page of lots together with the total count reported by the API
type Page struct {
	Lots     []Lot
	Total    int
	Received int // lots in the payload, including any that failed to decode
}

// Count is the number of lots the API sent for this page
func (p *Page) Count() int {
	if p.Received > len(p.Lots) {
		return p.Received
	}
	return len(p.Lots)
}

// Record is the flat, normalised form of a Lot
type Record struct {
	ID            int64
	Title         string
	Subtitle      string
	BuyNowPrice   *float64
	HighestBid    *float64
	TimeRemaining *string // nil when the lot has no end time
	BiddingStart  string  // raw value as sent by the API, "" when absent
	URL           string
	Thumbnail     string
}

// QueryMode selects which marketplace listing the pipeline reads from
type QueryMode int

const (
	ModeCategory QueryMode = iota
	ModeSearch
)

func (m QueryMode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "category"
}

// ResultsKey is the key under pageProps that holds lots for this mode
func (m QueryMode) ResultsKey() string {
	if m == ModeSearch {
		return "searchLots"
	}
	return "categoryLots"
}

// Query describes one collection run
type Query struct {
	Search  string `json:"search,omitempty"`
	Sort    string `json:"sort,omitempty"`
	Filters string `json:"filters,omitempty"`
	MaxLots int    `json:"maxLots,omitempty"`
}

// Mode is ModeSearch when a keyword is present
func (q Query) Mode() QueryMode {
	if strings.TrimSpace(q.Search) != "" {
		return ModeSearch
	}
	return ModeCategory
}
