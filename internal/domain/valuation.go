package domain

// Valuation is the categorical judgment returned by the generation service
type Valuation string

const (
	Overvalued   Valuation = "overvalued"
	Undervalued  Valuation = "undervalued"
	FairlyValued Valuation = "fairly valued"
)

// ValuationResult is the parsed reply for one lot.
// Estimate and Label are both set or both nil; RawText always holds the reply.
type ValuationResult struct {
	Estimate *float64
	Label    *Valuation
	RawText  string
}

// Parsed reports whether the reply matched the expected phrasing
func (r ValuationResult) Parsed() bool {
	return r.Estimate != nil && r.Label != nil
}
