package usecase

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
)

// notAvailable stands in for an absent buy-now price in the prompt
const notAvailable = "N/A"

var (
	// Collapses runs of whitespace, including newlines from lot titles
	multiSpacePattern = regexp.MustCompile(`\s+`)

	// Straight and curly single quotes would close the quoted title early
	titleQuotePattern = regexp.MustCompile(`['‘’]`)
)

// PromptBuilder renders the valuation question for one lot
type PromptBuilder struct {
	enableDebugLogging bool
}

// NewPromptBuilder creates a new prompt builder
func NewPromptBuilder(enableDebugLogging bool) *PromptBuilder {
	return &PromptBuilder{enableDebugLogging: enableDebugLogging}
}

// Build asks for a market estimate of the titled watch compared to the
// provisional buyer total. The total is always a number; only an absent
// buy-now price is sent as N/A, a listed price of 0 is sent as 0.
func (p *PromptBuilder) Build(title string, total float64, buyNow *float64) string {
	cleanTitle := normalizeTitle(title)

	buyNowText := notAvailable
	if buyNow != nil {
		buyNowText = formatAmount(*buyNow)
	}

	prompt := fmt.Sprintf(
		"Estimate the current market price in EUR for the watch titled '%s'. "+
			"The total estimated buyer's price (including bid, brokerage fees, and delivery) is %s EUR. "+
			"The listed Buy Now price is %s EUR. "+
			"Provide a short price estimation as a number and state if the watch is 'overvalued', 'undervalued', or 'fairly valued' compared to this total estimated buyer's price. "+
			"Format your response strictly as: 'Estimated market price: [NUMBER] EUR. Valuation: [VALUATION_STATUS].'",
		cleanTitle, formatAmount(total), buyNowText,
	)

	if p.enableDebugLogging {
		log.Printf("[PROMPT] Title: %q -> %q", title, cleanTitle)
	}

	return prompt
}

// normalizeTitle trims the title, collapses whitespace and swaps single
// quotes for double quotes
func normalizeTitle(title string) string {
	cleaned := titleQuotePattern.ReplaceAllString(title, `"`)
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
