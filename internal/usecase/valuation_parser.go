package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/watchlens/scraper/internal/domain"
)

var (
	// Digits may carry thousands separators: "12,500" or "12,500.50"
	estimatePattern = regexp.MustCompile(`(?i)Estimated market price:\s*(\d[\d,]*(?:\.\d+)?)\s*EUR`)

	labelPattern = regexp.MustCompile(`(?i)Valuation:\s*(overvalued|undervalued|fairly valued)`)
)

// ParseValuation extracts the estimate and label from a generated reply.
// Both must be present; otherwise the result holds only the raw text and
// the error wraps domain.ErrUnparsedValuation.
func ParseValuation(text string) (domain.ValuationResult, error) {
	result := domain.ValuationResult{RawText: text}

	estimateMatch := estimatePattern.FindStringSubmatch(text)
	labelMatch := labelPattern.FindStringSubmatch(text)
	if estimateMatch == nil || labelMatch == nil {
		return result, fmt.Errorf("%w: %q", domain.ErrUnparsedValuation, text)
	}

	estimate, err := strconv.ParseFloat(strings.ReplaceAll(estimateMatch[1], ",", ""), 64)
	if err != nil {
		return result, fmt.Errorf("%w: estimate %q: %v", domain.ErrUnparsedValuation, estimateMatch[1], err)
	}
	label := domain.Valuation(strings.ToLower(labelMatch[1]))

	result.Estimate = &estimate
	result.Label = &label
	return result, nil
}
