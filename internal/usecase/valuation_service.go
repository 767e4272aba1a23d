package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/watchlens/scraper/internal/domain"
)

// ValuationServiceConfig holds configuration for the valuation service
type ValuationServiceConfig struct {
	Pricing Pricing
	Debug   bool
}

// CacheFactory returns an empty reply cache for one ValueAll run
type CacheFactory func() domain.CacheRepository

// ValuationService asks the generative API for a market estimate per record
type ValuationService struct {
	client   domain.ValuationClient
	limiter  domain.Limiter
	newCache CacheFactory
	prompts  *PromptBuilder
	pricing  Pricing
}

// NewValuationService creates a new valuation service. A nil newCache
// disables reply caching.
func NewValuationService(
	client domain.ValuationClient,
	limiter domain.Limiter,
	newCache CacheFactory,
	config ValuationServiceConfig,
) *ValuationService {
	return &ValuationService{
		client:   client,
		limiter:  limiter,
		newCache: newCache,
		prompts:  NewPromptBuilder(config.Debug),
		pricing:  config.Pricing,
	}
}

// Value returns the parsed valuation for one record without consulting any
// cache. Transport and parse failures are logged and yield a result without
// estimate or label; the only error returned is a cancelled context.
func (s *ValuationService) Value(ctx context.Context, record domain.Record) (domain.ValuationResult, error) {
	return s.value(ctx, nil, record)
}

// ValueAll values records in order, one call at a time. Identical prompts
// within one call share a reply; the cache is dropped when it returns.
func (s *ValuationService) ValueAll(ctx context.Context, records []domain.Record) ([]domain.ValuationResult, error) {
	var replies domain.CacheRepository
	if s.newCache != nil {
		replies = s.newCache()
	}

	results := make([]domain.ValuationResult, 0, len(records))
	for i, record := range records {
		log.Printf("[VALUATION] Valuing lot %d/%d: %s", i+1, len(records), record.Title)
		result, err := s.value(ctx, replies, record)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *ValuationService) value(ctx context.Context, replies domain.CacheRepository, record domain.Record) (domain.ValuationResult, error) {
	total := s.pricing.FinalPrice(record.HighestBid)
	prompt := s.prompts.Build(record.Title, total, record.BuyNowPrice)
	key := promptCacheKey(prompt)

	text, ok := cachedReply(ctx, replies, key)
	if !ok {
		if err := s.limiter.Wait(ctx); err != nil {
			return domain.ValuationResult{}, fmt.Errorf("valuation limiter: %w", err)
		}

		reply, err := s.client.Generate(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return domain.ValuationResult{}, ctx.Err()
			}
			log.Printf("[VALUATION] Lot %d: %v", record.ID, err)
			return domain.ValuationResult{}, nil
		}
		text = reply
		storeReply(ctx, replies, key, text)
	}

	result, err := ParseValuation(text)
	if err != nil {
		log.Printf("[VALUATION] Lot %d: could not parse reply: %q", record.ID, text)
		return result, nil
	}

	log.Printf("[VALUATION] Lot %d: estimate %s EUR, %s", record.ID, formatAmount(*result.Estimate), *result.Label)
	return result, nil
}

func cachedReply(ctx context.Context, replies domain.CacheRepository, key string) (string, bool) {
	if replies == nil {
		return "", false
	}

	value, err := replies.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Printf("[VALUATION] Cache read failed: %v", err)
		}
		return "", false
	}

	text, ok := value.(string)
	return text, ok
}

func storeReply(ctx context.Context, replies domain.CacheRepository, key, text string) {
	if replies == nil {
		return
	}
	if err := replies.Set(ctx, key, text, 0); err != nil {
		log.Printf("[VALUATION] Cache write failed: %v", err)
	}
}

// promptCacheKey keys replies by the exact prompt text
func promptCacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "valuation:" + hex.EncodeToString(sum[:])
}
