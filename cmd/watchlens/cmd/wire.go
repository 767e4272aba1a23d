package cmd

import (
	"log"
	"time"

	"github.com/watchlens/scraper/config"
	"github.com/watchlens/scraper/internal/domain"
	"github.com/watchlens/scraper/internal/infrastructure/cache"
	"github.com/watchlens/scraper/internal/infrastructure/catawiki"
	"github.com/watchlens/scraper/internal/infrastructure/gemini"
	"github.com/watchlens/scraper/internal/usecase"
	"golang.org/x/time/rate"
)

// newLimiter allows one valuation call per interval; zero disables pacing
func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// queryFromConfig turns the configured query section into a domain query
func queryFromConfig(q config.QueryConfig) domain.Query {
	return domain.Query{
		Search:  q.Search,
		Sort:    q.Sort,
		Filters: q.Filters,
		MaxLots: q.MaxLots,
	}
}

// newReplyCache gives every valuation run its own empty cache
func newReplyCache() domain.CacheRepository {
	return cache.NewMemoryCache()
}

// buildPipeline wires the clients and services
func buildPipeline(cfg *config.Config, exporters ...domain.Exporter) *usecase.Pipeline {
	debug := cfg.Server.Environment == "development"

	market := catawiki.NewClient(catawiki.ClientConfig{
		BaseURL:   cfg.Marketplace.BaseURL,
		Locale:    cfg.Marketplace.Locale,
		Category:  cfg.Marketplace.Category,
		UserAgent: cfg.Marketplace.UserAgent,
		Timeout:   cfg.Marketplace.Timeout,
	})
	market.SetDebug(debug)

	valuer := gemini.NewClient(gemini.ClientConfig{
		APIKey:  cfg.Valuation.APIKey,
		BaseURL: cfg.Valuation.BaseURL,
		Model:   cfg.Valuation.Model,
		Generation: gemini.GenerationConfig{
			MaxOutputTokens: cfg.Valuation.MaxOutputTokens,
			Temperature:     cfg.Valuation.Temperature,
			TopP:            cfg.Valuation.TopP,
			TopK:            cfg.Valuation.TopK,
		},
		Timeout: cfg.Valuation.Timeout,
	})
	log.Printf("Valuation API: %s model %s (key: %s)", cfg.Valuation.BaseURL, cfg.Valuation.Model, maskKey(cfg.Valuation.APIKey))
	log.Printf("Valuation pacing: one call per %s", cfg.Valuation.CallInterval)

	pricing := usecase.Pricing{
		BrokerageRate: cfg.Pricing.BrokerageRate,
		DeliveryFee:   cfg.Pricing.DeliveryFee,
	}

	service := usecase.NewValuationService(
		valuer,
		newLimiter(cfg.Valuation.CallInterval),
		newReplyCache,
		usecase.ValuationServiceConfig{Pricing: pricing, Debug: debug},
	)

	pipeline := usecase.NewPipeline(
		usecase.NewCollector(market),
		service,
		pricing,
		queryFromConfig(cfg.Query),
		exporters...,
	)
	return pipeline
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "..."
}
