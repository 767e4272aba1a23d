package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// MarketplaceClient defines the interface for the auction site
type MarketplaceClient interface {
	ResolveBuildID(ctx context.Context, query Query) (string, error)
	FetchPage(ctx context.Context, buildID string, query Query, page int) (*Page, error)
}

// ValuationClient defines the interface for the text generation service
type ValuationClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Limiter paces outbound calls. *rate.Limiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Exporter writes the final row set somewhere
type Exporter interface {
	Export(rows []OutputRow) error
}
