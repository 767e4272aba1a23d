package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/watchlens/scraper/internal/domain"
	"github.com/watchlens/scraper/internal/infrastructure/catawiki"
)

// Collector pages through the marketplace and returns normalised records
type Collector struct {
	client domain.MarketplaceClient
	now    func() time.Time
}

// NewCollector creates a new collector
func NewCollector(client domain.MarketplaceClient) *Collector {
	return &Collector{client: client, now: time.Now}
}

// Collection is the outcome of one collection pass
type Collection struct {
	BuildID    string
	Records    []domain.Record
	Total      int
	TotalPages int
	PagesRead  int
}

// Collect resolves the build id, reads page 1 and then pages 2..N until
// query.MaxLots records are held or an empty page is met. A failed build id
// lookup or an empty first page is fatal. Later page failures end pagination
// quietly.
func (c *Collector) Collect(ctx context.Context, query domain.Query) (*Collection, error) {
	if query.MaxLots <= 0 {
		return nil, fmt.Errorf("%w: max lots must be positive, got %d", domain.ErrInvalidRequest, query.MaxLots)
	}

	buildID, err := c.client.ResolveBuildID(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("resolve build id: %w", err)
	}

	first, err := c.client.FetchPage(ctx, buildID, query, 1)
	if err != nil {
		log.Printf("[COLLECTOR] Page 1 failed: %v", err)
		return nil, fmt.Errorf("%w: page 1: %v", domain.ErrNoLots, err)
	}
	if first.Count() == 0 {
		return nil, fmt.Errorf("%w: page 1 is empty", domain.ErrNoLots)
	}

	perPage := first.Count()
	totalPages := (first.Total + perPage - 1) / perPage
	log.Printf("[COLLECTOR] Total lots: %d, per page: %d, pages: %d", first.Total, perPage, totalPages)

	collection := &Collection{
		BuildID:    buildID,
		Total:      first.Total,
		TotalPages: totalPages,
		PagesRead:  1,
	}
	lots := append([]domain.Lot(nil), first.Lots...)

	for page := 2; page <= totalPages && len(lots) < query.MaxLots; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, err := c.client.FetchPage(ctx, buildID, query, page)
		if err != nil {
			log.Printf("[COLLECTOR] Page %d failed, stopping: %v", page, err)
			break
		}
		if next.Count() == 0 {
			log.Printf("[COLLECTOR] Page %d is empty, stopping", page)
			break
		}

		lots = append(lots, next.Lots...)
		collection.PagesRead++
	}

	if len(lots) > query.MaxLots {
		lots = lots[:query.MaxLots]
	}

	collection.Records = catawiki.NormalizeLots(lots, c.now())
	log.Printf("[COLLECTOR] Collected %d lots from %d pages", len(collection.Records), collection.PagesRead)
	return collection, nil
}
