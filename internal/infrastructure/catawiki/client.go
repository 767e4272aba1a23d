package catawiki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/watchlens/scraper/internal/domain"
)

// nextDataSelector matches the script tag a Next.js page embeds its props in
const nextDataSelector = "script#__NEXT_DATA__"

// ClientConfig configures the marketplace client
type ClientConfig struct {
	BaseURL   string
	Locale    string
	Category  string
	UserAgent string
	Timeout   time.Duration
}

// Client talks to the marketplace web pages and its internal data API
type Client struct {
	http     *resty.Client
	locale   string
	category string
	debug    bool
}

// NewClient creates a new marketplace client
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout)
	if cfg.UserAgent != "" {
		httpClient.SetHeader("User-Agent", cfg.UserAgent)
	}
	httpClient.SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &Client{
		http:     httpClient,
		locale:   cfg.Locale,
		category: cfg.Category,
	}
}

// SetDebug enables or disables verbose request logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Printf("[CATAWIKI] "+format, args...)
	}
}

// pagePath returns the HTML page that embeds the build id for the query mode
func (c *Client) pagePath(mode domain.QueryMode) string {
	if mode == domain.ModeSearch {
		return fmt.Sprintf("/%s/s", c.locale)
	}
	return fmt.Sprintf("/%s/c/%s", c.locale, c.category)
}

// dataPath returns the JSON data endpoint for the query mode
func (c *Client) dataPath(buildID string, mode domain.QueryMode) string {
	if mode == domain.ModeSearch {
		return fmt.Sprintf("/_next/data/%s/%s/s.json", buildID, c.locale)
	}
	return fmt.Sprintf("/_next/data/%s/%s/c/%s.json", buildID, c.locale, c.category)
}

// ResolveBuildID fetches the listing page and extracts the build id from its
// embedded __NEXT_DATA__ script. There is no retry.
func (c *Client) ResolveBuildID(ctx context.Context, query domain.Query) (string, error) {
	mode := query.Mode()
	path := c.pagePath(mode)
	log.Printf("[CATAWIKI] Fetching %s page to resolve build id: %s", mode, path)

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html,application/xhtml+xml")
	if mode == domain.ModeSearch {
		req.SetQueryParam("q", query.Search)
	}

	resp, err := req.Get(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMarketplaceFailure, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrMarketplaceFailure, resp.StatusCode())
	}

	buildID, err := extractBuildID(resp.Body())
	if err != nil {
		return "", err
	}

	log.Printf("[CATAWIKI] Resolved build id: %s", buildID)
	return buildID, nil
}

// extractBuildID pulls the buildId field out of an HTML document
func extractBuildID(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: parse html: %v", domain.ErrUnexpectedShape, err)
	}

	script := doc.Find(nextDataSelector).First()
	if script.Length() == 0 {
		return "", fmt.Errorf("%w: __NEXT_DATA__ script tag not found", domain.ErrBuildIDNotFound)
	}

	var nextData struct {
		BuildID string `json:"buildId"`
	}
	if err := json.Unmarshal([]byte(script.Text()), &nextData); err != nil {
		return "", fmt.Errorf("%w: decode __NEXT_DATA__: %v", domain.ErrUnexpectedShape, err)
	}
	if nextData.BuildID == "" {
		return "", fmt.Errorf("%w: buildId missing from __NEXT_DATA__", domain.ErrBuildIDNotFound)
	}

	return nextData.BuildID, nil
}

// FetchPage requests one page of lots. Transport failures and unexpected JSON
// shapes are returned as errors; callers decide whether that ends pagination.
func (c *Client) FetchPage(ctx context.Context, buildID string, query domain.Query, page int) (*domain.Page, error) {
	mode := query.Mode()
	log.Printf("[CATAWIKI] Fetching page %d...", page)

	params := map[string]string{
		"sort":     query.Sort,
		"filters":  query.Filters,
		"category": c.category,
		"page":     strconv.Itoa(page),
	}
	if mode == domain.ModeSearch {
		params["q"] = query.Search
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(params).
		Get(c.dataPath(buildID, mode))
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", domain.ErrMarketplaceFailure, page, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: page %d: status %d", domain.ErrMarketplaceFailure, page, resp.StatusCode())
	}

	result, err := decodePage(resp.Body(), mode)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", page, err)
	}

	c.debugLog("Page %d: %d lots, total %d", page, len(result.Lots), result.Total)
	return result, nil
}

// decodePage extracts pageProps.<resultsKey>.{lots,total}. Lots are decoded
// one at a time; a lot that cannot be decoded is skipped and still counted
// in Received.
func decodePage(body []byte, mode domain.QueryMode) (*domain.Page, error) {
	var payload struct {
		PageProps map[string]json.RawMessage `json:"pageProps"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnexpectedShape, err)
	}

	raw, ok := payload.PageProps[mode.ResultsKey()]
	if !ok {
		return nil, fmt.Errorf("%w: pageProps.%s missing", domain.ErrUnexpectedShape, mode.ResultsKey())
	}

	var results struct {
		Lots  []json.RawMessage `json:"lots"`
		Total *int              `json:"total"`
	}
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("%w: pageProps.%s: %v", domain.ErrUnexpectedShape, mode.ResultsKey(), err)
	}
	if results.Lots == nil || results.Total == nil {
		return nil, fmt.Errorf("%w: pageProps.%s lacks lots or total", domain.ErrUnexpectedShape, mode.ResultsKey())
	}

	page := &domain.Page{
		Lots:     make([]domain.Lot, 0, len(results.Lots)),
		Total:    *results.Total,
		Received: len(results.Lots),
	}
	for i, rawLot := range results.Lots {
		var lot domain.Lot
		if err := json.Unmarshal(rawLot, &lot); err != nil {
			log.Printf("[CATAWIKI] Skipping lot %d of %d: %v", i+1, len(results.Lots), err)
			continue
		}
		page.Lots = append(page.Lots, lot)
	}

	return page, nil
}
