package catawiki

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watchlens/scraper/internal/domain"
)

const testBuildID = "abc123XYZ"

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:   baseURL,
		Locale:    "en",
		Category:  "333-watches",
		UserAgent: "watchlens-test",
		Timeout:   5 * time.Second,
	})
}

func nextDataPage(json string) string {
	return `<!DOCTYPE html><html><head><title>Watches</title></head><body>` +
		`<div id="__next"></div>` +
		`<script id="__NEXT_DATA__" type="application/json">` + json + `</script>` +
		`</body></html>`
}

func TestNewClient(t *testing.T) {
	client := newTestClient("https://example.com")

	assert.NotNil(t, client)
	assert.NotNil(t, client.http)
	assert.Equal(t, "en", client.locale)
	assert.Equal(t, "333-watches", client.category)
	assert.False(t, client.debug)

	client.SetDebug(true)
	assert.True(t, client.debug)
}

func TestResolveBuildID_Category(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/en/c/333-watches", r.URL.Path)
		assert.Equal(t, "watchlens-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, nextDataPage(`{"buildId":"`+testBuildID+`","page":"/c/[slug]"}`))
	}))
	defer server.Close()

	buildID, err := newTestClient(server.URL).ResolveBuildID(context.Background(), domain.Query{})

	require.NoError(t, err)
	assert.Equal(t, testBuildID, buildID)
}

func TestResolveBuildID_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/en/s", r.URL.Path)
		assert.Equal(t, "omega speedmaster", r.URL.Query().Get("q"))
		fmt.Fprint(w, nextDataPage(`{"buildId":"search-build"}`))
	}))
	defer server.Close()

	buildID, err := newTestClient(server.URL).ResolveBuildID(context.Background(), domain.Query{Search: "omega speedmaster"})

	require.NoError(t, err)
	assert.Equal(t, "search-build", buildID)
}

func TestResolveBuildID_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"missing script tag", http.StatusOK, `<html><body><p>no data</p></body></html>`, domain.ErrBuildIDNotFound},
		{"missing buildId key", http.StatusOK, nextDataPage(`{"props":{}}`), domain.ErrBuildIDNotFound},
		{"invalid json in script", http.StatusOK, nextDataPage(`{not json`), domain.ErrUnexpectedShape},
		{"server error", http.StatusInternalServerError, "boom", domain.ErrMarketplaceFailure},
		{"forbidden", http.StatusForbidden, "", domain.ErrMarketplaceFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts++
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			buildID, err := newTestClient(server.URL).ResolveBuildID(context.Background(), domain.Query{})

			assert.Empty(t, buildID)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, attempts, "resolver must not retry")
		})
	}
}

func TestResolveBuildID_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).ResolveBuildID(context.Background(), domain.Query{})

	assert.ErrorIs(t, err, domain.ErrMarketplaceFailure)
}

func TestFetchPage_Category(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_next/data/"+testBuildID+"/en/c/333-watches.json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "bidding_end_desc", q.Get("sort"))
		assert.Equal(t, "reserve_price%5B%5D=0", q.Get("filters"))
		assert.Equal(t, "333-watches", q.Get("category"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Empty(t, q.Get("q"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"pageProps":{"categoryLots":{"total":57,"lots":[
			{"id":1,"title":"Omega","live":{"bid":{"EUR":300},"biddingEndTime":1893456000000}},
			{"id":2,"title":"Seiko","buyNow":{"price_eur":150}}
		]}}}`)
	}))
	defer server.Close()

	query := domain.Query{Sort: "bidding_end_desc", Filters: "reserve_price%5B%5D=0"}
	page, err := newTestClient(server.URL).FetchPage(context.Background(), testBuildID, query, 2)

	require.NoError(t, err)
	assert.Equal(t, 57, page.Total)
	require.Len(t, page.Lots, 2)
	assert.Equal(t, int64(1), page.Lots[0].ID)
	require.NotNil(t, page.Lots[0].Live)
	assert.Equal(t, 300.0, *page.Lots[0].Live.Bid.EUR)
	require.NotNil(t, page.Lots[1].BuyNow)
	assert.Equal(t, 150.0, *page.Lots[1].BuyNow.PriceEUR)
}

func TestFetchPage_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_next/data/"+testBuildID+"/en/s.json", r.URL.Path)
		assert.Equal(t, "tudor", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"pageProps":{"searchLots":{"total":1,"lots":[{"id":9,"title":"Tudor Black Bay"}]}}}`)
	}))
	defer server.Close()

	page, err := newTestClient(server.URL).FetchPage(context.Background(), testBuildID, domain.Query{Search: "tudor", Sort: "relevancy"}, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Lots, 1)
	assert.Equal(t, "Tudor Black Bay", page.Lots[0].Title)
}

func TestFetchPage_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"pageProps":{"categoryLots":{"total":10,"lots":[]}}}`)
	}))
	defer server.Close()

	page, err := newTestClient(server.URL).FetchPage(context.Background(), testBuildID, domain.Query{Sort: "x"}, 5)

	require.NoError(t, err)
	assert.Empty(t, page.Lots)
	assert.Equal(t, 10, page.Total)
}

func TestFetchPage_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"invalid json", http.StatusOK, "not json", domain.ErrUnexpectedShape},
		{"results key from other mode", http.StatusOK, `{"pageProps":{"searchLots":{"total":1,"lots":[]}}}`, domain.ErrUnexpectedShape},
		{"missing pageProps", http.StatusOK, `{"notFound":true}`, domain.ErrUnexpectedShape},
		{"missing total", http.StatusOK, `{"pageProps":{"categoryLots":{"lots":[]}}}`, domain.ErrUnexpectedShape},
		{"lots is not an array", http.StatusOK, `{"pageProps":{"categoryLots":{"total":3,"lots":"x"}}}`, domain.ErrUnexpectedShape},
		{"stale build id", http.StatusNotFound, "", domain.ErrMarketplaceFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			page, err := newTestClient(server.URL).FetchPage(context.Background(), testBuildID, domain.Query{Sort: "x"}, 1)

			assert.Nil(t, page)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFetchPage_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	page, err := newTestClient(server.URL).FetchPage(ctx, testBuildID, domain.Query{Sort: "x"}, 1)

	assert.Nil(t, page)
	assert.ErrorIs(t, err, domain.ErrMarketplaceFailure)
}

func TestFetchPage_MalformedLotDoesNotDropPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"pageProps":{"categoryLots":{"total":30,"lots":[
			{"id":1,"title":"Quoted price","buyNow":{"price_eur":"1200.00"},"live":{"bid":{"EUR":"n/a"},"biddingEndTime":"soon"}},
			{"id":"not-a-number","title":"Broken id"},
			{"id":3,"title":"Valid","live":{"bid":{"EUR":450}}},
			{"id":4,"title":"Odd blocks","buyNow":"yes","live":[]}
		]}}}`)
	}))
	defer server.Close()

	page, err := newTestClient(server.URL).FetchPage(context.Background(), testBuildID, domain.Query{Sort: "x"}, 2)

	require.NoError(t, err)
	assert.Equal(t, 30, page.Total)
	assert.Equal(t, 4, page.Received)
	assert.Equal(t, 4, page.Count())
	require.Len(t, page.Lots, 3, "only the lot with an unusable id is skipped")

	quoted := page.Lots[0]
	require.NotNil(t, quoted.BuyNow)
	require.NotNil(t, quoted.BuyNow.PriceEUR)
	assert.Equal(t, 1200.0, *quoted.BuyNow.PriceEUR)
	require.NotNil(t, quoted.Live)
	require.NotNil(t, quoted.Live.Bid)
	assert.Nil(t, quoted.Live.Bid.EUR)
	assert.Nil(t, quoted.Live.BiddingEndTime)

	assert.Equal(t, int64(3), page.Lots[1].ID)
	assert.Equal(t, 450.0, *page.Lots[1].Live.Bid.EUR)

	odd := page.Lots[2]
	assert.Equal(t, "Odd blocks", odd.Title)
	require.NotNil(t, odd.BuyNow)
	assert.Nil(t, odd.BuyNow.PriceEUR)
	require.NotNil(t, odd.Live)
	assert.Nil(t, odd.Live.Bid)
}
