package catalog

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"playscope-backend/lib/scrapers/gplay"
	"playscope-backend/lib/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type stubScraper struct {
	details     map[string]any
	rows        []map[string]any
	suggestions []string
	err         error

	appCalls    int
	searchCalls int
}

func (s *stubScraper) AppDetails(ctx context.Context, q gplay.AppQuery) (map[string]any, error) {
	s.appCalls++
	if s.err != nil {
		return nil, s.err
	}
	record := map[string]any{"appId": q.AppId}
	for k, v := range s.details {
		record[k] = v
	}
	return record, nil
}

func (s *stubScraper) Search(ctx context.Context, q gplay.SearchQuery) ([]map[string]any, error) {
	s.searchCalls++
	return s.rows, s.err
}

func (s *stubScraper) Reviews(ctx context.Context, q gplay.ReviewsQuery) ([]map[string]any, error) {
	return s.rows, s.err
}

func (s *stubScraper) Developer(ctx context.Context, q gplay.DeveloperQuery) ([]map[string]any, error) {
	return s.rows, s.err
}

func (s *stubScraper) List(ctx context.Context, q gplay.ListQuery) ([]map[string]any, error) {
	return s.rows, s.err
}

func (s *stubScraper) Similar(ctx context.Context, q gplay.SimilarQuery) ([]map[string]any, error) {
	return s.rows, s.err
}

func (s *stubScraper) Suggest(ctx context.Context, q gplay.SuggestQuery) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.suggestions, nil
}

func setupTest(t *testing.T, scraper *stubScraper) (Service, *bytes.Buffer) {
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "services/catalog",
	})
	t.Cleanup(cleanup)

	out := &bytes.Buffer{}
	return NewService(scraper, ServiceOptions{Output: out}), out
}

func TestAppAnalyzeEnrichesRecord(t *testing.T) {
	scraper := &stubScraper{details: map[string]any{
		"title":       "Pocket Atlas",
		"summary":     "Offline maps for travelers.",
		"description": "Offline maps. Maps for any country.",
		"released":    "Jan 2, 2020",
		"installs":    "1,000,000+",
		"minInstalls": int64(1000000),
	}}
	service, _ := setupTest(t, scraper)

	record, err := service.AppAnalyze(context.Background(), "com.atlas", AppOptions{})
	require.NoError(t, err)

	require.Equal(t, "com.atlas", record["appId"])
	require.NotNil(t, record["appAge"])
	require.NotNil(t, record["dailyInstalls"])
	require.NotNil(t, record["monthlyInstalls"])
	require.NotNil(t, record["topKeywords"])
	require.NotNil(t, record["readability"])
}

func TestAppAnalyzeNoReleaseDate(t *testing.T) {
	scraper := &stubScraper{details: map[string]any{"title": "X"}}
	service, _ := setupTest(t, scraper)

	record, err := service.AppAnalyze(context.Background(), "com.x", AppOptions{})
	require.NoError(t, err)

	// metric fields are present but null
	for _, field := range velocityFields {
		value, ok := record[field]
		require.True(t, ok, field)
		require.Nil(t, value, field)
	}
}

func TestAppGetFields(t *testing.T) {
	scraper := &stubScraper{details: map[string]any{"title": "X", "score": 4.5}}
	service, _ := setupTest(t, scraper)

	fields, err := service.AppGetFields(context.Background(), "com.x",
		[]string{"title", "score", "missing"}, AppOptions{})
	require.NoError(t, err)
	require.Equal(t, "X", fields["title"])
	require.Equal(t, 4.5, fields["score"])
	require.Contains(t, fields, "missing")
	require.Nil(t, fields["missing"])
}

func TestAppPrintField(t *testing.T) {
	scraper := &stubScraper{details: map[string]any{"title": "Pocket Atlas"}}
	service, out := setupTest(t, scraper)

	err := service.AppPrintField(context.Background(), "com.atlas", "title", AppOptions{})
	require.NoError(t, err)
	require.Equal(t, "title: Pocket Atlas\n", out.String())
}

func TestAppPrintAllIndentation(t *testing.T) {
	scraper := &stubScraper{details: map[string]any{"title": "X"}}
	service, out := setupTest(t, scraper)

	err := service.AppPrintAll(context.Background(), "com.x", AppOptions{})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out.String(), "{\n  \""))
}

func TestScrapeErrorPropagates(t *testing.T) {
	scraper := &stubScraper{err: gplay.ErrNotFound}
	service, _ := setupTest(t, scraper)

	_, err := service.AppAnalyze(context.Background(), "com.gone", AppOptions{})
	require.ErrorIs(t, err, gplay.ErrNotFound)

	_, err = service.SearchAnalyze(context.Background(), "q", SearchOptions{})
	require.ErrorIs(t, err, gplay.ErrNotFound)
}

func TestSearchAccessors(t *testing.T) {
	scraper := &stubScraper{rows: []map[string]any{
		{"appId": "com.a", "title": "A", "score": 4.0},
		{"appId": "com.b", "title": "B", "score": 3.0},
	}}
	service, out := setupTest(t, scraper)
	ctx := context.Background()

	titles, err := service.SearchGetField(ctx, "q", "title", SearchOptions{})
	require.NoError(t, err)
	require.Equal(t, []any{"A", "B"}, titles)

	rows, err := service.SearchGetFields(ctx, "q", []string{"appId", "score"}, SearchOptions{})
	require.NoError(t, err)
	expected := []map[string]any{
		{"appId": "com.a", "score": 4.0},
		{"appId": "com.b", "score": 3.0},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Fatalf("unexpected field projection (-want +got):\n%s", diff)
	}

	require.NoError(t, service.SearchPrintField(ctx, "q", "title", SearchOptions{}))
	require.Equal(t, "title: A\n\ntitle: B\n", out.String())
}

func TestSuggestNestedPreservesOrder(t *testing.T) {
	scraper := &stubScraper{suggestions: []string{"alpha", "beta"}}
	service, out := setupTest(t, scraper)

	nested, seeds, err := service.SuggestNested(context.Background(), "a", SuggestOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta"}, seeds)
	require.Equal(t, []string{"alpha", "beta"}, nested["alpha"])

	require.NoError(t, service.SuggestPrintNested(context.Background(), "a", SuggestOptions{}))
	require.Contains(t, out.String(), "alpha:\n  alpha\n  beta\n")
}

func TestRedisCacheShortCircuitsScrapes(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	scraper := &stubScraper{details: map[string]any{"title": "X"}}
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "services/catalog",
	})
	t.Cleanup(cleanup)
	service := NewService(scraper, ServiceOptions{
		Cache:  NewRedisCache(client, time.Minute),
		Output: &bytes.Buffer{},
	})
	ctx := context.Background()

	_, err := service.AppAnalyze(ctx, "com.x", AppOptions{})
	require.NoError(t, err)
	_, err = service.AppAnalyze(ctx, "com.x", AppOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, scraper.appCalls)

	// different option sets don't share entries
	_, err = service.AppAnalyze(ctx, "com.x", AppOptions{Language: "de"})
	require.NoError(t, err)
	require.Equal(t, 2, scraper.appCalls)
}

func TestCacheFailureFallsBackToScrape(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	server.Close()

	scraper := &stubScraper{details: map[string]any{"title": "X"}}
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "services/catalog",
	})
	t.Cleanup(cleanup)
	service := NewService(scraper, ServiceOptions{
		Cache:  NewRedisCache(client, time.Minute),
		Output: &bytes.Buffer{},
	})

	record, err := service.AppAnalyze(context.Background(), "com.x", AppOptions{})
	require.NoError(t, err)
	require.Equal(t, "X", record["title"])
}

func TestVelocityMetricsMath(t *testing.T) {
	now := time.Date(2020, 1, 11, 0, 0, 0, 0, time.UTC)

	record := map[string]any{
		"released":    "Jan 1, 2020",
		"installs":    "1,000+",
		"minInstalls": int64(1000),
	}
	applyVelocityMetrics(record, now)

	require.Equal(t, int64(10), record["appAge"])
	require.Equal(t, int64(100), record["dailyInstalls"])
	require.Equal(t, int64(100), record["minDailyInstalls"])
	require.Nil(t, record["realDailyInstalls"])

	monthly, ok := record["monthlyInstalls"].(int64)
	require.True(t, ok)
	require.Equal(t, int64(float64(1000)/(10/daysPerMonth)), monthly)
}

func TestParseInstalls(t *testing.T) {
	n, ok := parseInstalls("1,000,000+")
	require.True(t, ok)
	require.Equal(t, int64(1000000), n)

	n, ok = parseInstalls(float64(512))
	require.True(t, ok)
	require.Equal(t, int64(512), n)

	_, ok = parseInstalls("unknown")
	require.False(t, ok)
	_, ok = parseInstalls(nil)
	require.False(t, ok)
}

func TestNopCache(t *testing.T) {
	hit, err := NopCache{}.Get(context.Background(), "k")
	require.NoError(t, err)
	require.Nil(t, hit)
	require.NoError(t, NopCache{}.Set(context.Background(), "k", []byte("v")))
}

func TestCachedDecodeFailureRefetches(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	cache := NewRedisCache(client, time.Minute)

	key := cacheKey("app", "com.x")
	require.NoError(t, cache.Set(context.Background(), key, []byte("not json")))

	value, err := cached(context.Background(), cache, key, func() (map[string]any, error) {
		return map[string]any{"fresh": true}, nil
	})
	require.NoError(t, err)
	require.Equal(t, true, value["fresh"])
}

func TestCachedFetchError(t *testing.T) {
	boom := errors.New("boom")
	_, err := cached(context.Background(), NopCache{}, "k", func() (map[string]any, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
}
