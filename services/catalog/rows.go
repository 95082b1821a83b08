package catalog

import (
	"context"

	"playscope-backend/lib/scrapers/gplay"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// The row-shaped resources (search, reviews, developer, list,
// similar) share one accessor family over their fetch.

func (s Service) fetchRows(ctx context.Context, op, key string, fetch func(ctx context.Context) ([]map[string]any, error)) ([]map[string]any, error) {
	ctx, span := tracer.Start(ctx, op)
	defer span.End()
	span.SetAttributes(attribute.String("cache_key", key))

	rows, err := cached(ctx, s.cache, key, func() ([]map[string]any, error) {
		return fetch(ctx)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return rows, nil
}

type SearchOptions struct {
	Count    int
	Language string
	Country  string
}

func (s Service) SearchAnalyze(ctx context.Context, query string, opts SearchOptions) ([]map[string]any, error) {
	return s.fetchRows(ctx, "SearchAnalyze",
		cacheKey("search", query, opts.Count, opts.Language, opts.Country),
		func(ctx context.Context) ([]map[string]any, error) {
			return s.scraper.Search(ctx, gplay.SearchQuery{
				Query:    query,
				Count:    opts.Count,
				Language: opts.Language,
				Country:  opts.Country,
			})
		})
}

func (s Service) SearchGetField(ctx context.Context, query, field string, opts SearchOptions) ([]any, error) {
	rows, err := s.SearchAnalyze(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	return fieldFromRows(rows, field), nil
}

func (s Service) SearchGetFields(ctx context.Context, query string, fields []string, opts SearchOptions) ([]map[string]any, error) {
	rows, err := s.SearchAnalyze(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	return fieldsFromRows(rows, fields), nil
}

func (s Service) SearchPrintField(ctx context.Context, query, field string, opts SearchOptions) error {
	rows, err := s.SearchAnalyze(ctx, query, opts)
	if err != nil {
		return err
	}
	s.printRowFields(rows, field)
	return nil
}

func (s Service) SearchPrintFields(ctx context.Context, query string, fields []string, opts SearchOptions) error {
	rows, err := s.SearchAnalyze(ctx, query, opts)
	if err != nil {
		return err
	}
	s.printRowFields(rows, fields...)
	return nil
}

func (s Service) SearchPrintAll(ctx context.Context, query string, opts SearchOptions) error {
	rows, err := s.SearchAnalyze(ctx, query, opts)
	if err != nil {
		return err
	}
	return s.printJSON(rows)
}

type ReviewsOptions struct {
	Count    int
	Sort     gplay.ReviewSort
	Language string
	Country  string
}

func (s Service) ReviewsAnalyze(ctx context.Context, appId string, opts ReviewsOptions) ([]map[string]any, error) {
	return s.fetchRows(ctx, "ReviewsAnalyze",
		cacheKey("reviews", appId, opts.Count, int(opts.Sort), opts.Language, opts.Country),
		func(ctx context.Context) ([]map[string]any, error) {
			return s.scraper.Reviews(ctx, gplay.ReviewsQuery{
				AppId:    appId,
				Count:    opts.Count,
				Sort:     opts.Sort,
				Language: opts.Language,
				Country:  opts.Country,
			})
		})
}

func (s Service) ReviewsGetField(ctx context.Context, appId, field string, opts ReviewsOptions) ([]any, error) {
	rows, err := s.ReviewsAnalyze(ctx, appId, opts)
	if err != nil {
		return nil, err
	}
	return fieldFromRows(rows, field), nil
}

func (s Service) ReviewsGetFields(ctx context.Context, appId string, fields []string, opts ReviewsOptions) ([]map[string]any, error) {
	rows, err := s.ReviewsAnalyze(ctx, appId, opts)
	if err != nil {
		return nil, err
	}
	return fieldsFromRows(rows, fields), nil
}

func (s Service) ReviewsPrintField(ctx context.Context, appId, field string, opts ReviewsOptions) error {
	rows, err := s.ReviewsAnalyze(ctx, appId, opts)
	if err != nil {
		return err
	}
	s.printRowFields(rows, field)
	return nil
}

func (s Service) ReviewsPrintFields(ctx context.Context, appId string, fields []string, opts ReviewsOptions) error {
	rows, err := s.ReviewsAnalyze(ctx, appId, opts)
	if err != nil {
		return err
	}
	s.printRowFields(rows, fields...)
	return nil
}

func (s Service) ReviewsPrintAll(ctx context.Context, appId string, opts ReviewsOptions) error {
	rows, err := s.ReviewsAnalyze(ctx, appId, opts)
	if err != nil {
		return err
	}
	return s.printJSON(rows)
}

type DeveloperOptions struct {
	Count    int
	Language string
	Country  string
}

func (s Service) DeveloperAnalyze(ctx context.Context, developerId string, opts DeveloperOptions) ([]map[string]any, error) {
	return s.fetchRows(ctx, "DeveloperAnalyze",
		cacheKey("developer", developerId, opts.Count, opts.Language, opts.Country),
		func(ctx context.Context) ([]map[string]any, error) {
			return s.scraper.Developer(ctx, gplay.DeveloperQuery{
				DeveloperId: developerId,
				Count:       opts.Count,
				Language:    opts.Language,
				Country:     opts.Country,
			})
		})
}

func (s Service) DeveloperGetField(ctx context.Context, developerId, field string, opts DeveloperOptions) ([]any, error) {
	rows, err := s.DeveloperAnalyze(ctx, developerId, opts)
	if err != nil {
		return nil, err
	}
	return fieldFromRows(rows, field), nil
}

func (s Service) DeveloperGetFields(ctx context.Context, developerId string, fields []string, opts DeveloperOptions) ([]map[string]any, error) {
	rows, err := s.DeveloperAnalyze(ctx, developerId, opts)
	if err != nil {
		return nil, err
	}
	return fieldsFromRows(rows, fields), nil
}

func (s Service) DeveloperPrintField(ctx context.Context, developerId, field string, opts DeveloperOptions) error {
	rows, err := s.DeveloperAnalyze(ctx, developerId, opts)
	if err != nil {
		return err
	}
	s.printRowFields(rows, field)
	return nil
}

func (s Service) DeveloperPrintFields(ctx context.Context, developerId string, fields []string, opts DeveloperOptions) error {
	rows, err := s.DeveloperAnalyze(ctx, developerId, opts)
	if err != nil {
		return err
	}
	s.printRowFields(rows, fields...)
	return nil
}

func (s Service) DeveloperPrintAll(ctx context.Context, developerId string, opts DeveloperOptions) error {
	rows, err := s.DeveloperAnalyze(ctx, developerId, opts)
	if err != nil {
		return err
	}
	return s.printJSON(rows)
}

type ListOptions struct {
	Collection string
	Category   string
	Count      int
	Language   string
	Country    string
}

func (s Service) ListAnalyze(ctx context.Context, opts ListOptions) ([]map[string]any, error) {
	return s.fetchRows(ctx, "ListAnalyze",
		cacheKey("list", opts.Collection, opts.Category, opts.Count, opts.Language, opts.Country),
		func(ctx context.Context) ([]map[string]any, error) {
			return s.scraper.List(ctx, gplay.ListQuery{
				Collection: opts.Collection,
				Category:   opts.Category,
				Count:      opts.Count,
				Language:   opts.Language,
				Country:    opts.Country,
			})
		})
}

func (s Service) ListGetField(ctx context.Context, field string, opts ListOptions) ([]any, error) {
	rows, err := s.ListAnalyze(ctx, opts)
	if err != nil {
		return nil, err
	}
	return fieldFromRows(rows, field), nil
}

func (s Service) ListGetFields(ctx context.Context, fields []string, opts ListOptions) ([]map[string]any, error) {
	rows, err := s.ListAnalyze(ctx, opts)
	if err != nil {
		return nil, err
	}
	return fieldsFromRows(rows, fields), nil
}

func (s Service) ListPrintField(ctx context.Context, field string, opts ListOptions) error {
	rows, err := s.ListAnalyze(ctx, opts)
	if err != nil {
		return err
	}
	s.printRowFields(rows, field)
	return nil
}

func (s Service) ListPrintFields(ctx context.Context, fields []string, opts ListOptions) error {
	rows, err := s.ListAnalyze(ctx, opts)
	if err != nil {
		return err
	}
	s.printRowFields(rows, fields...)
	return nil
}

func (s Service) ListPrintAll(ctx context.Context, opts ListOptions) error {
	rows, err := s.ListAnalyze(ctx, opts)
	if err != nil {
		return err
	}
	return s.printJSON(rows)
}

type SimilarOptions struct {
	Count    int
	Language string
	Country  string
}

func (s Service) SimilarAnalyze(ctx context.Context, appId string, opts SimilarOptions) ([]map[string]any, error) {
	return s.fetchRows(ctx, "SimilarAnalyze",
		cacheKey("similar", appId, opts.Count, opts.Language, opts.Country),
		func(ctx context.Context) ([]map[string]any, error) {
			return s.scraper.Similar(ctx, gplay.SimilarQuery{
				AppId:    appId,
				Count:    opts.Count,
				Language: opts.Language,
				Country:  opts.Country,
			})
		})
}

func (s Service) SimilarGetField(ctx context.Context, appId, field string, opts SimilarOptions) ([]any, error) {
	rows, err := s.SimilarAnalyze(ctx, appId, opts)
	if err != nil {
		return nil, err
	}
	return fieldFromRows(rows, field), nil
}

func (s Service) SimilarGetFields(ctx context.Context, appId string, fields []string, opts SimilarOptions) ([]map[string]any, error) {
	rows, err := s.SimilarAnalyze(ctx, appId, opts)
	if err != nil {
		return nil, err
	}
	return fieldsFromRows(rows, fields), nil
}

func (s Service) SimilarPrintField(ctx context.Context, appId, field string, opts SimilarOptions) error {
	rows, err := s.SimilarAnalyze(ctx, appId, opts)
	if err != nil {
		return err
	}
	s.printRowFields(rows, field)
	return nil
}

func (s Service) SimilarPrintFields(ctx context.Context, appId string, fields []string, opts SimilarOptions) error {
	rows, err := s.SimilarAnalyze(ctx, appId, opts)
	if err != nil {
		return err
	}
	s.printRowFields(rows, fields...)
	return nil
}

func (s Service) SimilarPrintAll(ctx context.Context, appId string, opts SimilarOptions) error {
	rows, err := s.SimilarAnalyze(ctx, appId, opts)
	if err != nil {
		return err
	}
	return s.printJSON(rows)
}
