package catalog

import (
	"context"
	"time"

	"playscope-backend/lib/aso"
	"playscope-backend/lib/scrapers/gplay"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type AppOptions struct {
	Language string
	Country  string
	// asset sizing, one of "", "SMALL", "MEDIUM", "LARGE", "ORIGINAL"
	Assets string
}

// AppAnalyze scrapes and enriches the full detail record of an app:
// raw store fields, install-velocity metrics and listing keyword
// analysis.
func (s Service) AppAnalyze(ctx context.Context, appId string, opts AppOptions) (map[string]any, error) {
	ctx, span := tracer.Start(ctx, "AppAnalyze")
	defer span.End()
	span.SetAttributes(attribute.String("app_id", appId))

	record, err := cached(ctx, s.cache, cacheKey("app", appId, opts.Language, opts.Country, opts.Assets),
		func() (map[string]any, error) {
			record, err := s.scraper.AppDetails(ctx, gplay.AppQuery{
				AppId:    appId,
				Language: opts.Language,
				Country:  opts.Country,
				Assets:   opts.Assets,
			})
			if err != nil {
				return nil, err
			}

			applyVelocityMetrics(record, time.Now().UTC())

			title, _ := record["title"].(string)
			summary, _ := record["summary"].(string)
			description, _ := record["description"].(string)
			analysis := aso.AnalyzeListing(title, summary, description)
			record["totalWords"] = analysis.TotalWords
			record["uniqueKeywords"] = analysis.UniqueKeywords
			record["topKeywords"] = analysis.TopKeywords
			record["topBigrams"] = analysis.TopBigrams
			record["topTrigrams"] = analysis.TopTrigrams
			record["competitiveKeywords"] = analysis.CompetitiveKeywords
			record["readability"] = analysis.Readability

			return record, nil
		})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return record, nil
}

func (s Service) AppGetField(ctx context.Context, appId, field string, opts AppOptions) (any, error) {
	record, err := s.AppAnalyze(ctx, appId, opts)
	if err != nil {
		return nil, err
	}
	return record[field], nil
}

func (s Service) AppGetFields(ctx context.Context, appId string, fields []string, opts AppOptions) (map[string]any, error) {
	record, err := s.AppAnalyze(ctx, appId, opts)
	if err != nil {
		return nil, err
	}
	selected := make(map[string]any, len(fields))
	for _, field := range fields {
		selected[field] = record[field]
	}
	return selected, nil
}

func (s Service) AppPrintField(ctx context.Context, appId, field string, opts AppOptions) error {
	value, err := s.AppGetField(ctx, appId, field, opts)
	if err != nil {
		return err
	}
	s.printField(field, value)
	return nil
}

func (s Service) AppPrintFields(ctx context.Context, appId string, fields []string, opts AppOptions) error {
	record, err := s.AppAnalyze(ctx, appId, opts)
	if err != nil {
		return err
	}
	for _, field := range fields {
		s.printField(field, record[field])
	}
	return nil
}

func (s Service) AppPrintAll(ctx context.Context, appId string, opts AppOptions) error {
	record, err := s.AppAnalyze(ctx, appId, opts)
	if err != nil {
		return err
	}
	return s.printJSON(record)
}
