package catalog

import (
	"context"
	"fmt"

	"playscope-backend/lib/scrapers/gplay"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type SuggestOptions struct {
	Count    int
	Language string
	Country  string
}

// SuggestAnalyze returns autocomplete terms for a seed, most relevant
// first.
func (s Service) SuggestAnalyze(ctx context.Context, term string, opts SuggestOptions) ([]string, error) {
	ctx, span := tracer.Start(ctx, "SuggestAnalyze")
	defer span.End()
	span.SetAttributes(attribute.String("term", term))

	suggestions, err := cached(ctx, s.cache,
		cacheKey("suggest", term, opts.Count, opts.Language, opts.Country),
		func() ([]string, error) {
			return s.scraper.Suggest(ctx, gplay.SuggestQuery{
				Term:     term,
				Count:    opts.Count,
				Language: opts.Language,
				Country:  opts.Country,
			})
		})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return suggestions, nil
}

// SuggestNested expands each suggestion with its own suggestions,
// preserving the order the store returned the seeds in.
func (s Service) SuggestNested(ctx context.Context, term string, opts SuggestOptions) (map[string][]string, []string, error) {
	ctx, span := tracer.Start(ctx, "SuggestNested")
	defer span.End()

	seeds, err := s.SuggestAnalyze(ctx, term, opts)
	if err != nil {
		return nil, nil, err
	}

	nested := make(map[string][]string, len(seeds))
	for _, seed := range seeds {
		expansion, err := s.SuggestAnalyze(ctx, seed, opts)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, nil, fmt.Errorf("expand suggestion %q: %w", seed, err)
		}
		nested[seed] = expansion
	}
	return nested, seeds, nil
}

func (s Service) SuggestPrintAll(ctx context.Context, term string, opts SuggestOptions) error {
	suggestions, err := s.SuggestAnalyze(ctx, term, opts)
	if err != nil {
		return err
	}
	return s.printJSON(suggestions)
}

func (s Service) SuggestPrintNested(ctx context.Context, term string, opts SuggestOptions) error {
	nested, seeds, err := s.SuggestNested(ctx, term, opts)
	if err != nil {
		return err
	}
	for _, seed := range seeds {
		fmt.Fprintf(s.out, "%s:\n", seed)
		for _, expansion := range nested[seed] {
			fmt.Fprintf(s.out, "  %s\n", expansion)
		}
	}
	return nil
}
