// Package catalog exposes the scraped Play catalog through a uniform
// accessor family: analyze, get-field(s) and print-field(s) methods
// over every resource the store surfaces.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"playscope-backend/lib/scrapers/gplay"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/catalog")

// Scraper is the slice of the play client the service consumes.
type Scraper interface {
	AppDetails(ctx context.Context, q gplay.AppQuery) (map[string]any, error)
	Search(ctx context.Context, q gplay.SearchQuery) ([]map[string]any, error)
	Reviews(ctx context.Context, q gplay.ReviewsQuery) ([]map[string]any, error)
	Developer(ctx context.Context, q gplay.DeveloperQuery) ([]map[string]any, error)
	List(ctx context.Context, q gplay.ListQuery) ([]map[string]any, error)
	Similar(ctx context.Context, q gplay.SimilarQuery) ([]map[string]any, error)
	Suggest(ctx context.Context, q gplay.SuggestQuery) ([]string, error)
}

type Service struct {
	scraper Scraper
	cache   Cache
	out     io.Writer
}

type ServiceOptions struct {
	// defaults to NopCache
	Cache Cache
	// print_* methods write here, defaults to os.Stdout
	Output io.Writer
}

func NewService(scraper Scraper, opts ServiceOptions) Service {
	if opts.Cache == nil {
		opts.Cache = NopCache{}
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return Service{
		scraper: scraper,
		cache:   opts.Cache,
		out:     opts.Output,
	}
}

// printField renders one "name: value" line the way the CLI and the
// print_* family expect it.
func (s Service) printField(field string, value any) {
	fmt.Fprintf(s.out, "%s: %v\n", field, value)
}

func (s Service) printJSON(value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, string(encoded))
	return nil
}

// fieldFromRows projects one field across result rows.
func fieldFromRows(rows []map[string]any, field string) []any {
	values := make([]any, len(rows))
	for i, row := range rows {
		values[i] = row[field]
	}
	return values
}

// fieldsFromRows projects a field subset across result rows.
func fieldsFromRows(rows []map[string]any, fields []string) []map[string]any {
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		selected := make(map[string]any, len(fields))
		for _, field := range fields {
			selected[field] = row[field]
		}
		out[i] = selected
	}
	return out
}

func (s Service) printRowFields(rows []map[string]any, fields ...string) {
	for i, row := range rows {
		if i > 0 {
			fmt.Fprintln(s.out)
		}
		for _, field := range fields {
			s.printField(field, row[field])
		}
	}
}
