package gplay

import (
	"context"
	"encoding/json"
	"fmt"

	"playscope-backend/lib/jsontree"

	"go.opentelemetry.io/otel/attribute"
)

const DefaultSearchCount = 20

type SearchQuery struct {
	Query    string
	Count    int
	Language string
	Country  string
}

// Search runs a storefront search and returns overview rows.
func (c *Client) Search(ctx context.Context, q SearchQuery) ([]map[string]any, error) {
	ctx, span := tracer.Start(ctx, "Search")
	defer span.End()
	span.SetAttributes(attribute.String("query", q.Query))

	if q.Query == "" {
		return nil, fmt.Errorf("%w: query must be a non-empty string", ErrInvalidInput)
	}
	if q.Count <= 0 {
		q.Count = DefaultSearchCount
	}

	payload, err := json.Marshal([]any{
		[]any{
			nil,
			[]any{
				[]any{10, []any{10, q.Count}},
				true,
				nil,
				[]any{96, 27, 4, 8, 57, 30, 110, 79, 11, 16, 49, 1, 3, 9, 12, 104, 55, 56, 51, 10, 34, 77},
			},
			nil,
			q.Query,
		},
	})
	if err != nil {
		return nil, err
	}

	decoded, err := c.batchExecute(ctx, rpcSearch, string(payload), q.Language, q.Country)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", q.Query, err)
	}
	if decoded == nil {
		return nil, nil
	}

	// first cluster of the search results page
	items := jsontree.Lookup(decoded, 0, 1, 0, 0, 0)
	return parseResultRows(items, q.Count, c.BaseUrl.String()), nil
}
