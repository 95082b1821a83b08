package gplay

import (
	"context"
	"encoding/json"
	"fmt"

	"playscope-backend/lib/jsontree"

	"go.opentelemetry.io/otel/attribute"
)

const DefaultSuggestCount = 5

type SuggestQuery struct {
	Term     string
	Count    int
	Language string
	Country  string
}

// Suggest returns search-box autocomplete terms, most relevant first.
func (c *Client) Suggest(ctx context.Context, q SuggestQuery) ([]string, error) {
	ctx, span := tracer.Start(ctx, "Suggest")
	defer span.End()
	span.SetAttributes(attribute.String("term", q.Term))

	if q.Term == "" {
		return nil, fmt.Errorf("%w: term must be a non-empty string", ErrInvalidInput)
	}
	if q.Count <= 0 {
		q.Count = DefaultSuggestCount
	}

	payload, err := json.Marshal([]any{
		[]any{nil, []any{q.Term}, []any{10}, []any{2}, 4},
	})
	if err != nil {
		return nil, err
	}

	decoded, err := c.batchExecute(ctx, rpcSuggest, string(payload), q.Language, q.Country)
	if err != nil {
		return nil, fmt.Errorf("suggest %q: %w", q.Term, err)
	}

	items, _ := jsontree.Lookup(decoded, 0, 0).([]any)
	suggestions := make([]string, 0, len(items))
	for _, item := range items {
		if s := jsontree.String(item, 0); s != "" {
			suggestions = append(suggestions, s)
		}
		if len(suggestions) >= q.Count {
			break
		}
	}
	return suggestions, nil
}

// SuggestNested expands each suggestion of a seed term with its own
// suggestions, preserving request order.
func (c *Client) SuggestNested(ctx context.Context, q SuggestQuery) (map[string][]string, []string, error) {
	ctx, span := tracer.Start(ctx, "SuggestNested")
	defer span.End()

	seeds, err := c.Suggest(ctx, q)
	if err != nil {
		return nil, nil, err
	}

	nested := make(map[string][]string, len(seeds))
	for _, seed := range seeds {
		expansion, err := c.Suggest(ctx, SuggestQuery{
			Term:     seed,
			Count:    q.Count,
			Language: q.Language,
			Country:  q.Country,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("expand suggestion %q: %w", seed, err)
		}
		nested[seed] = expansion
	}
	return nested, seeds, nil
}
