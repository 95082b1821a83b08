package gplay

import (
	"context"
	"encoding/json"
	"fmt"

	"playscope-backend/lib/jsontree"

	"go.opentelemetry.io/otel/attribute"
)

const DefaultSimilarCount = 20

type SimilarQuery struct {
	AppId    string
	Count    int
	Language string
	Country  string
}

// Similar returns the "similar apps" cluster for an app.
func (c *Client) Similar(ctx context.Context, q SimilarQuery) ([]map[string]any, error) {
	ctx, span := tracer.Start(ctx, "Similar")
	defer span.End()
	span.SetAttributes(attribute.String("app_id", q.AppId))

	if q.AppId == "" {
		return nil, fmt.Errorf("%w: appId must be a non-empty string", ErrInvalidInput)
	}
	if q.Count <= 0 {
		q.Count = DefaultSimilarCount
	}

	payload, err := json.Marshal([]any{
		[]any{
			nil,
			[]any{q.AppId, 7},
			[]any{[]any{3, []any{20, q.Count}}, true, nil, []any{184, 444}},
		},
	})
	if err != nil {
		return nil, err
	}

	decoded, err := c.batchExecute(ctx, rpcSimilar, string(payload), q.Language, q.Country)
	if err != nil {
		return nil, fmt.Errorf("similar to %q: %w", q.AppId, err)
	}
	if decoded == nil {
		return nil, nil
	}

	items := jsontree.Lookup(decoded, 1, 1, 0, 21, 0)
	return parseResultRows(items, q.Count, c.BaseUrl.String()), nil
}
