package gplay

import (
	"context"
	"fmt"
	"strings"

	"playscope-backend/lib/jsontree"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultDeveloperCount = 20

type DeveloperQuery struct {
	DeveloperId string
	Count       int
	Language    string
	Country     string
}

// Developer lists the portfolio of a developer. Numeric ids resolve
// through /store/apps/dev, display names through /store/apps/developer.
func (c *Client) Developer(ctx context.Context, q DeveloperQuery) ([]map[string]any, error) {
	ctx, span := tracer.Start(ctx, "Developer")
	defer span.End()
	span.SetAttributes(attribute.String("developer_id", q.DeveloperId))

	if q.DeveloperId == "" {
		return nil, fmt.Errorf("%w: developerId must be a non-empty string", ErrInvalidInput)
	}
	if q.Count <= 0 {
		q.Count = DefaultDeveloperCount
	}

	err := c.wait(ctx)
	if err != nil {
		return nil, err
	}

	path := "/store/apps/developer"
	if isNumericId(q.DeveloperId) {
		path = "/store/apps/dev"
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"id": q.DeveloperId,
			"hl": c.language(q.Language),
			"gl": c.region(q.Country),
		}).
		Get(path)
	if err != nil {
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("fetch developer %q: %w", q.DeveloperId, err)
	}
	err = statusError(res.StatusCode())
	if err != nil {
		span.SetStatus(codes.Error, "bad response status")
		return nil, fmt.Errorf("fetch developer %q: %w", q.DeveloperId, err)
	}

	datasets, err := extractDatasets(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract datasets")
		return nil, err
	}
	ds3, ok := datasets["ds:3"]
	if !ok {
		span.SetStatus(codes.Error, "ds:3 missing")
		return nil, fmt.Errorf("%w: developer page carries no ds:3 dataset", ErrParse)
	}

	// the portfolio cluster moves between two slots depending on page
	items := jsontree.Lookup(ds3, 0, 1, 0, 22, 0)
	if items == nil {
		items = jsontree.Lookup(ds3, 0, 1, 0, 21, 0)
	}
	return parseResultRows(items, q.Count, c.BaseUrl.String()), nil
}

func isNumericId(id string) bool {
	if id == "" {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool {
		return r < '0' || r > '9'
	}) == -1
}
