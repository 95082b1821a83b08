package gplay

import (
	"context"
	"fmt"
	"log/slog"

	"playscope-backend/lib/jsontree"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type AppQuery struct {
	AppId    string
	Language string
	Country  string
	// one of "", SMALL, MEDIUM, LARGE, ORIGINAL
	Assets string
}

// AppDetails scrapes the full detail record of a single app. The
// permission and data-safety sections live behind separate RPCs and
// are filled in best-effort.
func (c *Client) AppDetails(ctx context.Context, q AppQuery) (map[string]any, error) {
	ctx, span := tracer.Start(ctx, "AppDetails")
	defer span.End()
	span.SetAttributes(attribute.String("app_id", q.AppId))

	if q.AppId == "" {
		return nil, fmt.Errorf("%w: appId must be a non-empty string", ErrInvalidInput)
	}

	err := c.wait(ctx)
	if err != nil {
		return nil, err
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"id": q.AppId,
			"hl": c.language(q.Language),
			"gl": c.region(q.Country),
		}).
		Get("/store/apps/details")
	if err != nil {
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("fetch details for %q: %w", q.AppId, err)
	}
	err = statusError(res.StatusCode())
	if err != nil {
		span.SetStatus(codes.Error, "bad response status")
		return nil, fmt.Errorf("fetch details for %q: %w", q.AppId, err)
	}

	datasets, err := extractDatasets(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract datasets")
		return nil, err
	}
	ds5, ok := datasets["ds:5"]
	if !ok {
		span.SetStatus(codes.Error, "ds:5 missing")
		return nil, fmt.Errorf("%w: detail page carries no ds:5 dataset", ErrParse)
	}

	record := extractDetails(ds5)
	record["appId"] = q.AppId
	record["url"] = fmt.Sprintf("%s/store/apps/details?id=%s", c.BaseUrl, q.AppId)

	if ds11, ok := datasets["ds:11"]; ok {
		record["reviewsData"] = extractReviewRows(jsontree.Lookup(ds11, 0))
	} else {
		record["reviewsData"] = nil
	}

	applyAssetSize(record, q.Assets)

	// non-fatal sections
	permissions, err := c.permissions(ctx, q)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch permissions", "app_id", q.AppId, "err", err)
	}
	record["permissions"] = permissions

	dataSafety, err := c.dataSafety(ctx, q)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch data safety", "app_id", q.AppId, "err", err)
	}
	record["dataSafety"] = dataSafety

	return record, nil
}
