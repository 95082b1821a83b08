package gplay

import (
	"context"
	"encoding/json"
	"fmt"

	"playscope-backend/lib/jsontree"

	"go.opentelemetry.io/otel/attribute"
)

// Top-chart collections.
const (
	CollectionTopFree     = "topselling_free"
	CollectionTopPaid     = "topselling_paid"
	CollectionTopGrossing = "topgrossing"
)

const (
	DefaultCollection = CollectionTopFree
	DefaultCategory   = "APPLICATION"
	DefaultListCount  = 100
)

type ListQuery struct {
	Collection string
	Category   string
	Count      int
	Language   string
	Country    string
}

// List fetches a top-chart cluster for a collection/category pair.
func (c *Client) List(ctx context.Context, q ListQuery) ([]map[string]any, error) {
	ctx, span := tracer.Start(ctx, "List")
	defer span.End()

	if q.Collection == "" {
		q.Collection = DefaultCollection
	}
	if q.Category == "" {
		q.Category = DefaultCategory
	}
	if q.Count <= 0 {
		q.Count = DefaultListCount
	}
	span.SetAttributes(
		attribute.String("collection", q.Collection),
		attribute.String("category", q.Category),
	)

	payload, err := json.Marshal([]any{
		[]any{
			nil,
			[]any{
				[]any{8, []any{20, q.Count}},
				true,
				nil,
				[]any{64, 1, 195, 71, 8, 72, 9, 10, 11, 139, 12, 16, 145, 148, 150, 151, 152, 27, 30, 31, 96, 32, 34, 163, 100, 165, 104, 169, 108, 110, 113, 55, 56, 57, 201},
			},
			nil,
			[]any{2, q.Collection, q.Category},
		},
	})
	if err != nil {
		return nil, err
	}

	decoded, err := c.batchExecute(ctx, rpcList, string(payload), q.Language, q.Country)
	if err != nil {
		return nil, fmt.Errorf("list %s/%s: %w", q.Collection, q.Category, err)
	}
	if decoded == nil {
		return nil, nil
	}

	items, _ := jsontree.Lookup(decoded, 0, 1, 0, 28, 0).([]any)
	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		row := parseChartRow(item, c.BaseUrl.String())
		if row["appId"] == nil {
			continue
		}
		rows = append(rows, row)
		if len(rows) >= q.Count {
			break
		}
	}
	return rows, nil
}

// parseChartRow decodes a top-chart row, which carries its fields at
// different offsets than the overview rows parseResultRow handles.
func parseChartRow(item any, baseUrl string) map[string]any {
	appId := stringField(item, 0, 0)
	var link any
	if id, ok := appId.(string); ok {
		link = fmt.Sprintf("%s/store/apps/details?id=%s", baseUrl, id)
	}

	row := map[string]any{
		"appId":     appId,
		"title":     stringField(item, 3),
		"icon":      stringField(item, 1, 3, 2),
		"developer": stringField(item, 14),
		"score":     floatField(item, 4, 1),
		"scoreText": stringField(item, 4, 0),
		"priceText": stringField(item, 8, 1, 0, 2),
		"url":       link,
	}
	row["free"] = row["priceText"] == nil
	return row
}
