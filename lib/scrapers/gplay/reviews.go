package gplay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"playscope-backend/lib/jsontree"

	"go.opentelemetry.io/otel/attribute"
)

type ReviewSort int

const (
	SortNewest    ReviewSort = 2
	SortRelevance ReviewSort = 1
	SortRating    ReviewSort = 3
)

const DefaultReviewCount = 100

// reviewPageSize is the maximum row count the endpoint returns per call.
const reviewPageSize = 199

type ReviewsQuery struct {
	AppId    string
	Count    int
	Sort     ReviewSort
	Language string
	Country  string
}

// Reviews pages through user reviews for an app until Count rows are
// collected or the continuation token runs out.
func (c *Client) Reviews(ctx context.Context, q ReviewsQuery) ([]map[string]any, error) {
	ctx, span := tracer.Start(ctx, "Reviews")
	defer span.End()
	span.SetAttributes(attribute.String("appId", q.AppId))

	if q.AppId == "" {
		return nil, fmt.Errorf("%w: appId must be a non-empty string", ErrInvalidInput)
	}
	if q.Count <= 0 {
		q.Count = DefaultReviewCount
	}
	if q.Sort == 0 {
		q.Sort = SortNewest
	}

	var rows []map[string]any
	var token string
	for len(rows) < q.Count {
		size := q.Count - len(rows)
		if size > reviewPageSize {
			size = reviewPageSize
		}

		payload, err := reviewsPayload(q.AppId, size, q.Sort, token)
		if err != nil {
			return nil, err
		}
		decoded, err := c.batchExecute(ctx, rpcReviews, payload, q.Language, q.Country)
		if err != nil {
			return nil, fmt.Errorf("reviews for %q: %w", q.AppId, err)
		}
		if decoded == nil {
			break
		}

		page := extractReviewRows(jsontree.Lookup(decoded, 0))
		if len(page) == 0 {
			break
		}
		rows = append(rows, page...)

		token = jsontree.String(decoded, 1, 1)
		if token == "" {
			break
		}
	}

	if len(rows) > q.Count {
		rows = rows[:q.Count]
	}
	return rows, nil
}

func reviewsPayload(appId string, count int, sort ReviewSort, token string) (string, error) {
	var paging []any
	if token == "" {
		paging = []any{count, nil, nil}
	} else {
		paging = []any{count, nil, token}
	}
	payload, err := json.Marshal([]any{
		[]any{
			nil,
			[]any{2, int(sort), paging, nil, []any{}},
			[]any{appId, 7},
		},
	})
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// extractReviewRows decodes the review row array shared by the reviews
// endpoint and the detail page's embedded review dataset.
func extractReviewRows(rows any) []map[string]any {
	list, ok := rows.([]any)
	if !ok {
		return nil
	}

	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		id := jsontree.String(item, 0)
		if id == "" {
			continue
		}
		row := map[string]any{
			"reviewId":  id,
			"userName":  jsontree.String(item, 1, 0),
			"userImage": jsontree.String(item, 1, 1, 3, 2),
			"content":   jsontree.String(item, 4),
			"score":     jsontree.Int64(item, 2),
		}
		if jsontree.Exists(item, 6) {
			row["thumbsUpCount"] = jsontree.Int64(item, 6)
		}
		if sec := jsontree.Int64(item, 5, 0); sec > 0 {
			row["at"] = time.Unix(sec, 0).UTC().Format(time.RFC3339)
		}
		if reply := jsontree.String(item, 7, 1); reply != "" {
			row["replyContent"] = reply
			if sec := jsontree.Int64(item, 7, 2, 0); sec > 0 {
				row["repliedAt"] = time.Unix(sec, 0).UTC().Format(time.RFC3339)
			}
		}
		if v := jsontree.String(item, 10); v != "" {
			row["appVersion"] = v
		}
		out = append(out, row)
	}
	return out
}
