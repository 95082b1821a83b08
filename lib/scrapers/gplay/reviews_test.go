package gplay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func reviewRowFixture(id, content string, score int) []any {
	var row []any
	row = put(row, id, 0)
	row = put(row, "Jordan", 1, 0)
	row = put(row, "https://cdn/avatar", 1, 1, 3, 2)
	row = put(row, content, 4)
	row = put(row, float64(score), 2)
	row = put(row, float64(12), 6)
	row = put(row, float64(1700000000), 5, 0)
	row = put(row, "Thanks for the feedback!", 7, 1)
	row = put(row, float64(1700003600), 7, 2, 0)
	row = put(row, "1.2.3", 10)
	return row
}

func TestExtractReviewRows(t *testing.T) {
	rows := extractReviewRows([]any{
		reviewRowFixture("gp:review-1", "love it", 5),
		[]any{nil, "malformed row without an id"},
		reviewRowFixture("gp:review-2", "meh", 2),
	})

	require.Len(t, rows, 2)
	require.Equal(t, "gp:review-1", rows[0]["reviewId"])
	require.Equal(t, "Jordan", rows[0]["userName"])
	require.Equal(t, "love it", rows[0]["content"])
	require.Equal(t, int64(5), rows[0]["score"])
	require.Equal(t, int64(12), rows[0]["thumbsUpCount"])
	require.Equal(t, "2023-11-14T22:13:20Z", rows[0]["at"])
	require.Equal(t, "Thanks for the feedback!", rows[0]["replyContent"])
	require.Equal(t, "1.2.3", rows[0]["appVersion"])
	require.Equal(t, int64(2), rows[1]["score"])
}

func TestReviewsPayloadToken(t *testing.T) {
	first, err := reviewsPayload("com.example", 50, SortNewest, "")
	require.NoError(t, err)
	require.NotContains(t, first, "next-page")

	cont, err := reviewsPayload("com.example", 50, SortNewest, "next-page")
	require.NoError(t, err)
	require.Contains(t, cont, "next-page")
	require.Contains(t, cont, "com.example")
}

func TestReviewsPagination(t *testing.T) {
	pages := 0
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		var inner []any
		inner = put(inner, []any{
			reviewRowFixture(fmt.Sprintf("gp:page%d-a", pages), "first", 5),
			reviewRowFixture(fmt.Sprintf("gp:page%d-b", pages), "second", 4),
		}, 0)
		if pages == 1 {
			inner = put(inner, "token-2", 1, 1)
		}
		fmt.Fprint(w, batchEnvelope(t, rpcReviews, inner))
	}))

	rows, err := client.Reviews(context.Background(), ReviewsQuery{
		AppId: "com.example",
		Count: 3,
	})
	require.NoError(t, err)
	require.Equal(t, 2, pages)
	require.Len(t, rows, 3)
	require.Equal(t, "gp:page1-a", rows[0]["reviewId"])
	require.Equal(t, "gp:page2-a", rows[2]["reviewId"])
}

func TestReviewsRequiresAppId(t *testing.T) {
	client, err := NewClient(ClientOptions{})
	require.NoError(t, err)
	_, err = client.Reviews(context.Background(), ReviewsQuery{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestReviewRowsSurviveJSON(t *testing.T) {
	rows := extractReviewRows([]any{reviewRowFixture("gp:r", "ok", 3)})
	_, err := json.Marshal(rows)
	require.NoError(t, err)
}
