package gplay

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func resultRowFixture(appId, title string, priceMicros float64) []any {
	var row []any
	row = put(row, appId, 12, 0)
	row = put(row, title, 2)
	row = put(row, "https://cdn/icon", 1, 1, 1, 3, 2)
	row = put(row, "Atlas Labs", 4, 0, 0, 0)
	row = put(row, "A &amp; B", 4, 1, 1, 1, 1)
	row = put(row, 4.2, 6, 0, 2, 1, 1)
	row = put(row, "4.2", 6, 0, 2, 1, 0)
	if priceMicros >= 0 {
		row = put(row, priceMicros, 7, 0, 3, 2, 1, 0, 2)
		row = put(row, "USD", 7, 0, 3, 2, 1, 0, 1)
	}
	return row
}

func TestParseResultRow(t *testing.T) {
	row := parseResultRow(resultRowFixture("com.atlas", "Pocket Atlas", 2990000), "https://play.google.com")

	require.Equal(t, "com.atlas", row["appId"])
	require.Equal(t, "Pocket Atlas", row["title"])
	require.Equal(t, "Atlas Labs", row["developer"])
	require.Equal(t, "A & B", row["summary"])
	require.Equal(t, 4.2, row["score"])
	require.Equal(t, "4.2", row["scoreText"])
	require.Equal(t, 2.99, row["price"])
	require.Equal(t, "USD", row["currency"])
	require.Equal(t, false, row["free"])
	require.Equal(t, "https://play.google.com/store/apps/details?id=com.atlas", row["url"])
}

func TestParseResultRowFree(t *testing.T) {
	row := parseResultRow(resultRowFixture("com.free", "Freebie", -1), "https://play.google.com")
	require.Equal(t, true, row["free"])
	require.Nil(t, row["price"])
}

func TestParseResultRowsSkipsMalformed(t *testing.T) {
	items := []any{
		resultRowFixture("com.a", "A", -1),
		[]any{"no app id here"},
		resultRowFixture("com.b", "B", -1),
		resultRowFixture("com.c", "C", -1),
	}
	rows := parseResultRows(items, 2, "https://play.google.com")
	require.Len(t, rows, 2)
	require.Equal(t, "com.a", rows[0]["appId"])
	require.Equal(t, "com.b", rows[1]["appId"])
}

func TestSearchEndToEnd(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var inner []any
		inner = put(inner, []any{
			resultRowFixture("com.one", "One", -1),
			resultRowFixture("com.two", "Two", 990000),
		}, 0, 1, 0, 0, 0)
		fmt.Fprint(w, batchEnvelope(t, rpcSearch, inner))
	}))

	rows, err := client.Search(context.Background(), SearchQuery{Query: "atlas"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "com.one", rows[0]["appId"])
	require.Equal(t, 0.99, rows[1]["price"])
}

func TestSearchRequiresQuery(t *testing.T) {
	client, err := NewClient(ClientOptions{})
	require.NoError(t, err)
	_, err = client.Search(context.Background(), SearchQuery{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSuggestEndToEnd(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var inner []any
		inner = put(inner, []any{
			put(nil, "fitness app", 0),
			put(nil, "fitness tracker", 0),
		}, 0, 0)
		fmt.Fprint(w, batchEnvelope(t, rpcSuggest, inner))
	}))

	suggestions, err := client.Suggest(context.Background(), SuggestQuery{Term: "fit"})
	require.NoError(t, err)
	require.Equal(t, []string{"fitness app", "fitness tracker"}, suggestions)
}

func TestSuggestNested(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var inner []any
		inner = put(inner, []any{put(nil, "deeper", 0)}, 0, 0)
		fmt.Fprint(w, batchEnvelope(t, rpcSuggest, inner))
	}))

	nested, seeds, err := client.SuggestNested(context.Background(), SuggestQuery{Term: "seed"})
	require.NoError(t, err)
	require.Equal(t, []string{"deeper"}, seeds)
	require.Equal(t, []string{"deeper"}, nested["deeper"])
}
