package aso

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	words := tokenize("Run! Running, RUNS... 5k-tracker")
	require.Equal(t, []string{"run", "running", "runs", "5k", "tracker"}, words)
}

func TestAnalyzeListing(t *testing.T) {
	analysis := AnalyzeListing(
		"Pocket Atlas",
		"Offline maps for travelers.",
		"Pocket Atlas puts offline maps in your pocket. Download maps for any country. Travelers love offline maps.",
	)

	require.Greater(t, analysis.TotalWords, 10)
	require.Greater(t, analysis.UniqueKeywords, 5)
	require.NotEmpty(t, analysis.TopKeywords)
	require.Equal(t, "maps", analysis.TopKeywords[0].Keyword)
	require.Equal(t, 4, analysis.TopKeywords[0].Count)
	require.NotEmpty(t, analysis.TopBigrams)
	require.NotEmpty(t, analysis.CompetitiveKeywords)
	require.NotZero(t, analysis.Readability.FleschScore)
	require.NotEmpty(t, analysis.Readability.Level)
}

func TestTopTermsDeterministic(t *testing.T) {
	counts := map[string]int{"b": 2, "a": 2, "c": 5}
	ranked := topTerms(counts, 3)
	require.Equal(t, []KeywordCount{
		{Keyword: "c", Count: 5},
		{Keyword: "a", Count: 2},
		{Keyword: "b", Count: 2},
	}, ranked)
}

func TestClusterVariantsFoldsPlurals(t *testing.T) {
	clusters := clusterVariants([]KeywordCount{
		{Keyword: "tracker", Count: 5},
		{Keyword: "trackers", Count: 2},
		{Keyword: "atlas", Count: 3},
	})

	require.Len(t, clusters, 2)
	require.Equal(t, "tracker", clusters[0].Keyword)
	require.Equal(t, 7, clusters[0].Count)
	require.Equal(t, []string{"trackers"}, clusters[0].Variants)
}

func TestReadabilityEmptyText(t *testing.T) {
	r := readability("", 0)
	require.Equal(t, "unknown", r.Level)
}

func TestCountSyllables(t *testing.T) {
	require.Equal(t, 1, countSyllables("maps"))
	require.Equal(t, 2, countSyllables("atlas"))
	require.Equal(t, 3, countSyllables("travelers"))
	require.Equal(t, 1, countSyllables("q"))
}
