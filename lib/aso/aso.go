// Package aso scores store-listing text for keyword coverage and
// readability.
package aso

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	topKeywordCount = 10
	topPhraseCount  = 5

	// two keywords closer than this are treated as variants of the
	// same term ("run"/"runs", "photo"/"photos")
	variantSimilarity = 0.92
)

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true,
	"at": true, "be": true, "by": true, "for": true, "from": true,
	"has": true, "have": true, "in": true, "is": true, "it": true,
	"its": true, "more": true, "not": true, "of": true, "on": true,
	"or": true, "our": true, "that": true, "the": true, "their": true,
	"this": true, "to": true, "was": true, "will": true, "with": true,
	"you": true, "your": true, "we": true, "all": true, "can": true,
	"app": true, "apps": true,
}

type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

type KeywordCluster struct {
	Keyword  string   `json:"keyword"`
	Variants []string `json:"variants"`
	Count    int      `json:"count"`
}

type Readability struct {
	FleschScore float64 `json:"fleschScore"`
	Level       string  `json:"level"`
	Sentences   int     `json:"sentences"`
	WordCount   int     `json:"wordCount"`
}

type Analysis struct {
	TotalWords          int              `json:"totalWords"`
	UniqueKeywords      int              `json:"uniqueKeywords"`
	TopKeywords         []KeywordCount   `json:"topKeywords"`
	TopBigrams          []KeywordCount   `json:"topBigrams"`
	TopTrigrams         []KeywordCount   `json:"topTrigrams"`
	CompetitiveKeywords []KeywordCluster `json:"competitiveKeywords"`
	Readability         Readability      `json:"readability"`
}

// AnalyzeListing scores the text surface of a detail record: title,
// summary and description.
func AnalyzeListing(title, summary, description string) Analysis {
	text := strings.Join([]string{title, summary, description}, ". ")

	words := tokenize(text)
	keywords := filterStopwords(words)

	counts := countTerms(keywords)
	return Analysis{
		TotalWords:          len(words),
		UniqueKeywords:      len(counts),
		TopKeywords:         topTerms(counts, topKeywordCount),
		TopBigrams:          topTerms(countTerms(ngrams(keywords, 2)), topPhraseCount),
		TopTrigrams:         topTerms(countTerms(ngrams(keywords, 3)), topPhraseCount),
		CompetitiveKeywords: clusterVariants(topTerms(counts, topKeywordCount*2)),
		Readability:         readability(text, len(words)),
	}
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		letter := r >= 'a' && r <= 'z'
		digit := r >= '0' && r <= '9'
		return !letter && !digit && r < 0x80
	})
	words := make([]string, 0, len(fields))
	for _, w := range fields {
		if len(w) > 1 {
			words = append(words, w)
		}
	}
	return words
}

func filterStopwords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !stopwords[w] {
			out = append(out, w)
		}
	}
	return out
}

func ngrams(words []string, n int) []string {
	if len(words) < n {
		return nil
	}
	grams := make([]string, 0, len(words)-n+1)
	for i := 0; i+n <= len(words); i++ {
		grams = append(grams, strings.Join(words[i:i+n], " "))
	}
	return grams
}

func countTerms(terms []string) map[string]int {
	counts := map[string]int{}
	for _, t := range terms {
		counts[t]++
	}
	return counts
}

// topTerms sorts descending by count, ties alphabetically so output
// is deterministic.
func topTerms(counts map[string]int, n int) []KeywordCount {
	ranked := make([]KeywordCount, 0, len(counts))
	for term, count := range counts {
		ranked = append(ranked, KeywordCount{Keyword: term, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Keyword < ranked[j].Keyword
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// clusterVariants folds near-identical keywords into one cluster so
// plural/singular pairs don't crowd the ranking.
func clusterVariants(ranked []KeywordCount) []KeywordCluster {
	var clusters []KeywordCluster
	for _, kw := range ranked {
		merged := false
		for i := range clusters {
			if matchr.JaroWinkler(clusters[i].Keyword, kw.Keyword, false) >= variantSimilarity {
				clusters[i].Variants = append(clusters[i].Variants, kw.Keyword)
				clusters[i].Count += kw.Count
				merged = true
				break
			}
		}
		if !merged {
			clusters = append(clusters, KeywordCluster{
				Keyword: kw.Keyword,
				Count:   kw.Count,
			})
		}
	}
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Count > clusters[j].Count
	})
	return clusters
}

func readability(text string, wordCount int) Readability {
	sentences := countSentences(text)
	if wordCount == 0 || sentences == 0 {
		return Readability{Level: "unknown"}
	}

	syllables := 0
	for _, w := range tokenize(text) {
		syllables += countSyllables(w)
	}

	words := float64(wordCount)
	score := 206.835 - 1.015*(words/float64(sentences)) - 84.6*(float64(syllables)/words)
	return Readability{
		FleschScore: score,
		Level:       readabilityLevel(score),
		Sentences:   sentences,
		WordCount:   wordCount,
	}
}

func countSentences(text string) int {
	count := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
		}
	}
	if count == 0 && strings.TrimSpace(text) != "" {
		count = 1
	}
	return count
}

// countSyllables approximates by counting vowel groups.
func countSyllables(word string) int {
	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

func readabilityLevel(score float64) string {
	switch {
	case score >= 90:
		return "very easy"
	case score >= 70:
		return "easy"
	case score >= 50:
		return "medium"
	case score >= 30:
		return "difficult"
	default:
		return "very difficult"
	}
}
