package gplay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The Play frontend ships its data model inside script tags of the form
//
//	AF_initDataCallback({key: 'ds:5', hash: '...', data: [...], sideChannel: {}});
//
// The blob is javascript, not quite JSON, so it gets scrubbed before
// decoding.

var datasetKeyRegex = regexp.MustCompile(`key:\s*'(ds:\d+)'`)

var (
	sideChannelRegex   = regexp.MustCompile(`,\s*sideChannel:\s*\{\}`)
	bareKeyRegex       = regexp.MustCompile(`([{,]\s*)(\w+)(:)`)
	singleQuotedRegex  = regexp.MustCompile(`:\s*'([^']*)'`)
	trailingCommaRegex = regexp.MustCompile(`,(\s*[}\]])`)
	doubleCommaRegex   = regexp.MustCompile(`,,+`)
)

// cleanDatasetJSON normalizes a dataset blob into strict JSON.
func cleanDatasetJSON(blob string) string {
	blob = sideChannelRegex.ReplaceAllString(blob, "")
	blob = bareKeyRegex.ReplaceAllString(blob, `$1"$2"$3`)
	blob = singleQuotedRegex.ReplaceAllString(blob, `: "$1"`)
	blob = trailingCommaRegex.ReplaceAllString(blob, `$1`)
	blob = doubleCommaRegex.ReplaceAllString(blob, ",")
	blob = trailingCommaRegex.ReplaceAllString(blob, `$1`)
	return blob
}

// extractDatasets pulls every ds:* payload out of a store page,
// keyed by dataset name.
func extractDatasets(page []byte) (map[string]any, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, err)
	}

	datasets := map[string]any{}
	doc.Find("script").Each(func(_ int, script *goquery.Selection) {
		text := script.Text()
		if !strings.Contains(text, "AF_initDataCallback") {
			return
		}
		keyGroups := datasetKeyRegex.FindStringSubmatch(text)
		if len(keyGroups) < 2 {
			return
		}

		start := strings.Index(text, "data:")
		end := strings.LastIndex(text, ", sideChannel")
		if start < 0 || end < 0 || end <= start {
			return
		}
		blob := cleanDatasetJSON(text[start+len("data:") : end])

		var decoded any
		err := json.Unmarshal([]byte(blob), &decoded)
		if err != nil {
			// some datasets carry scripts we don't care about and
			// cannot clean, skip them
			return
		}
		datasets[keyGroups[1]] = decoded
	})

	if len(datasets) == 0 {
		return nil, fmt.Errorf("%w: no datasets in page", ErrParse)
	}
	return datasets, nil
}
