package gplay

import "strings"

// The image CDN accepts a sizing directive after a "=" suffix on the
// asset URL. ORIGINAL strips the directive entirely.
var assetSuffixes = map[string]string{
	"SMALL":    "=w320-h180",
	"MEDIUM":   "=w640-h360",
	"LARGE":    "=w1280-h720",
	"ORIGINAL": "",
}

var assetFields = []string{"icon", "headerImage", "videoImage"}

func applyAssetSize(record map[string]any, size string) {
	size = strings.ToUpper(size)
	suffix, ok := assetSuffixes[size]
	if !ok {
		return
	}

	for _, field := range assetFields {
		if link, ok := record[field].(string); ok {
			record[field] = resizeAsset(link, suffix)
		}
	}
	if shots, ok := record["screenshots"].([]string); ok {
		resized := make([]string, len(shots))
		for i, link := range shots {
			resized[i] = resizeAsset(link, suffix)
		}
		record["screenshots"] = resized
	}
}

func resizeAsset(link, suffix string) string {
	if base, _, found := strings.Cut(link, "="); found {
		link = base
	}
	return link + suffix
}
