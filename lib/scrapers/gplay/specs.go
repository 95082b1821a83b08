package gplay

import (
	"html"
	"strconv"
	"strings"

	"playscope-backend/lib/jsontree"
)

// Field extraction for the ds:5 dataset of an app detail page. The
// app payload itself sits at [1][2] of the dataset, every path below
// is relative to it.

func stringField(root any, path ...any) any {
	if s, ok := jsontree.Lookup(root, path...).(string); ok {
		return s
	}
	return nil
}

func intField(root any, path ...any) any {
	if f, ok := jsontree.Lookup(root, path...).(float64); ok {
		return int64(f)
	}
	return nil
}

func floatField(root any, path ...any) any {
	if f, ok := jsontree.Lookup(root, path...).(float64); ok {
		return f
	}
	return nil
}

func htmlField(root any, path ...any) any {
	if s, ok := jsontree.Lookup(root, path...).(string); ok {
		return unescapeText(s)
	}
	return nil
}

// unescapeText resolves HTML entities and turns <br> into newlines.
func unescapeText(s string) string {
	return html.UnescapeString(strings.ReplaceAll(s, "<br>", "\r\n"))
}

// price fields are stored in micros
func priceField(root any, path ...any) any {
	if f, ok := jsontree.Lookup(root, path...).(float64); ok {
		return f / 1e6
	}
	return nil
}

func extractDetails(ds5 any) map[string]any {
	root := jsontree.Lookup(ds5, 1, 2)

	record := map[string]any{
		"title":       stringField(root, 0, 0),
		"description": htmlField(root, 72, 0, 1),
		"summary":     htmlField(root, 73, 0, 1),

		"installs":     stringField(root, 13, 0),
		"minInstalls":  intField(root, 13, 1),
		"realInstalls": intField(root, 13, 2),

		"score":   floatField(root, 51, 0, 1),
		"ratings": intField(root, 51, 2, 1),
		"reviews": intField(root, 51, 3, 1),

		"price":         priceField(root, 57, 0, 0, 0, 0, 1, 0, 0),
		"currency":      stringField(root, 57, 0, 0, 0, 0, 1, 0, 1),
		"originalPrice": priceField(root, 57, 0, 0, 0, 0, 1, 1, 0),
		"sale":          jsontree.Exists(root, 57, 0, 0, 0, 0, 14, 0, 0),

		"offersIAP":         jsontree.Exists(root, 19, 0),
		"inAppProductPrice": stringField(root, 19, 0),

		"developer":        stringField(root, 68, 0),
		"developerId":      developerIdField(root),
		"developerEmail":   stringField(root, 69, 1, 0),
		"developerWebsite": stringField(root, 69, 0, 5, 2),
		"developerAddress": stringField(root, 69, 2, 0),
		"developerPhone":   stringField(root, 69, 3, 0),
		"privacyPolicy":    stringField(root, 99, 0, 5, 2),

		"genre":      stringField(root, 79, 0, 0, 0),
		"genreId":    stringField(root, 79, 0, 0, 2),
		"categories": extractCategories(root),

		"icon":        stringField(root, 95, 0, 3, 2),
		"headerImage": stringField(root, 96, 0, 3, 2),
		"screenshots": extractScreenshots(root),
		"video":       stringField(root, 100, 0, 0, 3, 2),
		"videoImage":  stringField(root, 100, 1, 0, 3, 2),

		"contentRating":            stringField(root, 9, 0),
		"contentRatingDescription": stringField(root, 9, 2, 1),

		"adSupported": jsontree.Exists(root, 48),
		"containsAds": jsontree.Exists(root, 48, 0),

		"released":      stringField(root, 10, 0),
		"lastUpdatedOn": stringField(root, 145, 0, 0),
		"updated":       intField(root, 145, 0, 1, 0),

		"version":        versionField(root),
		"androidVersion": stringField(root, 140, 1, 1, 0, 0, 1),
		"minandroidapi":  intField(root, 140, 1, 0, 0, 0),
		"maxandroidapi":  intField(root, 140, 1, 0, 0, 1),
		"appBundle":      stringField(root, 140, 1, 0, 0, 2),

		"whatsNew":  htmlField(root, 144, 1, 1),
		"available": jsontree.Exists(root, 18, 0),

		"free": isFreeField(root),

		"histogram": extractHistogram(root),
	}

	return record
}

func isFreeField(root any) any {
	price, ok := jsontree.Lookup(root, 57, 0, 0, 0, 0, 1, 0, 0).(float64)
	if !ok {
		// free apps carry no price block at all
		return true
	}
	return price == 0
}

func versionField(root any) any {
	v := stringField(root, 140, 0, 0, 0)
	if v == nil {
		return "Varies with device"
	}
	return v
}

// the developer link looks like /store/apps/dev?id=<numeric id> or
// /store/apps/developer?id=<name>
func developerIdField(root any) any {
	link, ok := jsontree.Lookup(root, 68, 1, 4, 2).(string)
	if !ok {
		return nil
	}
	_, id, found := strings.Cut(link, "id=")
	if !found {
		return nil
	}
	return id
}

// extractHistogram maps star count to vote count.
func extractHistogram(root any) any {
	buckets, ok := jsontree.Lookup(root, 51, 1).([]any)
	if !ok {
		return nil
	}
	histogram := map[string]int64{}
	for star := 1; star <= 5 && star < len(buckets); star++ {
		histogram[strconv.Itoa(star)] = jsontree.Int64(buckets, star, 1)
	}
	return histogram
}

func extractScreenshots(root any) any {
	entries, ok := jsontree.Lookup(root, 78, 0).([]any)
	if !ok {
		return nil
	}
	shots := make([]string, 0, len(entries))
	for i := range entries {
		if s, ok := jsontree.Lookup(entries, i, 3, 2).(string); ok {
			shots = append(shots, s)
		}
	}
	return shots
}

// categories live in a ragged tree under [118], with the primary
// genre under [79] as a fallback.
func extractCategories(root any) any {
	var categories []map[string]any
	collectCategories(jsontree.Lookup(root, 118), &categories)

	if len(categories) == 0 {
		categories = append(categories, map[string]any{
			"name": stringField(root, 79, 0, 0, 0),
			"id":   stringField(root, 79, 0, 0, 2),
		})
	}
	return categories
}

func collectCategories(node any, out *[]map[string]any) {
	arr, ok := node.([]any)
	if !ok || len(arr) == 0 {
		return
	}

	if len(arr) >= 4 {
		if name, ok := arr[0].(string); ok {
			*out = append(*out, map[string]any{
				"name": name,
				"id":   jsontree.Lookup(arr, 2),
			})
			return
		}
	}
	for _, sub := range arr {
		collectCategories(sub, out)
	}
}
