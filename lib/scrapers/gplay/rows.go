package gplay

import (
	"fmt"

	"playscope-backend/lib/jsontree"
)

// Search results, developer portfolios, top-chart lists and similar-app
// clusters all share one overview row shape.

func parseResultRow(item any, baseUrl string) map[string]any {
	appId := stringField(item, 12, 0)
	var link any
	if id, ok := appId.(string); ok {
		link = fmt.Sprintf("%s/store/apps/details?id=%s", baseUrl, id)
	}

	return map[string]any{
		"appId":     appId,
		"title":     stringField(item, 2),
		"icon":      stringField(item, 1, 1, 1, 3, 2),
		"developer": stringField(item, 4, 0, 0, 0),
		"summary":   htmlField(item, 4, 1, 1, 1, 1),
		"score":     floatField(item, 6, 0, 2, 1, 1),
		"scoreText": stringField(item, 6, 0, 2, 1, 0),
		"price":     priceField(item, 7, 0, 3, 2, 1, 0, 2),
		"currency":  stringField(item, 7, 0, 3, 2, 1, 0, 1),
		"free":      isFreeRow(item),
		"url":       link,
	}
}

func isFreeRow(item any) any {
	price, ok := jsontree.Lookup(item, 7, 0, 3, 2, 1, 0, 2).(float64)
	if !ok {
		// no price block means the install button is free
		return true
	}
	return price == 0
}

func parseResultRows(items any, count int, baseUrl string) []map[string]any {
	arr, ok := items.([]any)
	if !ok {
		return nil
	}
	rows := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		row := parseResultRow(item, baseUrl)
		if row["appId"] == nil {
			continue
		}
		rows = append(rows, row)
		if count > 0 && len(rows) >= count {
			break
		}
	}
	return rows
}
