package gplay

import (
	"context"
	"encoding/json"

	"playscope-backend/lib/jsontree"
)

// permissions fetches the permission sheet shown behind the "permission
// details" link. The result maps a group label ("Camera", "Location",
// "Other") to the permission texts under it.
func (c *Client) permissions(ctx context.Context, q AppQuery) (map[string][]string, error) {
	ctx, span := tracer.Start(ctx, "permissions")
	defer span.End()

	payload, err := json.Marshal([]any{
		[]any{
			nil,
			[]any{q.AppId, 7},
			[]any{[]any{1, 69, 70, 96, 100, 18}},
		},
	})
	if err != nil {
		return nil, err
	}

	decoded, err := c.batchExecute(ctx, rpcPermissions, string(payload), q.Language, q.Country)
	if err != nil {
		return nil, err
	}

	groups := map[string][]string{}
	// sections 0 and 1 carry labeled groups, section 2 is unlabeled
	for _, section := range []int{0, 1} {
		list, _ := jsontree.Lookup(decoded, section).([]any)
		for _, group := range list {
			label := jsontree.String(group, 0)
			if label == "" {
				continue
			}
			entries, _ := jsontree.Lookup(group, 2).([]any)
			for _, entry := range entries {
				if text := jsontree.String(entry, 1); text != "" {
					groups[label] = append(groups[label], text)
				}
			}
		}
	}
	other, _ := jsontree.Lookup(decoded, 2).([]any)
	for _, entry := range other {
		if text := jsontree.String(entry, 1); text != "" {
			groups["Other"] = append(groups["Other"], text)
		}
	}
	return groups, nil
}

// dataSafety fetches the data-safety section: what the app shares,
// collects, and the security practices it declares.
func (c *Client) dataSafety(ctx context.Context, q AppQuery) (map[string]any, error) {
	ctx, span := tracer.Start(ctx, "dataSafety")
	defer span.End()

	payload, err := json.Marshal([]any{
		[]any{nil, []any{q.AppId, 7}},
	})
	if err != nil {
		return nil, err
	}

	decoded, err := c.batchExecute(ctx, rpcDataSafety, string(payload), q.Language, q.Country)
	if err != nil {
		return nil, err
	}

	root := jsontree.Lookup(decoded, 1, 2)
	result := map[string]any{
		"sharedData":    dataSafetyEntries(jsontree.Lookup(root, 137, 4, 0, 0)),
		"collectedData": dataSafetyEntries(jsontree.Lookup(root, 137, 4, 1, 0)),
	}

	var practices []string
	items, _ := jsontree.Lookup(root, 137, 9, 2).([]any)
	for _, item := range items {
		if text := jsontree.String(item, 1); text != "" {
			practices = append(practices, text)
		}
	}
	result["securityPractices"] = practices

	if url := jsontree.String(root, 99, 0, 5, 2); url != "" {
		result["privacyPolicyUrl"] = url
	}
	return result, nil
}

func dataSafetyEntries(categories any) []map[string]any {
	list, _ := categories.([]any)
	var out []map[string]any
	for _, cat := range list {
		category := jsontree.String(cat, 0, 1)
		entries, _ := jsontree.Lookup(cat, 4).([]any)
		for _, entry := range entries {
			name := jsontree.String(entry, 0)
			if name == "" {
				continue
			}
			row := map[string]any{
				"category": category,
				"data":     name,
			}
			if purpose := jsontree.String(entry, 2); purpose != "" {
				row["purpose"] = purpose
			}
			out = append(out, row)
		}
	}
	return out
}
