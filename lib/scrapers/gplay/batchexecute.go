package gplay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"playscope-backend/lib/jsontree"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// rpc ids of the PlayStoreUi batchexecute surface
const (
	rpcSearch      = "lGYRle"
	rpcReviews     = "UsvDTd"
	rpcDeveloper   = "qnKhOb"
	rpcList        = "vyAe2"
	rpcSimilar     = "ag2B9c"
	rpcSuggest     = "IJ4APc"
	rpcPermissions = "xdSrCf"
	rpcDataSafety  = "Ws7gDc"
)

const batchExecutePath = "/_/PlayStoreUi/data/batchexecute"

// batchExecute performs one PlayStoreUi RPC and returns the decoded
// inner payload. The envelope looks like
//
//	)]}'
//	[[["wrb.fr","<rpcid>","<payload json string>",...]]]
//
// where the payload is itself a JSON document.
func (c *Client) batchExecute(ctx context.Context, rpcid, payload, lang, country string) (any, error) {
	ctx, span := tracer.Start(ctx, "batchExecute")
	defer span.End()
	span.SetAttributes(attribute.String("rpcid", rpcid))

	err := c.wait(ctx)
	if err != nil {
		return nil, err
	}

	freq, err := json.Marshal([][][]any{{{rpcid, payload, nil, "generic"}}})
	if err != nil {
		return nil, err
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"rpcids":       rpcid,
			"hl":           c.language(lang),
			"gl":           c.region(country),
			"authuser":     "",
			"soc-app":      "121",
			"soc-platform": "1",
			"soc-device":   "1",
		}).
		SetHeader("content-type", "application/x-www-form-urlencoded;charset=UTF-8").
		SetBody("f.req=" + url.QueryEscape(string(freq))).
		Post(batchExecutePath)
	if err != nil {
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("batchexecute %s: %w", rpcid, err)
	}
	err = statusError(res.StatusCode())
	if err != nil {
		span.SetStatus(codes.Error, "bad response status")
		return nil, fmt.Errorf("batchexecute %s: %w", rpcid, err)
	}

	return decodeBatchPayload(res.Body())
}

func decodeBatchPayload(body []byte) (any, error) {
	raw := string(body)
	// strip the anti-json-hijacking prefix
	raw = strings.TrimPrefix(raw, ")]}'")
	start := strings.Index(raw, "[")
	if start < 0 {
		return nil, fmt.Errorf("%w: batchexecute envelope has no frames", ErrParse)
	}

	inner, err := jsontree.RawString([]byte(raw[start:]), 0, 2)
	if err != nil {
		return nil, fmt.Errorf("%w: batchexecute envelope: %s", ErrParse, err)
	}
	if inner == "" {
		return nil, nil
	}

	var decoded any
	err = json.Unmarshal([]byte(inner), &decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: batchexecute payload: %s", ErrParse, err)
	}
	return decoded, nil
}

func statusError(status int) error {
	switch {
	case status == 404:
		return ErrNotFound
	case status == 429:
		return ErrRateLimited
	case status >= 400:
		return fmt.Errorf("unexpected response status %d", status)
	}
	return nil
}
