package restyutil

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/semconv/v1.13.0/httpconv"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentOutput receives a formatted dump of every request/response
// pair made by an instrumented client. Dumps are only produced while
// debug logging is enabled.
type InstrumentOutput interface {
	Write(id string, contents string)
}

type instrumenter struct {
	tracer trace.Tracer
	output InstrumentOutput
	nextId atomic.Uint64
}

type exchangeIdKey struct{}

// InstrumentClient attaches tracing and debug dump hooks to a resty client.
// A nil tracer falls back to a "resty" tracer; a nil output disables dumps.
func InstrumentClient(client *resty.Client, tracer trace.Tracer, output InstrumentOutput) {
	if tracer == nil {
		tracer = otel.Tracer("resty")
	}

	i := &instrumenter{tracer: tracer, output: output}
	client.OnBeforeRequest(i.beforeRequest)
	client.OnAfterResponse(i.afterResponse)
	client.OnError(i.onError)
}

func (i *instrumenter) beforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx, _ := i.tracer.Start(req.Context(), "http "+req.Method)

	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		id := strconv.FormatUint(i.nextId.Add(1), 10)
		ctx = context.WithValue(ctx, exchangeIdKey{}, id)
		slog.DebugContext(
			ctx, "start request",
			"method", req.Method,
			"url", req.URL,
			"exchange_id", id,
		)
	}

	req.SetContext(ctx)
	return nil
}

func (i *instrumenter) afterResponse(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	// req.RawRequest only exists once the request has gone out, so the
	// request attributes are recorded here rather than in beforeRequest
	span.SetAttributes(httpconv.ClientRequest(res.Request.RawRequest)...)
	span.SetAttributes(httpconv.ClientResponse(res.RawResponse)...)

	if id, ok := ctx.Value(exchangeIdKey{}).(string); ok {
		if i.output != nil {
			i.output.Write(id, formatHttpMessage(res))
		}
		slog.DebugContext(
			ctx, "request finished",
			"method", res.Request.Method,
			"url", res.Request.URL,
			"status", res.StatusCode(),
			"exchange_id", id,
		)
	}

	return nil
}

func (i *instrumenter) onError(req *resty.Request, err error) {
	ctx := req.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.RecordError(err)
	span.SetStatus(codes.Error, "request failed")
	if req.RawRequest != nil {
		span.SetAttributes(httpconv.ClientRequest(req.RawRequest)...)
	}

	slog.ErrorContext(
		ctx, "request failed",
		"method", req.Method,
		"url", req.URL,
		"err", err,
	)
}
