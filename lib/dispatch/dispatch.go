// Package dispatch bridges submitted forms to the catalog query
// endpoint and renders the outcome into a display view.
package dispatch

import (
	"context"
	"encoding/json"
	"net/url"

	"playscope-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = telemetry.Tracer("dispatch")

// Status is the lifecycle phase of the most recent dispatch.
type Status string

const (
	StatusReady     Status = "Ready"
	StatusRunning   Status = "Running…"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
)

// View is the display region a dispatcher writes into: a result text
// area and a status indicator.
type View interface {
	SetResult(text string)
	SetStatus(status Status)
}

// Form is one submission: an action identifier plus its field
// values. Repeated values for a field are carried through as-is.
type Form struct {
	Action string
	Fields url.Values
}

type Dispatcher struct {
	http *resty.Client
	view View
}

// apiPath is the single backend endpoint every form dispatches to.
const apiPath = "/api/index"

func NewDispatcher(baseUrl string, view View) *Dispatcher {
	client := resty.New()
	client.SetBaseURL(baseUrl)
	return &Dispatcher{
		http: client,
		view: view,
	}
}

// Bind wires a set of form triggers to the dispatcher and resets the
// view. Each returned trigger dispatches its form when invoked; the
// clear trigger blanks the view.
func (d *Dispatcher) Bind(forms ...Form) (triggers []func(ctx context.Context), clear func()) {
	for _, form := range forms {
		form := form
		triggers = append(triggers, func(ctx context.Context) {
			d.Dispatch(ctx, form)
		})
	}
	d.Clear()
	return triggers, d.Clear
}

// Dispatch runs one submission end to end. Every failure mode, from
// transport errors to unparseable bodies, renders the same error
// shape and leaves the dispatcher usable for the next submission.
func (d *Dispatcher) Dispatch(ctx context.Context, form Form) {
	ctx, span := tracer.Start(ctx, "Dispatch")
	defer span.End()
	span.SetAttributes(attribute.String("action", form.Action))

	d.view.SetStatus(StatusRunning)

	params := url.Values{}
	params.Set("action", form.Action)
	for field, values := range form.Fields {
		for _, value := range values {
			if value != "" {
				params.Add(field, value)
			}
		}
	}

	res, err := d.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		Get(apiPath)
	if err != nil {
		span.RecordError(err)
		d.fail(err.Error())
		return
	}

	var body struct {
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		span.RecordError(err)
		d.fail("Unknown error")
		return
	}

	if !res.IsSuccess() {
		message := body.Error
		if message == "" {
			message = "Unknown error"
		}
		d.fail(message)
		return
	}

	var data any
	if err := json.Unmarshal(body.Data, &data); err != nil {
		span.RecordError(err)
		d.fail("Unknown error")
		return
	}

	d.view.SetResult(renderJSON(data))
	d.view.SetStatus(StatusCompleted)
}

// Clear blanks the result region and resets status, regardless of
// prior state.
func (d *Dispatcher) Clear() {
	d.view.SetResult("")
	d.view.SetStatus(StatusReady)
}

func (d *Dispatcher) fail(message string) {
	d.view.SetResult(renderJSON(map[string]string{"error": message}))
	d.view.SetStatus(StatusFailed)
}

func renderJSON(value any) string {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return ""
	}
	return string(encoded)
}
