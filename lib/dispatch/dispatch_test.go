package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeView struct {
	result   string
	status   Status
	statuses []Status
}

func (v *fakeView) SetResult(text string) {
	v.result = text
}

func (v *fakeView) SetStatus(status Status) {
	v.status = status
	v.statuses = append(v.statuses, status)
}

func setupDispatcher(t *testing.T, handler http.HandlerFunc) (*Dispatcher, *fakeView) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	view := &fakeView{}
	return NewDispatcher(server.URL, view), view
}

func TestDispatchSuccess(t *testing.T) {
	var gotQuery url.Values
	dispatcher, view := setupDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"data": {"x": 1}}`)
	})

	dispatcher.Dispatch(context.Background(), Form{
		Action: "app",
		Fields: url.Values{
			"appId": {"com.atlas"},
			"blank": {""},
		},
	})

	require.Equal(t, "app", gotQuery.Get("action"))
	require.Equal(t, "com.atlas", gotQuery.Get("appId"))
	// empty fields never reach the query string
	require.NotContains(t, gotQuery, "blank")

	require.Equal(t, "{\n  \"x\": 1\n}", view.result)
	require.Equal(t, StatusCompleted, view.status)
	require.Equal(t, []Status{StatusRunning, StatusCompleted}, view.statuses)
}

func TestDispatchRepeatedFieldValues(t *testing.T) {
	var gotQuery url.Values
	dispatcher, _ := setupDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"data": []}`)
	})

	dispatcher.Dispatch(context.Background(), Form{
		Action: "search",
		Fields: url.Values{"tag": {"a", "b"}},
	})
	require.Equal(t, []string{"a", "b"}, gotQuery["tag"])
}

func TestDispatchServerError(t *testing.T) {
	dispatcher, view := setupDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": "bad request"}`)
	})

	dispatcher.Dispatch(context.Background(), Form{Action: "app"})

	require.Equal(t, "{\n  \"error\": \"bad request\"\n}", view.result)
	require.Equal(t, StatusFailed, view.status)
}

func TestDispatchErrorMessageFallback(t *testing.T) {
	dispatcher, view := setupDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{}`)
	})

	dispatcher.Dispatch(context.Background(), Form{Action: "app"})

	require.Equal(t, "{\n  \"error\": \"Unknown error\"\n}", view.result)
	require.Equal(t, StatusFailed, view.status)
}

func TestDispatchMalformedBody(t *testing.T) {
	dispatcher, view := setupDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json at all`)
	})

	dispatcher.Dispatch(context.Background(), Form{Action: "app"})

	require.Equal(t, "{\n  \"error\": \"Unknown error\"\n}", view.result)
	require.Equal(t, StatusFailed, view.status)
}

func TestDispatchTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	view := &fakeView{}
	dispatcher := NewDispatcher(server.URL, view)
	dispatcher.Dispatch(context.Background(), Form{Action: "app"})

	require.Equal(t, StatusFailed, view.status)
	require.Contains(t, view.result, `"error"`)
}

func TestDispatcherSurvivesFailure(t *testing.T) {
	calls := 0
	dispatcher, view := setupDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error": "boom"}`)
			return
		}
		fmt.Fprint(w, `{"data": "ok"}`)
	})

	dispatcher.Dispatch(context.Background(), Form{Action: "app"})
	require.Equal(t, StatusFailed, view.status)

	dispatcher.Dispatch(context.Background(), Form{Action: "app"})
	require.Equal(t, StatusCompleted, view.status)
	require.Equal(t, `"ok"`, view.result)
}

func TestClear(t *testing.T) {
	dispatcher, view := setupDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": 1}`)
	})

	dispatcher.Dispatch(context.Background(), Form{Action: "app"})
	require.Equal(t, StatusCompleted, view.status)

	dispatcher.Clear()
	require.Equal(t, "", view.result)
	require.Equal(t, StatusReady, view.status)
}

func TestBind(t *testing.T) {
	dispatched := 0
	dispatcher, view := setupDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		dispatched++
		fmt.Fprint(w, `{"data": 1}`)
	})

	triggers, clear := dispatcher.Bind(
		Form{Action: "app"},
		Form{Action: "search"},
	)
	require.Len(t, triggers, 2)
	// binding resets the view
	require.Equal(t, StatusReady, view.status)

	triggers[0](context.Background())
	require.Equal(t, 1, dispatched)
	require.Equal(t, StatusCompleted, view.status)

	clear()
	require.Equal(t, StatusReady, view.status)
	require.Equal(t, "", view.result)
}
