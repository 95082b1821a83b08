// Package webapi serves the catalog accessor family over a single
// GET /api/index endpoint dispatched by an "action" query parameter.
package webapi

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"playscope-backend/lib/scrapers/gplay"
	"playscope-backend/services/catalog"
	"playscope-backend/services/snapshots"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/webapi")

//go:embed static
var staticFiles embed.FS

type Service struct {
	catalog catalog.Service
	// nil disables metric snapshotting on app analyzes
	snapshots *snapshots.Service
}

func NewService(catalogService catalog.Service, snapshotService *snapshots.Service) Service {
	return Service{
		catalog:   catalogService,
		snapshots: snapshotService,
	}
}

func (s Service) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(enableCORS)

	router.Get("/api/index", s.handleIndex)
	router.Options("/api/index", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	router.Handle("/*", http.FileServer(http.FS(static)))

	return router
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		next.ServeHTTP(w, r)
	})
}

type actionHandler func(ctx context.Context, s Service, args args) (any, error)

var actionMap = map[string]actionHandler{
	"app":       handleApp,
	"search":    handleSearch,
	"reviews":   handleReviews,
	"developer": handleDeveloper,
	"list":      handleList,
	"similar":   handleSimilar,
	"suggest":   handleSuggest,
}

func (s Service) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleIndex")
	defer span.End()

	action := strings.ToLower(r.URL.Query().Get("action"))
	span.SetAttributes(attribute.String("action", action))

	if action == "" {
		writeError(w, http.StatusBadRequest, "Missing 'action' query parameter.")
		return
	}
	handler, ok := actionMap[action]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unsupported action '"+action+"'.")
		return
	}

	data, err := handler(ctx, s, args{r.URL.Query()})
	if err != nil {
		status, message := errorResponse(err)
		if status == http.StatusInternalServerError {
			slog.ErrorContext(ctx, "action failed", "action", action, "err", err)
		}
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

// errorResponse maps a failure to a status and a client-safe message.
// Upstream scrape failures surface as 502, everything unexpected is a
// generic 500.
func errorResponse(err error) (int, string) {
	var missing missingParamError
	switch {
	case errors.As(err, &missing):
		return http.StatusBadRequest, missing.Error()
	case errors.Is(err, gplay.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, gplay.ErrNotFound),
		errors.Is(err, gplay.ErrRateLimited),
		errors.Is(err, gplay.ErrParse):
		return http.StatusBadGateway, err.Error()
	}
	return http.StatusInternalServerError, "Unexpected server error."
}

type missingParamError struct {
	name string
}

func (e missingParamError) Error() string {
	return "Missing required '" + e.name + "' parameter."
}

type args struct {
	values map[string][]string
}

func (a args) get(name string) string {
	if v, ok := a.values[name]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}

func (a args) require(name string) (string, error) {
	v := a.get(name)
	if v == "" {
		return "", missingParamError{name: name}
	}
	return v, nil
}

func (a args) count(fallback int) int {
	raw := a.get("count")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func (a args) fields() []string {
	raw := a.get("fields")
	if raw == "" {
		return nil
	}
	var fields []string
	for _, field := range strings.Split(raw, ",") {
		if field = strings.TrimSpace(field); field != "" {
			fields = append(fields, field)
		}
	}
	return fields
}

func handleApp(ctx context.Context, s Service, a args) (any, error) {
	appId, err := a.require("appId")
	if err != nil {
		return nil, err
	}
	opts := catalog.AppOptions{
		Language: a.get("lang"),
		Country:  a.get("country"),
		Assets:   a.get("assets"),
	}

	if fields := a.fields(); fields != nil {
		return s.catalog.AppGetFields(ctx, appId, fields, opts)
	}

	record, err := s.catalog.AppAnalyze(ctx, appId, opts)
	if err != nil {
		return nil, err
	}
	if s.snapshots != nil {
		if err := s.snapshots.PushRecord(ctx, record, time.Now()); err != nil {
			slog.WarnContext(ctx, "failed to push metric snapshot", "app_id", appId, "err", err)
		}
	}
	return record, nil
}

func handleSearch(ctx context.Context, s Service, a args) (any, error) {
	query, err := a.require("query")
	if err != nil {
		return nil, err
	}
	opts := catalog.SearchOptions{
		Count:    a.count(gplay.DefaultSearchCount),
		Language: a.get("lang"),
		Country:  a.get("country"),
	}
	if fields := a.fields(); fields != nil {
		return s.catalog.SearchGetFields(ctx, query, fields, opts)
	}
	return s.catalog.SearchAnalyze(ctx, query, opts)
}

func handleReviews(ctx context.Context, s Service, a args) (any, error) {
	appId, err := a.require("appId")
	if err != nil {
		return nil, err
	}
	opts := catalog.ReviewsOptions{
		Count:    a.count(gplay.DefaultReviewCount),
		Sort:     reviewSort(a.get("sort")),
		Language: a.get("lang"),
		Country:  a.get("country"),
	}
	if fields := a.fields(); fields != nil {
		return s.catalog.ReviewsGetFields(ctx, appId, fields, opts)
	}
	return s.catalog.ReviewsAnalyze(ctx, appId, opts)
}

func reviewSort(name string) gplay.ReviewSort {
	switch strings.ToLower(name) {
	case "relevance", "most_relevant":
		return gplay.SortRelevance
	case "rating":
		return gplay.SortRating
	default:
		return gplay.SortNewest
	}
}

func handleDeveloper(ctx context.Context, s Service, a args) (any, error) {
	developerId, err := a.require("developerId")
	if err != nil {
		return nil, err
	}
	opts := catalog.DeveloperOptions{
		Count:    a.count(gplay.DefaultDeveloperCount),
		Language: a.get("lang"),
		Country:  a.get("country"),
	}
	if fields := a.fields(); fields != nil {
		return s.catalog.DeveloperGetFields(ctx, developerId, fields, opts)
	}
	return s.catalog.DeveloperAnalyze(ctx, developerId, opts)
}

func handleList(ctx context.Context, s Service, a args) (any, error) {
	opts := catalog.ListOptions{
		Collection: a.get("collection"),
		Category:   a.get("category"),
		Count:      a.count(gplay.DefaultListCount),
		Language:   a.get("lang"),
		Country:    a.get("country"),
	}
	if fields := a.fields(); fields != nil {
		return s.catalog.ListGetFields(ctx, fields, opts)
	}
	return s.catalog.ListAnalyze(ctx, opts)
}

func handleSimilar(ctx context.Context, s Service, a args) (any, error) {
	appId, err := a.require("appId")
	if err != nil {
		return nil, err
	}
	opts := catalog.SimilarOptions{
		Count:    a.count(gplay.DefaultSimilarCount),
		Language: a.get("lang"),
		Country:  a.get("country"),
	}
	if fields := a.fields(); fields != nil {
		return s.catalog.SimilarGetFields(ctx, appId, fields, opts)
	}
	return s.catalog.SimilarAnalyze(ctx, appId, opts)
}

func handleSuggest(ctx context.Context, s Service, a args) (any, error) {
	term, err := a.require("term")
	if err != nil {
		return nil, err
	}
	opts := catalog.SuggestOptions{
		Count:    a.count(gplay.DefaultSuggestCount),
		Language: a.get("lang"),
		Country:  a.get("country"),
	}
	if a.get("nested") == "true" {
		nested, _, err := s.catalog.SuggestNested(ctx, term, opts)
		if err != nil {
			return nil, err
		}
		return nested, nil
	}
	return s.catalog.SuggestAnalyze(ctx, term, opts)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
