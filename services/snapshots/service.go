// Package snapshots stores a daily time series of catalog metrics per
// tracked app, one snapshot per day with same-day rows replaced on
// push.
package snapshots

import (
	"context"
	"database/sql"
	"time"

	"playscope-backend/services/snapshots/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/snapshots")

type Service struct {
	db  *sql.DB
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{
		db:  database,
		qry: db.New(database),
	}
}

type Metrics struct {
	Score        float64
	Ratings      int64
	Reviews      int64
	MinInstalls  int64
	RealInstalls int64
}

type Snapshot struct {
	Time    time.Time
	Metrics Metrics
}

// Push records a snapshot for an app. A second push on the same UTC
// day overwrites the earlier one.
func (s Service) Push(ctx context.Context, appId string, at time.Time, metrics Metrics) error {
	ctx, span := tracer.Start(ctx, "Push")
	defer span.End()
	span.SetAttributes(attribute.String("app_id", appId))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	err = txqry.CreateTrackedApp(ctx, appId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	trackedAppId, err := txqry.GetTrackedAppId(ctx, appId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	at = at.UTC()
	startOfToday := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC).Unix()
	startOfTomorrow := time.Date(at.Year(), at.Month(), at.Day()+1, 0, 0, 0, 0, time.UTC).Unix()

	err = txqry.DeleteMetricSnapshotsIn(ctx, db.DeleteMetricSnapshotsInParams{
		TrackedAppID: trackedAppId,
		After:        startOfToday,
		Before:       startOfTomorrow,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	err = txqry.CreateMetricSnapshot(ctx, db.CreateMetricSnapshotParams{
		TrackedAppID: trackedAppId,
		Time:         at.Unix(),
		Score:        sql.NullFloat64{Float64: metrics.Score, Valid: metrics.Score > 0},
		Ratings:      sql.NullInt64{Int64: metrics.Ratings, Valid: metrics.Ratings > 0},
		Reviews:      sql.NullInt64{Int64: metrics.Reviews, Valid: metrics.Reviews > 0},
		MinInstalls:  sql.NullInt64{Int64: metrics.MinInstalls, Valid: metrics.MinInstalls > 0},
		RealInstalls: sql.NullInt64{Int64: metrics.RealInstalls, Valid: metrics.RealInstalls > 0},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Pull returns the snapshot series of an app ordered by time. An
// untracked app yields an empty series, not an error.
func (s Service) Pull(ctx context.Context, appId string) ([]Snapshot, error) {
	ctx, span := tracer.Start(ctx, "Pull")
	defer span.End()
	span.SetAttributes(attribute.String("app_id", appId))

	rows, err := s.qry.GetMetricSnapshots(ctx, appId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	snapshots := make([]Snapshot, len(rows))
	for i, r := range rows {
		snapshots[i] = Snapshot{
			Time: time.Unix(r.Time, 0).UTC(),
			Metrics: Metrics{
				Score:        r.Score.Float64,
				Ratings:      r.Ratings.Int64,
				Reviews:      r.Reviews.Int64,
				MinInstalls:  r.MinInstalls.Int64,
				RealInstalls: r.RealInstalls.Int64,
			},
		}
	}
	return snapshots, nil
}

// PushRecord extracts the numeric metrics out of an analyzed detail
// record and pushes them.
func (s Service) PushRecord(ctx context.Context, record map[string]any, at time.Time) error {
	appId, _ := record["appId"].(string)
	if appId == "" {
		return nil
	}
	return s.Push(ctx, appId, at, Metrics{
		Score:        numberField(record["score"]),
		Ratings:      int64(numberField(record["ratings"])),
		Reviews:      int64(numberField(record["reviews"])),
		MinInstalls:  int64(numberField(record["minInstalls"])),
		RealInstalls: int64(numberField(record["realInstalls"])),
	})
}

func numberField(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}
