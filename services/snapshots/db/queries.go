package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const createTrackedApp = `
INSERT INTO tracked_app (app_id) VALUES (?)
ON CONFLICT (app_id) DO NOTHING
`

func (q *Queries) CreateTrackedApp(ctx context.Context, appId string) error {
	_, err := q.db.ExecContext(ctx, createTrackedApp, appId)
	return err
}

const getTrackedAppId = `
SELECT id FROM tracked_app WHERE app_id = ?
`

func (q *Queries) GetTrackedAppId(ctx context.Context, appId string) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, getTrackedAppId, appId).Scan(&id)
	return id, err
}

const deleteMetricSnapshotsIn = `
DELETE FROM metric_snapshot
WHERE tracked_app_id = ? AND time >= ? AND time < ?
`

type DeleteMetricSnapshotsInParams struct {
	TrackedAppID int64
	After        int64
	Before       int64
}

func (q *Queries) DeleteMetricSnapshotsIn(ctx context.Context, params DeleteMetricSnapshotsInParams) error {
	_, err := q.db.ExecContext(ctx, deleteMetricSnapshotsIn,
		params.TrackedAppID, params.After, params.Before)
	return err
}

const createMetricSnapshot = `
INSERT INTO metric_snapshot (tracked_app_id, time, score, ratings, reviews, min_installs, real_installs)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreateMetricSnapshotParams struct {
	TrackedAppID int64
	Time         int64
	Score        sql.NullFloat64
	Ratings      sql.NullInt64
	Reviews      sql.NullInt64
	MinInstalls  sql.NullInt64
	RealInstalls sql.NullInt64
}

func (q *Queries) CreateMetricSnapshot(ctx context.Context, params CreateMetricSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, createMetricSnapshot,
		params.TrackedAppID, params.Time, params.Score, params.Ratings,
		params.Reviews, params.MinInstalls, params.RealInstalls)
	return err
}

const getMetricSnapshots = `
SELECT s.time, s.score, s.ratings, s.reviews, s.min_installs, s.real_installs
FROM metric_snapshot s
JOIN tracked_app a ON a.id = s.tracked_app_id
WHERE a.app_id = ?
ORDER BY s.time ASC
`

type GetMetricSnapshotsRow struct {
	Time         int64
	Score        sql.NullFloat64
	Ratings      sql.NullInt64
	Reviews      sql.NullInt64
	MinInstalls  sql.NullInt64
	RealInstalls sql.NullInt64
}

func (q *Queries) GetMetricSnapshots(ctx context.Context, appId string) ([]GetMetricSnapshotsRow, error) {
	rows, err := q.db.QueryContext(ctx, getMetricSnapshots, appId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GetMetricSnapshotsRow
	for rows.Next() {
		var r GetMetricSnapshotsRow
		err := rows.Scan(&r.Time, &r.Score, &r.Ratings, &r.Reviews, &r.MinInstalls, &r.RealInstalls)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
