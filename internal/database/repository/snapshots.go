package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// SnapshotRepo handles exported snapshots.
type SnapshotRepo struct {
	db *sql.DB
}

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Insert writes s with its series and points inside tx.
func (r *SnapshotRepo) Insert(ctx context.Context, tx *sql.Tx, s Snapshot) error {
	if _, err := tx.ExecContext(ctx, `
	INSERT INTO snapshots(id, pane_id, pane_title, domain_min, domain_max, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`, s.ID, s.PaneID, s.PaneTitle, s.DomainMin, s.DomainMax, s.CreatedAt); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	seriesStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO snapshot_series(id, snapshot_id, position, signal_index, signal_name, color, kind)
	VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer seriesStmt.Close()
	pointStmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_points(series_id, seq, x, y) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer pointStmt.Close()

	for _, se := range s.Series {
		if _, err := seriesStmt.ExecContext(ctx, se.ID, s.ID, se.Position, se.SignalIndex, se.SignalName, se.Color, se.Kind); err != nil {
			return fmt.Errorf("insert series %s: %w", se.SignalName, err)
		}
		for i, p := range se.Points {
			if _, err := pointStmt.ExecContext(ctx, se.ID, i, p.X, p.Y); err != nil {
				return fmt.Errorf("insert point %d of %s: %w", i, se.SignalName, err)
			}
		}
	}
	return nil
}

// List returns snapshots newest first, with their series but without points.
func (r *SnapshotRepo) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, pane_id, pane_title, domain_min, domain_max, created_at
	FROM snapshots ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.PaneID, &s.PaneTitle, &s.DomainMin, &s.DomainMax, &s.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range out {
		series, err := r.series(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Series = series
	}
	return out, nil
}

func (r *SnapshotRepo) series(ctx context.Context, snapshotID string) ([]Series, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, snapshot_id, position, signal_index, signal_name, color, kind
	FROM snapshot_series WHERE snapshot_id = ? ORDER BY position`, snapshotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Series
	for rows.Next() {
		var se Series
		if err := rows.Scan(&se.ID, &se.SnapshotID, &se.Position, &se.SignalIndex, &se.SignalName, &se.Color, &se.Kind); err != nil {
			return nil, err
		}
		out = append(out, se)
	}
	return out, rows.Err()
}

// Points returns the sampled points of one series in sampling order.
func (r *SnapshotRepo) Points(ctx context.Context, seriesID string) ([]Point, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT x, y FROM snapshot_points WHERE series_id = ? ORDER BY seq`, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.X, &p.Y); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes a snapshot; its series and points cascade.
func (r *SnapshotRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	return err
}
