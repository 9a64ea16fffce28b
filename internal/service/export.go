package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jask/plotbench/internal/database"
	"github.com/jask/plotbench/internal/database/repository"
	"github.com/jask/plotbench/internal/pane"
)

// Domain is the x range and sample count used for an export.
type Domain struct {
	Min    float64
	Max    float64
	Points int
}

// Exporter writes sampled pane data into the export database.
type Exporter struct {
	DB        *sql.DB
	Snapshots *repository.SnapshotRepo
	Now       func() time.Time
	Log       *slog.Logger
}

func NewExporter(db *sql.DB) *Exporter {
	return &Exporter{DB: db, Snapshots: repository.NewSnapshotRepo(db), Now: database.Now}
}

func (e *Exporter) logger() *slog.Logger {
	if e.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Log
}

// Sample resolves p against the registry and samples every attached signal
// over d. The result shares no memory with p, so it can be saved off the UI
// goroutine. Attachments whose signal is unknown are left out.
func (e *Exporter) Sample(p *pane.Pane, lookup pane.Lookup, d Domain) (repository.Snapshot, error) {
	if d.Points < 2 || d.Max <= d.Min {
		return repository.Snapshot{}, fmt.Errorf("export: invalid domain [%v, %v] with %d points", d.Min, d.Max, d.Points)
	}
	now := time.Now().UTC()
	if e.Now != nil {
		now = e.Now()
	}
	view := pane.Resolve(p, lookup)
	snap := repository.Snapshot{
		ID:        uuid.NewString(),
		PaneID:    view.ID,
		PaneTitle: view.Title,
		DomainMin: d.Min,
		DomainMax: d.Max,
		CreatedAt: now,
	}
	for _, line := range view.Lines {
		pts := line.Generator.Points(d.Min, d.Max, d.Points)
		se := repository.Series{
			ID:          uuid.NewString(),
			SnapshotID:  snap.ID,
			Position:    line.Position,
			SignalIndex: p.Attachments[line.Position].SignalIndex,
			SignalName:  line.Name,
			Color:       line.Color,
			Kind:        line.Generator.Kind.String(),
			Points:      make([]repository.Point, len(pts)),
		}
		for i, pt := range pts {
			se.Points[i] = repository.Point{X: pt.X, Y: pt.Y}
		}
		snap.Series = append(snap.Series, se)
	}
	return snap, nil
}

// Save writes a sampled snapshot in one transaction.
func (e *Exporter) Save(ctx context.Context, snap repository.Snapshot) error {
	if e.DB == nil {
		return fmt.Errorf("export: db not configured")
	}
	return database.WithTx(e.DB, func(tx *sql.Tx) error {
		return e.Snapshots.Insert(ctx, tx, snap)
	})
}

// ExportPane samples p and saves the result. Callers running it off the UI
// goroutine pass clones of the pane and registry.
func (e *Exporter) ExportPane(ctx context.Context, p *pane.Pane, lookup pane.Lookup, d Domain) (repository.Snapshot, error) {
	snap, err := e.Sample(p, lookup, d)
	if err != nil {
		return repository.Snapshot{}, err
	}
	if err := e.Save(ctx, snap); err != nil {
		return repository.Snapshot{}, fmt.Errorf("export %s: %w", p.Title, err)
	}
	return snap, nil
}

// Reset deletes every stored snapshot. It keeps the schema intact.
func (e *Exporter) Reset(ctx context.Context) error {
	if e.DB == nil {
		return fmt.Errorf("export: db not configured")
	}
	if err := database.WithTx(e.DB, func(tx *sql.Tx) error {
		for _, t := range []string{"snapshot_points", "snapshot_series", "snapshots"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	if _, err := e.DB.ExecContext(ctx, "VACUUM"); err != nil {
		e.logger().Warn("vacuum after reset failed", "err", err)
	}
	e.logger().Info("exports cleared")
	return nil
}

// Undo deletes the most recent snapshot. It reports false when there is
// nothing to delete.
func (e *Exporter) Undo(ctx context.Context) (repository.Snapshot, bool, error) {
	if e.DB == nil {
		return repository.Snapshot{}, false, fmt.Errorf("export: db not configured")
	}
	list, err := e.Snapshots.List(ctx)
	if err != nil {
		return repository.Snapshot{}, false, err
	}
	if len(list) == 0 {
		return repository.Snapshot{}, false, nil
	}
	latest := list[0]
	if err := e.Snapshots.Delete(ctx, latest.ID); err != nil {
		return repository.Snapshot{}, false, err
	}
	e.logger().Info("export removed", "snapshot", latest.ID, "pane", latest.PaneID)
	return latest, true, nil
}
