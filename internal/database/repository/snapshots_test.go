package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/plotbench/internal/database"
	"github.com/jask/plotbench/internal/database/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrationsWithDB(db))
	return db
}

func TestSnapshotInsertListPoints(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := repository.NewSnapshotRepo(db)

	snap := repository.Snapshot{
		ID:        "snap-1",
		PaneID:    3,
		PaneTitle: "Plot 3",
		DomainMin: 0,
		DomainMax: 7200,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Series: []repository.Series{
			{ID: "s-a", Position: 0, SignalIndex: 1, SignalName: "SineWave", Color: "#89b4fa", Kind: "sine",
				Points: []repository.Point{{X: 0, Y: 0}, {X: 360, Y: 1}, {X: 720, Y: 0}}},
			{ID: "s-b", Position: 1, SignalIndex: 1, SignalName: "SineWave", Color: "#89b4fa", Kind: "sine"},
		},
	}
	require.NoError(t, database.WithTx(db, func(tx *sql.Tx) error {
		return repo.Insert(ctx, tx, snap)
	}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Plot 3", list[0].PaneTitle)
	require.Equal(t, int64(3), list[0].PaneID)
	require.True(t, snap.CreatedAt.Equal(list[0].CreatedAt))
	require.Len(t, list[0].Series, 2)
	require.Equal(t, "s-a", list[0].Series[0].ID)
	require.Equal(t, "snap-1", list[0].Series[1].SnapshotID)

	pts, err := repo.Points(ctx, "s-a")
	require.NoError(t, err)
	require.Equal(t, []repository.Point{{X: 0, Y: 0}, {X: 360, Y: 1}, {X: 720, Y: 0}}, pts)

	pts, err = repo.Points(ctx, "s-b")
	require.NoError(t, err)
	require.Empty(t, pts)
}

func TestSnapshotInsertRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := repository.NewSnapshotRepo(db)

	dup := repository.Series{ID: "same", SignalName: "x", Color: "#fff", Kind: "step"}
	err := database.WithTx(db, func(tx *sql.Tx) error {
		return repo.Insert(ctx, tx, repository.Snapshot{ID: "bad", PaneTitle: "Plot 1", CreatedAt: database.Now(),
			Series: []repository.Series{dup, dup}})
	})
	require.Error(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestSnapshotDeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := repository.NewSnapshotRepo(db)

	require.NoError(t, database.WithTx(db, func(tx *sql.Tx) error {
		return repo.Insert(ctx, tx, repository.Snapshot{ID: "snap", PaneTitle: "Plot 1", CreatedAt: database.Now(),
			Series: []repository.Series{{ID: "se", SignalName: "Ramp", Color: "#fab387", Kind: "linear",
				Points: []repository.Point{{X: 1, Y: 2}}}}})
	}))
	require.NoError(t, repo.Delete(ctx, "snap"))

	pts, err := repo.Points(ctx, "se")
	require.NoError(t, err)
	require.Empty(t, pts)
}
