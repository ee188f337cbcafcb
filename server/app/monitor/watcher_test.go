package monitor_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"sfmp/server/app/db"
	"sfmp/server/app/models"
	"sfmp/server/app/monitor"
	"sfmp/server/app/repo"
)

func newPathRepo(t *testing.T) *repo.WatchedPathRepository {
	t.Helper()
	gdb, err := db.Connect(db.Config{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "monitor.db")})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.WatchedPath{}))
	return repo.NewWatchedPathRepository(gdb)
}

func waitForOp(t *testing.T, r *repo.WatchedPathRepository, path string, ops ...string) {
	t.Helper()
	require.Eventually(t, func() bool {
		rows, err := r.All()
		if err != nil {
			return false
		}
		for _, row := range rows {
			if row.Path != path {
				continue
			}
			for _, op := range ops {
				if row.LastOp == op {
					return true
				}
			}
		}
		return false
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcherRejectsMissingRoot(t *testing.T) {
	_, err := monitor.New(filepath.Join(t.TempDir(), "absent"), nil, zerolog.Nop())
	require.Error(t, err)
}

func TestWatcherRecordsChanges(t *testing.T) {
	paths := newPathRepo(t)
	root := t.TempDir()

	w, err := monitor.New(root, paths, zerolog.Nop())
	require.NoError(t, err)
	w.Start()
	defer w.Close()

	target := filepath.Join(root, "dropped.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	waitForOp(t, paths, target, "create", "write")

	require.NoError(t, os.Remove(target))
	waitForOp(t, paths, target, "remove")
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	paths := newPathRepo(t)
	root := t.TempDir()

	w, err := monitor.New(root, paths, zerolog.Nop())
	require.NoError(t, err)
	w.Start()
	defer w.Close()

	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	waitForOp(t, paths, sub, "create")

	inner := filepath.Join(sub, "inner.txt")
	require.NoError(t, os.WriteFile(inner, []byte("x"), 0o644))
	waitForOp(t, paths, inner, "create", "write")
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := monitor.New(t.TempDir(), nil, zerolog.Nop())
	require.NoError(t, err)
	w.Start()
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
