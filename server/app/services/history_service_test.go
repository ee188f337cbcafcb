package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sfmp/server/app/db"
	"sfmp/server/app/models"
	"sfmp/server/app/repo"
)

func newTestService(t *testing.T) *HistoryService {
	t.Helper()
	gdb, err := db.Connect(db.Config{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "history.db")})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.TransferRecord{}))
	return NewHistoryService(repo.NewTransferRepository(gdb))
}

func TestRecordAndRecent(t *testing.T) {
	svc := newTestService(t)

	for i, verb := range []string{"GET", "PUT", "LS"} {
		err := svc.Record(Entry{
			SessionID: "s-1",
			Remote:    "127.0.0.1:50000",
			Verb:      verb,
			SrcPath:   "a.txt",
			DstPath:   "b.txt",
			Status:    "OK",
			Message:   "done",
			Bytes:     int64(i * 100),
			Duration:  25 * time.Millisecond,
		})
		require.NoError(t, err)
	}

	recent, err := svc.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	// newest first
	assert.Equal(t, "LS", recent[0].Verb)
	assert.Equal(t, "PUT", recent[1].Verb)
	assert.EqualValues(t, 25, recent[0].DurationMs)

	all, err := svc.Recent(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecordFailureRow(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.Record(Entry{
		SessionID: "s-2",
		Verb:      "GET",
		SrcPath:   "ghost.txt",
		Status:    "FILE_NOT_FOUND",
		Message:   "file not found: ghost.txt",
	}))

	recent, err := svc.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "FILE_NOT_FOUND", recent[0].Status)
	assert.Zero(t, recent[0].Bytes)
}
