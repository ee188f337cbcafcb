package services

import (
	"time"

	"sfmp/server/app/models"
	"sfmp/server/app/repo"
)

// HistoryService records command outcomes for the admin surface.
type HistoryService struct {
	transfers *repo.TransferRepository
}

func NewHistoryService(transfers *repo.TransferRepository) *HistoryService {
	return &HistoryService{transfers: transfers}
}

// Entry is everything the session layer knows about one finished command.
type Entry struct {
	SessionID string
	Remote    string
	Verb      string
	SrcPath   string
	DstPath   string
	Status    string
	Message   string
	Bytes     int64
	Duration  time.Duration
}

func (s *HistoryService) Record(e Entry) error {
	rec := &models.TransferRecord{
		SessionID:  e.SessionID,
		Remote:     e.Remote,
		Verb:       e.Verb,
		SrcPath:    e.SrcPath,
		DstPath:    e.DstPath,
		Status:     e.Status,
		Message:    e.Message,
		Bytes:      e.Bytes,
		DurationMs: e.Duration.Milliseconds(),
	}
	return s.transfers.Create(rec)
}

func (s *HistoryService) Recent(limit int) ([]models.TransferRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.transfers.Recent(limit)
}
