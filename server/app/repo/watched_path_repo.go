package repo

import (
	"sfmp/server/app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchedPathRepository struct{ db *gorm.DB }

func NewWatchedPathRepository(db *gorm.DB) *WatchedPathRepository {
	return &WatchedPathRepository{db: db}
}

// Upsert records the latest event for a path, keyed by the path itself.
func (r *WatchedPathRepository) Upsert(w *models.WatchedPath) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "path"}},
		DoUpdates: clause.Assignments(map[string]any{
			"last_op":       w.LastOp,
			"last_event_at": w.LastEventAt,
		}),
	}).Create(w).Error
}

func (r *WatchedPathRepository) All() ([]models.WatchedPath, error) {
	var out []models.WatchedPath
	if err := r.db.Order("path ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
