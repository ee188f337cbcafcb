package repo

import (
	"sfmp/server/app/models"

	"gorm.io/gorm"
)

type TransferRepository struct{ db *gorm.DB }

func NewTransferRepository(db *gorm.DB) *TransferRepository { return &TransferRepository{db: db} }

func (r *TransferRepository) Create(rec *models.TransferRecord) error {
	return r.db.Create(rec).Error
}

func (r *TransferRepository) Recent(limit int) ([]models.TransferRecord, error) {
	var out []models.TransferRecord
	if err := r.db.Order("id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TransferRepository) BySession(sessionID string) ([]models.TransferRecord, error) {
	var out []models.TransferRecord
	if err := r.db.Where("session_id = ?", sessionID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
