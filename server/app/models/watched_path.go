package models

import "time"

// WatchedPath keeps the last filesystem event seen for a path inside the
// served root.
type WatchedPath struct {
	ID          uint   `gorm:"primaryKey"`
	Path        string `gorm:"uniqueIndex;size:191"`
	LastOp      string `gorm:"size:32"`
	LastEventAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
