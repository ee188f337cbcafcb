package models

import "time"

// TransferRecord is one completed or failed command against the server.
type TransferRecord struct {
	ID         uint   `gorm:"primaryKey"`
	SessionID  string `gorm:"index;size:191"`
	Remote     string `gorm:"size:128"`
	Verb       string `gorm:"size:16;index"`
	SrcPath    string `gorm:"size:512"`
	DstPath    string `gorm:"size:512"`
	Status     string `gorm:"size:32;index"`
	Message    string `gorm:"size:512"`
	Bytes      int64
	DurationMs int64
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}
