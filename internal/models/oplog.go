package models

import "time"

// Oplog operation kinds.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Oplog is a write-ahead record kept in the fallback store while the primary
// database is unreachable. Entries are replayed against the primary in ID
// order on the next successful connect, then marked replayed.
type Oplog struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	Entidade   string `gorm:"size:32;not null"`
	EntidadeID string `gorm:"size:65;not null"` // fits a composite edge key: two 32-char IDs and a separator
	Op         string `gorm:"size:8;not null"`
	Payload    string `gorm:"type:text"`
	Replayed   bool   `gorm:"default:false;index"`
	CreatedAt  time.Time
}
