package domain

import "time"

// Document is one key-value entry of the SQLite store backend. Value holds
// the JSON encoding of whatever the key names.
type Document struct {
	Key       string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Value     string    `gorm:"type:TEXT NOT NULL"`
	UpdatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoUpdateTime"`
}

// TableName implements the GORM tabler interface.
func (Document) TableName() string { return "documents" }
