package models

import "time"

// StorageEntry is a single key-value row of the persistence surface.
type StorageEntry struct {
	Key       string `json:"key" gorm:"primaryKey"`
	Value     string `json:"value"`
	UpdatedAt time.Time
}
