package models

import "time"

// Base contains the columns shared by all ledger tables. Identities are
// auto-incrementing integers assigned by the store; the creation timestamp
// is set once and never changes.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
