package models

import "kassa/money"

// Account represents a named money pool with a running balance.
//
// Balance is derived but cached: it must always equal the sum of the signed
// contributions of every committed transaction referencing the account. It
// is mutated only by the transaction engine, never directly by callers.
type Account struct {
	Base
	Name             string      `gorm:"not null" json:"name"`
	Balance          money.Cents `gorm:"not null;default:0" json:"balance"`
	IncludeInAverage bool        `gorm:"not null;default:true" json:"include_in_average"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
