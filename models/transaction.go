package models

import (
	"time"

	"kassa/money"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction represents a single recorded monetary event affecting one or
// two accounts.
//
// The stored amount sign is normalized by type: expenses are negative,
// income positive, and transfers positive (direction is implied by the
// source/destination pair, not the sign).
type Transaction struct {
	Base
	Description string          `json:"description"`
	Amount      money.Cents     `gorm:"not null" json:"amount"`
	Type        TransactionType `gorm:"not null;index" json:"type"`
	AccountID   uint            `gorm:"not null;index" json:"account_id"`
	CategoryID  *uint           `gorm:"index" json:"category_id,omitempty"`
	Date        time.Time       `gorm:"not null;index" json:"date"`

	// For transfers
	ToAccountID *uint `gorm:"index" json:"to_account_id,omitempty"`

	// Relationships
	Account   Account   `gorm:"foreignKey:AccountID" json:"account"`
	ToAccount *Account  `gorm:"foreignKey:ToAccountID" json:"to_account,omitempty"`
	Category  *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
