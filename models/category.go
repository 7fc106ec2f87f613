package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category represents a transaction category. Immutable once created except
// for renames; transactions may reference it but are never required to.
type Category struct {
	Base
	Name string       `gorm:"not null" json:"name"`
	Type CategoryType `gorm:"not null" json:"type"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}
