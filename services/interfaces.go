package services

import (
	"time"

	"kassa/models"
	"kassa/money"
	"kassa/pagination"
)

// Snapshot is the full in-memory state of the ledger at a point in time.
// Aggregation functions take it as read-only input and must not mutate it.
type Snapshot struct {
	Accounts     []models.Account     `json:"accounts"`
	Categories   []models.Category    `json:"categories"`
	Transactions []models.Transaction `json:"transactions"`
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(name string, includeInAverage bool) (*models.Account, error)
	GetAccounts() ([]models.Account, error)
	GetAccountByID(id uint) (*models.Account, error)
	UpdateAccount(id uint, fields AccountUpdateFields) (*models.Account, error)
	DeleteAccount(id uint) error
}

// AccountUpdateFields holds the optional fields of an account update.
// Balance is deliberately absent: it is owned by the transaction engine.
type AccountUpdateFields struct {
	Name             *string
	IncludeInAverage *bool
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name string, categoryType models.CategoryType) (*models.Category, error)
	GetCategories() ([]models.Category, error)
	GetCategoryByID(id uint) (*models.Category, error)
	RenameCategory(id uint, name string) (*models.Category, error)
	DeleteCategory(id uint) error
}

// TransactionInput carries caller-supplied data for adding or updating a
// transaction. Amount is a positive magnitude; the engine normalizes the
// stored sign per type.
type TransactionInput struct {
	Description string                 `validate:"max=500"`
	Amount      money.Cents            `validate:"required,gt=0"`
	Type        models.TransactionType `validate:"required,transaction_type"`
	AccountID   uint                   `validate:"required"`
	ToAccountID *uint
	CategoryID  *uint
	Date        time.Time
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	AccountID  *uint
	CategoryID *uint
	Type       *models.TransactionType
	FromDate   *time.Time
	ToDate     *time.Time
}

// TransactionServicer defines the contract for the transaction engine: all
// ledger mutations and transaction reads go through it.
type TransactionServicer interface {
	AddTransaction(input TransactionInput) (*models.Transaction, error)
	UpdateTransaction(id uint, input TransactionInput) (*models.Transaction, error)
	DeleteTransaction(id uint) error
	GetTransactionByID(id uint) (*models.Transaction, error)
	GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	Snapshot() (*Snapshot, error)
}
