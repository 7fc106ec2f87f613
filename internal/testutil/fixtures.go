package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"kassa/models"
	"kassa/money"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestAccount creates an account with a zero balance, included in
// averages.
func CreateTestAccount(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, 0)
}

// CreateTestAccountWithBalance creates an account with the given balance
// (in cents). The balance is written directly, bypassing the transaction
// engine, so use it only as a starting point.
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, balance money.Cents) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:             fmt.Sprintf("Test Account %d", nextID()),
		Balance:          balance,
		IncludeInAverage: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, categoryType models.CategoryType) *models.Category {
	t.Helper()
	return CreateTestCategoryNamed(t, db, fmt.Sprintf("Test Category %d", nextID()), categoryType)
}

// CreateTestCategoryNamed creates a category with the given name and type.
func CreateTestCategoryNamed(t *testing.T, db *gorm.DB, name string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name: name,
		Type: categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction inserts a transaction record directly, with the
// amount already sign-normalized (in cents). It does not touch balances;
// use the transaction engine when balance effects matter.
func CreateTestTransaction(t *testing.T, db *gorm.DB, accountID uint, txType models.TransactionType, amount money.Cents, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		AccountID: accountID,
		Type:      txType,
		Amount:    amount,
		Date:      date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestCategorizedExpense inserts an expense record in the given
// category with the given magnitude (stored negative).
func CreateTestCategorizedExpense(t *testing.T, db *gorm.DB, accountID, categoryID uint, magnitude money.Cents, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		AccountID:  accountID,
		CategoryID: &categoryID,
		Type:       models.TransactionTypeExpense,
		Amount:     -magnitude.Abs(),
		Date:       date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return tx
}
