package kassa

import (
	"path/filepath"
	"testing"
	"time"

	"kassa/config"
	"kassa/internal/testutil"
	"kassa/models"
	"kassa/money"
	"kassa/services"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return New(db)
}

func TestOpenAndClose(t *testing.T) {
	cfg := &config.Config{
		Env:    "test",
		DBPath: filepath.Join(t.TempDir(), "ledger.db"),
	}

	ledger, err := Open(cfg)
	if err != nil {
		t.Fatalf("failed to open ledger: %v", err)
	}

	account, err := ledger.Accounts.CreateAccount("Checking", true)
	testutil.AssertNoError(t, err)
	if account.ID == 0 {
		t.Error("expected a persisted account")
	}

	if err := ledger.Close(); err != nil {
		t.Fatalf("failed to close ledger: %v", err)
	}
}

func TestExpenseFlow(t *testing.T) {
	ledger := openTestLedger(t)

	account, err := ledger.Accounts.CreateAccount("Wallet", true)
	testutil.AssertNoError(t, err)

	_, err = ledger.Transactions.AddTransaction(services.TransactionInput{
		Description: "salary",
		Amount:      money.Cents(10000),
		Type:        models.TransactionTypeIncome,
		AccountID:   account.ID,
		Date:        time.Now(),
	})
	testutil.AssertNoError(t, err)

	expense, err := ledger.Transactions.AddTransaction(services.TransactionInput{
		Description: "groceries",
		Amount:      money.Cents(4000),
		Type:        models.TransactionTypeExpense,
		AccountID:   account.ID,
		Date:        time.Now(),
	})
	testutil.AssertNoError(t, err)

	// The expense is stored sign-normalized.
	if expense.Amount != -4000 {
		t.Errorf("expected stored amount -4000, got %d", expense.Amount)
	}

	reloaded, err := ledger.Accounts.GetAccountByID(account.ID)
	testutil.AssertNoError(t, err)
	if reloaded.Balance != 6000 {
		t.Errorf("expected balance 6000, got %d", reloaded.Balance)
	}
}

func TestTransferAndDeleteRestoresBalances(t *testing.T) {
	ledger := openTestLedger(t)

	source, err := ledger.Accounts.CreateAccount("Checking", true)
	testutil.AssertNoError(t, err)
	destination, err := ledger.Accounts.CreateAccount("Savings", true)
	testutil.AssertNoError(t, err)

	_, err = ledger.Transactions.AddTransaction(services.TransactionInput{
		Amount:    money.Cents(50000),
		Type:      models.TransactionTypeIncome,
		AccountID: source.ID,
		Date:      time.Now(),
	})
	testutil.AssertNoError(t, err)

	transfer, err := ledger.Transactions.AddTransaction(services.TransactionInput{
		Description: "monthly savings",
		Amount:      money.Cents(20000),
		Type:        models.TransactionTypeTransfer,
		AccountID:   source.ID,
		ToAccountID: &destination.ID,
		Date:        time.Now(),
	})
	testutil.AssertNoError(t, err)

	assertBalance := func(id uint, want money.Cents) {
		t.Helper()
		account, err := ledger.Accounts.GetAccountByID(id)
		testutil.AssertNoError(t, err)
		if account.Balance != want {
			t.Errorf("account %d: expected balance %d, got %d", id, want, account.Balance)
		}
	}

	assertBalance(source.ID, 30000)
	assertBalance(destination.ID, 20000)

	testutil.AssertNoError(t, ledger.Transactions.DeleteTransaction(transfer.ID))

	assertBalance(source.ID, 50000)
	assertBalance(destination.ID, 0)
}

func TestAggregationsOverEmptyLedger(t *testing.T) {
	ledger := openTestLedger(t)
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	avg, err := ledger.RollingAverage(now)
	testutil.AssertNoError(t, err)
	if avg.AvgIncome != 0 || avg.AvgExpense != 0 {
		t.Errorf("expected zero averages, got %+v", avg)
	}

	forecast, err := ledger.EndOfMonthForecast(now)
	testutil.AssertNoError(t, err)
	if forecast.EstimatedIncome != 0 || forecast.EstimatedExpense != 0 {
		t.Errorf("expected zero forecast, got %+v", forecast)
	}

	entries, err := ledger.CategoryParetoBreakdown()
	testutil.AssertNoError(t, err)
	if len(entries) != 0 {
		t.Errorf("expected empty breakdown, got %d entries", len(entries))
	}

	series, err := ledger.BalanceHistoryAndForecast(now)
	testutil.AssertNoError(t, err)
	if len(series.History) != 30 {
		t.Errorf("expected 30 history points, got %d", len(series.History))
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	ledger := openTestLedger(t)

	events := 0
	token := ledger.Subscribe(func(snap *services.Snapshot, err error) {
		testutil.AssertNoError(t, err)
		events++
	})

	account, err := ledger.Accounts.CreateAccount("Checking", true)
	testutil.AssertNoError(t, err)
	if events != 1 {
		t.Fatalf("expected 1 event after account creation, got %d", events)
	}

	_, err = ledger.Transactions.AddTransaction(services.TransactionInput{
		Amount:    money.Cents(1000),
		Type:      models.TransactionTypeIncome,
		AccountID: account.ID,
		Date:      time.Now(),
	})
	testutil.AssertNoError(t, err)
	if events != 2 {
		t.Fatalf("expected 2 events after transaction, got %d", events)
	}

	ledger.Unsubscribe(token)

	_, err = ledger.Accounts.CreateAccount("Savings", true)
	testutil.AssertNoError(t, err)
	if events != 2 {
		t.Errorf("expected no further events after unsubscribe, got %d", events)
	}
}

func TestSnapshotReflectsState(t *testing.T) {
	ledger := openTestLedger(t)

	account, err := ledger.Accounts.CreateAccount("Checking", true)
	testutil.AssertNoError(t, err)
	_, err = ledger.Categories.CreateCategory("Groceries", models.CategoryTypeExpense)
	testutil.AssertNoError(t, err)
	_, err = ledger.Transactions.AddTransaction(services.TransactionInput{
		Amount:    money.Cents(2500),
		Type:      models.TransactionTypeIncome,
		AccountID: account.ID,
		Date:      time.Now(),
	})
	testutil.AssertNoError(t, err)

	snap, err := ledger.Snapshot()
	testutil.AssertNoError(t, err)

	if len(snap.Accounts) != 1 || len(snap.Categories) != 1 || len(snap.Transactions) != 1 {
		t.Errorf("unexpected snapshot shape: %d accounts, %d categories, %d transactions",
			len(snap.Accounts), len(snap.Categories), len(snap.Transactions))
	}
	if snap.Accounts[0].Balance != 2500 {
		t.Errorf("expected snapshot balance 2500, got %d", snap.Accounts[0].Balance)
	}
}
