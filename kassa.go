// Package kassa is an embeddable personal finance ledger engine. It keeps
// per-account balances consistent with the transaction history across
// adds, edits and deletes, and derives analytical projections from the
// same data.
//
// The engine is a library: it has no network or CLI surface and is meant
// to be invoked in-process by a host application. It is single-writer;
// mutations are serialized and atomic, and registered listeners are
// notified after every committed mutation.
package kassa

import (
	"time"

	"gorm.io/gorm"

	"kassa/config"
	"kassa/logger"
	"kassa/services"
	"kassa/storage"
)

// Ledger bundles the ledger store, the transaction engine, the aggregation
// functions and the change notification layer behind one handle.
type Ledger struct {
	store    *storage.Manager
	notifier *services.Notifier

	Accounts     services.AccountServicer
	Categories   services.CategoryServicer
	Transactions services.TransactionServicer
}

// Open loads the configured sqlite database, applies migrations, and
// returns a ready Ledger.
func Open(cfg *config.Config) (*Ledger, error) {
	logger.Init(cfg.Env)

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	ledger := New(store.DB())
	ledger.store = store
	return ledger, nil
}

// New builds a Ledger on top of an already opened database handle. Useful
// when the host application owns the connection.
func New(db *gorm.DB) *Ledger {
	notifier := services.NewNotifier()
	return &Ledger{
		notifier:     notifier,
		Accounts:     services.NewAccountService(db, notifier),
		Categories:   services.NewCategoryService(db, notifier),
		Transactions: services.NewTransactionService(db, notifier),
	}
}

// Close closes the underlying database if this Ledger owns it.
func (l *Ledger) Close() error {
	if l.store != nil {
		return l.store.Close()
	}
	return nil
}

// Subscribe registers a listener for "ledger changed" events and returns a
// token for Unsubscribe. Listeners are invoked synchronously, exactly once
// per committed mutation.
func (l *Ledger) Subscribe(fn services.Listener) string {
	return l.notifier.Subscribe(fn)
}

// Unsubscribe removes a previously registered listener.
func (l *Ledger) Unsubscribe(token string) {
	l.notifier.Unsubscribe(token)
}

// Snapshot returns the current full ledger state.
func (l *Ledger) Snapshot() (*services.Snapshot, error) {
	return l.Transactions.Snapshot()
}

// RollingAverage computes the mean monthly income and expense over the
// last three full calendar months, from a fresh snapshot.
func (l *Ledger) RollingAverage(now time.Time) (services.MonthlyAverage, error) {
	snap, err := l.Snapshot()
	if err != nil {
		return services.MonthlyAverage{}, err
	}
	return services.RollingAverage(snap, now), nil
}

// EndOfMonthForecast estimates income and expense for the remainder of the
// current month, from a fresh snapshot.
func (l *Ledger) EndOfMonthForecast(now time.Time) (services.Forecast, error) {
	snap, err := l.Snapshot()
	if err != nil {
		return services.Forecast{}, err
	}
	return services.EndOfMonthForecast(snap, now), nil
}

// CategoryParetoBreakdown returns expense totals per category, descending,
// with cumulative percentages, from a fresh snapshot.
func (l *Ledger) CategoryParetoBreakdown() ([]services.ParetoEntry, error) {
	snap, err := l.Snapshot()
	if err != nil {
		return nil, err
	}
	return services.CategoryParetoBreakdown(snap), nil
}

// BalanceHistoryAndForecast returns the trailing 30-day total balance
// history and its projection to the end of the month, from a fresh
// snapshot.
func (l *Ledger) BalanceHistoryAndForecast(now time.Time) (services.BalanceSeries, error) {
	snap, err := l.Snapshot()
	if err != nil {
		return services.BalanceSeries{}, err
	}
	return services.BalanceHistoryAndForecast(snap, now), nil
}
