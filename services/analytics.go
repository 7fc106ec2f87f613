package services

import (
	"math"
	"sort"
	"time"

	"kassa/models"
	"kassa/money"
)

// avgDaysPerMonth is the mean Gregorian month length, used to turn monthly
// averages into daily rates.
const avgDaysPerMonth = 30.44

// uncategorizedBucket is the fallback bucket for expense transactions
// without a resolvable category.
const uncategorizedBucket = "Uncategorized"

// MonthlyAverage holds mean monthly income and expense over the last three
// full calendar months. Amounts are in minor units; AvgExpense keeps its
// sign, so it is less than or equal to zero.
type MonthlyAverage struct {
	AvgIncome   float64   `json:"avg_income"`
	AvgExpense  float64   `json:"avg_expense"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
}

// Forecast estimates income and expense for the remainder of the current
// month, in minor units.
type Forecast struct {
	EstimatedIncome  float64 `json:"estimated_income"`
	EstimatedExpense float64 `json:"estimated_expense"`
}

// ParetoEntry is one category bucket in a Pareto breakdown of expenses.
type ParetoEntry struct {
	Category   string      `json:"category"`
	Total      money.Cents `json:"total"`
	Percentage float64     `json:"percentage"`
	Cumulative float64     `json:"cumulative"`
}

// BalancePoint is the total balance across all accounts at the end of one
// day.
type BalancePoint struct {
	Date    time.Time   `json:"date"`
	Balance money.Cents `json:"balance"`
}

// BalanceSeries is the trailing balance history plus the projection to the
// end of the current month.
type BalanceSeries struct {
	History  []BalancePoint `json:"history"`
	Forecast []BalancePoint `json:"forecast"`
}

// RollingAverage computes the average monthly income and expense over the
// three full calendar months preceding the current one. Only accounts
// flagged include-in-average count, and transfers are excluded since they
// move money without earning or spending it.
func RollingAverage(snap *Snapshot, now time.Time) MonthlyAverage {
	// Exclusive upper bound: the first day of the current month.
	periodEnd := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	periodStart := periodEnd.AddDate(0, -3, 0)

	included := make(map[uint]bool, len(snap.Accounts))
	for _, a := range snap.Accounts {
		if a.IncludeInAverage {
			included[a.ID] = true
		}
	}

	var totalIncome, totalExpense money.Cents
	for _, t := range snap.Transactions {
		if t.Type == models.TransactionTypeTransfer {
			continue
		}
		if !included[t.AccountID] {
			continue
		}
		if t.Date.Before(periodStart) || !t.Date.Before(periodEnd) {
			continue
		}
		switch t.Type {
		case models.TransactionTypeIncome:
			totalIncome += t.Amount
		case models.TransactionTypeExpense:
			totalExpense += t.Amount
		}
	}

	return MonthlyAverage{
		AvgIncome:   float64(totalIncome) / 3,
		AvgExpense:  float64(totalExpense) / 3,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd.AddDate(0, 0, -1),
	}
}

// EndOfMonthForecast projects income and expense for the remaining days of
// the current month from the rolling daily averages. Both figures are zero
// when no days remain.
func EndOfMonthForecast(snap *Snapshot, now time.Time) Forecast {
	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	remaining := lastDay - now.Day()
	if remaining <= 0 {
		return Forecast{}
	}

	avg := RollingAverage(snap, now)
	return Forecast{
		EstimatedIncome:  avg.AvgIncome / avgDaysPerMonth * float64(remaining),
		EstimatedExpense: avg.AvgExpense / avgDaysPerMonth * float64(remaining),
	}
}

// CategoryParetoBreakdown groups expense transactions by category name,
// sums absolute amounts, and sorts descending with a running cumulative
// percentage. Zero total expense yields an empty series.
func CategoryParetoBreakdown(snap *Snapshot) []ParetoEntry {
	names := make(map[uint]string, len(snap.Categories))
	for _, c := range snap.Categories {
		names[c.ID] = c.Name
	}

	totals := make(map[string]money.Cents)
	for _, t := range snap.Transactions {
		if t.Type != models.TransactionTypeExpense {
			continue
		}
		bucket := uncategorizedBucket
		if t.CategoryID != nil {
			if name, ok := names[*t.CategoryID]; ok {
				bucket = name
			}
		}
		totals[bucket] += t.Amount.Abs()
	}

	var grandTotal money.Cents
	entries := make([]ParetoEntry, 0, len(totals))
	for bucket, total := range totals {
		entries = append(entries, ParetoEntry{Category: bucket, Total: total})
		grandTotal += total
	}
	if grandTotal == 0 {
		return []ParetoEntry{}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		return entries[i].Category < entries[j].Category
	})

	var cumulative float64
	for i := range entries {
		pct := float64(entries[i].Total) / float64(grandTotal) * 100
		cumulative += pct
		entries[i].Percentage = pct
		entries[i].Cumulative = cumulative
	}
	return entries
}

// BalanceHistoryAndForecast reconstructs the approximate end-of-day total
// balance for the trailing 30 days and projects it to the end of the
// current month using the rolling daily net rate.
//
// Reconstruction walks transactions newest first from the current total,
// un-applying each one's net contribution; a transfer's net contribution
// is zero because both its legs stay inside the ledger. Days without
// activity carry the prior day's balance forward.
func BalanceHistoryAndForecast(snap *Snapshot, now time.Time) BalanceSeries {
	loc := now.Location()
	today := startOfDay(now)

	var total money.Cents
	for _, a := range snap.Accounts {
		total += a.Balance
	}

	// End-of-day balances keyed by day. Walking newest first, the first
	// transaction seen for a day is its latest, so recording the running
	// balance before un-applying it captures that day's closing balance.
	byDay := map[time.Time]money.Cents{today: total}

	txs := make([]models.Transaction, len(snap.Transactions))
	copy(txs, snap.Transactions)
	sort.Slice(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })

	running := total
	for i := range txs {
		day := startOfDay(txs[i].Date.In(loc))
		if !day.Before(today) {
			continue
		}
		if _, ok := byDay[day]; !ok {
			byDay[day] = running
		}
		running -= netContribution(&txs[i])
	}

	// After the walk, running is the balance before the earliest recorded
	// day; it seeds the forward-fill for leading days without activity.
	history := make([]BalancePoint, 0, 30)
	fill := running
	for i := 29; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		if balance, ok := byDay[day]; ok {
			fill = balance
		}
		history = append(history, BalancePoint{Date: day, Balance: fill})
	}

	avg := RollingAverage(snap, now)
	dailyChange := (avg.AvgIncome + avg.AvgExpense) / avgDaysPerMonth

	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, loc).Day()
	remaining := lastDay - now.Day()

	forecast := make([]BalancePoint, 0, remaining)
	projected := float64(history[len(history)-1].Balance)
	for i := 1; i <= remaining; i++ {
		projected += dailyChange
		forecast = append(forecast, BalancePoint{
			Date:    today.AddDate(0, 0, i),
			Balance: money.Cents(math.Round(projected)),
		})
	}

	return BalanceSeries{History: history, Forecast: forecast}
}

// netContribution is a transaction's effect on the total balance across
// all accounts.
func netContribution(t *models.Transaction) money.Cents {
	if t.Type == models.TransactionTypeTransfer {
		return 0
	}
	return t.Amount
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
