package services

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	apperrors "kassa/errors"
	"kassa/models"
	"kassa/money"
	"kassa/pagination"
	"kassa/validator"
)

// balanceDelta is one signed contribution of a transaction to an account
// balance.
type balanceDelta struct {
	accountID uint
	amount    money.Cents
}

// transactionService is the transaction engine. Every mutation runs as one
// atomic unit of work: the transaction record and all affected account
// balances are written together or not at all.
type transactionService struct {
	db       *gorm.DB
	notifier *Notifier

	// mu serializes the mutation path so no two mutating operations can
	// interleave their balance read-modify-write steps. It is released
	// before listeners are notified, so a listener may itself mutate the
	// ledger.
	mu sync.Mutex
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, notifier *Notifier) TransactionServicer {
	return &transactionService{db: db, notifier: notifier}
}

// AddTransaction validates the input, normalizes the amount sign per type,
// and atomically inserts the record and applies its balance deltas.
func (s *transactionService) AddTransaction(input TransactionInput) (*models.Transaction, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	s.mu.Lock()
	var result *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, input); err != nil {
			return err
		}

		record := newTransactionRecord(input)
		if err := tx.Create(record).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}

		if err := applyDeltas(tx, contributions(record), false); err != nil {
			return err
		}

		result = record
		return nil
	})
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	notifyCommitted(s.db, s.notifier)
	return result, nil
}

// UpdateTransaction reverts the balance effect of the stored transaction
// (using its stored data, not the caller's), applies the effect of the new
// data, and overwrites the record, all in one atomic unit. The old accounts
// are credited back before the new ones are debited.
func (s *transactionService) UpdateTransaction(id uint, input TransactionInput) (*models.Transaction, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	s.mu.Lock()
	var result *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var stored models.Transaction
		if err := tx.First(&stored, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}

		if err := checkReferences(tx, input); err != nil {
			return err
		}

		if err := applyDeltas(tx, contributions(&stored), true); err != nil {
			return err
		}

		updated := newTransactionRecord(input)
		updated.ID = stored.ID
		updated.CreatedAt = stored.CreatedAt
		if err := tx.Save(updated).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}

		if err := applyDeltas(tx, contributions(updated), false); err != nil {
			return err
		}

		result = updated
		return nil
	})
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	notifyCommitted(s.db, s.notifier)
	return result, nil
}

// DeleteTransaction reverts the stored transaction's balance effect and
// removes the record. Removal is permanent; there is no soft delete.
func (s *transactionService) DeleteTransaction(id uint) error {
	s.mu.Lock()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var stored models.Transaction
		if err := tx.First(&stored, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}

		if err := applyDeltas(tx, contributions(&stored), true); err != nil {
			return err
		}

		if err := tx.Delete(&stored).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}

		return nil
	})
	s.mu.Unlock()
	if err != nil {
		return err
	}

	notifyCommitted(s.db, s.notifier)
	return nil
}

// GetTransactionByID retrieves a transaction by ID.
func (s *transactionService) GetTransactionByID(id uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.First(&transaction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return &transaction, nil
}

// GetTransactions retrieves a paginated, filtered list of transactions,
// newest first.
func (s *transactionService) GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := applyTransactionFilters(s.db.Model(&models.Transaction{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC, id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Snapshot returns the current full ledger state.
func (s *transactionService) Snapshot() (*Snapshot, error) {
	return loadSnapshot(s.db)
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.AccountID != nil {
		// An account's transactions include transfers into it.
		q = q.Where("account_id = ? OR to_account_id = ?", *f.AccountID, *f.AccountID)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	return q
}

// validateInput checks the structural rules of caller-supplied data and
// defaults the date to now when unset.
func validateInput(input *TransactionInput) error {
	if err := validator.Struct(input); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	if input.Type == models.TransactionTypeTransfer {
		if input.ToAccountID == nil {
			return apperrors.ErrMissingTransferDestination
		}
		if *input.ToAccountID == input.AccountID {
			return apperrors.ErrSameAccountTransfer
		}
	} else if input.ToAccountID != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "destination account is only valid for transfers")
	}

	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	return nil
}

// checkReferences resolves every id the input references.
func checkReferences(tx *gorm.DB, input TransactionInput) error {
	if err := accountExists(tx, input.AccountID); err != nil {
		return err
	}
	if input.ToAccountID != nil {
		if err := accountExists(tx, *input.ToAccountID); err != nil {
			return err
		}
	}
	if input.CategoryID != nil {
		var count int64
		if err := tx.Model(&models.Category{}).Where("id = ?", *input.CategoryID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternal, err)
		}
		if count == 0 {
			return apperrors.ErrCategoryNotFound
		}
	}
	return nil
}

func accountExists(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Account{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if count == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// normalizeAmount applies the sign convention: expenses are stored
// negative, income and transfers positive (a transfer's direction is
// implied by its account pair, not its sign).
func normalizeAmount(t models.TransactionType, magnitude money.Cents) money.Cents {
	if t == models.TransactionTypeExpense {
		return -magnitude.Abs()
	}
	return magnitude.Abs()
}

func newTransactionRecord(input TransactionInput) *models.Transaction {
	return &models.Transaction{
		Description: input.Description,
		Amount:      normalizeAmount(input.Type, input.Amount),
		Type:        input.Type,
		AccountID:   input.AccountID,
		ToAccountID: input.ToAccountID,
		CategoryID:  input.CategoryID,
		Date:        input.Date,
	}
}

// contributions returns the signed balance deltas a stored transaction
// applies to its referenced accounts: income/expense contribute their
// signed amount to the source account, a transfer contributes -amount to
// the source and +amount to the destination.
func contributions(t *models.Transaction) []balanceDelta {
	if t.Type == models.TransactionTypeTransfer && t.ToAccountID != nil {
		return []balanceDelta{
			{accountID: t.AccountID, amount: -t.Amount.Abs()},
			{accountID: *t.ToAccountID, amount: t.Amount.Abs()},
		}
	}
	return []balanceDelta{{accountID: t.AccountID, amount: t.Amount}}
}

// applyDeltas applies (or, when revert is set, reverses) balance deltas.
// A delta touching a missing account is a reference error on apply; on
// revert it is a consistency error, because the stored transaction claims
// to reference an account that no longer exists.
func applyDeltas(tx *gorm.DB, deltas []balanceDelta, revert bool) error {
	for _, d := range deltas {
		amount := d.amount
		if revert {
			amount = -amount
		}

		res := tx.Model(&models.Account{}).
			Where("id = ?", d.accountID).
			Update("balance", gorm.Expr("balance + ?", int64(amount)))
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternal, res.Error)
		}
		if res.RowsAffected == 0 {
			if revert {
				return apperrors.ErrConsistency
			}
			return apperrors.ErrAccountNotFound
		}
	}
	return nil
}
