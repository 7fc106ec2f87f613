package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "kassa/errors"
	"kassa/models"
)

// accountService handles account-related business logic.
type accountService struct {
	db       *gorm.DB
	notifier *Notifier
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB, notifier *Notifier) AccountServicer {
	return &accountService{db: db, notifier: notifier}
}

// CreateAccount creates a new account with a zero balance. The balance is
// only ever moved afterwards by committed transactions.
func (s *accountService) CreateAccount(name string, includeInAverage bool) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	account := &models.Account{
		Name:             name,
		Balance:          0,
		IncludeInAverage: includeInAverage,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	notifyCommitted(s.db, s.notifier)
	return account, nil
}

// GetAccounts retrieves all accounts ordered by name.
func (s *accountService) GetAccounts() ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Order("name").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return accounts, nil
}

// GetAccountByID retrieves an account by ID.
func (s *accountService) GetAccountByID(id uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return &account, nil
}

// UpdateAccount updates an account's name and include-in-average flag.
// The balance cannot be set this way; it belongs to the transaction engine.
func (s *accountService) UpdateAccount(id uint, fields AccountUpdateFields) (*models.Account, error) {
	account, err := s.GetAccountByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" {
		updates["name"] = *fields.Name
	}
	if fields.IncludeInAverage != nil {
		updates["include_in_average"] = *fields.IncludeInAverage
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		// Reload to get fresh data
		if err := s.db.First(account, account.ID).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		notifyCommitted(s.db, s.notifier)
	}

	return account, nil
}

// DeleteAccount deletes an account. Deletion is refused while any
// transaction still references the account as source or destination, so
// committed history can never point at a missing account.
func (s *accountService) DeleteAccount(id uint) error {
	account, err := s.GetAccountByID(id)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Transaction{}).
		Where("account_id = ? OR to_account_id = ?", id, id).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if count > 0 {
		return apperrors.ErrAccountInUse
	}

	if err := s.db.Delete(account).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}

	notifyCommitted(s.db, s.notifier)
	return nil
}
