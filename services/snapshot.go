package services

import (
	"gorm.io/gorm"

	apperrors "kassa/errors"
	"kassa/logger"
)

// loadSnapshot reads the three collections in one pass: accounts and
// categories ordered by name, transactions ordered by date descending.
// A snapshot read after a committed mutation always reflects it.
func loadSnapshot(db *gorm.DB) (*Snapshot, error) {
	var snap Snapshot

	if err := db.Order("name").Find(&snap.Accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if err := db.Order("name").Find(&snap.Categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if err := db.Order("date DESC, id DESC").Find(&snap.Transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	return &snap, nil
}

// notifyCommitted reads a fresh snapshot and hands it to the notifier.
// Called only after a mutation has fully committed; if the post-commit read
// fails, listeners receive the error descriptor instead of stale data.
func notifyCommitted(db *gorm.DB, n *Notifier) {
	if n == nil {
		return
	}
	snap, err := loadSnapshot(db)
	if err != nil {
		logger.Get().Errorw("post-commit snapshot read failed", "error", err)
	}
	n.Publish(snap, err)
}
