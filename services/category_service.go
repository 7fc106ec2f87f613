package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "kassa/errors"
	"kassa/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db       *gorm.DB
	notifier *Notifier
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB, notifier *Notifier) CategoryServicer {
	return &categoryService{db: db, notifier: notifier}
}

// CreateCategory creates a new category.
func (s *categoryService) CreateCategory(name string, categoryType models.CategoryType) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if categoryType != models.CategoryTypeIncome && categoryType != models.CategoryTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}

	// Category names double as aggregation buckets, so keep them unique.
	var count int64
	if err := s.db.Model(&models.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this name already exists")
	}

	category := &models.Category{
		Name: name,
		Type: categoryType,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	notifyCommitted(s.db, s.notifier)
	return category, nil
}

// GetCategories retrieves all categories ordered by name.
func (s *categoryService) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID.
func (s *categoryService) GetCategoryByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return &category, nil
}

// RenameCategory changes a category's name. Renaming is the only mutation
// a category supports after creation.
func (s *categoryService) RenameCategory(id uint, name string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	category, err := s.GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	// Same uniqueness rule as creation; a rename must not merge two
	// aggregation buckets.
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("name = ? AND id <> ?", name, id).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this name already exists")
	}

	if err := s.db.Model(category).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	notifyCommitted(s.db, s.notifier)
	return category, nil
}

// DeleteCategory deletes a category. Deletion is refused while any
// transaction still references it.
func (s *categoryService) DeleteCategory(id uint) error {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.Transaction{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if count > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}

	notifyCommitted(s.db, s.notifier)
	return nil
}
