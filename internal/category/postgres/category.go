package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/fintrackhq/fintrack/internal/category"
	categoryDatamodel "github.com/fintrackhq/fintrack/internal/core/datamodel/category"
	transactionDatamodel "github.com/fintrackhq/fintrack/internal/core/datamodel/transaction"
)

// CategoryRepository implements category.RepositoryAPI using GORM
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAllByUser(userID int64) ([]*categoryDatamodel.Category, error) {
	var categories []*categoryDatamodel.Category
	err := r.db.Where("user_id = ?", userID).
		Order("id ASC").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByIDForUser(id, userID int64) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) GetByNameForUser(name string, userID int64) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := r.db.Where("name = ? AND user_id = ?", name, userID).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) Create(cat *categoryDatamodel.Category) error {
	return r.db.Create(cat).Error
}

func (r *CategoryRepository) Update(cat *categoryDatamodel.Category) error {
	return r.db.Save(cat).Error
}

// DeleteAndDetachTransactions clears the category reference on dependent
// transactions and deletes the category in one transaction. Dependent
// transactions are kept, matching the ON DELETE SET NULL schema constraint.
func (r *CategoryRepository) DeleteAndDetachTransactions(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&transactionDatamodel.Transaction{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error
		if err != nil {
			return err
		}

		return tx.Delete(&categoryDatamodel.Category{}, id).Error
	})
}
