package postgres

import (
	"errors"

	"gorm.io/gorm"

	categoryDatamodel "github.com/fintrackhq/fintrack/internal/core/datamodel/category"
	transactionDatamodel "github.com/fintrackhq/fintrack/internal/core/datamodel/transaction"
	"github.com/fintrackhq/fintrack/internal/transaction"
)

// TransactionRepository implements transaction.RepositoryAPI using GORM
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) transaction.RepositoryAPI {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) GetByID(id int64) (*transactionDatamodel.Transaction, error) {
	var txn transactionDatamodel.Transaction
	err := r.db.Where("id = ?", id).First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *TransactionRepository) GetByUserID(userID int64) ([]*transactionDatamodel.Transaction, error) {
	var transactions []*transactionDatamodel.Transaction
	err := r.db.Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *TransactionRepository) Create(txn *transactionDatamodel.Transaction) error {
	return r.db.Create(txn).Error
}

func (r *TransactionRepository) Update(txn *transactionDatamodel.Transaction) error {
	return r.db.Save(txn).Error
}

func (r *TransactionRepository) Delete(id int64) error {
	return r.db.Delete(&transactionDatamodel.Transaction{}, id).Error
}

func (r *TransactionRepository) CategoryExistsForUser(categoryID, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&categoryDatamodel.Category{}).
		Where("id = ? AND user_id = ?", categoryID, userID).
		Count(&count).Error
	return count > 0, err
}
