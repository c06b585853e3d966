package transaction

import (
	"log/slog"
	"time"

	"github.com/fintrackhq/fintrack/internal"
	"github.com/fintrackhq/fintrack/internal/authz"
	transactionDatamodel "github.com/fintrackhq/fintrack/internal/core/datamodel/transaction"
)

type RepositoryAPI interface {
	GetByID(id int64) (*transactionDatamodel.Transaction, error)
	GetByUserID(userID int64) ([]*transactionDatamodel.Transaction, error)
	Create(txn *transactionDatamodel.Transaction) error
	Update(txn *transactionDatamodel.Transaction) error
	Delete(id int64) error
	CategoryExistsForUser(categoryID, userID int64) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	policy *authz.OwnershipPolicy
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, policy *authz.OwnershipPolicy, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		policy: policy,
		logger: logger,
	}
}

func (s *Service) CreateTransaction(userID int64, dto CreateTransactionDTO) (*Transaction, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkCategoryOwnership(userID, dto.CategoryID); err != nil {
		return nil, err
	}

	date, _ := time.Parse(DateLayout, dto.Date)
	record := &transactionDatamodel.Transaction{
		UserID:      userID,
		Type:        dto.Type,
		Amount:      roundAmount(*dto.Amount),
		CategoryID:  dto.CategoryID,
		Description: dto.Description,
		Date:        date,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("create transaction: insert failed", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to create transaction", err)
	}

	s.logger.Info("transaction created",
		"transaction_id", record.ID,
		"user_id", userID,
		"type", record.Type,
		"amount", record.Amount)

	return FromDataModel(record), nil
}

func (s *Service) GetTransactions(userID int64) ([]*Transaction, error) {
	records, err := s.repo.GetByUserID(userID)
	if err != nil {
		s.logger.Error("list transactions failed", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to list transactions", err)
	}
	return FromDataModelSlice(records), nil
}

func (s *Service) UpdateTransaction(userID, id int64, dto UpdateTransactionDTO) (*Transaction, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	txn, err := s.resolve(id)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanUpdate(userID, txn) {
		s.logger.Warn("transaction update denied", "transaction_id", id, "user_id", userID, "owner_id", txn.UserID)
		return nil, internal.NewForbiddenError("forbidden")
	}

	if dto.CategoryID != nil {
		if err := s.checkCategoryOwnership(userID, dto.CategoryID); err != nil {
			return nil, err
		}
		txn.CategoryID = dto.CategoryID
	}
	if dto.Type != nil {
		txn.Type = *dto.Type
	}
	if dto.Amount != nil {
		txn.Amount = roundAmount(*dto.Amount)
	}
	if dto.Description != nil {
		txn.Description = dto.Description
	}
	if dto.Date != nil {
		date, _ := time.Parse(DateLayout, *dto.Date)
		txn.Date = date
	}

	record := ToDataModel(txn)
	if err := s.repo.Update(record); err != nil {
		s.logger.Error("update transaction: save failed", "error", err, "transaction_id", id)
		return nil, internal.NewInternalError("failed to update transaction", err)
	}

	return FromDataModel(record), nil
}

func (s *Service) DeleteTransaction(userID, id int64) error {
	txn, err := s.resolve(id)
	if err != nil {
		return err
	}

	if !s.policy.CanDelete(userID, txn) {
		s.logger.Warn("transaction delete denied", "transaction_id", id, "user_id", userID, "owner_id", txn.UserID)
		return internal.NewForbiddenError("forbidden")
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("delete transaction failed", "error", err, "transaction_id", id)
		return internal.NewInternalError("failed to delete transaction", err)
	}

	s.logger.Info("transaction deleted", "transaction_id", id, "user_id", userID)
	return nil
}

// resolve loads by id alone; ownership is decided afterwards by the policy,
// so a foreign record answers 403 rather than 404.
func (s *Service) resolve(id int64) (*Transaction, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("transaction lookup failed", "error", err, "transaction_id", id)
		return nil, internal.NewInternalError("failed to load transaction", err)
	}
	if record == nil {
		return nil, ErrTransactionNotFound
	}
	return FromDataModel(record), nil
}

// checkCategoryOwnership rejects category references that do not exist or
// belong to another user. The schema does not enforce this pairing, so the
// service does.
func (s *Service) checkCategoryOwnership(userID int64, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}

	ok, err := s.repo.CategoryExistsForUser(*categoryID, userID)
	if err != nil {
		s.logger.Error("category ownership check failed", "error", err, "category_id", *categoryID)
		return internal.NewInternalError("failed to validate category", err)
	}
	if !ok {
		return internal.NewFieldValidationError("category_id", "category does not exist")
	}
	return nil
}
