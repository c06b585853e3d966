package category

import (
	"log/slog"

	"github.com/fintrackhq/fintrack/internal"
	"github.com/fintrackhq/fintrack/internal/authz"
	categoryDatamodel "github.com/fintrackhq/fintrack/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	GetAllByUser(userID int64) ([]*categoryDatamodel.Category, error)
	GetByIDForUser(id, userID int64) (*categoryDatamodel.Category, error)
	GetByNameForUser(name string, userID int64) (*categoryDatamodel.Category, error)
	Create(category *categoryDatamodel.Category) error
	Update(category *categoryDatamodel.Category) error
	DeleteAndDetachTransactions(id int64) error
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

func (s *Service) CreateCategory(userID int64, dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByNameForUser(dto.Name, userID)
	if err != nil {
		s.logger.Error("create category: name lookup failed", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to create category", err)
	}
	if existing != nil {
		return nil, internal.NewFieldValidationError("name", "name has already been taken")
	}

	record := &categoryDatamodel.Category{
		UserID: userID,
		Name:   dto.Name,
		Icon:   dto.Icon,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("create category: insert failed", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to create category", err)
	}

	s.logger.Info("category created", "category_id", record.ID, "user_id", userID)
	return FromDataModel(record), nil
}

func (s *Service) GetCategories(userID int64) ([]*Category, error) {
	records, err := s.repo.GetAllByUser(userID)
	if err != nil {
		s.logger.Error("list categories failed", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to list categories", err)
	}
	return FromDataModelSlice(records), nil
}

func (s *Service) GetCategory(userID, id int64) (*Category, error) {
	cat, err := s.resolveOwned(userID, id)
	if err != nil {
		return nil, err
	}

	// Lookup is already owner-scoped; the policy check stays as defense in depth.
	if !s.policy.CanView(userID, cat) {
		return nil, internal.NewForbiddenError("forbidden")
	}

	return cat, nil
}

func (s *Service) UpdateCategory(userID, id int64, dto UpdateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	cat, err := s.resolveOwned(userID, id)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanUpdate(userID, cat) {
		return nil, internal.NewForbiddenError("forbidden")
	}

	if dto.Name != nil && *dto.Name != cat.Name {
		existing, err := s.repo.GetByNameForUser(*dto.Name, userID)
		if err != nil {
			s.logger.Error("update category: name lookup failed", "error", err, "user_id", userID)
			return nil, internal.NewInternalError("failed to update category", err)
		}
		if existing != nil && existing.ID != id {
			return nil, internal.NewFieldValidationError("name", "name has already been taken")
		}
		cat.Name = *dto.Name
	}
	if dto.Icon != nil {
		cat.Icon = dto.Icon
	}

	record := ToDataModel(cat)
	if err := s.repo.Update(record); err != nil {
		s.logger.Error("update category: save failed", "error", err, "category_id", id)
		return nil, internal.NewInternalError("failed to update category", err)
	}

	return FromDataModel(record), nil
}

// DeleteCategory removes the category and clears the category reference on
// any of the owner's transactions; the transactions themselves survive.
func (s *Service) DeleteCategory(userID, id int64) error {
	cat, err := s.resolveOwned(userID, id)
	if err != nil {
		return err
	}

	if !s.policy.CanDelete(userID, cat) {
		return internal.NewForbiddenError("forbidden")
	}

	if err := s.repo.DeleteAndDetachTransactions(id); err != nil {
		s.logger.Error("delete category failed", "error", err, "category_id", id)
		return internal.NewInternalError("failed to delete category", err)
	}

	s.logger.Info("category deleted", "category_id", id, "user_id", userID)
	return nil
}

func (s *Service) resolveOwned(userID, id int64) (*Category, error) {
	record, err := s.repo.GetByIDForUser(id, userID)
	if err != nil {
		s.logger.Error("category lookup failed", "error", err, "category_id", id)
		return nil, internal.NewInternalError("failed to load category", err)
	}
	if record == nil {
		return nil, ErrCategoryNotFound
	}
	return FromDataModel(record), nil
}
