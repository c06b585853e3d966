package user

import (
	"log/slog"

	"github.com/fintrackhq/fintrack/internal"
	userDatamodel "github.com/fintrackhq/fintrack/internal/core/datamodel/user"
)

type Repository interface {
	GetByID(id int64) (*userDatamodel.User, error)
	GetAll() ([]*userDatamodel.User, error)
	EmailExistsExcluding(email string, excludeID int64) (bool, error)
	RoleExists(roleID int64) (bool, error)
	Create(u *userDatamodel.User) error
	Update(u *userDatamodel.User) error
	Delete(id int64) error
}

// PasswordHasher hashes plaintext passwords before they reach the store.
// The auth service provides the production implementation.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

const defaultRoleID = 1

type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

func (s *Service) GetByID(userID int64) (*User, error) {
	record, err := s.resolve(userID)
	if err != nil {
		return nil, err
	}
	return FromDataModel(record), nil
}

// UpdateProfile applies a partial self-service update to the acting user.
func (s *Service) UpdateProfile(userID int64, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.resolve(userID)
	if err != nil {
		return nil, err
	}

	if err := s.applyUserFields(record, dto.Name, dto.Email, dto.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("profile update failed", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to update profile", err)
	}

	s.logger.Info("profile updated", "user_id", userID)
	return FromDataModel(record), nil
}

// ---- admin surface; role gating happens in middleware, not here ----

func (s *Service) ListUsers() ([]*User, error) {
	records, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("list users failed", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return FromDataModelSlice(records), nil
}

func (s *Service) GetUser(id int64) (*User, error) {
	record, err := s.resolve(id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(record), nil
}

func (s *Service) CreateUser(dto AdminCreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.EmailExistsExcluding(dto.Email, 0)
	if err != nil {
		s.logger.Error("create user: email lookup failed", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}
	if exists {
		return nil, internal.NewConflictError("email has already been taken")
	}

	roleID := int64(defaultRoleID)
	if dto.RoleID != nil {
		if err := s.checkRole(*dto.RoleID); err != nil {
			return nil, err
		}
		roleID = *dto.RoleID
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("create user: password hashing failed", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	record := &userDatamodel.User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
		RoleID:       roleID,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("create user: insert failed", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created by admin", "user_id", record.ID)
	return FromDataModel(record), nil
}

func (s *Service) UpdateUser(id int64, dto AdminUpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.resolve(id)
	if err != nil {
		return nil, err
	}

	if dto.RoleID != nil {
		if err := s.checkRole(*dto.RoleID); err != nil {
			return nil, err
		}
		record.RoleID = *dto.RoleID
	}

	if err := s.applyUserFields(record, dto.Name, dto.Email, dto.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("admin user update failed", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.logger.Info("user updated by admin", "user_id", id)
	return FromDataModel(record), nil
}

func (s *Service) DeleteUser(id int64) error {
	if _, err := s.resolve(id); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("delete user failed", "error", err, "user_id", id)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}

func (s *Service) resolve(id int64) (*userDatamodel.User, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("user lookup failed", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if record == nil {
		return nil, ErrUserNotFound
	}
	return record, nil
}

func (s *Service) applyUserFields(record *userDatamodel.User, name, email, password *string) error {
	if name != nil {
		record.Name = *name
	}

	if email != nil && *email != record.Email {
		taken, err := s.repo.EmailExistsExcluding(*email, record.ID)
		if err != nil {
			s.logger.Error("email uniqueness check failed", "error", err)
			return internal.NewInternalError("failed to update user", err)
		}
		if taken {
			return internal.NewFieldValidationError("email", "email has already been taken")
		}
		record.Email = *email
	}

	if password != nil {
		hash, err := s.hasher.HashPassword(*password)
		if err != nil {
			s.logger.Error("password hashing failed", "error", err)
			return internal.NewInternalError("failed to update user", err)
		}
		record.PasswordHash = hash
	}

	return nil
}

func (s *Service) checkRole(roleID int64) error {
	ok, err := s.repo.RoleExists(roleID)
	if err != nil {
		s.logger.Error("role lookup failed", "error", err, "role_id", roleID)
		return internal.NewInternalError("failed to validate role", err)
	}
	if !ok {
		return internal.NewFieldValidationError("role_id", "role does not exist")
	}
	return nil
}
