package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/fintrackhq/fintrack/internal/auth"
	categoryDatamodel "github.com/fintrackhq/fintrack/internal/core/datamodel/category"
	userDatamodel "github.com/fintrackhq/fintrack/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetPasswordForEmail(email string) (string, int64, error) {
	var record userDatamodel.User
	err := r.db.Select("id", "password_hash").Where("email = ?", email).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, errors.New("user not found")
		}
		return "", 0, err
	}
	return record.PasswordHash, record.ID, nil
}

func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// CreateUserWithCategories persists the user and its starter categories in a
// single transaction so a half-registered account can never be observed.
func (r *Repository) CreateUserWithCategories(u *userDatamodel.User, categoryNames []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}

		for _, name := range categoryNames {
			cat := &categoryDatamodel.Category{
				UserID: u.ID,
				Name:   name,
			}
			if err := tx.Create(cat).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *Repository) GetUserWithRole(userID int64) (*auth.User, error) {
	var row struct {
		ID    int64
		Name  string
		Email string
		Role  string
	}

	err := r.db.Model(&userDatamodel.User{}).
		Select("users.id", "users.name", "users.email", "roles.name AS role").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("users.id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, errors.New("user not found")
	}

	return &auth.User{
		ID:    row.ID,
		Name:  row.Name,
		Email: row.Email,
		Role:  row.Role,
	}, nil
}
