package user_test

import (
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fintrackhq/fintrack/internal"
	userDatamodel "github.com/fintrackhq/fintrack/internal/core/datamodel/user"
	"github.com/fintrackhq/fintrack/internal/user"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

// MockRepository implements user.Repository for testing
type MockRepository struct {
	users      map[int64]*userDatamodel.User
	roles      map[int64]bool
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:  make(map[int64]*userDatamodel.User),
		roles:  map[int64]bool{1: true, 2: true},
		nextID: 1,
	}
}

func (m *MockRepository) GetByID(id int64) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (m *MockRepository) GetAll() ([]*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*userDatamodel.User
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, nil
}

func (m *MockRepository) EmailExistsExcluding(email string, excludeID int64) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	for _, u := range m.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) RoleExists(roleID int64) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	return m.roles[roleID], nil
}

func (m *MockRepository) Create(u *userDatamodel.User) error {
	if m.shouldFail {
		return m.failError
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *MockRepository) Update(u *userDatamodel.User) error {
	if m.shouldFail {
		return m.failError
	}
	m.users[u.ID] = u
	return nil
}

func (m *MockRepository) Delete(id int64) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.users, id)
	return nil
}

// plainHasher keeps hashes readable in assertions
type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func strPtr(v string) *string { return &v }
func int64Ptr(v int64) *int64 { return &v }

var _ = Describe("User Service", func() {
	var (
		mockRepo *MockRepository
		service  *user.Service
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, plainHasher{}, logger)
	})

	seedUser := func(name, email string) *userDatamodel.User {
		record := &userDatamodel.User{Name: name, Email: email, PasswordHash: "hashed:initial", RoleID: 1}
		Expect(mockRepo.Create(record)).To(Succeed())
		return record
	}

	Describe("UpdateProfile", func() {
		It("should apply only the present fields", func() {
			record := seedUser("Ada Lovelace", "ada@example.com")

			updated, err := service.UpdateProfile(record.ID, user.UpdateProfileDTO{
				Name: strPtr("Ada King"),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Ada King"))
			Expect(updated.Email).To(Equal("ada@example.com"))
		})

		It("should rehash a changed password", func() {
			record := seedUser("Ada Lovelace", "ada@example.com")

			_, err := service.UpdateProfile(record.ID, user.UpdateProfileDTO{
				Password: strPtr("newsecret"),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.users[record.ID].PasswordHash).To(Equal("hashed:newsecret"))
		})

		It("should reject an email already taken by another user", func() {
			seedUser("Ada Lovelace", "ada@example.com")
			record := seedUser("Grace Hopper", "grace@example.com")

			_, err := service.UpdateProfile(record.ID, user.UpdateProfileDTO{
				Email: strPtr("ada@example.com"),
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(422))
			Expect(appErr.Fields["email"]).To(ContainElement("email has already been taken"))
		})

		It("should allow keeping the current email", func() {
			record := seedUser("Ada Lovelace", "ada@example.com")

			_, err := service.UpdateProfile(record.ID, user.UpdateProfileDTO{
				Email: strPtr("ada@example.com"),
			})

			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject a short password", func() {
			record := seedUser("Ada Lovelace", "ada@example.com")

			_, err := service.UpdateProfile(record.ID, user.UpdateProfileDTO{
				Password: strPtr("short"),
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(422))
			Expect(appErr.Fields).To(HaveKey("password"))
		})
	})

	Describe("CreateUser", func() {
		It("should default the role when none is given", func() {
			created, err := service.CreateUser(user.AdminCreateUserDTO{
				Name:     "Ada Lovelace",
				Email:    "ada@example.com",
				Password: "supersecret",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.RoleID).To(Equal(int64(1)))
		})

		It("should honor an explicit valid role", func() {
			created, err := service.CreateUser(user.AdminCreateUserDTO{
				Name:     "Ada Lovelace",
				Email:    "ada@example.com",
				Password: "supersecret",
				RoleID:   int64Ptr(2),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.RoleID).To(Equal(int64(2)))
		})

		It("should reject an unknown role", func() {
			_, err := service.CreateUser(user.AdminCreateUserDTO{
				Name:     "Ada Lovelace",
				Email:    "ada@example.com",
				Password: "supersecret",
				RoleID:   int64Ptr(99),
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(422))
			Expect(appErr.Fields).To(HaveKey("role_id"))
		})

		It("should answer 409 for an email that is already registered", func() {
			seedUser("Ada Lovelace", "ada@example.com")

			_, err := service.CreateUser(user.AdminCreateUserDTO{
				Name:     "Impostor",
				Email:    "ada@example.com",
				Password: "supersecret",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
		})
	})

	Describe("UpdateUser", func() {
		It("should change the role when it exists", func() {
			record := seedUser("Ada Lovelace", "ada@example.com")

			updated, err := service.UpdateUser(record.ID, user.AdminUpdateUserDTO{
				RoleID: int64Ptr(2),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.RoleID).To(Equal(int64(2)))
		})

		It("should answer 404 for a missing user", func() {
			_, err := service.UpdateUser(999, user.AdminUpdateUserDTO{
				Name: strPtr("Nobody"),
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})

	Describe("DeleteUser", func() {
		It("should delete an existing user", func() {
			record := seedUser("Ada Lovelace", "ada@example.com")

			Expect(service.DeleteUser(record.ID)).To(Succeed())
			Expect(mockRepo.users).NotTo(HaveKey(record.ID))
		})

		It("should answer 404 for a missing user", func() {
			err := service.DeleteUser(999)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})

	Describe("ListUsers", func() {
		It("should return every account", func() {
			seedUser("Ada Lovelace", "ada@example.com")
			seedUser("Grace Hopper", "grace@example.com")

			users, err := service.ListUsers()
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))
		})
	})
})
