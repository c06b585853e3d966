package category_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fintrackhq/fintrack/internal/auth"
	"github.com/fintrackhq/fintrack/internal/authz"
	"github.com/fintrackhq/fintrack/internal/category"
	categoryPostgres "github.com/fintrackhq/fintrack/internal/category/postgres"
	categoryDatamodel "github.com/fintrackhq/fintrack/internal/core/datamodel/category"
	transactionDatamodel "github.com/fintrackhq/fintrack/internal/core/datamodel/transaction"
	"github.com/fintrackhq/fintrack/pkg/logger"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
	)

	owner := &auth.User{ID: 1, Name: "Ada Lovelace", Email: "ada@example.com", Role: auth.RoleUser}
	stranger := &auth.User{ID: 2, Name: "Grace Hopper", Email: "grace@example.com", Role: auth.RoleUser}

	// asUser stands in for the auth middleware in these tests
	asUser := func(user *auth.User, req *http.Request) *http.Request {
		if user == nil {
			return req
		}
		return req.WithContext(auth.ContextWithUser(req.Context(), user))
	}

	do := func(user *auth.User, method, target, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, asUser(user, req))
		return w
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&categoryDatamodel.Category{}, &transactionDatamodel.Transaction{})
		Expect(err).NotTo(HaveOccurred())

		logger.Init("development")
		repo := categoryPostgres.NewCategoryRepository(db)
		service := category.NewService(repo, authz.NewOwnershipPolicy(), logger.LoggerWrapper())
		handler := category.NewHandler(service)

		router = chi.NewRouter()
		router.Route("/categories", func(r chi.Router) {
			r.Post("/", handler.CreateCategory)
			r.Get("/", handler.GetCategories)
			r.Get("/{id}", handler.GetCategory)
			r.Put("/{id}", handler.UpdateCategory)
			r.Delete("/{id}", handler.DeleteCategory)
		})
	})

	It("should create a category and return it with a 201", func() {
		w := do(owner, http.MethodPost, "/categories", `{"name":"Books","icon":"book"}`)

		Expect(w.Code).To(Equal(http.StatusCreated))

		var created category.Category
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.ID).To(BeNumerically(">", 0))
		Expect(created.UserID).To(Equal(owner.ID))
		Expect(created.Name).To(Equal("Books"))
	})

	It("should reject requests without an authenticated user", func() {
		w := do(nil, http.MethodGet, "/categories", "")

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should answer 400 for a malformed body", func() {
		w := do(owner, http.MethodPost, "/categories", `{"name":`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should answer 422 with per-field messages for a duplicate name", func() {
		Expect(do(owner, http.MethodPost, "/categories", `{"name":"Books"}`).Code).To(Equal(http.StatusCreated))

		w := do(owner, http.MethodPost, "/categories", `{"name":"Books"}`)

		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))

		var resp struct {
			Error map[string][]string `json:"error"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Error["name"]).To(ContainElement("name has already been taken"))
	})

	It("should only list the caller's categories", func() {
		Expect(do(owner, http.MethodPost, "/categories", `{"name":"Books"}`).Code).To(Equal(http.StatusCreated))
		Expect(do(stranger, http.MethodPost, "/categories", `{"name":"Travel"}`).Code).To(Equal(http.StatusCreated))

		w := do(owner, http.MethodGet, "/categories", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Categories).To(HaveLen(1))
		Expect(resp.Categories[0].Name).To(Equal("Books"))
	})

	It("should hide another user's category behind a 404", func() {
		w := do(owner, http.MethodPost, "/categories", `{"name":"Books"}`)
		var created category.Category
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())

		w = do(stranger, http.MethodGet, fmt.Sprintf("/categories/%d", created.ID), "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should update a category partially", func() {
		w := do(owner, http.MethodPost, "/categories", `{"name":"Books","icon":"book"}`)
		var created category.Category
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())

		w = do(owner, http.MethodPut, fmt.Sprintf("/categories/%d", created.ID), `{"name":"Reading"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var updated category.Category
		Expect(json.NewDecoder(w.Body).Decode(&updated)).To(Succeed())
		Expect(updated.Name).To(Equal("Reading"))
		Expect(updated.Icon).NotTo(BeNil())
		Expect(*updated.Icon).To(Equal("book"))
	})

	It("should delete a category with a 204 and keep dependent transactions", func() {
		w := do(owner, http.MethodPost, "/categories", `{"name":"Books"}`)
		var created category.Category
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())

		txn := &transactionDatamodel.Transaction{UserID: owner.ID, Type: "expense", Amount: 10, CategoryID: &created.ID}
		Expect(db.Create(txn).Error).To(Succeed())

		w = do(owner, http.MethodDelete, fmt.Sprintf("/categories/%d", created.ID), "")
		Expect(w.Code).To(Equal(http.StatusNoContent))

		var survivor transactionDatamodel.Transaction
		Expect(db.First(&survivor, txn.ID).Error).To(Succeed())
		Expect(survivor.CategoryID).To(BeNil())
	})
})
