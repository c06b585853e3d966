package transaction_test

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
	categoryDatamodel "github.com/fintrackhq/fintrack/internal/core/datamodel/category"
	transactionDatamodel "github.com/fintrackhq/fintrack/internal/core/datamodel/transaction"
	"github.com/fintrackhq/fintrack/internal/transaction"
	transactionPostgres "github.com/fintrackhq/fintrack/internal/transaction/postgres"
	"github.com/fintrackhq/fintrack/pkg/logger"
)

var _ = Describe("Transaction Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
	)

	owner := &auth.User{ID: 1, Name: "Ada Lovelace", Email: "ada@example.com", Role: auth.RoleUser}
	stranger := &auth.User{ID: 2, Name: "Grace Hopper", Email: "grace@example.com", Role: auth.RoleUser}

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
		repo := transactionPostgres.NewTransactionRepository(db)
		service := transaction.NewService(repo, authz.NewOwnershipPolicy(), logger.LoggerWrapper())
		handler := transaction.NewHandler(service)

		router = chi.NewRouter()
		router.Route("/transactions", func(r chi.Router) {
			r.Post("/", handler.CreateTransaction)
			r.Get("/", handler.GetTransactions)
			r.Put("/{id}", handler.UpdateTransaction)
			r.Delete("/{id}", handler.DeleteTransaction)
		})
	})

	It("should record a transaction and return it with a 201", func() {
		w := do(owner, http.MethodPost, "/transactions", `{"type":"expense","amount":42.504,"date":"2025-09-01","description":"groceries run"}`)

		Expect(w.Code).To(Equal(http.StatusCreated))

		var created transaction.Transaction
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.UserID).To(Equal(owner.ID))
		Expect(created.Amount).To(Equal(42.50))
	})

	It("should reject requests without an authenticated user", func() {
		w := do(nil, http.MethodGet, "/transactions", "")

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should answer 422 for a missing required field", func() {
		w := do(owner, http.MethodPost, "/transactions", `{"type":"expense","date":"2025-09-01"}`)

		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))

		var resp struct {
			Error map[string][]string `json:"error"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Error).To(HaveKey("amount"))
	})

	It("should reject a category belonging to another user", func() {
		cat := &categoryDatamodel.Category{UserID: stranger.ID, Name: "Travel"}
		Expect(db.Create(cat).Error).To(Succeed())

		w := do(owner, http.MethodPost, "/transactions",
			fmt.Sprintf(`{"type":"expense","amount":10,"date":"2025-09-01","category_id":%d}`, cat.ID))

		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))

		var resp struct {
			Error map[string][]string `json:"error"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Error["category_id"]).To(ContainElement("category does not exist"))
	})

	It("should list the caller's transactions newest first", func() {
		Expect(do(owner, http.MethodPost, "/transactions", `{"type":"expense","amount":10,"date":"2025-09-01"}`).Code).To(Equal(http.StatusCreated))
		Expect(do(owner, http.MethodPost, "/transactions", `{"type":"income","amount":20,"date":"2025-09-03"}`).Code).To(Equal(http.StatusCreated))
		Expect(do(stranger, http.MethodPost, "/transactions", `{"type":"expense","amount":5,"date":"2025-09-02"}`).Code).To(Equal(http.StatusCreated))

		w := do(owner, http.MethodGet, "/transactions", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp transaction.TransactionsResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Transactions).To(HaveLen(2))
		Expect(resp.Transactions[0].Type).To(Equal("income"))
		Expect(resp.Transactions[1].Type).To(Equal("expense"))
	})

	It("should answer 403 when another user's token updates the record", func() {
		w := do(owner, http.MethodPost, "/transactions", `{"type":"expense","amount":10,"date":"2025-09-01"}`)
		var created transaction.Transaction
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())

		w = do(stranger, http.MethodPut, fmt.Sprintf("/transactions/%d", created.ID), `{"amount":1}`)
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("should answer 403 when another user's token deletes the record", func() {
		w := do(owner, http.MethodPost, "/transactions", `{"type":"expense","amount":10,"date":"2025-09-01"}`)
		var created transaction.Transaction
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())

		w = do(stranger, http.MethodDelete, fmt.Sprintf("/transactions/%d", created.ID), "")
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("should answer 404 for an id that never existed", func() {
		w := do(owner, http.MethodDelete, "/transactions/999", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should apply a partial update and keep the rest of the record", func() {
		w := do(owner, http.MethodPost, "/transactions", `{"type":"expense","amount":42.50,"date":"2025-09-01","description":"groceries run"}`)
		var created transaction.Transaction
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())

		w = do(owner, http.MethodPut, fmt.Sprintf("/transactions/%d", created.ID), `{"amount":50}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var updated transaction.Transaction
		Expect(json.NewDecoder(w.Body).Decode(&updated)).To(Succeed())
		Expect(updated.Amount).To(Equal(50.00))
		Expect(updated.Type).To(Equal("expense"))
		Expect(*updated.Description).To(Equal("groceries run"))
	})
})
