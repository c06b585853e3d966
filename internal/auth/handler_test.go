package auth_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/fintrackhq/fintrack/internal/auth"
)

var _ = Describe("Auth Handler Integration", func() {
	var (
		mockRepo *MockUserRepository
		service  *auth.Service
		handler  *auth.Handler
	)

	BeforeEach(func() {
		mockRepo = NewMockUserRepository()
		tokenGen := auth.NewJWTTokenGenerator(testAccessSecret, testRefreshSecret, 15*time.Minute, 7*24*time.Hour)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = auth.NewService(mockRepo, tokenGen, bcrypt.MinCost, logger)
		handler = auth.NewHandler(service)
	})

	Describe("Register", func() {
		It("should answer 201 with the user and a token pair", func() {
			req := httptest.NewRequest(http.MethodPost, "/register",
				strings.NewReader(`{"name":"Ada Lovelace","email":"ada@example.com","password":"supersecret"}`))
			w := httptest.NewRecorder()

			handler.Register(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))

			var resp auth.RegisterResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.User.Email).To(Equal("ada@example.com"))
			Expect(resp.Token).NotTo(BeEmpty())
			Expect(resp.RefreshToken).NotTo(BeEmpty())
		})

		It("should answer 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"name":`))
			w := httptest.NewRecorder()

			handler.Register(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should answer 422 with per-field messages for invalid input", func() {
			req := httptest.NewRequest(http.MethodPost, "/register",
				strings.NewReader(`{"name":"","email":"nope","password":"short"}`))
			w := httptest.NewRecorder()

			handler.Register(w, req)

			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))

			var resp struct {
				Error map[string][]string `json:"error"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Error).To(HaveKey("name"))
			Expect(resp.Error).To(HaveKey("email"))
			Expect(resp.Error).To(HaveKey("password"))
		})
	})

	Describe("Login", func() {
		It("should answer 401 with a uniform message for bad credentials", func() {
			req := httptest.NewRequest(http.MethodPost, "/login",
				strings.NewReader(`{"email":"nobody@example.com","password":"whatever1"}`))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))

			var resp struct {
				Error string `json:"error"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Error).To(Equal("the provided credentials are incorrect"))
		})
	})

	Describe("AuthMiddleware", func() {
		var protected http.Handler

		BeforeEach(func() {
			protected = handler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				user, ok := auth.UserFromContext(r.Context())
				Expect(ok).To(BeTrue())
				w.Header().Set("X-User-ID", user.Email)
				w.WriteHeader(http.StatusOK)
			}))
		})

		It("should answer 401 when the header is missing", func() {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should answer 401 for a garbage token", func() {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer not.a.token")
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should load the user into context for a valid token", func() {
			_, tokens, err := service.Register(auth.RegisterDTO{
				Name:     "Ada Lovelace",
				Email:    "ada@example.com",
				Password: "supersecret",
			})
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tokens.Token)
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("X-User-ID")).To(Equal("ada@example.com"))
		})
	})

	Describe("RequireAdmin", func() {
		var gated http.Handler

		BeforeEach(func() {
			gated = handler.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
		})

		It("should answer 403 for a regular user", func() {
			req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			req = req.WithContext(auth.ContextWithUser(req.Context(),
				&auth.User{ID: 1, Role: auth.RoleUser}))
			w := httptest.NewRecorder()

			gated.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should pass an admin through", func() {
			req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			req = req.WithContext(auth.ContextWithUser(req.Context(),
				&auth.User{ID: 2, Role: auth.RoleAdmin}))
			w := httptest.NewRecorder()

			gated.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should answer 401 when no user is in context", func() {
			req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			w := httptest.NewRecorder()

			gated.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
