package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/fintrackhq/fintrack/internal"
	userDatamodel "github.com/fintrackhq/fintrack/internal/core/datamodel/user"
)

// UserRepository is the credential store consumed by the auth service.
type UserRepository interface {
	GetPasswordForEmail(email string) (passwordHash string, userID int64, err error)
	EmailExists(email string) (bool, error)
	CreateUserWithCategories(u *userDatamodel.User, categoryNames []string) error
	GetUserWithRole(userID int64) (*User, error)
}

type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(userRepo UserRepository, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * 7 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Register creates a user with the default role, seeds the default category
// set in the same database transaction, and returns the user with a token pair.
func (s *Service) Register(dto RegisterDTO) (*User, AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return nil, AuthTokens{}, err
	}

	exists, err := s.userRepo.EmailExists(dto.Email)
	if err != nil {
		s.logger.Error("register: email lookup failed", "error", err)
		return nil, AuthTokens{}, internal.NewInternalError("failed to register user", err)
	}
	if exists {
		return nil, AuthTokens{}, internal.NewFieldValidationError("email", "email has already been taken")
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("register: password hashing failed", "error", err)
		return nil, AuthTokens{}, internal.NewInternalError("failed to register user", err)
	}

	record := &userDatamodel.User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
	}

	if err := s.userRepo.CreateUserWithCategories(record, DefaultCategories); err != nil {
		s.logger.Error("register: user creation failed", "error", err, "email", dto.Email)
		return nil, AuthTokens{}, internal.NewInternalError("failed to register user", err)
	}

	tokens, err := s.issueTokens(record.ID)
	if err != nil {
		s.logger.Error("register: token issuance failed", "error", err, "user_id", record.ID)
		return nil, AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("user registered", "user_id", record.ID, "default_categories", len(DefaultCategories))

	user := &User{
		ID:    record.ID,
		Name:  record.Name,
		Email: record.Email,
		Role:  RoleUser,
	}
	return user, tokens, nil
}

// Authenticate validates credentials and returns tokens. Unknown email and
// wrong password collapse into the same error so accounts cannot be enumerated.
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	storedHash, userID, err := s.userRepo.GetPasswordForEmail(dto.Email)
	if err != nil {
		return AuthTokens{}, internal.NewUnauthenticatedError("the provided credentials are incorrect")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, internal.NewUnauthenticatedError("the provided credentials are incorrect")
	}

	tokens, err := s.issueTokens(userID)
	if err != nil {
		s.logger.Error("login: token issuance failed", "error", err, "user_id", userID)
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}

	return tokens, nil
}

// RefreshTokens validates a refresh token and returns a fresh pair.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, internal.NewUnauthenticatedError("invalid refresh token")
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return AuthTokens{}, internal.NewUnauthenticatedError("invalid refresh token")
	}

	tokens, err := s.issueTokens(userID)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}
	return tokens, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

func (s *Service) GetUserWithRole(userID int64) (*User, error) {
	return s.userRepo.GetUserWithRole(userID)
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) issueTokens(userID int64) (AuthTokens, error) {
	subject := strconv.FormatInt(userID, 10)

	accessToken, err := s.tokenGenerator.GenerateAccessToken(subject)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(subject)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{Token: accessToken, RefreshToken: refreshToken}, nil
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(userID string) (string, error) {
	return j.signToken(userID, j.AccessTokenTTL, j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(userID string) (string, error) {
	return j.signToken(userID, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) signToken(userID string, ttl time.Duration, secret []byte) (string, error) {
	expiresAt := time.Now().Add(ttl)

	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		// Refresh tokens outlive the access TTL, so pick the secret by
		// remaining lifetime.
		if claims, ok := token.Claims.(*Claims); ok {
			if time.Until(claims.ExpiresAt.Time) > j.AccessTokenTTL {
				return j.RefreshTokenSecret, nil
			}
		}
		return j.AccessTokenSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.NewUnauthenticatedError("token has expired")
		}
		return nil, internal.NewUnauthenticatedError("invalid token")
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.NewUnauthenticatedError("invalid token")
}
