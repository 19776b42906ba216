package service

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rferreira/loan-ledger/internal/cache"
	"github.com/rferreira/loan-ledger/internal/config"
	"github.com/rferreira/loan-ledger/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Store is the narrow storage interface the service depends on. It is
// implemented by repository.Repository.
type Store interface {
	CreateAccount(account *models.LoanAccount) error
	FindAccount(key string) (*models.LoanAccount, error)
	UpdateBalance(fiscalID string, newBalance float64) error
	ListLiveAccounts() ([]models.LoanAccount, error)
	SoftDeleteAccount(key string) error

	CreateTask(task *models.Task) error
	ListTasks() ([]models.Task, error)
	ListTasksByFiscalID(fiscalID string) ([]models.Task, error)
	SetTaskCompleted(id int64, completed bool) (*models.Task, error)
	DeleteTask(id int64) error

	CreateUser(user *models.User) error
	FindUserByUsername(username string) (*models.User, error)
}

// RateSource supplies the reference annual rate for simulations.
type RateSource interface {
	AnnualRate() (float64, error)
}

// Service handles business logic
type Service struct {
	store    Store
	log      *logrus.Logger
	config   *config.Config
	validate *validator.Validate
	cache    cache.Cache
	rates    RateSource
}

// NewService initializes a new service
func NewService(store Store, log *logrus.Logger, cfg *config.Config, c cache.Cache, rates RateSource) *Service {
	return &Service{
		store:    store,
		log:      log,
		config:   cfg,
		validate: validator.New(),
		cache:    c,
		rates:    rates,
	}
}

// Register creates a new office user with hashed password
func (s *Service) Register(username, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Username)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(username, password string) (string, error) {
	user, err := s.store.FindUserByUsername(username)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Username)
	return tokenString, nil
}
