package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/rferreira/loan-ledger/internal/cache"
	"github.com/rferreira/loan-ledger/internal/config"
	"github.com/rferreira/loan-ledger/internal/handler"
	"github.com/rferreira/loan-ledger/internal/integrations/keyrate"
	"github.com/rferreira/loan-ledger/internal/jobs"
	"github.com/rferreira/loan-ledger/internal/middleware"
	"github.com/rferreira/loan-ledger/internal/repository"
	"github.com/rferreira/loan-ledger/internal/service"
	"github.com/rferreira/loan-ledger/internal/utils/email"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	if err := repository.RunMigrations(cfg.DBConn, cfg.MigrationsPath, logger); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	var calcCache cache.Cache
	if cfg.RedisAddr != "" {
		calcCache = cache.NewRedisCache(cfg.RedisAddr)
		logger.Infof("Calculation cache backed by Redis at %s", cfg.RedisAddr)
	} else {
		calcCache = cache.NewMemoryCache()
	}
	rateClient := keyrate.NewClient(cfg, logger)
	mailer := email.NewSender(cfg, logger)
	svc := service.NewService(repo, logger, cfg, calcCache, rateClient)
	h := handler.NewHandler(svc)

	// Schedule the delinquency scan
	scanner := jobs.NewDelinquencyScanner(repo, mailer, cfg.ReportRecipient, cfg.DelinquencyCron, logger)
	if err := scanner.Start(); err != nil {
		logger.Fatalf("Failed to start delinquency scanner: %v", err)
	}
	defer scanner.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Reference key rate endpoint
	r.HandleFunc("/key-rate", func(w http.ResponseWriter, r *http.Request) {
		rate, err := rateClient.AnnualRate()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get key rate: %v", err), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]float64{"annual_rate": rate})
	}).Methods("GET")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.Use(middleware.LoggingMiddleware(logger))
	authRouter.HandleFunc("/accounts", h.CreateAccount).Methods("POST")
	authRouter.HandleFunc("/accounts", h.ListAccounts).Methods("GET")
	authRouter.HandleFunc("/accounts/{key}", h.GetAccount).Methods("GET")
	authRouter.HandleFunc("/accounts/{key}", h.DeleteAccount).Methods("DELETE")
	authRouter.HandleFunc("/accounts/{key}/balance", h.GetBalance).Methods("GET")
	authRouter.HandleFunc("/accounts/{key}/deposit", h.Deposit).Methods("POST")
	authRouter.HandleFunc("/accounts/{key}/draw", h.Draw).Methods("POST")
	authRouter.HandleFunc("/accounts/{key}/pay", h.Pay).Methods("POST")
	authRouter.HandleFunc("/accounts/{key}/tasks", h.ListAccountTasks).Methods("GET")
	authRouter.HandleFunc("/assessments", h.Assess).Methods("POST")
	authRouter.HandleFunc("/simulations", h.Simulate).Methods("POST")
	authRouter.HandleFunc("/simulations/compare", h.CompareRates).Methods("GET")
	authRouter.HandleFunc("/reports/portfolio", h.Portfolio).Methods("GET")
	authRouter.HandleFunc("/reports/delinquents", h.Delinquents).Methods("GET")
	authRouter.HandleFunc("/reports/locations", h.Locations).Methods("GET")
	authRouter.HandleFunc("/reports/amounts", h.AmountStats).Methods("GET")
	authRouter.HandleFunc("/tasks", h.CreateTask).Methods("POST")
	authRouter.HandleFunc("/tasks", h.ListTasks).Methods("GET")
	authRouter.HandleFunc("/tasks/{id}/complete", h.CompleteTask).Methods("POST")
	authRouter.HandleFunc("/tasks/{id}/reopen", h.ReopenTask).Methods("POST")
	authRouter.HandleFunc("/tasks/{id}", h.DeleteTask).Methods("DELETE")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
