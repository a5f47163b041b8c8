package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	httpapi "staybook-backend/internal/api/http"
	"staybook-backend/internal/config"
	"staybook-backend/internal/gateway"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/repository/postgres"
	"staybook-backend/internal/security"
	"staybook-backend/internal/service"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting StayBook Payment Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Gateway configuration", "tmn_code", cfg.VNPay.TmnCode, "base_url", cfg.VNPay.BaseURL)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Payment Gateway Client
	gatewayClient := gateway.NewClient(gateway.Config{
		TmnCode:    cfg.VNPay.TmnCode,
		HashSecret: cfg.VNPay.HashSecret,
		BaseURL:    cfg.VNPay.BaseURL,
		ReturnURL:  cfg.VNPay.ReturnURL,
	})

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)

	// Initialize Services
	availabilitySvc := service.NewAvailabilityService(store.RoomRepository, store.ReservationRepository)
	paymentSvc := service.NewPaymentService(store.ReservationRepository, gatewayClient, emailSvc)
	settlementSvc := service.NewSettlementService(
		store.SettlementRepository,
		store.ReservationRepository,
		store.HotelRepository,
		cfg.Billing.DefaultCommissionRate,
	)

	// Initialize HTTP handlers
	paymentHandler := httpapi.NewPaymentHandler(paymentSvc, availabilitySvc, cfg.Payment.SuccessPageURL, cfg.Payment.FailurePageURL)
	settlementHandler := httpapi.NewSettlementHandler(settlementSvc)
	authMiddleware := httpapi.NewAuthMiddleware(tokenManager)

	// Set up HTTP server
	router := mux.NewRouter()
	httpapi.RegisterRoutes(router, paymentHandler, settlementHandler, authMiddleware)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
