package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/dentara/practice-api/internal/cache"
	"github.com/dentara/practice-api/internal/config"
	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/handlers"
	"github.com/dentara/practice-api/internal/middleware"
	"github.com/dentara/practice-api/internal/repository"
	"github.com/dentara/practice-api/internal/services"
	"github.com/dentara/practice-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting practice API")

	// Connect to database
	dbConfig := database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		LogLevel: cfg.Database.LogLevel,
	}

	if err := database.Connect(dbConfig); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	// Initialize cache
	var cacheImpl cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Type == "redis" {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		cacheImpl, err = cache.NewRedisCache(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Msg("Redis cache initialized")
	} else {
		cacheImpl = cache.NewMemoryCache()
		log.Info().Msg("Memory cache initialized")
	}

	// Initialize repositories
	sequenceRepo := repository.NewSequenceRepository()
	clinicRepo := repository.NewClinicRepository()
	branchRepo := repository.NewBranchRepository(sequenceRepo)
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	patientRepo := repository.NewPatientRepository(sequenceRepo)
	appointmentRepo := repository.NewAppointmentRepository()
	billingRepo := repository.NewBillingRepository(sequenceRepo, patientRepo)
	inventoryRepo := repository.NewInventoryRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()
	procedureRepo := repository.NewProcedureRepository()
	expenseRepo := repository.NewExpenseRepository()
	noteRepo := repository.NewNoteRepository()
	auditRepo := repository.NewAuditRepository()

	// Initialize services
	auditService := services.NewAuditService(auditRepo, userRepo)
	authService := services.NewAuthService(clinicRepo, userRepo, branchRepo, roleRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	branchService := services.NewBranchService(branchRepo, auditService)
	userService := services.NewUserService(userRepo, branchRepo, auditService, cfg.Auth.DefaultPassword)
	settingsService := services.NewSettingsService(clinicRepo, roleRepo, auditService)
	patientService := services.NewPatientService(patientRepo, auditService)
	appointmentService := services.NewAppointmentService(appointmentRepo, patientRepo, branchRepo, auditService)
	billingService := services.NewBillingService(billingRepo, patientRepo, userRepo, settingsService, auditService, cacheImpl)
	inventoryService := services.NewInventoryService(inventoryRepo, auditService)
	prescriptionService := services.NewPrescriptionService(prescriptionRepo, patientRepo, auditService)
	procedureService := services.NewProcedureService(procedureRepo, auditService)
	expenseService := services.NewExpenseService(expenseRepo, auditService)
	noteService := services.NewNoteService(noteRepo, patientRepo, userRepo, auditService)
	dashboardService := services.NewDashboardService(patientRepo, appointmentRepo, billingRepo, expenseRepo, inventoryRepo, cacheImpl)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	branchHandler := handlers.NewBranchHandler(branchService)
	userHandler := handlers.NewUserHandler(userService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	patientHandler := handlers.NewPatientHandler(patientService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	billingHandler := handlers.NewBillingHandler(billingService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	prescriptionHandler := handlers.NewPrescriptionHandler(prescriptionService)
	procedureHandler := handlers.NewProcedureHandler(procedureService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	noteHandler := handlers.NewNoteHandler(noteService)
	auditHandler := handlers.NewAuditHandler(auditService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints (no authentication required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Public auth endpoints
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/change-password", authHandler.ChangePassword)
	})

	// Authenticated API. Every route below resolves the principal from the
	// bearer token and the effective branch from the X-Branch-Id header.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.Auth.JWTSecret, userRepo))
		r.Use(middleware.BranchScope(branchRepo))

		r.Get("/auth/me", authHandler.Me)

		// Clinic-wide reads; management is admin only.
		r.Route("/branches", func(r chi.Router) {
			r.Get("/", branchHandler.List)
			r.Get("/{id}", branchHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/", branchHandler.Create)
				r.Put("/{id}", branchHandler.Update)
				r.Delete("/{id}", branchHandler.Delete)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.AdminOnly)
			r.Post("/", userHandler.Create)
			r.Get("/", userHandler.List)
			r.Get("/{id}", userHandler.Get)
			r.Put("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Delete)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/clinic", settingsHandler.ClinicProfile)
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Put("/clinic", settingsHandler.UpdateClinicProfile)
				r.Get("/roles", settingsHandler.RolePolicies)
				r.Put("/roles", settingsHandler.UpdateRolePolicy)
			})
		})

		// Branch-bound resources. Clinic-wide scope is rejected here; an
		// administrator must select a branch via the header.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireBranch)

			r.Route("/patients", func(r chi.Router) {
				r.Post("/", patientHandler.Create)
				r.Get("/", patientHandler.List)
				r.Get("/{id}", patientHandler.Get)
				r.Put("/{id}", patientHandler.Update)
				r.With(middleware.AdminOnly).Delete("/{id}", patientHandler.Delete)
				r.Post("/{id}/treatments", patientHandler.AddTreatment)
				r.Post("/{id}/treatments/start", patientHandler.StartTreatments)
				r.Put("/{id}/treatments/{treatmentID}", patientHandler.UpdateTreatment)
				r.Get("/{id}/ledger", patientHandler.Ledger)
			})

			r.Route("/appointments", func(r chi.Router) {
				r.Post("/", appointmentHandler.Create)
				r.Get("/", appointmentHandler.List)
				r.Get("/{id}", appointmentHandler.Get)
				r.Put("/{id}", appointmentHandler.Update)
				r.Delete("/{id}", appointmentHandler.Delete)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Post("/", billingHandler.CreateInvoice)
				r.Get("/", billingHandler.ListInvoices)
				r.Get("/{id}", billingHandler.GetInvoice)
				r.Post("/{id}/cancel", billingHandler.CancelInvoice)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/", billingHandler.RecordPayment)
				r.Get("/", billingHandler.ListPayments)
				r.Get("/{id}", billingHandler.GetPayment)
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Post("/restock", inventoryHandler.Restock)
				r.Get("/", inventoryHandler.List)
				r.Get("/alerts", inventoryHandler.Alerts)
				r.Get("/logs", inventoryHandler.Logs)
				r.Get("/{id}", inventoryHandler.Get)
				r.Put("/{id}", inventoryHandler.Update)
				r.Post("/{id}/consume", inventoryHandler.Consume)
				r.Delete("/{id}", inventoryHandler.Delete)
			})

			r.Route("/prescriptions", func(r chi.Router) {
				r.Post("/", prescriptionHandler.Create)
				r.Get("/", prescriptionHandler.List)
				r.Get("/{id}", prescriptionHandler.Get)
				r.Delete("/{id}", prescriptionHandler.Delete)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", expenseHandler.Create)
				r.Get("/", expenseHandler.List)
				r.Get("/{id}", expenseHandler.Get)
				r.With(middleware.AdminOnly).Delete("/{id}", expenseHandler.Delete)
			})

			r.Get("/doctors", userHandler.Doctors)

			r.Route("/clinical-notes", func(r chi.Router) {
				r.Post("/", noteHandler.Create)
				r.Get("/", noteHandler.List)
				r.Get("/{id}", noteHandler.Get)
				r.Delete("/{id}", noteHandler.Delete)
			})
		})

		// Clinic-scoped catalogs; usable branch-bound or clinic-wide.
		r.Route("/drugs", func(r chi.Router) {
			r.Post("/", prescriptionHandler.CreateDrug)
			r.Get("/", prescriptionHandler.ListDrugs)
			r.Put("/{id}", prescriptionHandler.UpdateDrug)
			r.Delete("/{id}", prescriptionHandler.DeleteDrug)
		})

		r.Route("/procedures", func(r chi.Router) {
			r.Get("/", procedureHandler.List)
			r.Get("/{id}", procedureHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/", procedureHandler.Create)
				r.Put("/{id}", procedureHandler.Update)
				r.Delete("/{id}", procedureHandler.Delete)
			})
		})

		r.With(middleware.AdminOnly).Get("/audit-logs", auditHandler.List)
		r.With(middleware.AdminOnly).Get("/audit-logs/{entity}/{entityID}", auditHandler.Trail)
		r.Get("/dashboard/summary", dashboardHandler.Summary)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
