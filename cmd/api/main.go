package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cursive-ai/cursive-leads/internal/infra/database"
	"github.com/cursive-ai/cursive-leads/internal/infra/http/handlers"
	"github.com/cursive-ai/cursive-leads/internal/infra/http/middleware"
	"github.com/cursive-ai/cursive-leads/internal/infra/integration/databar"
	"github.com/cursive-ai/cursive-leads/internal/infra/mail"
	"github.com/cursive-ai/cursive-leads/internal/infra/queue"
	"github.com/cursive-ai/cursive-leads/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "guest"),
		envOr("RABBITMQ_PASS", "guest"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// Repositories
	assignmentRepo := database.NewAssignmentRepository(db)
	leadRepo := database.NewLeadRepository(db)
	workspaceRepo := database.NewWorkspaceRepository(db)
	userRepo := database.NewUserRepository(db)

	// Gateways and adapters
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	enricher := databar.NewClient(os.Getenv("DATABAR_API_KEY"), os.Getenv("DATABAR_URL"))
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
	)
	auth := middleware.NewAuth(os.Getenv("SESSION_SECRET"))

	// Background seed worker: populates fresh workspaces with their first
	// matched leads and announces them on the realtime channel.
	seedWorker := queue.NewSeedWorker(rabbitMQ.Ch, leadRepo, assignmentRepo, producer)
	go seedWorker.Start(queue.SeedQueue)

	// Usecases
	setupUC := usecase.NewSetupWorkspaceUseCase(workspaceRepo, producer, mailSender)
	seedUC := usecase.NewSeedWorkspaceUseCase(workspaceRepo, producer)
	listUC := usecase.NewListAssignmentsUseCase(assignmentRepo)
	getUC := usecase.NewGetAssignmentUseCase(assignmentRepo)
	statusUC := usecase.NewUpdateStatusUseCase(assignmentRepo, producer)
	bulkUC := usecase.NewBulkActionUseCase(assignmentRepo, producer)
	enrichUC := usecase.NewEnrichLeadUseCase(assignmentRepo, leadRepo, workspaceRepo, enricher, producer)

	// Handlers
	leadsHandler := handlers.NewLeadsHandler(listUC, getUC, statusUC, bulkUC, enrichUC, workspaceRepo)
	onboardingHandler := handlers.NewOnboardingHandler(setupUC, seedUC)
	authHandler := handlers.NewAuthHandler(auth, userRepo, workspaceRepo)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{envOr("DASHBOARD_ORIGIN", "http://localhost:3000")},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/auth/session", authHandler.HandleCreateSession)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSession)

		r.Get("/api/auth/user", authHandler.HandleCurrentUser)
		r.Post("/api/onboarding/setup", onboardingHandler.HandleSetup)
		r.Post("/api/onboarding/seed", onboardingHandler.HandleSeed)

		r.Get("/leads", leadsHandler.HandleList)
		r.Get("/leads/{id}", leadsHandler.HandleGet)
		r.Patch("/leads/{id}/status", leadsHandler.HandleUpdateStatus)
		r.Post("/leads/bulk", leadsHandler.HandleBulk)
		r.Post("/leads/{id}/enrich", leadsHandler.HandleEnrich)
	})

	port := ":" + envOr("PORT", "8080")
	log.Printf("cursive-leads API listening on %s", port)
	http.ListenAndServe(port, r)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
