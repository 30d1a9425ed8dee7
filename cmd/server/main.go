package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"costaverde/internal/api"
	"costaverde/internal/auth"
	"costaverde/internal/clock"
	"costaverde/internal/repository"
	"costaverde/internal/service"
)

func main() {
	godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open DB")
	}
	if err := database.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to DB")
	}

	sysClock := clock.NewSystem()
	reservationRepo := repository.NewReservationRepository(database)
	resourceRepo := repository.NewResourceRepository(database)
	staffAuthRepo := repository.NewStaffAuthRepository(database)

	sender := service.NewSenderService(logger)
	reservationSvc := service.NewReservationService(reservationRepo, sysClock, sender, logger)
	catalogSvc := service.NewCatalogService(resourceRepo, reservationRepo, sysClock, logger)
	staffAuthSvc := service.NewStaffAuthService(staffAuthRepo)
	jobSvc := service.NewJobService(reservationRepo, sysClock, logger)

	reservationHandler := api.NewReservationHandler(reservationSvc, catalogSvc)
	adminHandler := api.NewAdminHandler(reservationSvc, catalogSvc)
	authHandler := api.NewStaffAuthHandler(staffAuthSvc)

	c := cron.New()
	c.AddFunc("@every 15m", func() {
		if err := jobSvc.CompleteElapsedRentals(context.Background()); err != nil {
			logger.Error().Err(err).Msg("rental completion job failed")
		}
	})
	c.Start()
	defer c.Stop()

	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := database.PingContext(req.Context()); err != nil {
			http.Error(w, "db unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	// Public endpoints
	r.HandleFunc("/api/availability", reservationHandler.CheckAvailability).Methods("POST")
	r.HandleFunc("/api/resources", reservationHandler.ListResources).Methods("GET")
	r.HandleFunc("/api/resources/{id}", reservationHandler.GetResource).Methods("GET")
	r.HandleFunc("/api/resources/{id}/busy-dates", reservationHandler.ListBusyDates).Methods("GET")
	r.HandleFunc("/api/reservations", reservationHandler.CreateReservation).Methods("POST")
	r.HandleFunc("/api/reservations/{code}", reservationHandler.GetReservation).Methods("GET")
	r.HandleFunc("/api/reservations/{code}", reservationHandler.CancelReservation).Methods("DELETE")
	r.HandleFunc("/admin/login", authHandler.Login).Methods("POST")

	// Staff endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.StaffOnly)
	admin.HandleFunc("/reservations", adminHandler.ListReservations).Methods("GET")
	admin.HandleFunc("/walk-ins", adminHandler.CreateWalkIn).Methods("POST")
	admin.HandleFunc("/reservations/{code}/status", adminHandler.SetStatus).Methods("PUT")
	admin.HandleFunc("/reservations/{code}/payment-status", adminHandler.SetPaymentStatus).Methods("PUT")
	admin.HandleFunc("/resources", adminHandler.CreateResource).Methods("POST")
	admin.HandleFunc("/resources/{id}", adminHandler.UpdateResource).Methods("PUT")
	admin.HandleFunc("/resources/{id}", adminHandler.DeleteResource).Methods("DELETE")
	admin.HandleFunc("/resources/{id}/availability", adminHandler.SetResourceAvailability).Methods("PUT")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info().Str("port", port).Msg("server running")
	if err := http.ListenAndServe(":"+port, cors(r)); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
