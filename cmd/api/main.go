package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/keegs-3/wellpath-adherence/internal/adapters/cache"
	adapterHTTP "github.com/keegs-3/wellpath-adherence/internal/adapters/handler/http"
	"github.com/keegs-3/wellpath-adherence/internal/adapters/repository"
	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
	"github.com/keegs-3/wellpath-adherence/internal/core/services"
	"github.com/keegs-3/wellpath-adherence/internal/core/workers"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	serverPort := getEnv("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is required")
	}
	jwtIssuer := getEnv("JWT_ISSUER", "wellpath-adherence")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisClient, err := cache.NewRedisClient(
		getEnv("REDIS_HOST", "localhost"),
		getEnv("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		redisDB,
	)
	if err != nil {
		log.Printf("Redis unavailable, running without cache: %v", err)
		redisClient = nil
	}

	var configRepo domain.ConfigRepository = repository.NewPostgresConfigRepository(db)
	measurementRepo := repository.NewPostgresMeasurementRepository(db)

	var snapshots domain.SnapshotStore
	if redisClient != nil {
		configRepo = repository.NewCachedConfigRepository(configRepo, redisClient)
		snapshots = cache.NewRedisSnapshotStore(redisClient)
	} else {
		snapshots = cache.NewInMemorySnapshotStore()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scoreWorker := workers.NewScoreWorker(configRepo, measurementRepo, snapshots)
	scoreWorker.Start(ctx)

	tokenService := services.NewTokenService(jwtSecret, jwtIssuer, 24*time.Hour)
	configService := services.NewConfigService(configRepo)
	scoreService := services.NewScoreService(configRepo, measurementRepo, snapshots, scoreWorker)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		ConfigHandler:      adapterHTTP.NewConfigHandler(configService),
		ScoreHandler:       adapterHTTP.NewScoreHandler(scoreService),
		MeasurementHandler: adapterHTTP.NewMeasurementHandler(scoreService),
		TokenService:       tokenService,
		DB:                 db,
		Redis:              redisClient,
		StartTime:          startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("WellPath Adherence Engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
