package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Jiommy31313/jimmyyy/internal/analytics"
	"github.com/Jiommy31313/jimmyyy/internal/auth"
	"github.com/Jiommy31313/jimmyyy/internal/cache"
	"github.com/Jiommy31313/jimmyyy/internal/domain"
	h "github.com/Jiommy31313/jimmyyy/internal/http"
	"github.com/Jiommy31313/jimmyyy/internal/poller"
	"github.com/Jiommy31313/jimmyyy/internal/publisher"
	"github.com/Jiommy31313/jimmyyy/internal/repository"
	"github.com/Jiommy31313/jimmyyy/internal/service"
)

type Config struct {
	HTTPPort         string
	RedisAddr        string
	KafkaBrokers     string
	UsersFilePath    string
	RequestTimeout   time.Duration
	ShutdownTimeout  time.Duration
	SessionTTL       time.Duration
	DashboardRefresh time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:     getEnv("KAFKA_BROKERS", "localhost:9092"),
		UsersFilePath:    getEnv("USERS_FILE", "./users.json"),
		RequestTimeout:   30 * time.Second,
		ShutdownTimeout:  10 * time.Second,
		SessionTTL:       12 * time.Hour,
		DashboardRefresh: 60 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("pos server starting...")
	var wg sync.WaitGroup

	cfg := loadConfig()

	// Database setup
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "pos")
	migrationsPath := getEnv("MIGRATIONS_PATH", "./internal/repository/migrations")

	port, err := strconv.Atoi(dbPort)
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}

	creds := &repository.Credentials{
		Host:              dbHost,
		Port:              port,
		User:              dbUser,
		Password:          dbPass,
		DBName:            dbName,
		MigrationsDirPath: migrationsPath,
	}

	repo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Redis holds the sessions and the dashboard snapshot
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	sessions := cache.NewRedisSessionStore(redisClient, cfg.SessionTTL)
	dashboardCache := cache.NewRedisCache(redisClient)

	users, err := auth.LoadUsers(cfg.UsersFilePath)
	if err != nil {
		log.Fatalf("Failed to load users file: %v", err)
	}
	log.Printf("Loaded %d users from %s", len(users), cfg.UsersFilePath)

	// Services
	authService := auth.NewService(users, sessions)
	saleService := service.NewSaleService(repo)
	cartService := service.NewCartService(saleService)
	stockService := service.NewStockService(repo)
	analyticsService := analytics.NewService(repo, dashboardCache)

	// Handlers
	authHandler := h.NewAuthHandler(authService)
	sellHandler := h.NewSellHandler(cartService, stockService)
	stockHandler := h.NewStockHandler(stockService, saleService)
	dashboardHandler := h.NewDashboardHandler(analyticsService)

	// Background workers: the outbox drain and the dashboard refresher
	outboxPoller := publisher.NewOutboxPoller(repo, strings.Split(cfg.KafkaBrokers, ",")...)
	refresher := poller.NewRefresher(analyticsService, cfg.DashboardRefresh)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	wg.Add(2)
	go func() {
		defer wg.Done()
		outboxPoller.Run(workerCtx)
	}()
	go func() {
		defer wg.Done()
		refresher.Run(workerCtx)
	}()

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware(authService))

			r.Post("/auth/logout", authHandler.Logout)

			r.Route("/dashboard", func(r chi.Router) {
				r.Use(h.RequireRole(domain.RoleOwner))
				r.Get("/", dashboardHandler.GetDashboard)
				r.Get("/low-stock", dashboardHandler.LowStock)
				r.Get("/new-products", dashboardHandler.NewProducts)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.RequireRole(domain.RoleOwner, domain.RoleStaff))
				r.Route("/cart", func(r chi.Router) {
					r.Get("/", sellHandler.GetCart)
					r.Post("/items", sellHandler.AddItem)
					r.Delete("/", sellHandler.ClearCart)
				})
				r.Post("/checkout", sellHandler.Checkout)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.RequireRole(domain.RoleOwner, domain.RoleStaff, domain.RoleStock))
				r.Route("/products", func(r chi.Router) {
					r.Get("/", stockHandler.ListProducts)
					r.Post("/", stockHandler.CreateProduct)
					r.Post("/{product_id}/stock", stockHandler.ReceiveStock)
				})
				r.Post("/sales", stockHandler.RecordSale)
			})
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "pos-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("POS server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	workerCancel()
	doneChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneChan)
	}()

	select {
	case <-doneChan:
		log.Println("Workers stopped cleanly")
	case <-ctx.Done():
		log.Println("Workers didn't stop in time")
	}

	if err := outboxPoller.Close(); err != nil {
		log.Printf("failed to close kafka writer: %v", err)
	}
	log.Println("server exited")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
