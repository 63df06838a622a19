package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/hc-chat-history/internal/handlers"
	"github.com/sbilibin2017/hc-chat-history/internal/logger"
	"github.com/sbilibin2017/hc-chat-history/internal/middlewares"
	"github.com/sbilibin2017/hc-chat-history/internal/ratelimit"
	"github.com/sbilibin2017/hc-chat-history/internal/repositories"
	"github.com/sbilibin2017/hc-chat-history/internal/services"

	_ "github.com/sbilibin2017/hc-chat-history/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title hc-chat-history API
// @version 1.0.0
// @description Backend service for user accounts and consultation chat history
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, logLevel, dbPath,
		redisHost, redisPort, redisDB, redisPassword,
		kafkaAddr, kafkaTopic,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort, logLevel, dbPath,
		redisHost, redisPort, redisDB, redisPassword,
		kafkaAddr, kafkaTopic,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns the
// application, database, Redis, and Kafka configuration. Redis and
// Kafka are optional: an empty REDIS_HOST keeps the login limiter in
// memory, an empty KAFKA_ADDR disables event publishing.
func parseConfig(path string) (
	appHost, appPort, logLevel, dbPath string,
	redisHost string, redisPort, redisDB int, redisPassword string,
	kafkaAddr, kafkaTopic string,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// SQLite config
	dbPath = getEnv("DATABASE_PATH", "chat_history.db")

	// Redis config (optional)
	redisHost = getEnv("REDIS_HOST", "")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")

	// Kafka config (optional)
	kafkaAddr = getEnv("KAFKA_ADDR", "")
	kafkaTopic = getEnv("KAFKA_TOPIC", "chat-history.message-saved")

	return
}

// run initializes the logger, database, optional Redis and Kafka
// clients, and the HTTP server. It sets up routes, applies middleware,
// and handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort, logLevel, dbPath string,
	redisHost string, redisPort, redisDB int, redisPassword string,
	kafkaAddr, kafkaTopic string,
) error {
	// Initialize logger
	log, err := logger.New(logLevel)
	if err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer log.Sync()
	log.Infof("Logger initialized with level %s", logLevel)

	// Open SQLite database and apply migrations
	db, err := repositories.NewDB(dbPath)
	if err != nil {
		log.Fatal("SQLite open error:", err)
	}
	defer db.Close()
	log.Infof("SQLite database ready at %s", dbPath)

	// Login rate limiter: Redis-backed when configured, otherwise in-memory
	var limiter ratelimit.Limiter
	if redisHost != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", redisHost, redisPort),
			Password: redisPassword,
			DB:       redisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("Redis connection error:", err)
		}
		defer rdb.Close()
		limiter = ratelimit.NewRedis(rdb, ratelimit.DefaultLimit, ratelimit.DefaultWindow)
		log.Infof("Login rate limiter backed by Redis at %s:%d", redisHost, redisPort)
	} else {
		limiter = ratelimit.NewMemory(ratelimit.DefaultLimit, ratelimit.DefaultWindow)
	}

	// Kafka writer for message-saved events (optional)
	var kafkaWriter services.KafkaWriter
	if kafkaAddr != "" {
		w := &kafka.Writer{
			Addr:     kafka.TCP(kafkaAddr),
			Topic:    kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer w.Close()
		kafkaWriter = w
		log.Infof("Publishing message events to Kafka topic %s at %s", kafkaTopic, kafkaAddr)
	}

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	sessionReadRepo := repositories.NewSessionReadRepository(db)
	sessionWriteRepo := repositories.NewSessionWriteRepository(db, middlewares.GetTxFromContext)
	messageReadRepo := repositories.NewMessageReadRepository(db)
	messageWriteRepo := repositories.NewMessageWriteRepository(db, middlewares.GetTxFromContext)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, limiter)
	historyService := services.NewHistoryService(
		sessionReadRepo, sessionWriteRepo,
		messageReadRepo, messageWriteRepo,
		kafkaWriter,
	)

	// Initialize handlers
	signupHandler := handlers.NewSignupHandler(authService)
	loginHandler := handlers.NewLoginHandler(authService)
	verifyHandler := handlers.NewVerifyHandler(authService)
	logoutHandler := handlers.NewLogoutHandler(authService)
	sessionListHandler := handlers.NewSessionListHandler(historyService)
	sessionGetHandler := handlers.NewSessionGetHandler(historyService)
	sessionCreateHandler := handlers.NewSessionCreateHandler(historyService)
	messageSaveHandler := handlers.NewMessageSaveHandler(historyService)
	sessionUpdateHandler := handlers.NewSessionUpdateHandler(historyService)
	sessionDeleteHandler := handlers.NewSessionDeleteHandler(historyService)
	userClearHandler := handlers.NewUserClearHandler(historyService)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(log))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", signupHandler)
			r.Post("/login", loginHandler)
			r.Post("/verify", verifyHandler)
			r.Post("/logout", logoutHandler)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/sessions/{userID}", sessionListHandler)
			r.Get("/session/{sessionID}", sessionGetHandler)
			r.Post("/session", sessionCreateHandler)
			r.With(middlewares.TxMiddleware(db)).Post("/message", messageSaveHandler)
			r.Put("/session/{sessionID}", sessionUpdateHandler)
			r.Delete("/session/{sessionID}", sessionDeleteHandler)
			r.Delete("/user/{userID}", userClearHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	}

	log.Info("HTTP server stopped gracefully")
	return nil
}
