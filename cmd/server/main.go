package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/peggytheclaw/tripledger/internal/api"
	"github.com/peggytheclaw/tripledger/internal/auth"
	"github.com/peggytheclaw/tripledger/internal/service"
	"github.com/peggytheclaw/tripledger/internal/storage/sqlite"
	"github.com/peggytheclaw/tripledger/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	port := getEnv("PORT", "8080")
	dbPath := getEnv("DB_PATH", "./data/tripledger.db")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	tokenTTL := 24 * time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			slog.Error("Invalid TOKEN_TTL", "value", raw, "error", err)
			os.Exit(1)
		}
		tokenTTL = parsed
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	jwtManager := auth.NewJWTManager(jwtSecret, tokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	handlers := api.NewHandlers(
		service.NewAuthService(authenticator, jwtManager, store),
		service.NewTripService(store),
		service.NewExpenseService(store),
		service.NewLedgerService(store),
	)
	router := api.NewRouter(handlers, jwtManager)

	addr := ":" + port
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
