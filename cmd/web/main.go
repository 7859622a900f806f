package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"powerbooks/internal/auth"
	"powerbooks/internal/catalog"
	"powerbooks/internal/httpx"
	"powerbooks/internal/platform/gemini"
	"powerbooks/internal/platform/storeapi"
	"powerbooks/internal/recommend"
	"powerbooks/internal/session"
	"powerbooks/internal/storage"
	"powerbooks/internal/web"
)

func main() {
	_ = godotenv.Load(".env.local")

	serverAddress := getEnv("APP_ADDR", ":8080")
	apiBaseURL := mustGetEnv("API_BASE_URL")
	geminiAPIKey := mustGetEnv("GEMINI_API_KEY")
	filterMode := catalog.ParseMode(getEnv("FILTER_MODE", "server"))
	localStorePath := getEnv("LOCAL_STORE_PATH", "data/powerbooks.db")
	warmTTL := time.Duration(getEnvInt("WARM_TTL_MINUTES", 15)) * time.Minute
	allowedOrigins := splitCSV(getEnv("APP_ALLOWED_ORIGINS", ""))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer logger.Sync()

	store, err := storage.OpenLocal(localStorePath)
	if err != nil {
		logger.Fatal("cannot open local store", zap.Error(err))
	}
	defer store.Close()

	apiClient := storeapi.NewClient(apiBaseURL, "powerbooks/1.0", 10, 3)
	geminiClient := gemini.NewClient(geminiAPIKey)

	prime := func(ctx context.Context) error {
		token, _, err := store.Get(storage.KeyToken)
		if err != nil {
			return err
		}
		_, err = apiClient.FilterBooks(ctx, token, catalog.All, "")
		return err
	}

	sessions := session.NewManager(apiClient, filterMode, session.DefaultIdleTTL, logger)
	authService := auth.NewService(apiClient, store, logger)
	recommender := recommend.NewService(geminiClient, logger)
	warmer := storage.NewWarmer(store, warmTTL, prime, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	web.NewHandlers(sessions, authService, recommender, warmer, logger).Routes(mux)

	rateLimit := httpx.NewRateLimitMiddleware(20, 40)

	var handler http.Handler = mux
	handler = rateLimit.Middleware(handler)
	handler = httpx.RequestSizeLimitMiddleware(1 << 20)(handler)
	handler = httpx.SecurityHeadersMiddleware(handler)
	if len(allowedOrigins) > 0 {
		handler = httpx.CORSMiddleware(allowedOrigins)(handler)
	}
	handler = httpx.AccessLogMiddleware(logger)(handler)
	handler = httpx.RecoveryMiddleware(logger)(handler)
	handler = httpx.RequestIDMiddleware(handler)

	httpServer := &http.Server{
		Addr:         serverAddress,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", serverAddress), zap.String("filter_mode", string(filterMode)))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func mustGetEnv(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	log.Fatalf("missing required environment variable: %s", key)
	return ""
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
