// Command codelensd is the hosted CodeLens platform service.
// It serves the graph ingest API, indexer callbacks, the query API for the
// dashboard, and a health check.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/codelens/codelens/internal/api"
	"github.com/codelens/codelens/internal/ingestion"
	"github.com/codelens/codelens/internal/notify"
	"github.com/codelens/codelens/internal/platform"
	"github.com/codelens/codelens/internal/repostore"
)

type config struct {
	Port           string
	DatabaseURL    string
	APIKey         string
	CallbackSecret string
	NotifyURL      string
	StorageBackend string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	GCSBucket      string
	LocalStorage   string
}

func loadConfig() config {
	return config{
		Port:           envOrDefault("PORT", "8080"),
		DatabaseURL:    envOrDefault("DATABASE_URL", "postgres://localhost:5432/codelens?sslmode=disable"),
		APIKey:         os.Getenv("API_KEY"),
		CallbackSecret: os.Getenv("CALLBACK_SECRET"),
		NotifyURL:      os.Getenv("NOTIFY_URL"),
		StorageBackend: envOrDefault("STORAGE_BACKEND", "local"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       os.Getenv("S3_REGION"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		GCSBucket:      os.Getenv("GCS_BUCKET"),
		LocalStorage:   envOrDefault("LOCAL_STORAGE_PATH", "/tmp/codelens-data"),
	}
}

func main() {
	cfg := loadConfig()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	if err := platform.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	storage, err := buildStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}

	// Initialize services
	repoSvc := repostore.NewService(db)

	var notifier ingestion.Notifier
	if cfg.NotifyURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.NotifyURL, []byte(cfg.CallbackSecret))
	}

	ingestionSvc := ingestion.NewService(db, repoSvc, storage, notifier)

	callbackHandler := notify.NewHandler([]byte(cfg.CallbackSecret), repoSvc, ingestionSvc)
	apiHandler := api.NewHandler(db, repoSvc, ingestionSvc, nil)

	// Set up HTTP routes. Only /api/ routes sit behind the API key; the
	// indexer callback authenticates with its HMAC signature instead.
	apiMux := http.NewServeMux()
	apiHandler.RegisterRoutes(apiMux)

	mux := http.NewServeMux()
	mux.Handle("/api/", api.APIKeyAuth(cfg.APIKey)(apiMux))
	mux.Handle("POST /v1/callbacks/indexer", callbackHandler)
	mux.HandleFunc("GET /healthz", healthHandler(db))

	handler := api.CORS(mux)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		log.Printf("starting codelensd on :%s (storage=%s)", cfg.Port, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func buildStorage(ctx context.Context, cfg config) (ingestion.StorageClient, error) {
	switch cfg.StorageBackend {
	case "s3":
		return ingestion.NewS3Storage(ctx, ingestion.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	case "gcs":
		return ingestion.NewGCSStorage(ctx, cfg.GCSBucket)
	default:
		return ingestion.NewLocalStorage(cfg.LocalStorage), nil
	}
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
