package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/rapamazonia/assetregistry/internal/auth"
	"github.com/rapamazonia/assetregistry/internal/models"
	"github.com/rapamazonia/assetregistry/internal/reconcile"
	"github.com/rapamazonia/assetregistry/internal/server"
	"github.com/rapamazonia/assetregistry/internal/service"
	"github.com/rapamazonia/assetregistry/internal/storage/sqlite"
	"github.com/rapamazonia/assetregistry/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/assets.db")
	port := getEnv("PORT", "8080")
	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", dbPath)

	if err := bootstrap(store); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	jwtManager := auth.NewJWTManager(jwtSecret, 24*time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)
	logger := slog.Default()

	srv := server.New(
		service.NewAuthService(authenticator, jwtManager, logger),
		service.NewAssetService(store, logger),
		service.NewUserService(store, logger),
		service.NewCommitteeService(store, logger),
		jwtManager,
	)

	// h2c enables HTTP/2 without TLS; a reverse proxy terminates TLS in
	// front of this server.
	handler := h2c.NewHandler(srv.Handler(), &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// bootstrap seeds the committee vocabulary, catalogs and the default
// admin/operator accounts on an empty database. Safe to run every startup.
func bootstrap(store *sqlite.SQLiteStore) error {
	adminHash, err := auth.HashPassword(getEnv("ADMIN_PASSWORD", "admin123!"))
	if err != nil {
		return err
	}
	operatorHash, err := auth.HashPassword(getEnv("OPERATOR_PASSWORD", "operator123!"))
	if err != nil {
		return err
	}

	return store.Bootstrap(context.Background(), sqlite.Seed{
		Committees: reconcile.DefaultVocabulary,
		Categories: []string{"Equipos TI", "Mobiliario", "Herramientas"},
		Locations:  []string{"Sede Principal", "Administración", "Planeación"},
		Custodians: []string{"Sin asignar", "Administrador RAP"},
		Users: []sqlite.SeedUser{
			{
				Name:         "Admin RAP",
				Username:     getEnv("ADMIN_USERNAME", "admin"),
				PasswordHash: adminHash,
				Role:         models.RoleAdmin,
			},
			{
				Name:         "Operador RAP",
				Username:     getEnv("OPERATOR_USERNAME", "operador"),
				PasswordHash: operatorHash,
				Role:         models.RoleOperator,
				Committee:    "Control interno",
			},
		},
	})
}
