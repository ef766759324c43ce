package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/apiseclab/backend/internal/config"
	"github.com/apiseclab/backend/internal/models"
	"github.com/apiseclab/backend/internal/server"
	"github.com/apiseclab/backend/internal/storage"
	"github.com/apiseclab/backend/internal/storage/memory"
	"github.com/apiseclab/backend/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	store, cleanup, err := initStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}
	defer cleanup()

	srv, err := server.New(cfg, store)
	if err != nil {
		log.Fatalf("init server: %v", err)
	}

	go func() {
		log.Printf("api-sec-lab listening on %s", cfg.HTTPAddress())
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func initStore(ctx context.Context, cfg config.Config) (storage.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}

	log.Println("DATABASE_URL not set; using in-memory store with demo data")
	store := memory.NewStore()
	if err := seedDemoData(ctx, store); err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}

// seedDemoData populates the demo fixture the lab exercises run against:
// one admin and two plain users, each user holding a funded account.
func seedDemoData(ctx context.Context, store storage.Store) error {
	seeds := []struct {
		username string
		email    string
		password string
		role     string
		isAdmin  bool
		balance  string
	}{
		{"admin", "admin@example.com", envOr("SEED_ADMIN_PASSWORD", "admin-pass-1"), models.RoleAdmin, true, ""},
		{"alice", "alice@example.com", envOr("SEED_USER_PASSWORD", "user-pass-1"), models.RoleUser, false, "100"},
		{"bob", "bob@example.com", envOr("SEED_USER_PASSWORD", "user-pass-1"), models.RoleUser, false, "250"},
	}
	for _, seed := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user, err := store.CreateUser(ctx, models.AppUser{
			Username:     seed.username,
			Email:        seed.email,
			PasswordHash: string(hash),
			Role:         seed.role,
			IsAdmin:      seed.isAdmin,
		})
		if err != nil {
			return err
		}
		if seed.balance == "" {
			continue
		}
		balance, err := decimal.NewFromString(seed.balance)
		if err != nil {
			return err
		}
		if _, err := store.CreateAccount(ctx, models.Account{OwnerUserID: user.ID, Balance: balance}); err != nil {
			return err
		}
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
