package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/shorterhq/shorter/pkg/adapters/handler"
	"github.com/shorterhq/shorter/pkg/adapters/repository/sqlite"
	"github.com/shorterhq/shorter/pkg/auth"
	"github.com/shorterhq/shorter/pkg/config"
	"github.com/shorterhq/shorter/pkg/core/services"
	"github.com/shorterhq/shorter/pkg/logging"
)

func main() {
	cfg := config.Load()
	log := logging.New()
	ctx := context.Background()

	kv, err := sqlite.NewKVRepository(cfg.DatabaseURL)
	if err != nil {
		log.Error(ctx, "failed to open store", "err", err)
		os.Exit(1)
	}
	defer kv.Close()

	hasher := auth.NewPasswordHasher()
	sessions := auth.NewSessionTokens([]byte(cfg.JWTSecret))
	grants := auth.NewAccessGrants([]byte(cfg.GrantSecret))

	linkStore := services.NewLinkStore(kv)
	userIndex := services.NewUserIndex(kv)
	accounts := services.NewAccountStore(kv)

	linkService := services.NewLinkService(linkStore, userIndex, hasher, log, cfg.BaseURL)
	resolver := services.NewResolver(linkStore, hasher, grants, log)
	userService := services.NewUserService(accounts, hasher, sessions)

	mux := handler.NewRouter(cfg, resolver, linkService, userService, sessions, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info(ctx, "server starting", "port", cfg.Port, "env", cfg.AppEnv)
	if err := server.ListenAndServe(); err != nil {
		log.Error(ctx, "server stopped", "err", err)
		os.Exit(1)
	}
}
