package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "account-service/docs"
	"account-service/internal/config"
	"account-service/internal/domain/account"
	api "account-service/internal/http"
	"account-service/internal/platform/database"
	jwtpkg "account-service/internal/platform/jwt"
	"account-service/internal/repository/postgres"
	"account-service/internal/worker"
)

// @title           User Account Service API
// @version         1.0
// @description     User accounts with JWT auth and administrative bulk operations
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	db, err := database.NewPostgres(cfg.DB_DSN)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepo(db)
	accountSvc := account.NewService(userRepo, cfg.BcryptCost)

	jwtMgr := jwtpkg.NewManager(cfg.JWTSecret, "account-service", cfg.TokenTTL)

	events := make(chan worker.AccountEvent, 100)
	auditWorker := worker.NewAuditWorker(events, nil)

	router := api.NewRouter(accountSvc, jwtMgr, events, db)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go auditWorker.Run(ctx)

	go func() {
		log.Printf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	<-stop
	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown error: %v", err)
	}

	log.Println("server stopped")
}
