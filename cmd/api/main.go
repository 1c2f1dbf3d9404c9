package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/missiontracker/mission-backend/config"
	"github.com/missiontracker/mission-backend/internal/bootstrap"
	missionrepo "github.com/missiontracker/mission-backend/internal/missions/repository"
	missionservice "github.com/missiontracker/mission-backend/internal/missions/service"
	"github.com/missiontracker/mission-backend/internal/storage/postgres"
	"github.com/missiontracker/mission-backend/internal/storage/postgres/migrate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.ConfigureRuntime(cfg.App)

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptionsFrom(&cfg.Database))
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		applied, err := migrate.Run(ctx, pool)
		if err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.Printf("[info] migrations applied=%d", len(applied))
	}

	sqlDB, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer sqlDB.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	} else {
		log.Printf("[warn] REDIS_ADDR not set, sign-out will not revoke issued sessions")
	}

	authDeps, err := bootstrap.BuildAuth(ctx, cfg, sqlDB, rdb)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	missions := missionservice.NewMissionService(missionrepo.NewMissionRepository(sqlDB))

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:  cfg.App.ServiceName,
		Version:      cfg.App.Version,
		CORSOrigins:  cfg.Server.CORSOrigins,
		DB:           pool,
		Gate:         authDeps.Gate,
		Sessions:     authDeps.Sessions,
		Users:        authDeps.Users,
		DevSignIn:    cfg.Auth.DevSignIn,
		CookieSecure: cfg.Auth.CookieSecure,
		Missions:     missions,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[info] listening on %s provider=%s env=%s", srv.Addr, cfg.Auth.Provider, cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server: %v", err)
		}
	case <-ctx.Done():
	}

	log.Printf("[info] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[error] shutdown: %v", err)
	}
}
