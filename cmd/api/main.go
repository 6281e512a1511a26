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

	"timetrack.org/internal/auth"
	"timetrack.org/internal/config"
	"timetrack.org/internal/httpapi"
	"timetrack.org/internal/obs"
	"timetrack.org/internal/store/pg"
	"timetrack.org/internal/tracker"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	// .env is a dev convenience; real deployments set the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	obs.Init()
	obs.InitBuildInfo(version, commit)

	tokens, err := auth.NewTokenService(cfg.AuthSecret,
		auth.WithIssuer(cfg.Issuer),
		auth.WithTTL(cfg.TokenTTL),
	)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	// Postgres when a DSN is configured, in-memory otherwise. The
	// in-memory store keeps local dev and demos database-free.
	var (
		store     tracker.Store
		directory auth.Directory
		probe     httpapi.ReadyProbe
	)
	if cfg.DatabaseURL != "" {
		pgStore, err := pg.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer pgStore.DB().Close()
		store = pgStore
		directory = pgStore
		probe = httpapi.ReadyProbe{DB: pgStore.DB()}
	} else {
		log.Println("no TIMETRACK_PG_DSN set, using in-memory store")
		mem := tracker.NewInMemory()
		store = mem
		directory = mem
	}

	authSvc := auth.NewService(directory, tokens)
	trackerSvc := tracker.NewService(store, cfg.BcryptCost)

	api := httpapi.New(probe, version, authSvc, trackerSvc, cfg)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting timetrack-api %s on %s", version, srv.Addr)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
