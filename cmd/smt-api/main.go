// Command smt-api serves session, access control and navigation for the
// Stakeholder Mapping Tool.
//
//	@title						Stakeholder Mapping Tool API
//	@version					1.0
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/migeprof/stakeholder-mapping/internal/api"
	"github.com/migeprof/stakeholder-mapping/internal/core/ports"
	"github.com/migeprof/stakeholder-mapping/internal/core/service"
	"github.com/migeprof/stakeholder-mapping/internal/infrastructure/config"
	mongodb "github.com/migeprof/stakeholder-mapping/internal/infrastructure/db/mongo"
	redisdb "github.com/migeprof/stakeholder-mapping/internal/infrastructure/db/redis"
	"github.com/migeprof/stakeholder-mapping/internal/infrastructure/memory"
	"github.com/migeprof/stakeholder-mapping/internal/infrastructure/policy"
	"github.com/migeprof/stakeholder-mapping/internal/infrastructure/queue"
	"github.com/migeprof/stakeholder-mapping/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	auditCapacity   = 10000
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "smt-api:", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("smt-api", pflag.ContinueOnError)
	envFile := flags.String("env-file", "", "load environment variables from this file before reading config")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "smt-api",
	})

	pol, err := policy.Load(cfg.Policy.File)
	if err != nil {
		return err
	}

	var db *mongo.Database
	if cfg.NeedsMongo() {
		client, database, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			if err := mongodb.Close(client); err != nil {
				log.Warn().Err(err).Msg("mongodb disconnect")
			}
		}()
		db = database
		log.Info().Str("db", cfg.Mongo.Database).Msg("mongodb connected")
	}

	var rdb *goredis.Client
	if cfg.NeedsRedis() {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	directory, err := userDirectory(ctx, cfg, db)
	if err != nil {
		return err
	}
	auditRepo, err := auditRepository(ctx, cfg, db)
	if err != nil {
		return err
	}
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	store := sessionStore(workerCtx, cfg, rdb)

	verifier, err := service.NewSharedSecretVerifier(cfg.Auth.SharedSecret, bcrypt.DefaultCost)
	if err != nil {
		stopWorkers()
		return err
	}
	log.Warn().Msg("shared-secret login is enabled; every account accepts the same password")

	dispatcher := queue.NewAuditDispatcher(cfg.Audit.Workers, auditRepo, log.With().Str("component", "audit").Logger())
	dispatcher.Start(workerCtx)

	sessions := service.NewSessionManager(
		directory, store, verifier, pol.Permissions,
		cfg.Auth.JWTSecret, cfg.Auth.TokenTTL,
		log.With().Str("component", "auth").Logger(),
		service.WithLoginLatency(cfg.Auth.LoginLatency),
		service.WithAuditRecorder(dispatcher),
	)

	e := api.NewRouter(api.Dependencies{
		Sessions:   sessions,
		Navigation: service.NewNavigationService(pol),
		Users:      service.NewUserService(directory, dispatcher, log.With().Str("component", "users").Logger()),
		Audit:      service.NewAuditService(auditRepo),
		JWTSecret:  cfg.Auth.JWTSecret,
		Mongo:      db,
		Redis:      rdb,
		Log:        log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			stopWorkers()
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("audit log flushed")
	return nil
}

func userDirectory(ctx context.Context, cfg *config.Config, db *mongo.Database) (ports.UserDirectory, error) {
	if cfg.Auth.Directory != config.DirectoryMongo {
		return memory.NewUserDirectory(memory.SeedUsers()), nil
	}
	dir := mongodb.NewUserDirectory(db)
	if err := dir.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("user indexes: %w", err)
	}
	if err := dir.Seed(ctx, memory.SeedUsers()); err != nil {
		return nil, err
	}
	return dir, nil
}

func auditRepository(ctx context.Context, cfg *config.Config, db *mongo.Database) (ports.AuditRepository, error) {
	if cfg.Audit.Backend != config.BackendMongo {
		return memory.NewAuditRepository(auditCapacity), nil
	}
	repo := mongodb.NewAuditRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("audit indexes: %w", err)
	}
	return repo, nil
}

// sessionStore picks the session backend. The memory store is swept in the
// background until ctx is cancelled; redis expires keys on its own.
func sessionStore(ctx context.Context, cfg *config.Config, rdb *goredis.Client) ports.SessionStore {
	if cfg.Sessions.Backend == config.BackendRedis {
		return redisdb.NewSessionStore(rdb, cfg.Sessions.TTL)
	}
	store := memory.NewSessionStore(cfg.Sessions.TTL)
	go store.RunSweeper(ctx, cfg.Sessions.SweepInterval)
	return store
}

