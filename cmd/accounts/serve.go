package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/amirhosseinghanipour/accounts/internal/application/auth"
	"github.com/amirhosseinghanipour/accounts/internal/application/ports"
	"github.com/amirhosseinghanipour/accounts/internal/application/profile"
	"github.com/amirhosseinghanipour/accounts/internal/config"
	infraauth "github.com/amirhosseinghanipour/accounts/internal/infrastructure/auth"
	httprouter "github.com/amirhosseinghanipour/accounts/internal/infrastructure/http"
	"github.com/amirhosseinghanipour/accounts/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/accounts/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/accounts/internal/infrastructure/persistence/memory"
	"github.com/amirhosseinghanipour/accounts/internal/infrastructure/persistence/postgres"
	"github.com/amirhosseinghanipour/accounts/internal/infrastructure/security"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	log := newLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler, cleanup, err := buildHandler(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("storage", cfg.Storage).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return oops.Code("SERVER_FAILED").Wrap(err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")
	return nil
}

// buildHandler wires storage, security and use cases into the router. cleanup releases
// the database pool when one was opened.
func buildHandler(ctx context.Context, cfg *config.Config, log zerolog.Logger) (http.Handler, func(), error) {
	if cfg.JWT.UsesInsecureSecret() {
		log.Warn().Msg("JWT_SECRET is not set; signing tokens with the insecure default secret")
	}

	var (
		users   ports.UserRepository
		pinger  handlers.Pinger
		cleanup = func() {}
	)
	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn().Msg("using in-memory storage; accounts are lost on restart")
		users = memory.NewUserRepository()
	default:
		pool, err := openPool(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		users = postgres.NewUserRepository(pool)
		pinger = pool
		cleanup = pool.Close
	}

	hasher := security.NewArgon2Hasher(security.Argon2Params{
		Memory:      uint32(cfg.Argon2.Memory),
		Iterations:  uint32(cfg.Argon2.Iterations),
		Parallelism: uint8(cfg.Argon2.Parallelism),
	})
	tokens, err := infraauth.NewTokenCodec([]byte(cfg.JWT.Secret))
	if err != nil {
		cleanup()
		return nil, nil, oops.Code("TOKEN_CODEC_INVALID").Wrap(err)
	}

	authHandler := handlers.NewAuthHandler(
		auth.NewRegisterUser(users, hasher),
		auth.NewLogin(users, hasher, tokens),
		log,
	)
	usersHandler := handlers.NewUsersHandler(
		profile.NewGetSelf(users),
		profile.NewUpdateSelf(users, hasher),
		profile.NewDeleteSelf(users),
		log,
	)

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:   authHandler,
		UsersHandler:  usersHandler,
		HealthHandler: handlers.NewHealthHandler(pinger),
		Auth:          middleware.NewAuthValidator(auth.NewGate(tokens)),
		Log:           log,
		Secure:        middleware.NewSecure(middleware.SecureOptions(cfg.Secure.IsDevelopment)),
		Metrics:       true,
	})
	return router, cleanup, nil
}

func openPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "ping database").Wrap(err)
	}
	return pool, nil
}
