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

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/activity"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/config"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/kv"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/migrations"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/portfolio"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/router"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/setting"
	settingrepo "github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/setting/repo"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/database"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	cfg, err := config.ConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// init logger
	lg, err := utilities.Init(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Infow("starting service-wealth-go-stdlib", "backend", cfg.Backend, "addr", cfg.HTTPAddr)

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, db, err := openStore(ctx, cfg, sugar)
	if err != nil {
		sugar.Fatalf("open store: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	sessions := session.NewStore(store,
		session.WithLatency(cfg.Latency),
		session.WithLogger(sugar.Named("session")),
	)
	recorder := activity.NewRecorder(store, sugar.Named("activity"))
	defer recorder.Attach(sessions)()

	users := user.NewUserService(userrepo.NewUserRepo(store), nil, sessions.Clock())
	handler := router.RegisterRoutes(sugar, router.Deps{
		Store:     sessions,
		Issuer:    auth.NewIssuer(cfg.Token, sessions.Clock()),
		Activity:  recorder,
		Portfolio: portfolio.NewService(sessions),
		Users:     users,
		Settings:  setting.NewService(sessions, users, settingrepo.NewRepo(store)),
	})

	// mount http server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// run server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	sugar.Info("service is running; press Ctrl+C to stop")
	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// shutdown http server
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}

// openStore picks the key-value backend. The postgres backend is migrated
// before use; the returned db is nil for the in-memory backend.
func openStore(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (kv.Store, *sqlx.DB, error) {
	if cfg.Backend != config.BackendPostgres {
		logger.Info("using in-memory session store")
		return kv.NewMemory(), nil, nil
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.Up(ctx, db.DB); err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.Info("using postgres session store")
	return kv.NewPostgres(db), db, nil
}
