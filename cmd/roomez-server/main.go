package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sourcegraph/conc"

	server "github.com/kazz187/roomez/internal"
	"github.com/kazz187/roomez/internal/config"
	"github.com/kazz187/roomez/internal/eventbus"
	"github.com/kazz187/roomez/internal/pushnotification"
	"github.com/kazz187/roomez/internal/pushsubscription"
	pushsubrepo "github.com/kazz187/roomez/internal/pushsubscription/repositoryimpl"
	"github.com/kazz187/roomez/internal/reminder"
	"github.com/kazz187/roomez/internal/task"
	taskrepo "github.com/kazz187/roomez/internal/task/repositoryimpl"
	"github.com/kazz187/roomez/pkg/clog"
	"github.com/kazz187/roomez/pkg/panicerr"
	"github.com/kazz187/roomez/pkg/storage"
)

type backends struct {
	taskRepo    task.Repository
	pushSubRepo pushsubscription.Repository
	// local is set when documents live on this machine and can be watched.
	local   *storage.LocalStorage
	closeFn func()
}

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewTextHandler(os.Stderr, clog.WithLevel(level), clog.WithColor(true))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	b, err := setupBackends(context.Background(), config.StorageEnvFromEnv(env))
	if err != nil {
		slog.Error("failed to setup storage", "type", env.StorageEnv.Type, "error", err)
		os.Exit(1)
	}
	defer b.closeFn()

	// Setup event bus and live task store
	bus := eventbus.New()
	taskStore := taskrepo.NewLiveStore(b.taskRepo, bus)
	defer taskStore.Close()

	// Setup servers
	taskService := task.NewService(taskStore, bus)
	taskServer := task.NewServer(taskService, taskStore)

	vapidEnv := config.VAPIDEnvFromEnv(env)
	pushSender := pushnotification.NewSender(vapidEnv, b.pushSubRepo)
	pushServer := pushnotification.NewServer(vapidEnv, b.pushSubRepo)
	pushDispatcher := pushnotification.NewDispatcher(bus, pushSender)

	reminderEnv := config.ReminderEnvFromEnv(env)
	loc, err := reminderEnv.Location()
	if err != nil {
		slog.Error("failed to load reminder location", "error", err)
		os.Exit(1)
	}
	scheduler, err := reminder.NewScheduler(taskStore, pushSender, reminderEnv.Spec, loc)
	if err != nil {
		slog.Error("failed to setup reminder scheduler", "error", err)
		os.Exit(1)
	}

	srv := server.NewServer(config.BaseEnvFromEnv(env), taskService, taskServer, pushServer)

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	var wg conc.WaitGroup
	wg.Go(panicerr.Logged(ctx, "push-dispatcher", func(ctx context.Context) error {
		pushDispatcher.Start(ctx)
		return nil
	}))
	wg.Go(panicerr.Logged(ctx, "reminder", func(ctx context.Context) error {
		scheduler.Start(ctx)
		return nil
	}))
	if b.local != nil {
		wg.Go(panicerr.Logged(ctx, "storage-watch", func(ctx context.Context) error {
			return taskrepo.WatchLocal(ctx, b.local, bus)
		}))
	}
	wg.Go(panicerr.Logged(ctx, "http-server", func(ctx context.Context) error {
		if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cancel()
			return err
		}
		return nil
	}))

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	wg.Wait()
}

func setupBackends(ctx context.Context, env *config.StorageEnv) (*backends, error) {
	switch env.Type {
	case config.StorageTypeS3:
		s3, err := storage.NewS3Storage(ctx, env.S3Bucket, env.S3Prefix, env.S3Region)
		if err != nil {
			return nil, err
		}
		return &backends{
			taskRepo:    taskrepo.NewYAMLRepository(s3),
			pushSubRepo: pushsubrepo.NewYAMLRepository(s3),
			closeFn:     func() {},
		}, nil
	case config.StorageTypeSQLite:
		local, err := storage.NewLocalStorage(env.BaseDir)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(env.SQLitePath), 0o755); err != nil {
			return nil, err
		}
		db, err := taskrepo.NewSQLiteRepository(env.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &backends{
			taskRepo:    db,
			pushSubRepo: pushsubrepo.NewYAMLRepository(local),
			closeFn: func() {
				if err := db.Close(); err != nil {
					slog.Error("failed to close sqlite", "error", err)
				}
			},
		}, nil
	default:
		local, err := storage.NewLocalStorage(env.BaseDir)
		if err != nil {
			return nil, err
		}
		return &backends{
			taskRepo:    taskrepo.NewYAMLRepository(local),
			pushSubRepo: pushsubrepo.NewYAMLRepository(local),
			local:       local,
			closeFn:     func() {},
		}, nil
	}
}
