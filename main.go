package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/linesmerrill/rider-safety-api/api"
	"github.com/linesmerrill/rider-safety-api/config"
	"github.com/linesmerrill/rider-safety-api/databases"
)

func main() {
	envFile := pflag.String("env-file", ".env", "path to a .env file loaded before reading the environment")
	port := pflag.String("port", "", "port to listen on, overrides PORT")
	pflag.Parse()

	if err := config.LoadEnvFile(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := fx.New(
		fx.Supply(flags{Port: *port}),
		// depends on the config so zap's globals are set before fx starts logging
		fx.WithLogger(func(_ *config.Config) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.L()}
		}),
		fx.Provide(
			provideConfig,
			provideDatabase,
			databases.NewRiderDatabase,
			databases.NewSensorDatabase,
			databases.NewInstanceDatabase,
			databases.NewChallanDatabase,
			databases.NewSchedulerLockDatabase,
			provideObjectStore,
			provideVision,
			provideClassifier,
			providePublisher,
			provideMailer,
			providePipeline,
			provideSessions,
			api.NewMetricsCollector,
			provideApp,
		),
		fx.Invoke(startScheduler, startServer),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startCancel()
	if err := app.Start(startCtx); err != nil {
		if startCtx.Err() == context.DeadlineExceeded {
			zap.S().Error("failed to start within 30 seconds, check that mongo and rabbitmq are reachable")
		}
		zap.S().Fatalw("failed to start rider-safety-api", "error", err)
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		zap.S().Errorw("error stopping rider-safety-api", "error", err)
	}
	_ = zap.L().Sync()
}
