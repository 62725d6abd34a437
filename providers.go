package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/linesmerrill/rider-safety-api/api"
	"github.com/linesmerrill/rider-safety-api/api/handlers"
	"github.com/linesmerrill/rider-safety-api/api/scheduler"
	"github.com/linesmerrill/rider-safety-api/assessment"
	"github.com/linesmerrill/rider-safety-api/classifier"
	"github.com/linesmerrill/rider-safety-api/config"
	"github.com/linesmerrill/rider-safety-api/databases"
	"github.com/linesmerrill/rider-safety-api/events"
	"github.com/linesmerrill/rider-safety-api/notify"
	"github.com/linesmerrill/rider-safety-api/storage"
)

// flags holds command line overrides
type flags struct {
	Port string
}

func provideConfig(f flags) (*config.Config, error) {
	conf := config.New()
	if f.Port != "" {
		conf.Port = f.Port
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func provideDatabase(lc fx.Lifecycle, conf *config.Config) (databases.DatabaseHelper, error) {
	client, err := databases.NewClient(conf)
	if err != nil {
		zap.S().With(err).Error("failed to create new client")
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Connect(ctx); err != nil {
				zap.S().With(err).Error("failed to connect to database")
				return err
			}
			zap.S().Info("rider-safety-api has connected to the database")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})
	return databases.NewDatabase(conf, client), nil
}

func provideObjectStore(conf *config.Config) (storage.ObjectStore, error) {
	return storage.NewCloudinary(conf.Storage)
}

func provideVision(lc fx.Lifecycle, conf *config.Config) (*classifier.Vision, error) {
	v, err := classifier.NewVision(context.Background(), conf.Vision)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return v.Close()
		},
	})
	return v, nil
}

func provideClassifier(store storage.ObjectStore, v *classifier.Vision, conf *config.Config) assessment.ImageClassifier {
	return classifier.New(store, v, conf.Storage.Folder, conf.Vision.Timeout)
}

func providePublisher(lc fx.Lifecycle, conf *config.Config) (events.Publisher, error) {
	if conf.RabbitMQ.URL == "" {
		zap.S().Warn("RABBITMQ_URL is not set, violation events are disabled")
		return events.NopPublisher{}, nil
	}
	p, err := events.NewAMQPPublisher(conf.RabbitMQ.URL, conf.RabbitMQ.Exchange)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return p.Close()
		},
	})
	return p, nil
}

func provideMailer(conf *config.Config) *notify.Mailer {
	return notify.NewMailer(conf.Mail)
}

func providePipeline(
	rdb databases.RiderDatabase,
	sdb databases.SensorDatabase,
	idb databases.InstanceDatabase,
	cdb databases.ChallanDatabase,
	c assessment.ImageClassifier,
	pub events.Publisher,
	mailer *notify.Mailer,
) *assessment.Pipeline {
	return assessment.NewPipeline(rdb, sdb, idb, cdb, c, pub, mailer)
}

func provideSessions(lc fx.Lifecycle, conf *config.Config, rdb databases.RiderDatabase) *api.Sessions {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	return api.NewSessions(ctx, api.NewSessionIssuer(conf.Session), rdb)
}

func provideApp(conf *config.Config, db databases.DatabaseHelper, p *assessment.Pipeline, s *api.Sessions, m *api.MetricsCollector) *handlers.App {
	return handlers.NewApp(conf, db, p, s, m)
}

func startScheduler(
	lc fx.Lifecycle,
	conf *config.Config,
	rdb databases.RiderDatabase,
	cdb databases.ChallanDatabase,
	lockDB databases.SchedulerLockDatabase,
	mailer *notify.Mailer,
) {
	s := scheduler.NewScheduler(conf.Scheduler, rdb, cdb, lockDB, mailer)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if !mailer.Enabled() {
				zap.S().Info("email is disabled, challan reminders will not be scheduled")
				return nil
			}
			return s.Start()
		},
		OnStop: func(context.Context) error {
			if mailer.Enabled() {
				s.Stop()
			}
			return nil
		},
	})
}

func startServer(lc fx.Lifecycle, conf *config.Config, app *handlers.App) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%v", conf.Port),
		Handler: app.Handler(),
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					zap.S().Fatalw("http server stopped", "error", err)
				}
			}()
			zap.S().Infow("rider-safety-api is up and running",
				"port", conf.Port,
				"url", conf.BaseURL,
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
