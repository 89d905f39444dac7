package main

import (
	"context"
	_ "time/tzdata"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/goal-pacing-api/infrastructure/database/postgres"
	"github.com/vfg2006/goal-pacing-api/infrastructure/integrator/meta"
	"github.com/vfg2006/goal-pacing-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/goal-pacing-api/infrastructure/migration"
	"github.com/vfg2006/goal-pacing-api/infrastructure/repository"
	"github.com/vfg2006/goal-pacing-api/internal/api"
	"github.com/vfg2006/goal-pacing-api/internal/config"
	"github.com/vfg2006/goal-pacing-api/internal/scheduler"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/adjusting"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/auditing"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/authenticating"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/pacing"
	"github.com/vfg2006/goal-pacing-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.RunMigrations {
		if err := migration.Run(cfg.Database.DSN); err != nil {
			logrus.WithError(err).Fatal("migration: failed to apply migrations on boot")
		}
	}

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	goalRepo := repository.NewGoalRepository(pgConn)
	snapshotRepo := repository.NewProgressSnapshotRepository(pgConn)
	alertRepo := repository.NewAlertRepository(pgConn)
	adjustmentRepo := repository.NewBudgetAdjustmentRepository(pgConn)

	authenticator := authenticating.NewService(cfg.Auth)

	secretStore := config.NewRenderSecretStore(cfg.Render)
	if err := cfg.LoadSecrets(ctx, secretStore); err != nil {
		logrus.WithError(err).Warn("config: failed to load secrets, keeping local token")
	}

	tokenManager := metaclient.NewTokenManager(cfg, secretStore)
	if err := tokenManager.InitToken(ctx); err != nil {
		logrus.WithError(err).Error("meta: failed to initialize access token")
	}
	go tokenManager.StartAutoRefresh(ctx)

	metaClient := metaclient.NewClient(cfg, tokenManager)
	metaIntegrator := meta.New(metaClient)

	engine := pacing.NewEngine(
		pacing.NewCalendar(cfg.Pacing.Location),
		pacing.NewClassifier(cfg.Pacing.AttentionRatio),
	)
	goalTracker := pacing.NewService(goalRepo, snapshotRepo, alertRepo, metaIntegrator, engine)

	limiter := adjusting.NewCooldownLimiter(cfg.Guardrail.Cooldown, nil)
	validator := adjusting.NewValidator(adjusting.LimitsFromConfig(cfg.Guardrail))
	adjustmentService := adjusting.NewService(adjustmentRepo, metaIntegrator, validator, limiter, cfg.Guardrail.PlatformTimeout)

	statsService := auditing.NewService(adjustmentRepo, limiter, cfg.Pacing.Location)

	progressSnapshotSyncService := scheduler.NewProgressSnapshotSyncService(goalTracker, cfg)
	if err := progressSnapshotSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("scheduler: failed to start progress snapshot sync")
	}

	server, err := api.New(
		cfg,
		authenticator,
		goalTracker,
		adjustmentService,
		statsService,
		progressSnapshotSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("postgres: failed to connect")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("postgres: ping failed")
	}

	logrus.Info("postgres: connection established")
	return conn
}
