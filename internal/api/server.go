package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/goal-pacing-api/internal/api/handler"
	"github.com/vfg2006/goal-pacing-api/internal/api/handler/router"
	"github.com/vfg2006/goal-pacing-api/internal/config"
	"github.com/vfg2006/goal-pacing-api/internal/scheduler"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/adjusting"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/auditing"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/authenticating"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/pacing"
	"github.com/vfg2006/goal-pacing-api/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	authenticator authenticating.Authenticator,
	goalTracker pacing.GoalTracker,
	adjustmentService adjusting.AdjustmentService,
	statsService auditing.StatsService,
	progressSnapshotSyncService *scheduler.ProgressSnapshotSyncService,
) (*Server, error) {
	cronServices := handler.CronJobServices{
		ProgressSnapshotSyncService: progressSnapshotSyncService,
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, authenticator, goalTracker, adjustmentService, statsService, cronServices),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}, nil
}

// NewHandler monta as rotas e a cadeia de middlewares globais
func NewHandler(
	config *config.Config,
	authenticator authenticating.Authenticator,
	goalTracker pacing.GoalTracker,
	adjustmentService adjusting.AdjustmentService,
	statsService auditing.StatsService,
	cronServices handler.CronJobServices,
) http.Handler {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Goals(goalTracker)...),
		router.WithRoutes(handler.BudgetAdjustments(adjustmentService, statsService)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins),
		middleware.AuthMiddleware(authenticator),
	}

	return alice.New(middlewares...).Then(rt)
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("server: starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("server: listen failed")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	// Aguardar pelo sinal ou pelo cancelamento do contexto
	select {
	case <-done:
		logrus.Info("server: interrupt signal received")
	case <-ctx.Done():
		logrus.Info("server: application context cancelled")
	}

	// Define timeout para desligamento
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("server: graceful shutdown started")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("server: shutdown failed")
		return err
	}

	logrus.Info("server: stopped")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("server: http server closed")
	return nil
}
