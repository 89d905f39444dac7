package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/goal-pacing-api/internal/config"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/pacing"
)

// ProgressSnapshotSyncConfig representa a configuração do agendador de snapshots de progresso
type ProgressSnapshotSyncConfig struct {
	CronSchedule        string
	RequestDelaySeconds int
	MaxConcurrentJobs   int
	SyncEnabled         bool
}

// SyncSummary resume a última execução
type SyncSummary struct {
	Entities  int `json:"entities"`
	Evaluated int `json:"evaluated"`
	Failed    int `json:"failed"`
}

// ProgressSnapshotSyncService avalia periodicamente todas as metas ativas,
// gravando o snapshot do dia e os alertas gerados
type ProgressSnapshotSyncService struct {
	scheduler           *gocron.Scheduler
	config              ProgressSnapshotSyncConfig
	tracker             pacing.GoalTracker
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSummary         SyncSummary
}

func NewProgressSnapshotSyncService(tracker pacing.GoalTracker, appConfig *config.Config) *ProgressSnapshotSyncService {
	syncConfig := ProgressSnapshotSyncConfig{
		CronSchedule:        appConfig.ProgressSnapshotSync.CronSchedule,
		RequestDelaySeconds: appConfig.ProgressSnapshotSync.RequestDelaySeconds,
		MaxConcurrentJobs:   appConfig.ProgressSnapshotSync.MaxConcurrentJobs,
		SyncEnabled:         appConfig.ProgressSnapshotSync.Enabled,
	}
	if syncConfig.MaxConcurrentJobs <= 0 {
		syncConfig.MaxConcurrentJobs = 1
	}

	// O cron roda no mesmo fuso do calendário de metas
	location := appConfig.Pacing.Location
	if location == nil {
		location = time.UTC
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":         syncConfig.CronSchedule,
		"request_delay_seconds": syncConfig.RequestDelaySeconds,
		"max_concurrent_jobs":   syncConfig.MaxConcurrentJobs,
		"sync_enabled":          syncConfig.SyncEnabled,
		"timezone":              location.String(),
	}).Info("scheduler: progress snapshot sync configured")

	return &ProgressSnapshotSyncService{
		scheduler: gocron.NewScheduler(location),
		config:    syncConfig,
		tracker:   tracker,
	}
}

// Start agenda a sincronização; o agendador para quando ctx é cancelado
func (s *ProgressSnapshotSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("scheduler: progress snapshot sync disabled")
		return nil
	}

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.Sync(ctx)
	})
	if err != nil {
		return fmt.Errorf("error scheduling progress snapshot sync: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("scheduler: stopping progress snapshot sync")
		s.scheduler.Stop()
	}()

	logrus.WithField("cron", s.config.CronSchedule).Info("scheduler: progress snapshot sync started")
	return nil
}

// Sync avalia todas as entidades com meta ativa. Execuções sobrepostas são ignoradas.
func (s *ProgressSnapshotSyncService) Sync(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("scheduler: progress snapshot sync already running, skipping")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	summary := s.evaluateAll(ctx)

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	s.lastSummary = summary
	s.syncMutex.Unlock()
}

func (s *ProgressSnapshotSyncService) evaluateAll(ctx context.Context) SyncSummary {
	startTime := time.Now()

	entityIDs, err := s.tracker.ListTrackedEntities(ctx)
	if err != nil {
		logrus.WithError(err).Error("scheduler: failed to list tracked entities")
		return SyncSummary{}
	}

	summary := SyncSummary{Entities: len(entityIDs)}
	if len(entityIDs) == 0 {
		logrus.Info("scheduler: no active goals to evaluate")
		return summary
	}

	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, entityID := range entityIDs {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func() {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			eval, err := s.tracker.Evaluate(ctx, entityID)

			mu.Lock()
			if err != nil {
				summary.Failed++
			} else {
				summary.Evaluated++
			}
			mu.Unlock()

			if err != nil {
				logrus.WithField("entity_id", entityID).WithError(err).Error("scheduler: failed to evaluate entity")
			} else {
				logrus.WithFields(logrus.Fields{
					"entity_id": entityID,
					"status":    eval.Status,
				}).Debug("scheduler: entity evaluated")
			}

			if s.config.RequestDelaySeconds > 0 {
				time.Sleep(time.Duration(s.config.RequestDelaySeconds) * time.Second)
			}
		}()
	}

	wg.Wait()

	logrus.WithFields(logrus.Fields{
		"duration":  time.Since(startTime).String(),
		"entities":  summary.Entities,
		"evaluated": summary.Evaluated,
		"failed":    summary.Failed,
	}).Info("scheduler: progress snapshot sync finished")

	return summary
}

// TriggerManualSync dispara uma sincronização fora do cron
func (s *ProgressSnapshotSyncService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	running := s.syncRunning
	s.syncMutex.Unlock()

	if running {
		logrus.Info("scheduler: progress snapshot sync already running, ignoring manual trigger")
		return false
	}

	logrus.Info("scheduler: manual progress snapshot sync triggered")
	go s.Sync(context.Background())
	return true
}

func (s *ProgressSnapshotSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":           s.syncRunning,
		"sync_cron":              s.config.CronSchedule,
		"sync_enabled":           s.config.SyncEnabled,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_summary":      s.lastSummary,
	}
}
