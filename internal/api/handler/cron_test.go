package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/goal-pacing-api/internal/api/handler/router"
	"github.com/vfg2006/goal-pacing-api/internal/config"
	"github.com/vfg2006/goal-pacing-api/internal/scheduler"
	pacingmocks "github.com/vfg2006/goal-pacing-api/internal/usecases/pacing/mocks"
	"go.uber.org/mock/gomock"
)

func TestCronRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracker := pacingmocks.NewMockGoalTracker(ctrl)

	syncCalled := make(chan struct{})
	tracker.EXPECT().ListTrackedEntities(gomock.Any()).
		DoAndReturn(func(ctx context.Context) ([]string, error) {
			close(syncCalled)
			return []string{}, nil
		}).
		Times(1)

	sync := scheduler.NewProgressSnapshotSyncService(tracker, &config.Config{
		ProgressSnapshotSync: config.ProgressSnapshotSync{CronSchedule: "0 6 * * *", Enabled: true},
		Pacing:               config.Pacing{Location: time.UTC},
	})
	handler := withClaims(supervisor(), router.New(router.WithRoutes(CronJobs(CronJobServices{ProgressSnapshotSyncService: sync})...)))

	t.Run("Execução manual responde 202", func(t *testing.T) {
		rec := serve(t, handler, http.MethodPost, "/v1/cron/progress-snapshot/run", "")

		assert.Equal(t, http.StatusAccepted, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "progress-snapshot", body["type"])

		select {
		case <-syncCalled:
		case <-time.After(2 * time.Second):
			t.Fatal("sync was not triggered")
		}
	})

	t.Run("Tipo desconhecido", func(t *testing.T) {
		rec := serve(t, handler, http.MethodPost, "/v1/cron/meta-insights/run", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Status lista o snapshot de progresso", func(t *testing.T) {
		rec := serve(t, handler, http.MethodGet, "/v1/cron/status", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"progress-snapshot"`)
	})
}
