package auditing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metamocks "github.com/vfg2006/goal-pacing-api/infrastructure/integrator/meta/mocks"
	"github.com/vfg2006/goal-pacing-api/infrastructure/repository"
	"github.com/vfg2006/goal-pacing-api/infrastructure/repository/mocks"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/adjusting"
	"go.uber.org/mock/gomock"
)

// recordingRepository liga o mock do repositório a uma lista em memória
func recordingRepository(ctrl *gomock.Controller) *mocks.MockBudgetAdjustmentRepository {
	repo := mocks.NewMockBudgetAdjustmentRepository(ctrl)

	var (
		mu   sync.Mutex
		rows []*domain.BudgetAdjustmentLog
	)

	repo.EXPECT().WithEntityLock(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, entityID string, fn func(repository.AdjustmentLedger) error) error {
			return fn(repo)
		}).AnyTimes()

	repo.EXPECT().Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, log *domain.BudgetAdjustmentLog) error {
			mu.Lock()
			defer mu.Unlock()
			rows = append(rows, log)
			return nil
		}).AnyTimes()

	repo.EXPECT().LastAppliedAt(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, entityID string) (*time.Time, error) {
			mu.Lock()
			defer mu.Unlock()
			var last *time.Time
			for _, row := range rows {
				if row.EntityID == entityID && row.Status == domain.AdjustmentStatusApplied {
					at := row.CreatedAt
					last = &at
				}
			}
			return last, nil
		}).AnyTimes()

	repo.EXPECT().LastCampaignID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, entityID string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			campaignID := ""
			for _, row := range rows {
				if row.EntityID == entityID && row.CampaignID != "" {
					campaignID = row.CampaignID
				}
			}
			return campaignID, nil
		}).AnyTimes()

	repo.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, filter domain.AdjustmentLogFilter) ([]*domain.BudgetAdjustmentLog, error) {
			mu.Lock()
			defer mu.Unlock()
			out := make([]*domain.BudgetAdjustmentLog, 0)
			for _, row := range rows {
				if filter.CampaignID != "" && row.CampaignID != filter.CampaignID {
					continue
				}
				if filter.EntityID != "" && row.EntityID != filter.EntityID {
					continue
				}
				if row.CreatedAt.Before(filter.Since) {
					continue
				}
				out = append(out, row)
			}
			return out, nil
		}).AnyTimes()

	return repo
}

func TestService_GetStats_CampanhaContaBloqueioPorCooldown(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := recordingRepository(ctrl)
	meta := metamocks.NewMockAdsetIntegrator(ctrl)

	limiter := adjusting.NewCooldownLimiter(4*time.Hour, func() time.Time { return testNow })
	adjustments := adjusting.NewService(repo, meta, adjusting.NewValidator(adjusting.DefaultLimits()), limiter, time.Second)
	stats := NewService(repo, limiter, time.UTC)

	meta.EXPECT().GetAdsetBudget(gomock.Any(), "adset-1").
		Return(&domain.AdsetBudget{AdsetID: "adset-1", CampaignID: "campaign-1", DailyBudget: pct(100)}, nil).Times(1)
	meta.EXPECT().UpdateAdsetBudget(gomock.Any(), "adset-1", domain.BudgetTypeDaily, 110.0).Return(nil).Times(1)

	request := func(newBudget float64) *domain.BudgetAdjustmentRequest {
		return &domain.BudgetAdjustmentRequest{
			AdsetID:    "adset-1",
			NewBudget:  pct(newBudget),
			BudgetType: domain.BudgetTypeDaily,
			Reason:     "ritmo atrasado",
		}
	}

	_, err := adjustments.Apply(context.Background(), request(110))
	require.NoError(t, err)

	_, err = adjustments.Apply(context.Background(), request(115))
	require.ErrorIs(t, err, adjusting.ErrCooldownActive)

	report, err := stats.GetStats(context.Background(), domain.AdjustmentStatsFilter{CampaignID: "campaign-1", PeriodHours: 24})

	require.NoError(t, err)
	assert.Equal(t, 2, report.Stats.TotalAdjustments)
	assert.Equal(t, 1, report.Stats.SuccessfulAdjustments)
	assert.Equal(t, 1, report.Stats.RejectedAdjustments)
	assert.Equal(t, 10.0, report.Stats.TotalBudgetChange)
}
