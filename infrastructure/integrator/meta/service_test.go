package meta

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metadomain "github.com/vfg2006/goal-pacing-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
)

type fakeClient struct {
	adset      *metadomain.Adset
	insights   []metadomain.AdsetInsight
	err        error
	updates    []url.Values
	since      time.Time
	until      time.Time
	updatedFor string
}

func (f *fakeClient) GetAdset(ctx context.Context, adsetID string) (*metadomain.Adset, error) {
	return f.adset, f.err
}

func (f *fakeClient) UpdateAdset(ctx context.Context, adsetID string, params url.Values) error {
	f.updatedFor = adsetID
	f.updates = append(f.updates, params)
	return f.err
}

func (f *fakeClient) GetAdsetInsights(ctx context.Context, adsetID string, since, until time.Time) ([]metadomain.AdsetInsight, error) {
	f.since, f.until = since, until
	return f.insights, f.err
}

func TestMetaIntegrator_GetAdsetBudget(t *testing.T) {
	tests := []struct {
		name     string
		client   *fakeClient
		validate func(t *testing.T, budget *domain.AdsetBudget, err error)
	}{
		{
			name:   "Orçamento diário em centavos",
			client: &fakeClient{adset: &metadomain.Adset{ID: "adset-1", CampaignID: "campaign-1", DailyBudget: "12345"}},
			validate: func(t *testing.T, budget *domain.AdsetBudget, err error) {
				require.NoError(t, err)
				assert.Equal(t, "campaign-1", budget.CampaignID)
				require.NotNil(t, budget.DailyBudget)
				assert.Equal(t, 123.45, *budget.DailyBudget)
				assert.Nil(t, budget.LifetimeBudget)
			},
		},
		{
			name:   "Orçamento zero é tratado como ausente",
			client: &fakeClient{adset: &metadomain.Adset{ID: "adset-1", DailyBudget: "0", LifetimeBudget: "500000"}},
			validate: func(t *testing.T, budget *domain.AdsetBudget, err error) {
				require.NoError(t, err)
				assert.Nil(t, budget.DailyBudget)
				assert.Equal(t, 5000.0, *budget.LifetimeBudget)
			},
		},
		{
			name:   "Valor não numérico",
			client: &fakeClient{adset: &metadomain.Adset{ID: "adset-1", DailyBudget: "abc"}},
			validate: func(t *testing.T, budget *domain.AdsetBudget, err error) {
				assert.Error(t, err)
				assert.Nil(t, budget)
			},
		},
		{
			name: "Erro da Graph API preservado",
			client: &fakeClient{err: &metadomain.RequestError{
				StatusCode: 400,
				Response: &metadomain.ErrorResponse{Error: metadomain.ErrorDetails{
					Message: "Unsupported get request", Type: "GraphMethodException", Code: 100, ErrorSubcode: 33, FBTraceID: "trace-1",
				}},
			}},
			validate: func(t *testing.T, budget *domain.AdsetBudget, err error) {
				var platformErr *domain.PlatformError
				require.ErrorAs(t, err, &platformErr)
				assert.Equal(t, 400, platformErr.StatusCode)
				assert.Equal(t, 100, platformErr.Code)
				assert.Equal(t, 33, platformErr.ErrorSubcode)
				assert.Equal(t, "Unsupported get request", platformErr.Message)
				assert.Equal(t, "trace-1", platformErr.FBTraceID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget, err := New(tt.client).GetAdsetBudget(context.Background(), "adset-1")
			tt.validate(t, budget, err)
		})
	}
}

func TestMetaIntegrator_UpdateAdsetBudget(t *testing.T) {
	client := &fakeClient{}
	integrator := New(client)

	require.NoError(t, integrator.UpdateAdsetBudget(context.Background(), "adset-1", domain.BudgetTypeLifetime, 1234.56))
	require.Len(t, client.updates, 1)
	assert.Equal(t, "123456", client.updates[0].Get("lifetime_budget"))
	assert.Equal(t, "adset-1", client.updatedFor)

	assert.Error(t, integrator.UpdateAdsetBudget(context.Background(), "adset-1", "weekly", 10))
	assert.Len(t, client.updates, 1)
}

func TestMetaIntegrator_GetAdsetLeadMetrics(t *testing.T) {
	client := &fakeClient{insights: []metadomain.AdsetInsight{
		{DateStart: "2025-03-18", Spend: "100.10", Actions: []metadomain.Action{{ActionType: "lead", Value: "3"}, {ActionType: "onsite_conversion.lead_grouped", Value: "3"}}},
		{DateStart: "2025-03-19", Spend: "50.05", Actions: []metadomain.Action{{ActionType: "offsite_conversion.fb_pixel_lead", Value: "2"}}},
		{DateStart: "2025-03-20", Spend: "", Actions: nil},
	}}

	period := domain.LeadPeriod{
		Since:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Until:     time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
		Yesterday: time.Date(2025, 3, 19, 0, 0, 0, 0, time.UTC),
	}

	metrics, err := New(client).GetAdsetLeadMetrics(context.Background(), "adset-1", period)

	require.NoError(t, err)
	assert.Equal(t, 5, metrics.LeadsInPeriod)
	assert.Equal(t, 2, metrics.LeadsYesterday)
	assert.Equal(t, 150.15, metrics.SpendToDate)
	assert.Equal(t, period.Since, client.since)
	assert.Equal(t, period.Until, client.until)
}

func TestToPlatformError(t *testing.T) {
	assert.Nil(t, ToPlatformError(nil))

	var platformErr *domain.PlatformError
	require.ErrorAs(t, ToPlatformError(context.DeadlineExceeded), &platformErr)
	assert.True(t, platformErr.Timeout)

	assert.ErrorIs(t, ToPlatformError(context.Canceled), context.Canceled)

	require.ErrorAs(t, ToPlatformError(&metadomain.RequestError{StatusCode: 502, Body: []byte("bad gateway")}), &platformErr)
	assert.Equal(t, "bad gateway", platformErr.Message)

	require.ErrorAs(t, ToPlatformError(errors.New("connection reset")), &platformErr)
	assert.False(t, platformErr.Timeout)
}
