package meta

import (
	"context"
	"errors"
	"net"
	"net/url"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/goal-pacing-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/goal-pacing-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks
type AdsetIntegrator interface {
	GetAdsetBudget(ctx context.Context, adsetID string) (*domain.AdsetBudget, error)
	UpdateAdsetBudget(ctx context.Context, adsetID string, budgetType domain.BudgetType, amount float64) error
	GetAdsetLeadMetrics(ctx context.Context, adsetID string, period domain.LeadPeriod) (*domain.LeadMetrics, error)
}

type MetaIntegrator struct {
	Client metaclient.Client
}

func New(client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		Client: client,
	}
}

func (s *MetaIntegrator) GetAdsetBudget(ctx context.Context, adsetID string) (*domain.AdsetBudget, error) {
	adset, err := s.Client.GetAdset(ctx, adsetID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"adset_id": adsetID,
			"error":    err.Error(),
		}).Error("meta: failed to get adset")
		return nil, ToPlatformError(err)
	}

	dailyBudget, err := metadomain.CentsToAmount(adset.DailyBudget)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "meta: invalid daily_budget %q for adset %s", adset.DailyBudget, adsetID)
	}

	lifetimeBudget, err := metadomain.CentsToAmount(adset.LifetimeBudget)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "meta: invalid lifetime_budget %q for adset %s", adset.LifetimeBudget, adsetID)
	}

	return &domain.AdsetBudget{
		AdsetID:        adsetID,
		CampaignID:     adset.CampaignID,
		DailyBudget:    dailyBudget,
		LifetimeBudget: lifetimeBudget,
	}, nil
}

func (s *MetaIntegrator) UpdateAdsetBudget(ctx context.Context, adsetID string, budgetType domain.BudgetType, amount float64) error {
	field, err := budgetField(budgetType)
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set(field, metadomain.AmountToCents(amount))

	if err := s.Client.UpdateAdset(ctx, adsetID, params); err != nil {
		logrus.WithFields(logrus.Fields{
			"adset_id":    adsetID,
			"budget_type": budgetType,
			"error":       err.Error(),
		}).Error("meta: failed to update adset budget")
		return ToPlatformError(err)
	}

	logrus.WithFields(logrus.Fields{
		"adset_id":    adsetID,
		"budget_type": budgetType,
		"amount":      amount,
	}).Info("meta: adset budget updated")

	return nil
}

// GetAdsetLeadMetrics soma leads e gasto diários entre Since e Until
func (s *MetaIntegrator) GetAdsetLeadMetrics(ctx context.Context, adsetID string, period domain.LeadPeriod) (*domain.LeadMetrics, error) {
	insights, err := s.Client.GetAdsetInsights(ctx, adsetID, period.Since, period.Until)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"adset_id": adsetID,
			"since":    period.Since.Format(time.DateOnly),
			"until":    period.Until.Format(time.DateOnly),
			"error":    err.Error(),
		}).Error("meta: failed to get adset insights")
		return nil, ToPlatformError(err)
	}

	yesterday := period.Yesterday.Format(time.DateOnly)
	spend := decimal.Zero
	metrics := &domain.LeadMetrics{}

	for i := range insights {
		leads := insights[i].Leads()
		metrics.LeadsInPeriod += leads
		if insights[i].DateStart == yesterday {
			metrics.LeadsYesterday += leads
		}
		spend = spend.Add(insights[i].SpendAmount())
	}

	metrics.SpendToDate, _ = spend.Round(2).Float64()

	logrus.WithFields(logrus.Fields{
		"adset_id":        adsetID,
		"days":            len(insights),
		"leads_in_period": metrics.LeadsInPeriod,
	}).Debug("meta: adset lead metrics retrieved")

	return metrics, nil
}

func budgetField(budgetType domain.BudgetType) (string, error) {
	switch budgetType {
	case domain.BudgetTypeDaily:
		return "daily_budget", nil
	case domain.BudgetTypeLifetime:
		return "lifetime_budget", nil
	}
	return "", pkgerrors.Errorf("meta: unsupported budget type %q", budgetType)
}

// ToPlatformError preserva o erro da plataforma como veio, sem tradução
func ToPlatformError(err error) error {
	if err == nil {
		return nil
	}

	var reqErr *metadomain.RequestError
	if errors.As(err, &reqErr) {
		platformErr := &domain.PlatformError{
			StatusCode: reqErr.StatusCode,
			Message:    string(reqErr.Body),
		}
		if reqErr.Response != nil {
			platformErr.Message = reqErr.Response.Error.Message
			platformErr.Type = reqErr.Response.Error.Type
			platformErr.Code = reqErr.Response.Error.Code
			platformErr.ErrorSubcode = reqErr.Response.Error.ErrorSubcode
			platformErr.FBTraceID = reqErr.Response.Error.FBTraceID
		}
		return platformErr
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &domain.PlatformError{Message: err.Error(), Timeout: true}
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	return &domain.PlatformError{Message: err.Error()}
}
