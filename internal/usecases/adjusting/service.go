package adjusting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/goal-pacing-api/infrastructure/integrator/meta"
	"github.com/vfg2006/goal-pacing-api/infrastructure/repository"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
	"github.com/vfg2006/goal-pacing-api/pkg/apiErrors"
)

const defaultPlatformTimeout = 15 * time.Second

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks
type AdjustmentService interface {
	Apply(ctx context.Context, request *domain.BudgetAdjustmentRequest) (*domain.BudgetAdjustmentResult, error)
	ApplyBatch(ctx context.Context, request *domain.BatchAdjustmentRequest, requestingUser string) (*domain.BatchAdjustmentResult, error)
}

type Service struct {
	repository      repository.BudgetAdjustmentRepository
	metaService     meta.AdsetIntegrator
	validator       *Validator
	limiter         *CooldownLimiter
	platformTimeout time.Duration
}

func NewService(
	repository repository.BudgetAdjustmentRepository,
	metaService meta.AdsetIntegrator,
	validator *Validator,
	limiter *CooldownLimiter,
	platformTimeout time.Duration,
) *Service {
	if platformTimeout <= 0 {
		platformTimeout = defaultPlatformTimeout
	}
	return &Service{
		repository:      repository,
		metaService:     metaService,
		validator:       validator,
		limiter:         limiter,
		platformTimeout: platformTimeout,
	}
}

// Apply executa um único ajuste. A checagem de cooldown, a chamada à plataforma
// e a escrita do log acontecem sob o lock da entidade. A mutação nunca é repetida.
func (s *Service) Apply(ctx context.Context, request *domain.BudgetAdjustmentRequest) (*domain.BudgetAdjustmentResult, error) {
	if err := s.validator.ValidateShape(request); err != nil {
		return invalidResult(err), err
	}

	// Depois de iniciada, a chamada externa não é cancelada
	lockCtx := context.WithoutCancel(ctx)

	var out outcome
	err := s.repository.WithEntityLock(lockCtx, request.AdsetID, func(ledger repository.AdjustmentLedger) error {
		var err error
		out, err = s.applyLocked(lockCtx, ledger, request)
		return err
	})
	if err != nil && out.unrecorded != nil {
		// A plataforma já aplicou; grava fora da transação desfeita para preservar o cooldown
		appendErr := s.repository.Append(lockCtx, out.unrecorded)
		if appendErr == nil {
			logrus.WithFields(logrus.Fields{
				"adset_id": request.AdsetID,
				"batch_id": request.BatchID,
				"error":    err.Error(),
			}).Warn("adjustments: applied log recorded outside the entity lock")
			logOutcome(out.unrecorded)
			return out.result, nil
		}
		err = fmt.Errorf("%w; fallback append: %v", err, appendErr)
	}

	if err != nil {
		logrus.WithFields(logrus.Fields{
			"adset_id":    request.AdsetID,
			"budget_type": request.BudgetType,
			"new_budget":  *request.NewBudget,
			"batch_id":    request.BatchID,
			"user":        request.RequestingUser,
			"error":       err.Error(),
		}).Error("adjustments: internal error applying adjustment")

		adjErr := NewAdjustmentError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, request.AdsetID, "Falha ao registrar ajuste de orçamento")
		return &domain.BudgetAdjustmentResult{
			Success: false,
			Error:   &domain.AdjustmentErrorPayload{Code: adjErr.Code, Message: adjErr.Details},
		}, adjErr
	}

	return out.result, out.err
}

// outcome é o resultado de uma tentativa registrada no log; err é o erro
// de negócio devolvido ao chamador (bloqueio ou falha da plataforma).
// unrecorded guarda a linha applied cuja gravação falhou dentro do lock.
type outcome struct {
	result     *domain.BudgetAdjustmentResult
	err        error
	unrecorded *domain.BudgetAdjustmentLog
}

// applyLocked só retorna erro em falhas internas, que desfazem a transação
func (s *Service) applyLocked(ctx context.Context, ledger repository.AdjustmentLedger, request *domain.BudgetAdjustmentRequest) (outcome, error) {
	requested := *request.NewBudget

	cooldown, err := s.limiter.Check(ctx, ledger, request.AdsetID)
	if err != nil {
		return outcome{}, fmt.Errorf("error checking cooldown: %w", err)
	}

	if !cooldown.Allowed {
		validation := &domain.ValidationResult{
			CanAdjust:       false,
			RejectionCode:   domain.RejectionCooldown,
			RequestedBudget: floatPtr(requested),
			NextAllowedAt:   cooldown.NextAllowedAt,
			Reason: fmt.Sprintf("ajuste aplicado em %s; próximo ajuste permitido a partir de %s",
				cooldown.LastAppliedAt.Format(time.RFC3339), cooldown.NextAllowedAt.Format(time.RFC3339)),
		}
		campaignID, err := ledger.LastCampaignID(ctx, request.AdsetID)
		if err != nil {
			return outcome{}, fmt.Errorf("error reading last campaign: %w", err)
		}

		entry := s.newLog(request, domain.AdjustmentStatusRejected, nil, campaignID)
		entry.RejectionReason = domain.RejectionCooldown

		return s.rejected(ctx, ledger, entry, validation, NewAdjustmentError(ErrCooldownActive, apiErrors.ErrCooldownActive, request.AdsetID, validation.Reason))
	}

	readCtx, cancelRead := context.WithTimeout(ctx, s.platformTimeout)
	budget, err := s.metaService.GetAdsetBudget(readCtx, request.AdsetID)
	cancelRead()
	if err != nil {
		campaignID, lookupErr := ledger.LastCampaignID(ctx, request.AdsetID)
		if lookupErr != nil {
			return outcome{}, fmt.Errorf("error reading last campaign: %w", lookupErr)
		}

		entry := s.newLog(request, domain.AdjustmentStatusFailed, nil, campaignID)
		return s.failed(ctx, ledger, entry, nil, err)
	}

	current, ok := budget.Amount(request.BudgetType)
	if !ok {
		validation := &domain.ValidationResult{
			CanAdjust:       false,
			RejectionCode:   domain.RejectionBudgetTypeMismatch,
			RequestedBudget: floatPtr(requested),
			Reason:          fmt.Sprintf("o adset não possui orçamento %s configurado", request.BudgetType),
		}
		entry := s.newLog(request, domain.AdjustmentStatusRejected, nil, budget.CampaignID)
		entry.RejectionReason = domain.RejectionBudgetTypeMismatch

		return s.rejected(ctx, ledger, entry, validation, NewAdjustmentError(ErrBudgetTypeMismatch, apiErrors.ErrBudgetTypeMismatch, request.AdsetID, validation.Reason))
	}

	validation := s.validator.CheckCap(current, requested)
	if !validation.CanAdjust {
		entry := s.newLog(request, domain.AdjustmentStatusRejected, &current, budget.CampaignID)
		entry.RejectionReason = domain.RejectionCapExceeded
		entry.AdjustmentPercentage = validation.AdjustmentPercentage

		return s.rejected(ctx, ledger, entry, validation, NewAdjustmentError(ErrCapExceeded, apiErrors.ErrCapExceeded, request.AdsetID, validation.Reason))
	}

	updateCtx, cancelUpdate := context.WithTimeout(ctx, s.platformTimeout)
	err = s.metaService.UpdateAdsetBudget(updateCtx, request.AdsetID, request.BudgetType, requested)
	cancelUpdate()
	if err != nil {
		entry := s.newLog(request, domain.AdjustmentStatusFailed, &current, budget.CampaignID)
		entry.AdjustmentPercentage = validation.AdjustmentPercentage
		return s.failed(ctx, ledger, entry, validation, err)
	}

	amount, _ := decimal.NewFromFloat(requested).Sub(decimal.NewFromFloat(current)).Round(2).Float64()

	entry := s.newLog(request, domain.AdjustmentStatusApplied, &current, budget.CampaignID)
	entry.AdjustmentPercentage = validation.AdjustmentPercentage
	entry.AdjustmentAmount = &amount

	result := &domain.BudgetAdjustmentResult{
		Success:          true,
		ValidationResult: validation,
		Log:              entry,
	}

	if err := ledger.Append(ctx, entry); err != nil {
		logrus.WithFields(logrus.Fields{
			"adset_id":       request.AdsetID,
			"current_budget": current,
			"new_budget":     requested,
			"batch_id":       request.BatchID,
			"error":          err.Error(),
		}).Error("adjustments: adjustment applied on platform but log append failed")
		return outcome{result: result, unrecorded: entry}, fmt.Errorf("error appending applied log: %w", err)
	}

	logOutcome(entry)

	return outcome{result: result}, nil
}

func (s *Service) rejected(ctx context.Context, ledger repository.AdjustmentLedger, entry *domain.BudgetAdjustmentLog, validation *domain.ValidationResult, adjErr *AdjustmentError) (outcome, error) {
	if err := ledger.Append(ctx, entry); err != nil {
		return outcome{}, fmt.Errorf("error appending rejected log: %w", err)
	}

	logOutcome(entry)

	return outcome{
		result: &domain.BudgetAdjustmentResult{
			Success:          false,
			ValidationResult: validation,
			Log:              entry,
			Error: &domain.AdjustmentErrorPayload{
				Code:    adjErr.Code,
				Message: validation.Reason,
			},
		},
		err: adjErr,
	}, nil
}

func (s *Service) failed(ctx context.Context, ledger repository.AdjustmentLedger, entry *domain.BudgetAdjustmentLog, validation *domain.ValidationResult, platformErr error) (outcome, error) {
	var payload *domain.PlatformError
	if !errors.As(platformErr, &payload) {
		payload = &domain.PlatformError{
			Message: platformErr.Error(),
			Timeout: errors.Is(platformErr, context.DeadlineExceeded),
		}
	}

	entry.ErrorMessage = payload.Error()
	if err := ledger.Append(ctx, entry); err != nil {
		return outcome{}, fmt.Errorf("error appending failed log: %w", err)
	}

	logOutcome(entry)

	return outcome{
		result: &domain.BudgetAdjustmentResult{
			Success:          false,
			ValidationResult: validation,
			Log:              entry,
			Error: &domain.AdjustmentErrorPayload{
				Code:     apiErrors.ErrExternalService,
				Message:  payload.Message,
				Platform: payload,
			},
		},
		err: NewAdjustmentError(ErrPlatform, apiErrors.ErrExternalService, entry.EntityID, payload.Message),
	}, nil
}

func (s *Service) newLog(request *domain.BudgetAdjustmentRequest, status domain.AdjustmentStatus, current *float64, campaignID string) *domain.BudgetAdjustmentLog {
	return &domain.BudgetAdjustmentLog{
		EntityID:        request.AdsetID,
		CampaignID:      campaignID,
		BudgetType:      request.BudgetType,
		CurrentBudget:   current,
		RequestedBudget: *request.NewBudget,
		Status:          status,
		Reason:          request.Reason,
		RequestingUser:  request.RequestingUser,
		BatchID:         request.BatchID,
		CreatedAt:       s.limiter.Now().UTC(),
	}
}

func invalidResult(err error) *domain.BudgetAdjustmentResult {
	code := apiErrors.ErrInvalidRequest
	message := err.Error()

	var adjErr *AdjustmentError
	if errors.As(err, &adjErr) {
		code = adjErr.Code
		message = adjErr.Details
	}

	return &domain.BudgetAdjustmentResult{
		Success: false,
		ValidationResult: &domain.ValidationResult{
			CanAdjust:     false,
			RejectionCode: domain.RejectionInvalidRequest,
			Reason:        message,
		},
		Error: &domain.AdjustmentErrorPayload{Code: code, Message: message},
	}
}

func logOutcome(entry *domain.BudgetAdjustmentLog) {
	fields := logrus.Fields{
		"adset_id": entry.EntityID,
		"status":   entry.Status,
	}
	if entry.AdjustmentPercentage != nil {
		fields["adjustment_percentage"] = *entry.AdjustmentPercentage
	}
	if entry.BatchID != "" {
		fields["batch_id"] = entry.BatchID
	}
	if entry.RejectionReason != "" {
		fields["rejection_reason"] = entry.RejectionReason
	}

	switch entry.Status {
	case domain.AdjustmentStatusFailed:
		fields["error"] = entry.ErrorMessage
		logrus.WithFields(fields).Warn("adjustments: adjustment failed on platform")
	case domain.AdjustmentStatusRejected:
		logrus.WithFields(fields).Info("adjustments: adjustment rejected by guardrail")
	default:
		logrus.WithFields(fields).Info("adjustments: adjustment applied")
	}
}
