package adjusting

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
	"github.com/vfg2006/goal-pacing-api/pkg/apiErrors"
	"github.com/vfg2006/goal-pacing-api/pkg/utils"
)

// ApplyBatch valida todos os itens e despacha os aceitos com concorrência limitada.
// Cada item tem resultado independente; cancelamento só afeta itens não iniciados.
func (s *Service) ApplyBatch(ctx context.Context, request *domain.BatchAdjustmentRequest, requestingUser string) (*domain.BatchAdjustmentResult, error) {
	maxConcurrent, err := s.validator.ValidateBatch(request)
	if err != nil {
		return nil, err
	}

	batchID, err := utils.GenerateID()
	if err != nil {
		return nil, NewAdjustmentError(ErrInternal, apiErrors.ErrInternalServer, "", "Falha ao gerar identificador do lote")
	}

	logger := logrus.WithFields(logrus.Fields{
		"batch_id":       batchID,
		"items":          len(request.Adjustments),
		"max_concurrent": maxConcurrent,
	})
	logger.Info("adjustments: batch started")

	results := make([]domain.BatchItemResult, len(request.Adjustments))
	p := pool.New().WithMaxGoroutines(maxConcurrent)

	for i := range request.Adjustments {
		item := request.Adjustments[i]
		item.RequestingUser = requestingUser
		item.BatchID = batchID

		// Itens malformados não consomem chamada externa nem geram log
		if err := s.validator.ValidateShape(&item); err != nil {
			results[i] = skippedItem(i, &item, err.Error(), invalidResult(err))
			continue
		}

		if ctx.Err() != nil {
			results[i] = skippedItem(i, &item, domain.RejectionCancelled, nil)
			continue
		}

		p.Go(func() {
			if ctx.Err() != nil {
				results[i] = skippedItem(i, &item, domain.RejectionCancelled, nil)
				return
			}
			results[i] = s.applyItem(ctx, i, &item)
		})
	}

	p.Wait()

	batch := &domain.BatchAdjustmentResult{
		BatchID:        batchID,
		TotalRequested: len(request.Adjustments),
		Results:        results,
	}

	for _, r := range results {
		switch r.Status {
		case domain.BatchItemApplied:
			batch.Successful++
		case domain.BatchItemFailed:
			batch.Failed++
		default:
			batch.Skipped++
		}
	}
	batch.Success = batch.Successful > 0

	logger.WithFields(logrus.Fields{
		"successful": batch.Successful,
		"failed":     batch.Failed,
		"skipped":    batch.Skipped,
	}).Info("adjustments: batch finished")

	return batch, nil
}

func (s *Service) applyItem(ctx context.Context, index int, item *domain.BudgetAdjustmentRequest) (itemResult domain.BatchItemResult) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"adset_id": item.AdsetID,
				"batch_id": item.BatchID,
				"panic":    r,
			}).Error("adjustments: panic applying batch item")

			itemResult = domain.BatchItemResult{
				Index:   index,
				AdsetID: item.AdsetID,
				Status:  domain.BatchItemFailed,
				Reason:  fmt.Sprintf("erro interno: %v", r),
			}
		}
	}()

	result, err := s.Apply(ctx, item)

	itemResult = domain.BatchItemResult{
		Index:   index,
		AdsetID: item.AdsetID,
		Result:  result,
	}

	switch {
	case err == nil:
		itemResult.Status = domain.BatchItemApplied
	case IsGuardrailBlocked(err):
		itemResult.Status = domain.BatchItemSkipped
		if result != nil && result.ValidationResult != nil {
			itemResult.Reason = result.ValidationResult.RejectionCode
		}
	default:
		itemResult.Status = domain.BatchItemFailed
		itemResult.Reason = err.Error()
	}

	return itemResult
}

func skippedItem(index int, item *domain.BudgetAdjustmentRequest, reason string, result *domain.BudgetAdjustmentResult) domain.BatchItemResult {
	return domain.BatchItemResult{
		Index:   index,
		AdsetID: item.AdsetID,
		Status:  domain.BatchItemSkipped,
		Reason:  reason,
		Result:  result,
	}
}
