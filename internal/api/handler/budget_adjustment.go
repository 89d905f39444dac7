package handler

import (
	"errors"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/adjusting"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/auditing"
	"github.com/vfg2006/goal-pacing-api/pkg/apiErrors"
	"github.com/vfg2006/goal-pacing-api/pkg/log"
	"github.com/vfg2006/goal-pacing-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ApplyBudgetAdjustment aplica um ajuste único. O corpo é sempre o resultado completo,
// inclusive em bloqueios e falhas da plataforma.
func ApplyBudgetAdjustment(service adjusting.AdjustmentService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request domain.BudgetAdjustmentRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&request); err != nil {
			apiErrors.WriteFailure(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		request.RequestingUser = requestingUser(r)

		result, err := service.Apply(r.Context(), &request)
		if err != nil {
			status := http.StatusInternalServerError
			var adjErr *adjusting.AdjustmentError
			if errors.As(err, &adjErr) {
				status = apiErrors.StatusFor(adjErr.Code)
			}

			if result == nil {
				log.ForContext(r.Context()).WithError(err).Error("adjustments: apply returned no result")
				apiErrors.WriteFailure(w, apiErrors.ErrInternalServer, "Erro ao aplicar ajuste", nil)
				return
			}

			writeJSON(w, status, result)
			return
		}

		writeJSON(w, http.StatusOK, result)
	})
}

// ApplyBudgetAdjustmentBatch responde 200 se algum item foi aplicado e 207 se nenhum foi
// aplicado mas houve falhas. Lote só de itens ignorados responde 200 com success=false.
func ApplyBudgetAdjustmentBatch(service adjusting.AdjustmentService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request domain.BatchAdjustmentRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&request); err != nil {
			apiErrors.WriteFailure(w, apiErrors.ErrBatchMalformed, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		result, err := service.ApplyBatch(r.Context(), &request, requestingUser(r))
		if err != nil {
			var adjErr *adjusting.AdjustmentError
			if errors.As(err, &adjErr) {
				apiErrors.WriteFailure(w, adjErr.Code, adjErr.Details, nil)
				return
			}

			log.ForContext(r.Context()).WithError(err).Error("adjustments: batch failed")
			apiErrors.WriteFailure(w, apiErrors.ErrInternalServer, "Erro ao processar lote de ajustes", nil)
			return
		}

		writeJSON(w, batchStatus(result), result)
	})
}

func batchStatus(result *domain.BatchAdjustmentResult) int {
	if result.Successful == 0 && result.Failed > 0 {
		return http.StatusMultiStatus
	}
	return http.StatusOK
}

func GetBudgetAdjustmentStats(service auditing.StatsService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		filter := domain.AdjustmentStatsFilter{
			EntityID:   query.Get("adset_id"),
			CampaignID: query.Get("campaign_id"),
			GroupBy:    domain.TimelineGroup(query.Get("group_by")),
		}

		if raw := query.Get("period_hours"); raw != "" {
			hours, err := strconv.Atoi(raw)
			if err != nil || hours <= 0 {
				apiErrors.WriteFailure(w, apiErrors.ErrInvalidFormat, "period_hours deve ser um inteiro positivo", nil)
				return
			}
			filter.PeriodHours = hours
		}

		report, err := service.GetStats(r.Context(), filter)
		if err != nil {
			var statsErr *auditing.StatsError
			if errors.As(err, &statsErr) {
				apiErrors.WriteFailure(w, statsErr.Code, statsErr.Details, nil)
				return
			}

			log.ForContext(r.Context()).WithError(err).Error("stats: unexpected error")
			apiErrors.WriteFailure(w, apiErrors.ErrInternalServer, "Erro ao consultar estatísticas", nil)
			return
		}

		writeJSON(w, http.StatusOK, report)
	})
}

func requestingUser(r *http.Request) string {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return ""
	}
	return claims.Identity()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Warn("http: failed to encode response")
	}
}
