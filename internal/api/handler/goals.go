package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/pacing"
	"github.com/vfg2006/goal-pacing-api/pkg/apiErrors"
	"github.com/vfg2006/goal-pacing-api/pkg/log"
)

func GetGoal(service pacing.GoalTracker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entityID := httprouter.ParamsFromContext(r.Context()).ByName("entity_id")

		goal, err := service.GetGoal(r.Context(), entityID)
		if err != nil {
			writeGoalError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, goal)
	})
}

func UpsertGoal(service pacing.GoalTracker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request domain.UpsertGoalRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		// O entity_id da URL sempre prevalece
		request.EntityID = httprouter.ParamsFromContext(r.Context()).ByName("entity_id")

		goal, err := service.UpsertGoal(r.Context(), &request)
		if err != nil {
			writeGoalError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, goal)
	})
}

func DeleteGoal(service pacing.GoalTracker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entityID := httprouter.ParamsFromContext(r.Context()).ByName("entity_id")

		if err := service.DeleteGoal(r.Context(), entityID); err != nil {
			writeGoalError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

func GetGoalProgress(service pacing.GoalTracker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entityID := httprouter.ParamsFromContext(r.Context()).ByName("entity_id")

		historyDays, ok := positiveIntParam(w, r, "history_days")
		if !ok {
			return
		}

		progress, err := service.GetProgress(r.Context(), entityID, historyDays)
		if err != nil {
			writeGoalError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, progress)
	})
}

func GetGoalAlerts(service pacing.GoalTracker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entityID := httprouter.ParamsFromContext(r.Context()).ByName("entity_id")

		limit, ok := positiveIntParam(w, r, "limit")
		if !ok {
			return
		}

		alerts, err := service.GetAlerts(r.Context(), entityID, limit)
		if err != nil {
			writeGoalError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"entity_id": entityID,
			"alerts":    alerts,
		})
	})
}

// positiveIntParam devolve 0 quando o parâmetro não foi informado
func positiveIntParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, name+" deve ser um inteiro positivo", nil)
		return 0, false
	}

	return value, true
}

func writeGoalError(w http.ResponseWriter, r *http.Request, err error) {
	var goalErr *pacing.GoalError
	if errors.As(err, &goalErr) {
		apiErrors.WriteError(w, goalErr.Code, goalErr.Details, nil)
		return
	}

	log.ForContext(r.Context()).WithError(err).Error("goals: unexpected error")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao processar meta", nil)
}
