package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/goal-pacing-api/internal/api/handler/router"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/pacing"
	pacingmocks "github.com/vfg2006/goal-pacing-api/internal/usecases/pacing/mocks"
	"github.com/vfg2006/goal-pacing-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func goalsRouter(t *testing.T, claims *domain.Claims) (http.Handler, *pacingmocks.MockGoalTracker) {
	ctrl := gomock.NewController(t)
	tracker := pacingmocks.NewMockGoalTracker(ctrl)

	r := router.New(router.WithRoutes(Goals(tracker)...))
	return withClaims(claims, r), tracker
}

func TestGoalsRoutes(t *testing.T) {
	tests := []struct {
		name           string
		claims         *domain.Claims
		method         string
		target         string
		body           string
		setup          func(tracker *pacingmocks.MockGoalTracker)
		expectedStatus int
		validate       func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:   "Consulta meta existente",
			claims: client(),
			method: http.MethodGet,
			target: "/v1/goals/adset-1",
			setup: func(tracker *pacingmocks.MockGoalTracker) {
				tracker.EXPECT().GetGoal(gomock.Any(), "adset-1").Return(&domain.Goal{EntityID: "adset-1", VolumeContracted: 100}, nil)
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var goal domain.Goal
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &goal))
				assert.Equal(t, 100, goal.VolumeContracted)
			},
		},
		{
			name:   "Meta inexistente responde 404",
			claims: client(),
			method: http.MethodGet,
			target: "/v1/goals/adset-9",
			setup: func(tracker *pacingmocks.MockGoalTracker) {
				tracker.EXPECT().GetGoal(gomock.Any(), "adset-9").
					Return(nil, pacing.NewGoalError(pacing.ErrGoalNotFound, apiErrors.ErrGoalNotFound, "adset-9", "Meta não encontrada"))
			},
			expectedStatus: http.StatusNotFound,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, apiErrors.ErrGoalNotFound, decodeAPIError(t, rec).Code)
			},
		},
		{
			name:   "Upsert usa o entity_id da URL",
			claims: supervisor(),
			method: http.MethodPut,
			target: "/v1/goals/adset-1",
			body:   `{"budget_total":2000,"cpl_target":50,"volume_contracted":100,"contract_start_date":"2025-03-10","contract_end_date":"2025-03-30"}`,
			setup: func(tracker *pacingmocks.MockGoalTracker) {
				tracker.EXPECT().UpsertGoal(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, request *domain.UpsertGoalRequest) (*domain.Goal, error) {
						assert.Equal(t, "adset-1", request.EntityID)
						assert.Nil(t, request.VolumeCaptured)
						return &domain.Goal{EntityID: request.EntityID}, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Upsert com meta inválida",
			claims: supervisor(),
			method: http.MethodPut,
			target: "/v1/goals/adset-1",
			body:   `{"budget_total":2000}`,
			setup: func(tracker *pacingmocks.MockGoalTracker) {
				tracker.EXPECT().UpsertGoal(gomock.Any(), gomock.Any()).
					Return(nil, pacing.NewGoalError(pacing.ErrInvalidGoal, apiErrors.ErrMissingRequiredData, "adset-1", "cpl_target é obrigatório"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Cliente não altera metas",
			claims:         client(),
			method:         http.MethodPut,
			target:         "/v1/goals/adset-1",
			body:           `{}`,
			setup:          func(tracker *pacingmocks.MockGoalTracker) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "Remove meta",
			claims: supervisor(),
			method: http.MethodDelete,
			target: "/v1/goals/adset-1",
			setup: func(tracker *pacingmocks.MockGoalTracker) {
				tracker.EXPECT().DeleteGoal(gomock.Any(), "adset-1").Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:   "Progresso com histórico",
			claims: client(),
			method: http.MethodGet,
			target: "/v1/goals/adset-1/progress?history_days=7",
			setup: func(tracker *pacingmocks.MockGoalTracker) {
				tracker.EXPECT().GetProgress(gomock.Any(), "adset-1", 7).
					Return(&domain.GoalProgress{EntityID: "adset-1", Current: &domain.PaceEvaluation{Status: domain.PaceStatusOnTrack}}, nil)
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Contains(t, rec.Body.String(), `"no_prazo"`)
			},
		},
		{
			name:           "history_days negativo",
			claims:         client(),
			method:         http.MethodGet,
			target:         "/v1/goals/adset-1/progress?history_days=-1",
			setup:          func(tracker *pacingmocks.MockGoalTracker) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Alertas sem limite informado",
			claims: client(),
			method: http.MethodGet,
			target: "/v1/goals/adset-1/alerts",
			setup: func(tracker *pacingmocks.MockGoalTracker) {
				tracker.EXPECT().GetAlerts(gomock.Any(), "adset-1", 0).
					Return([]*domain.Alert{{ID: "alert-1", EntityID: "adset-1", Type: domain.AlertTypePaceBehind}}, nil)
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var body struct {
					EntityID string          `json:"entity_id"`
					Alerts   []*domain.Alert `json:"alerts"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "adset-1", body.EntityID)
				assert.Len(t, body.Alerts, 1)
			},
		},
		{
			name:   "Erro inesperado responde 500",
			claims: client(),
			method: http.MethodGet,
			target: "/v1/goals/adset-1/alerts?limit=5",
			setup: func(tracker *pacingmocks.MockGoalTracker) {
				tracker.EXPECT().GetAlerts(gomock.Any(), "adset-1", 5).Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, tracker := goalsRouter(t, tt.claims)
			tt.setup(tracker)

			rec := serve(t, handler, tt.method, tt.target, tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.validate != nil {
				tt.validate(t, rec)
			}
		})
	}
}
