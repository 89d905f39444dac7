package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/goal-pacing-api/internal/api/handler/router"
	"github.com/vfg2006/goal-pacing-api/internal/domain"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/adjusting"
	adjustingmocks "github.com/vfg2006/goal-pacing-api/internal/usecases/adjusting/mocks"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/auditing"
	auditingmocks "github.com/vfg2006/goal-pacing-api/internal/usecases/auditing/mocks"
	"github.com/vfg2006/goal-pacing-api/pkg/apiErrors"
	"github.com/vfg2006/goal-pacing-api/pkg/middleware"
	"go.uber.org/mock/gomock"
)

// withClaims simula o AuthMiddleware gravando as claims no contexto
func withClaims(claims *domain.Claims, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims != nil {
			r = r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, claims))
		}
		next.ServeHTTP(w, r)
	})
}

func supervisor() *domain.Claims {
	return &domain.Claims{UserID: 7, UserEmail: "ana@agencia.com", UserActive: true, UserRoleID: middleware.RoleSupervisor}
}

func client() *domain.Claims {
	return &domain.Claims{UserID: 9, UserEmail: "cliente@loja.com", UserActive: true, UserRoleID: middleware.RoleClient}
}

func serve(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	t.Helper()

	var apiErr apiErrors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.FailureResponse {
	t.Helper()

	failure := apiErrors.FailureResponse{Success: true}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failure))
	return failure
}

func adjustmentRouter(t *testing.T, claims *domain.Claims) (http.Handler, *adjustingmocks.MockAdjustmentService, *auditingmocks.MockStatsService) {
	ctrl := gomock.NewController(t)
	service := adjustingmocks.NewMockAdjustmentService(ctrl)
	stats := auditingmocks.NewMockStatsService(ctrl)

	r := router.New(router.WithRoutes(BudgetAdjustments(service, stats)...))
	return withClaims(claims, r), service, stats
}

func TestApplyBudgetAdjustment(t *testing.T) {
	tests := []struct {
		name           string
		claims         *domain.Claims
		body           string
		setup          func(service *adjustingmocks.MockAdjustmentService)
		expectedStatus int
		validate       func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:   "Ajuste aplicado",
			claims: supervisor(),
			body:   `{"adset_id":"adset-1","new_budget":110,"budget_type":"daily","reason":"ritmo atrasado"}`,
			setup: func(service *adjustingmocks.MockAdjustmentService) {
				service.EXPECT().Apply(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, request *domain.BudgetAdjustmentRequest) (*domain.BudgetAdjustmentResult, error) {
						assert.Equal(t, "ana@agencia.com", request.RequestingUser)
						assert.Equal(t, 110.0, *request.NewBudget)
						return &domain.BudgetAdjustmentResult{Success: true}, nil
					})
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var result domain.BudgetAdjustmentResult
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
				assert.True(t, result.Success)
			},
		},
		{
			name:   "Cooldown responde 429 com o resultado completo",
			claims: supervisor(),
			body:   `{"adset_id":"adset-1","new_budget":110,"budget_type":"daily","reason":"ritmo atrasado"}`,
			setup: func(service *adjustingmocks.MockAdjustmentService) {
				service.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(
					&domain.BudgetAdjustmentResult{
						Success:          false,
						ValidationResult: &domain.ValidationResult{CanAdjust: false, RejectionCode: domain.RejectionCooldown},
						Error:            &domain.AdjustmentErrorPayload{Code: apiErrors.ErrCooldownActive},
					},
					adjusting.NewAdjustmentError(adjusting.ErrCooldownActive, apiErrors.ErrCooldownActive, "adset-1", "cooldown"),
				)
			},
			expectedStatus: http.StatusTooManyRequests,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var result domain.BudgetAdjustmentResult
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
				assert.False(t, result.Success)
				assert.Equal(t, domain.RejectionCooldown, result.ValidationResult.RejectionCode)
			},
		},
		{
			name:   "Limite excedido responde 429 com capped_budget",
			claims: supervisor(),
			body:   `{"adset_id":"adset-1","new_budget":130,"budget_type":"daily","reason":"ritmo atrasado"}`,
			setup: func(service *adjustingmocks.MockAdjustmentService) {
				capped := 120.0
				service.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(
					&domain.BudgetAdjustmentResult{
						ValidationResult: &domain.ValidationResult{RejectionCode: domain.RejectionCapExceeded, CappedBudget: &capped},
					},
					adjusting.NewAdjustmentError(adjusting.ErrCapExceeded, apiErrors.ErrCapExceeded, "adset-1", "cap"),
				)
			},
			expectedStatus: http.StatusTooManyRequests,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var result domain.BudgetAdjustmentResult
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
				assert.False(t, result.Success)
				require.NotNil(t, result.ValidationResult)
				assert.Equal(t, domain.RejectionCapExceeded, result.ValidationResult.RejectionCode)
				assert.Equal(t, 120.0, *result.ValidationResult.CappedBudget)
			},
		},
		{
			name:   "Falha da plataforma responde 502",
			claims: supervisor(),
			body:   `{"adset_id":"adset-1","new_budget":110,"budget_type":"daily","reason":"ritmo atrasado"}`,
			setup: func(service *adjustingmocks.MockAdjustmentService) {
				service.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(
					&domain.BudgetAdjustmentResult{Error: &domain.AdjustmentErrorPayload{Code: apiErrors.ErrExternalService}},
					adjusting.NewAdjustmentError(adjusting.ErrPlatform, apiErrors.ErrExternalService, "adset-1", "platform"),
				)
			},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "Campo desconhecido no corpo",
			claims:         supervisor(),
			body:           `{"adset_id":"adset-1","new_budget":110,"budget_type":"daily","reason":"x","force":true}`,
			setup:          func(service *adjustingmocks.MockAdjustmentService) {},
			expectedStatus: http.StatusBadRequest,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				failure := decodeFailure(t, rec)
				assert.False(t, failure.Success)
				assert.Equal(t, apiErrors.ErrInvalidRequest, failure.Code)
			},
		},
		{
			name:           "Cliente não pode aplicar ajustes",
			claims:         client(),
			body:           `{"adset_id":"adset-1","new_budget":110,"budget_type":"daily","reason":"x"}`,
			setup:          func(service *adjustingmocks.MockAdjustmentService) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Sem autenticação",
			claims:         nil,
			body:           `{"adset_id":"adset-1","new_budget":110,"budget_type":"daily","reason":"x"}`,
			setup:          func(service *adjustingmocks.MockAdjustmentService) {},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service, _ := adjustmentRouter(t, tt.claims)
			tt.setup(service)

			rec := serve(t, handler, http.MethodPost, "/v1/budget-adjustments/apply", tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.validate != nil {
				tt.validate(t, rec)
			}
		})
	}
}

func TestApplyBudgetAdjustmentBatch(t *testing.T) {
	body := `{"adjustments":[{"adset_id":"adset-1","new_budget":110,"budget_type":"daily","reason":"x"}]}`

	tests := []struct {
		name           string
		body           string
		setup          func(service *adjustingmocks.MockAdjustmentService)
		expectedStatus int
		validate       func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "Algum item aplicado responde 200",
			body: body,
			setup: func(service *adjustingmocks.MockAdjustmentService) {
				service.EXPECT().ApplyBatch(gomock.Any(), gomock.Any(), "ana@agencia.com").
					Return(&domain.BatchAdjustmentResult{Success: true, TotalRequested: 3, Successful: 1, Failed: 1, Skipped: 1}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Nenhum aplicado e alguma falha responde 207",
			body: body,
			setup: func(service *adjustingmocks.MockAdjustmentService) {
				service.EXPECT().ApplyBatch(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&domain.BatchAdjustmentResult{TotalRequested: 2, Failed: 1, Skipped: 1}, nil)
			},
			expectedStatus: http.StatusMultiStatus,
		},
		{
			name: "Todos ignorados responde 200",
			body: body,
			setup: func(service *adjustingmocks.MockAdjustmentService) {
				service.EXPECT().ApplyBatch(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&domain.BatchAdjustmentResult{TotalRequested: 2, Skipped: 2}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Lote acima do limite",
			body: body,
			setup: func(service *adjustingmocks.MockAdjustmentService) {
				service.EXPECT().ApplyBatch(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, adjusting.NewAdjustmentError(adjusting.ErrInvalidBatch, apiErrors.ErrBatchMalformed, "", "o lote aceita no máximo 50 ajustes"))
			},
			expectedStatus: http.StatusBadRequest,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				failure := decodeFailure(t, rec)
				assert.False(t, failure.Success)
				assert.Equal(t, apiErrors.ErrBatchMalformed, failure.Code)
				assert.Equal(t, "o lote aceita no máximo 50 ajustes", failure.Message)
			},
		},
		{
			name:           "JSON inválido",
			body:           `{"adjustments":`,
			setup:          func(service *adjustingmocks.MockAdjustmentService) {},
			expectedStatus: http.StatusBadRequest,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.False(t, decodeFailure(t, rec).Success)
			},
		},
		{
			name: "Erro inesperado",
			body: body,
			setup: func(service *adjustingmocks.MockAdjustmentService) {
				service.EXPECT().ApplyBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service, _ := adjustmentRouter(t, supervisor())
			tt.setup(service)

			rec := serve(t, handler, http.MethodPost, "/v1/budget-adjustments/batch", tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.validate != nil {
				tt.validate(t, rec)
			}
		})
	}
}

func TestGetBudgetAdjustmentStats(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setup          func(stats *auditingmocks.MockStatsService)
		expectedStatus int
	}{
		{
			name:  "Filtro completo",
			query: "?adset_id=adset-1&period_hours=48&group_by=day",
			setup: func(stats *auditingmocks.MockStatsService) {
				stats.EXPECT().GetStats(gomock.Any(), domain.AdjustmentStatsFilter{
					EntityID:    "adset-1",
					PeriodHours: 48,
					GroupBy:     domain.TimelineGroupDay,
				}).Return(&domain.AdjustmentStatsReport{Success: true, Stats: &domain.AdjustmentStats{EntityID: "adset-1"}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "period_hours inválido",
			query:          "?adset_id=adset-1&period_hours=abc",
			setup:          func(stats *auditingmocks.MockStatsService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "Sem entidade",
			query: "",
			setup: func(stats *auditingmocks.MockStatsService) {
				stats.EXPECT().GetStats(gomock.Any(), gomock.Any()).
					Return(nil, &auditing.StatsError{Err: auditing.ErrInvalidFilter, Code: apiErrors.ErrMissingRequiredData, Details: "adset_id ou campaign_id é obrigatório"})
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "Falha no banco",
			query: "?campaign_id=campaign-1",
			setup: func(stats *auditingmocks.MockStatsService) {
				stats.EXPECT().GetStats(gomock.Any(), gomock.Any()).
					Return(nil, &auditing.StatsError{Err: auditing.ErrDatabaseOperation, Code: apiErrors.ErrDatabaseOperation})
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _, stats := adjustmentRouter(t, client())
			tt.setup(stats)

			rec := serve(t, handler, http.MethodGet, "/v1/budget-adjustments/stats"+tt.query, "")

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
