package handler

import (
	"net/http"

	"github.com/justinas/alice"
	"github.com/vfg2006/goal-pacing-api/internal/api/handler/router"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/adjusting"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/auditing"
	"github.com/vfg2006/goal-pacing-api/internal/usecases/pacing"
	"github.com/vfg2006/goal-pacing-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func BudgetAdjustments(service adjusting.AdjustmentService, stats auditing.StatsService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/budget-adjustments/apply",
			Method:      http.MethodPost,
			Handler:     ApplyBudgetAdjustment(service),
			Middlewares: []alice.Constructor{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/budget-adjustments/batch",
			Method:      http.MethodPost,
			Handler:     ApplyBudgetAdjustmentBatch(service),
			Middlewares: []alice.Constructor{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/budget-adjustments/stats",
			Method:      http.MethodGet,
			Handler:     GetBudgetAdjustmentStats(stats),
			Middlewares: []alice.Constructor{middleware.AllRoles()},
		},
	}
}

func Goals(service pacing.GoalTracker) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/goals/:entity_id",
			Method:      http.MethodGet,
			Handler:     GetGoal(service),
			Middlewares: []alice.Constructor{middleware.AllRoles()},
		},
		{
			Path:        "/v1/goals/:entity_id",
			Method:      http.MethodPut,
			Handler:     UpsertGoal(service),
			Middlewares: []alice.Constructor{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/goals/:entity_id",
			Method:      http.MethodDelete,
			Handler:     DeleteGoal(service),
			Middlewares: []alice.Constructor{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/goals/:entity_id/progress",
			Method:      http.MethodGet,
			Handler:     GetGoalProgress(service),
			Middlewares: []alice.Constructor{middleware.AllRoles()},
		},
		{
			Path:        "/v1/goals/:entity_id/alerts",
			Method:      http.MethodGet,
			Handler:     GetGoalAlerts(service),
			Middlewares: []alice.Constructor{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []alice.Constructor{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []alice.Constructor{middleware.AdminOrSupervisor()},
		},
	}
}
