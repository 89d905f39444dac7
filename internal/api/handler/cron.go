package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/goal-pacing-api/internal/scheduler"
	"github.com/vfg2006/goal-pacing-api/pkg/apiErrors"
)

const CronJobTypeProgressSnapshot = "progress-snapshot"

// CronJobServices contém os serviços de cron que podem ser executados manualmente
type CronJobServices struct {
	ProgressSnapshotSyncService *scheduler.ProgressSnapshotSyncService
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")

		switch cronType {
		case CronJobTypeProgressSnapshot:
			if services.ProgressSnapshotSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de snapshot de progresso não disponível", nil)
				return
			}

			started := services.ProgressSnapshotSyncService.TriggerManualSync()
			logrus.WithFields(logrus.Fields{
				"type":    cronType,
				"started": started,
			}).Info("cron: manual run requested")

			message := "Cron job iniciada com sucesso"
			if !started {
				message = "Cron job já está em execução"
			}

			writeJSON(w, http.StatusAccepted, map[string]any{
				"message": message,
				"type":    cronType,
				"started": started,
			})

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: "+CronJobTypeProgressSnapshot, nil)
		}
	})
}

func GetCronStatus(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.ProgressSnapshotSyncService != nil {
			status[CronJobTypeProgressSnapshot] = services.ProgressSnapshotSyncService.GetStatus()
		}

		writeJSON(w, http.StatusOK, status)
	})
}
