package api

import (
	"net/http"

	"github.com/fhuszti/media-pipeline-go/internal/model"
	"github.com/fhuszti/media-pipeline-go/internal/port"
	"github.com/fhuszti/media-pipeline-go/internal/scheduler"
)

// StatusProvider exposes the scheduler loop snapshot.
type StatusProvider interface {
	Status() scheduler.Snapshot
}

type StatusResponse struct {
	Scheduler scheduler.Snapshot `json:"scheduler"`
	Pending   int                `json:"pending"`
	Errored   int                `json:"errored"`
}

// HealthzHandler reports process liveness.
func HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// StatusHandler reports the scheduler state plus queue depth for admin tooling.
func StatusHandler(sched StatusProvider, repo port.AssetRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pending, err := repo.CountByState(r.Context(), model.StatePending)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed counting pending assets", err)
			return
		}
		errored, err := repo.CountByState(r.Context(), model.StateError)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed counting errored assets", err)
			return
		}

		RespondJSON(w, http.StatusOK, StatusResponse{
			Scheduler: sched.Status(),
			Pending:   pending,
			Errored:   errored,
		})
	}
}
