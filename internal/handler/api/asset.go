package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/fhuszti/media-pipeline-go/internal/pipectx"
	"github.com/fhuszti/media-pipeline-go/internal/port"
)

// AssetHandler returns the full record of one asset, processing outcome
// included, for admin tooling chasing a stuck or errored file.
func AssetHandler(repo port.AssetRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pipectx.AssetIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		asset, err := repo.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				WriteError(w, http.StatusNotFound, "Asset not found", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not get asset details", err)
			return
		}

		RespondJSON(w, http.StatusOK, asset)
	}
}
