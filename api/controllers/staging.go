package controllers

import (
	"net/http"

	"github.com/xdieuxd/BOOKNEST-ETL/api/responses"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/staging"
	pkgerrors "github.com/xdieuxd/BOOKNEST-ETL/pkg/errors"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/logger"
)

// StagingSummary reports per-entity checkpoint counts.
func StagingSummary(staged staging.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		summary, err := staged.Summary(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "staging summary unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"summary": summary})
	}
}
