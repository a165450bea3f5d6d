package controllers

import (
	"context"
	"net/http"

	"github.com/xdieuxd/BOOKNEST-ETL/api/responses"
	"github.com/xdieuxd/BOOKNEST-ETL/api/validators"
	"github.com/xdieuxd/BOOKNEST-ETL/internal/promote"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/enums"
	pkgerrors "github.com/xdieuxd/BOOKNEST-ETL/pkg/errors"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/logger"
)

// PromotionService is the promotion surface the trigger endpoint uses.
type PromotionService interface {
	Promote(ctx context.Context, entity enums.EntityType) (promote.Result, error)
	PromoteAll(ctx context.Context) (map[enums.EntityType]promote.Result, error)
}

type promoteRequest struct {
	Entity string `json:"entity"`
}

// TriggerPromotion runs a promotion pass on demand. An empty entity
// promotes everything in dependency order.
func TriggerPromotion(svc PromotionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req promoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if req.Entity == "" {
			results, err := svc.PromoteAll(ctx)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promotion pass failed"))
				return
			}
			responses.WriteSuccess(w, map[string]any{"results": results})
			return
		}

		entity, err := enums.ParseEntityType(req.Entity)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown entity").
				WithDetails(map[string]any{"entity": req.Entity}))
			return
		}
		result, err := svc.Promote(ctx, entity)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promotion pass failed"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"results": map[enums.EntityType]promote.Result{entity: result}})
	}
}
