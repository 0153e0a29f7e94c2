package controllers

import (
	"net/http"

	"github.com/dariosuarez/softmart-backend/api/responses"
	"github.com/dariosuarez/softmart-backend/internal/analytics"
	pkgerrors "github.com/dariosuarez/softmart-backend/pkg/errors"
	"github.com/dariosuarez/softmart-backend/pkg/logger"
)

// AnalyticsSummary returns the admin dashboard rollup.
func AnalyticsSummary(svc *analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		summary, err := svc.Summarize(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
