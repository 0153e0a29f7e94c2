package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dariosuarez/softmart-backend/api/middleware"
	"github.com/dariosuarez/softmart-backend/api/responses"
	"github.com/dariosuarez/softmart-backend/internal/licenses"
	pkgerrors "github.com/dariosuarez/softmart-backend/pkg/errors"
	"github.com/dariosuarez/softmart-backend/pkg/logger"
)

// LicenseList returns the license keys issued to the authenticated user.
func LicenseList(svc *licenses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "license service unavailable"))
			return
		}

		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing"))
			return
		}

		keys, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, keys)
	}
}
