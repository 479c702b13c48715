package controllers

import (
	"net/http"

	"github.com/printflowhq/printflow-backend/api/responses"
	dashsvc "github.com/printflowhq/printflow-backend/internal/dashboard"
	"github.com/printflowhq/printflow-backend/pkg/logger"
)

func GetDashboard(svc dashsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := svc.GetOverview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}
