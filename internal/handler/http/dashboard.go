package http

import (
	"net/http"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	Overview(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// Overview implements DashboardHandler. ?date=YYYY-MM-DD, default today.
func (h *dashboardHandlerImpl) Overview(w http.ResponseWriter, r *http.Request) {
	var req dashboard.OverviewRequest
	if v := r.URL.Query().Get("date"); v != "" {
		req.Date = &v
	}

	result, err := h.dashboardService.Overview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Summary implements DashboardHandler.
func (h *dashboardHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.Summary(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
