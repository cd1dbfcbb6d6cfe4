package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// Submit implements ReportHandler. It takes a multipart form with "kind",
// "content", "link" for link reports and "file" for file reports.
func (h *reportHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(25 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	req := report.SubmitReportRequest{
		EmployeeID: claims.EmployeeID,
		Kind:       report.Kind(r.FormValue("kind")),
		Content:    r.FormValue("content"),
		Link:       r.FormValue("link"),
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	if file != nil {
		defer file.Close()
		req.File = file
		req.FileHeader = fileHeader
	}

	result, err := h.reportService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Report submitted", result)
}

// List implements ReportHandler. Department heads are limited to their own
// department whatever ?department= says.
func (h *reportHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	dept := r.URL.Query().Get("department")
	if claims.Role == employee.RoleDeptHead {
		dept = claims.DepartmentID
	}

	reports, err := h.reportService.ListActive(r.Context(), dept)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, reports)
}
