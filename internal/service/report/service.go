package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/service/file"
	"github.com/google/uuid"
)

const attachmentURLExpiry = time.Hour

type ReportServiceImpl struct {
	reportRepo  report.Repository
	employees   employee.Reader
	fileService file.FileService
	now         func() time.Time
}

func NewReportService(reportRepo report.Repository, employees employee.Reader, fileService file.FileService) report.ReportService {
	return &ReportServiceImpl{
		reportRepo:  reportRepo,
		employees:   employees,
		fileService: fileService,
		now:         time.Now,
	}
}

// Submit implements report.ReportService.
func (s *ReportServiceImpl) Submit(ctx context.Context, req report.SubmitReportRequest) (report.ReportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.ReportResponse{}, err
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return report.ReportResponse{}, err
	}

	r := report.Report{
		ID:           uuid.Must(uuid.NewV7()).String(),
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		DepartmentID: emp.DepartmentID,
		Content:      strings.TrimSpace(req.Content),
		Kind:         req.Kind,
		CreatedAt:    s.now(),
	}

	switch req.Kind {
	case report.KindLink:
		link := strings.TrimSpace(req.Link)
		r.AttachmentRef = &link
	case report.KindFile:
		path, err := s.fileService.UploadReportAttachment(ctx, emp.ID, req.File, req.FileHeader.Filename)
		if err != nil {
			return report.ReportResponse{}, fmt.Errorf("failed to upload attachment: %w", err)
		}
		r.AttachmentRef = &path
		if r.Content == "" {
			r.Content = req.FileHeader.Filename
		}
	}

	saved, err := s.reportRepo.Create(ctx, r)
	if err != nil {
		if r.Kind == report.KindFile {
			if delErr := s.fileService.DeleteFile(context.WithoutCancel(ctx), *r.AttachmentRef); delErr != nil {
				slog.Warn("failed to delete orphaned report attachment", "path", *r.AttachmentRef, "error", delErr)
			}
		}
		return report.ReportResponse{}, fmt.Errorf("failed to create report: %w", err)
	}

	slog.Info("report submitted", "report_id", saved.ID, "employee_id", saved.EmployeeID, "kind", saved.Kind)
	return s.toResponse(ctx, saved), nil
}

// ListActive implements report.ReportService.
func (s *ReportServiceImpl) ListActive(ctx context.Context, department string) ([]report.ReportResponse, error) {
	now := s.now()
	reports, err := s.reportRepo.ListCreatedSince(ctx, now.Add(-report.RetentionPeriod))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	active := ActiveReports(reports, now, department)
	out := make([]report.ReportResponse, 0, len(active))
	for _, r := range active {
		out = append(out, s.toResponse(ctx, r))
	}
	return out, nil
}

func (s *ReportServiceImpl) toResponse(ctx context.Context, r report.Report) report.ReportResponse {
	resp := report.ReportResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		DepartmentID: r.DepartmentID,
		Content:      r.Content,
		Kind:         string(r.Kind),
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
	switch {
	case r.AttachmentRef == nil:
	case r.Kind == report.KindLink:
		link := *r.AttachmentRef
		resp.AttachmentURL = &link
	default:
		url, err := s.fileService.GetFileURL(ctx, *r.AttachmentRef, attachmentURLExpiry)
		if err != nil {
			slog.Warn("failed to resolve attachment url", "report_id", r.ID, "error", err)
		} else {
			resp.AttachmentURL = &url
		}
	}
	return resp
}
