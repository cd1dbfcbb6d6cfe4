package report

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type attachment struct {
	*bytes.Reader
}

func (attachment) Close() error { return nil }

type stubFiles struct{}

func (stubFiles) UploadAttendancePhoto(ctx context.Context, employeeID string, at time.Time, kind string, file io.Reader, filename string) (string, error) {
	return "", nil
}

func (stubFiles) UploadReportAttachment(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error) {
	return "reports/" + employeeID + "/" + filename, nil
}

func (stubFiles) DeleteFile(ctx context.Context, path string) error { return nil }

func (stubFiles) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return "http://files.test/" + path, nil
}

func (stubFiles) Open(ctx context.Context, path string, viewer file.Viewer) (io.ReadCloser, string, error) {
	return nil, "", storage.ErrNotFound
}

func newReports(t *testing.T) (*ReportServiceImpl, *time.Time) {
	t.Helper()
	store := memory.NewStore()
	_, err := store.Roster().Save(context.Background(), roster.Snapshot{}, roster.NewSnapshot(
		[]employee.Employee{
			{ID: "a", FullName: "Ani", DepartmentID: "field"},
			{ID: "c", FullName: "Citra", DepartmentID: "office"},
		},
		[]department.Department{{ID: "field", Name: "Field"}, {ID: "office", Name: "Office"}},
		0,
	))
	require.NoError(t, err)

	svc := NewReportService(store.Reports(), store.Employees(), stubFiles{}).(*ReportServiceImpl)
	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }
	return svc, &clock
}

func TestSubmit_Kinds(t *testing.T) {
	ctx := context.Background()
	svc, _ := newReports(t)

	text, err := svc.Submit(ctx, report.SubmitReportRequest{EmployeeID: "a", Kind: report.KindText, Content: "  fence repaired  "})
	require.NoError(t, err)
	assert.Equal(t, "fence repaired", text.Content)
	assert.Equal(t, "field", text.DepartmentID)
	assert.Equal(t, "Ani", text.EmployeeName)

	_, err = svc.Submit(ctx, report.SubmitReportRequest{EmployeeID: "a", Kind: report.KindLink, Content: "see site", Link: "not a url"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "link")

	file, err := svc.Submit(ctx, report.SubmitReportRequest{
		EmployeeID: "c",
		Kind:       report.KindFile,
		File:       attachment{bytes.NewReader([]byte("%PDF"))},
		FileHeader: &multipart.FileHeader{Filename: "site.pdf", Size: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, "site.pdf", file.Content)
	require.NotNil(t, file.AttachmentURL)
	assert.Equal(t, "http://files.test/reports/c/site.pdf", *file.AttachmentURL)

	_, err = svc.Submit(ctx, report.SubmitReportRequest{EmployeeID: "ghost", Kind: report.KindText, Content: "x"})
	assert.ErrorIs(t, err, employee.ErrUnknownEmployee)
}

func TestSubmit_LinkKeepsTextAndURL(t *testing.T) {
	ctx := context.Background()
	svc, _ := newReports(t)

	got, err := svc.Submit(ctx, report.SubmitReportRequest{
		EmployeeID: "a",
		Kind:       report.KindLink,
		Content:    "  drone footage of block C  ",
		Link:       " https://drive.example.com/v/123 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "drone footage of block C", got.Content)
	require.NotNil(t, got.AttachmentURL)
	assert.Equal(t, "https://drive.example.com/v/123", *got.AttachmentURL)

	list, err := svc.ListActive(ctx, "field")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "drone footage of block C", list[0].Content)
	require.NotNil(t, list[0].AttachmentURL)
	assert.Equal(t, "https://drive.example.com/v/123", *list[0].AttachmentURL)
}

func TestListActive_HidesExpired(t *testing.T) {
	ctx := context.Background()
	svc, clock := newReports(t)

	_, err := svc.Submit(ctx, report.SubmitReportRequest{EmployeeID: "a", Kind: report.KindText, Content: "first"})
	require.NoError(t, err)
	*clock = clock.Add(20 * 24 * time.Hour)
	_, err = svc.Submit(ctx, report.SubmitReportRequest{EmployeeID: "c", Kind: report.KindLink, Content: "photo of the gate", Link: "https://example.com/photo"})
	require.NoError(t, err)

	list, err := svc.ListActive(ctx, report.AllDepartments)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "photo of the gate", list[0].Content)

	office, err := svc.ListActive(ctx, "office")
	require.NoError(t, err)
	assert.Len(t, office, 1)

	*clock = clock.Add(11 * 24 * time.Hour)
	list, err = svc.ListActive(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c", list[0].EmployeeID)
}
