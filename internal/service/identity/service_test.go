package identity

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/identity"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentity(t *testing.T) identity.Service {
	t.Helper()
	store := memory.NewStore()
	_, err := store.Roster().Save(context.Background(), roster.Snapshot{}, roster.NewSnapshot(
		[]employee.Employee{{ID: "emp-1", FullName: "Ani", PhoneNumber: "081234567890", DepartmentID: "field", Role: employee.RoleWorker}},
		[]department.Department{{ID: "field", Name: "Field"}},
		0,
	))
	require.NoError(t, err)
	return NewIdentityService(store.Employees())
}

func TestQRCode_RendersPNG(t *testing.T) {
	svc := newIdentity(t)

	data, err := svc.QRCode(context.Background(), "emp-1")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, qrSize, img.Bounds().Dx())

	_, err = svc.QRCode(context.Background(), "ghost")
	assert.ErrorIs(t, err, employee.ErrUnknownEmployee)
}

func TestScan(t *testing.T) {
	ctx := context.Background()
	svc := newIdentity(t)

	card, err := svc.Scan(ctx, identity.ScanRequest{Payload: `{"id":"emp-1","name":"Old Name","departmentId":"office"}`})
	require.NoError(t, err)
	assert.Equal(t, "Ani", card.FullName)
	assert.Equal(t, "field", card.DepartmentID)

	card, err = svc.Scan(ctx, identity.ScanRequest{Payload: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, "emp-1", card.EmployeeID)

	_, err = svc.Scan(ctx, identity.ScanRequest{Payload: "ghost"})
	assert.ErrorIs(t, err, employee.ErrUnknownEmployee)

	_, err = svc.Scan(ctx, identity.ScanRequest{Payload: "   "})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
