package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/identity"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/response"
)

type IdentityHandler interface {
	MyQRCode(w http.ResponseWriter, r *http.Request)
	Scan(w http.ResponseWriter, r *http.Request)
}

type identityHandlerImpl struct {
	identityService identity.Service
}

func NewIdentityHandler(identityService identity.Service) IdentityHandler {
	return &identityHandlerImpl{identityService: identityService}
}

// MyQRCode implements IdentityHandler. Responds with a PNG.
func (h *identityHandlerImpl) MyQRCode(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	png, err := h.identityService.QRCode(r.Context(), claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=300")
	if _, err := w.Write(png); err != nil {
		slog.Warn("Failed to write QR code", "error", err)
	}
}

// Scan implements IdentityHandler.
func (h *identityHandlerImpl) Scan(w http.ResponseWriter, r *http.Request) {
	var req identity.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	card, err := h.identityService.Scan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, card)
}
