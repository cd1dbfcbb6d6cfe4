package http

import (
	"io"
	"log/slog"
	"net/http"
	"slices"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/service/file"
	"github.com/go-chi/chi/v5"
)

type FileHandler interface {
	Download(w http.ResponseWriter, r *http.Request)
}

type fileHandlerImpl struct {
	fileService file.FileService
}

func NewFileHandler(fileService file.FileService) FileHandler {
	return &fileHandlerImpl{fileService: fileService}
}

// Download implements FileHandler. Streams the file at the wildcard key to
// its owner or a lead.
func (h *fileHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	viewer := file.Viewer{
		EmployeeID: claims.EmployeeID,
		Lead:       slices.Contains(middleware.LeadRoles, claims.Role),
	}
	rc, contentType, err := h.fileService.Open(r.Context(), chi.URLParam(r, "*"), viewer)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("Failed to stream file", "error", err)
	}
}
