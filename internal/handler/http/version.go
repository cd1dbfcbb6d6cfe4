package http

import (
	"net/http"

	goversion "github.com/caarlos0/go-version"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/response"
)

// NewVersionHandler reports the build the server was compiled from.
func NewVersionHandler(info goversion.Info) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, info)
	}
}
