package api

import (
	"net/http"

	"github.com/JaimeStill/docket/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) []string {
	return routes.Register(
		mux,
		domain.Documents.Handler().Routes(),
		domain.Classifications.Handler().Routes(),
		domain.Numbering.Handler().Routes(),
		domain.Registers.Handler().Routes(),
	)
}
