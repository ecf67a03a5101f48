package api

import (
	"log/slog"

	"github.com/JaimeStill/docket/internal/classifications"
	"github.com/JaimeStill/docket/internal/config"
	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/internal/infrastructure"
	"github.com/JaimeStill/docket/internal/numbering"
	"github.com/JaimeStill/docket/internal/registers"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents       documents.System
	Classifications classifications.System
	Numbering       numbering.System
	Registers       registers.System
}

// NewDomain creates all domain systems over the shared infrastructure.
func NewDomain(cfg *config.Config, infra *infrastructure.Infrastructure, logger *slog.Logger) *Domain {
	db := infra.Database.Connection()
	pages := cfg.API.Pagination
	roles := cfg.Auth.NumberingRoles

	numberingSystem := numbering.New(db, logger, pages, cfg.Numbering.Options(roles))

	return &Domain{
		Documents:       documents.New(db, logger, pages),
		Classifications: classifications.New(db, logger, pages),
		Numbering:       numberingSystem,
		Registers:       registers.New(numberingSystem, infra.Storage, logger, roles),
	}
}
