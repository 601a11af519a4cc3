package api

import (
	"github.com/mherrada/veridoc/internal/deletions"
	"github.com/mherrada/veridoc/internal/documents"
)

// Domain holds all domain systems that comprise the service.
type Domain struct {
	Documents documents.System
	Deletions deletions.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	deletionsSystem, err := deletions.New(runtime.Database, runtime.Logger)
	if err != nil {
		return nil, err
	}

	repo, err := documents.NewRepository(
		runtime.Database,
		runtime.Pagination,
		runtime.Logger,
	)
	if err != nil {
		return nil, err
	}

	docsSystem := documents.New(
		repo,
		runtime.Storage,
		deletionsSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Documents: docsSystem,
		Deletions: deletionsSystem,
	}, nil
}
