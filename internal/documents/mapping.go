package documents

import (
	"github.com/mherrada/veridoc/pkg/query"
	"github.com/mherrada/veridoc/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("codigo_verificador", "VerifierCode").
	Project("documento", "Holder").
	Project("fecha_vigencia", "ValidUntil").
	Project("archivo_pdf", "FileKey").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("uploaded_at", "UploadedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.VerifierCode,
		&d.Holder,
		&d.ValidUntil,
		&d.FileKey,
		&d.SizeBytes,
		&d.PageCount,
		&d.UploadedAt,
	)
	return d, err
}
