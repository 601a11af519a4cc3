// Package documents implements the verification document domain.
// It provides types, data access, and business logic for document upload,
// validation against holder data, signed download links, and expiration
// cleanup.
package documents

import (
	"strings"
	"time"
)

// DateLayout is the canonical format for validity dates, stored as text so
// lexicographic comparison matches chronological order.
const DateLayout = "2006-01-02"

// Document represents a registered document with its metadata and blob
// storage reference. ValidUntil is the last day the document verifies.
type Document struct {
	ID           int64     `json:"id"`
	VerifierCode string    `json:"codigo_verificador"`
	Holder       string    `json:"documento"`
	ValidUntil   string    `json:"fecha_vigencia"`
	FileKey      string    `json:"archivo_pdf"`
	SizeBytes    int64     `json:"size_bytes"`
	PageCount    *int      `json:"page_count"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// Expired reports whether the document's validity ended strictly before the
// given date. A document expiring today still verifies.
func (d Document) Expired(today string) bool {
	return d.ValidUntil < today
}

// UploadCommand carries the data needed to upload and register a new document.
// Data holds the raw file bytes. PageCount is optional and extracted by the
// caller; nil values are stored as NULL.
type UploadCommand struct {
	Data         []byte
	VerifierCode string
	Holder       string
	ValidUntil   string
	PageCount    *int
}

// ValidationQuery carries the three fields a caller must present to verify
// a document. All three must match a stored record exactly.
type ValidationQuery struct {
	VerifierCode string
	Holder       string
	ValidUntil   string
}

// FileKey derives the blob storage key for a verifier code. The code is
// sanitized to a safe filename and suffixed with the PDF extension.
func FileKey(verifierCode string) string {
	return sanitizeCode(verifierCode) + ".pdf"
}

// NormalizeDate parses a validity date and returns it in canonical form.
func NormalizeDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.Format(DateLayout), nil
}

// Today returns the current date in canonical form.
func Today() string {
	return time.Now().Format(DateLayout)
}

func sanitizeCode(code string) string {
	var b strings.Builder
	for _, r := range code {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
