package admin

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/mherrada/veridoc/internal/deletions"
	"github.com/mherrada/veridoc/internal/documents"
	"github.com/mherrada/veridoc/pkg/formatting"
	"github.com/mherrada/veridoc/pkg/pagination"
)

// Flash messages shown after admin form actions.
const (
	MsgDeleted           = "Registro eliminado correctamente"
	MsgAllFieldsRequired = "Todos los campos son obligatorios"
	MsgUploadOK          = "PDF subido y registrado correctamente"
)

type registroRow struct {
	documents.Document
	Size string
}

type registrosData struct {
	Rows       []registroRow
	Total      int
	Page       int
	TotalPages int
	Search     string
	Prev       int
	Next       int
}

type borradosData struct {
	Entries []deletions.Entry
}

type qrData struct {
	URL string
}

// Registros renders the paginated document listing.
func (h *Handler) Registros(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.docs.List(r.Context(), page)
	if err != nil {
		h.logger.Error("list documents failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rows := make([]registroRow, 0, len(result.Data))
	for _, doc := range result.Data {
		rows = append(rows, registroRow{
			Document: doc,
			Size:     formatting.FormatBytes(doc.SizeBytes, 1),
		})
	}

	data := registrosData{
		Rows:       rows,
		Total:      result.Total,
		Page:       result.Page,
		TotalPages: result.TotalPages,
		Prev:       result.Page - 1,
		Next:       result.Page + 1,
	}
	if page.Search != nil {
		data.Search = *page.Search
	}

	h.render(w, r, "registros.html", "Registros", data)
}

// Eliminar deletes one record and its stored file, then returns to the listing.
// The file key path segment is kept for URL compatibility; deletion resolves
// the key from the record itself.
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.docs.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete failed", "id", id, "error", err)
		h.auth.Flash(w, r, errorMessage(err))
		http.Redirect(w, r, "/admin/registros", http.StatusFound)
		return
	}

	h.auth.Flash(w, r, MsgDeleted)
	http.Redirect(w, r, "/admin/registros", http.StatusFound)
}

// SubirForm renders the manual upload form.
func (h *Handler) SubirForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "subir_pdf.html", "Subir PDF", nil)
}

// SubirPDF handles the manual upload form submission.
func (h *Handler) SubirPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.auth.Flash(w, r, documents.MsgFileTooLarge)
		http.Redirect(w, r, "/admin/subir", http.StatusFound)
		return
	}

	file, _, err := r.FormFile("archivo")
	if err != nil {
		h.auth.Flash(w, r, MsgAllFieldsRequired)
		http.Redirect(w, r, "/admin/subir", http.StatusFound)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("upload read failed", "error", err)
		h.auth.Flash(w, r, documents.MsgInternalError)
		http.Redirect(w, r, "/admin/subir", http.StatusFound)
		return
	}

	cmd := documents.UploadCommand{
		Data:         data,
		VerifierCode: r.FormValue("codigoVerificador"),
		Holder:       r.FormValue("documento"),
		ValidUntil:   r.FormValue("fechaVigencia"),
	}

	if _, err := h.docs.Upload(r.Context(), cmd); err != nil {
		if errors.Is(err, documents.ErrMissingFields) {
			h.auth.Flash(w, r, MsgAllFieldsRequired)
		} else {
			h.logger.Error("upload failed", "error", err)
			h.auth.Flash(w, r, errorMessage(err))
		}
		http.Redirect(w, r, "/admin/subir", http.StatusFound)
		return
	}

	h.auth.Flash(w, r, MsgUploadOK)
	http.Redirect(w, r, "/admin/registros", http.StatusFound)
}

// Borrados renders the recent deletion history.
func (h *Handler) Borrados(w http.ResponseWriter, r *http.Request) {
	entries, err := h.deletions.ListRecent(r.Context(), deletions.DefaultListLimit)
	if err != nil {
		h.logger.Error("list deletions failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.render(w, r, "borrados.html", "Borrados", borradosData{Entries: entries})
}

// GenerarQR renders the QR generation page.
func (h *Handler) GenerarQR(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "generar_qr.html", "Generar QR", qrData{URL: r.URL.Query().Get("url")})
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, documents.ErrInvalidDate):
		return documents.MsgInvalidDate
	case errors.Is(err, documents.ErrInvalidFile):
		return documents.MsgInvalidFile
	case errors.Is(err, documents.ErrDuplicate):
		return documents.MsgDuplicateCode
	case errors.Is(err, documents.ErrFileTooLarge):
		return documents.MsgFileTooLarge
	case errors.Is(err, documents.ErrMissingFields):
		return MsgAllFieldsRequired
	default:
		return documents.MsgInternalError
	}
}
