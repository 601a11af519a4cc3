package documents

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mherrada/veridoc/pkg/handlers"
	"github.com/mherrada/veridoc/pkg/routes"
)

// Response messages for the public verification API.
const (
	MsgMissingParams = "Parámetros faltantes"
	MsgInvalidData   = "Datos inválidos"
	MsgMissingFields = "Campos incompletos"
	MsgUploaded      = "PDF subido exitosamente"
	MsgInvalidDate   = "Fecha de vigencia inválida"
	MsgInvalidFile   = "Archivo inválido"
	MsgDuplicateCode = "El código verificador ya está registrado"
	MsgFileTooLarge  = "El archivo excede el tamaño máximo"
	MsgFileNotFound  = "Archivo no encontrado"
	MsgInternalError = "Error interno"
)

// Handler provides the public HTTP endpoints for document verification.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "documents"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group for the verification API endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/validar", Handler: h.Validate},
			{Method: "POST", Pattern: "/subir", Handler: h.Upload},
		},
	}
}

// DownloadRoutes returns the route group for signed download redirects.
func (h *Handler) DownloadRoutes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{archivo...}", Handler: h.Download},
		},
	}
}

// Validate checks the three query parameters against stored records and
// returns a short-lived signed download URL on an exact match.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	q := ValidationQuery{
		VerifierCode: r.URL.Query().Get("codigoVerificador"),
		Holder:       r.URL.Query().Get("documento"),
		ValidUntil:   r.URL.Query().Get("fechaVigencia"),
	}

	if q.VerifierCode == "" || q.Holder == "" || q.ValidUntil == "" {
		respondFail(w, http.StatusBadRequest, MsgMissingParams)
		return
	}

	url, err := h.sys.Validate(r.Context(), q)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondFail(w, http.StatusNotFound, MsgInvalidData)
			return
		}
		h.logger.Error("validation failed", "error", err)
		respondFail(w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"url":    url,
	})
}

// Upload accepts a multipart form with the file and its verification fields.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		respondFail(w, http.StatusRequestEntityTooLarge, MsgFileTooLarge)
		return
	}

	file, _, err := r.FormFile("archivo")
	if err != nil {
		respondFail(w, http.StatusBadRequest, MsgMissingFields)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondFail(w, http.StatusBadRequest, MsgInvalidFile)
		return
	}

	cmd := UploadCommand{
		Data:         data,
		VerifierCode: r.FormValue("codigoVerificador"),
		Holder:       r.FormValue("documento"),
		ValidUntil:   r.FormValue("fechaVigencia"),
	}

	if _, err := h.sys.Upload(r.Context(), cmd); err != nil {
		status := MapHTTPStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("upload failed", "error", err)
		}
		respondFail(w, status, failMessage(err))
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"mensaje": MsgUploaded,
	})
}

// Download redirects to a signed URL for the requested file key.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("archivo")

	url, err := h.sys.DownloadURL(r.Context(), key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondFail(w, http.StatusNotFound, MsgFileNotFound)
			return
		}
		h.logger.Error("download redirect failed", "key", key, "error", err)
		respondFail(w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}

func respondFail(w http.ResponseWriter, status int, mensaje string) {
	handlers.RespondJSON(w, status, map[string]string{
		"status":  "error",
		"mensaje": mensaje,
	})
}

func failMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingFields):
		return MsgMissingFields
	case errors.Is(err, ErrInvalidDate):
		return MsgInvalidDate
	case errors.Is(err, ErrInvalidFile):
		return MsgInvalidFile
	case errors.Is(err, ErrDuplicate):
		return MsgDuplicateCode
	case errors.Is(err, ErrFileTooLarge):
		return MsgFileTooLarge
	default:
		return MsgInternalError
	}
}
