package admin

import (
	"net/http"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	qrDefaultSize = 256
	qrMaxSize     = 1024
)

// QRImage encodes the url query parameter as a PNG QR code.
func (h *Handler) QRImage(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		http.Error(w, "url parameter required", http.StatusBadRequest)
		return
	}

	size := qrDefaultSize
	if s := r.URL.Query().Get("size"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 1 || parsed > qrMaxSize {
			http.Error(w, "invalid size", http.StatusBadRequest)
			return
		}
		size = parsed
	}

	png, err := qrcode.Encode(target, qrcode.Medium, size)
	if err != nil {
		h.logger.Error("qr encode failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
