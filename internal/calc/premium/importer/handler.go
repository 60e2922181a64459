package importer

import (
	"errors"
	"net/http"

	"Ampere/internal/calc/calchttp"
)

const maxUpload = 10 << 20

type Handler struct{}

func (h *Handler) Cable(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := Import(file)
	if errors.Is(err, ErrEmptySheet) {
		http.Error(w, "Empty sheet", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	calchttp.WriteJSON(w, http.StatusOK, res)
}
