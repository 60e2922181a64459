package batch

import (
	"net/http"

	"Ampere/internal/calc/calchttp"
)

type Handler struct{}

func (h *Handler) Cable(w http.ResponseWriter, r *http.Request) {
	var input Input
	if !calchttp.Decode(w, r, &input) {
		return
	}
	res, err := Calculate(r.Context(), input)
	if err != nil {
		calchttp.WriteError(w, err)
		return
	}
	calchttp.WriteJSON(w, http.StatusOK, res)
}
