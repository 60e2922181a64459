package autodesign

import (
	"net/http"

	"Ampere/internal/calc/calchttp"
)

type Handler struct{}

func (h *Handler) Circuit(w http.ResponseWriter, r *http.Request) {
	calchttp.Calc(Circuit)(w, r)
}
