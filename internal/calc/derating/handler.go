package derating

import (
	"net/http"

	"Ampere/internal/calc/calchttp"
)

type Handler struct{}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	calchttp.Calc(Calculate)(w, r)
}
