package recommend

import (
	"net/http"

	"Ampere/internal/calc/calchttp"
)

type Handler struct{}

func (h *Handler) Device(w http.ResponseWriter, r *http.Request) {
	calchttp.Calc(Device)(w, r)
}
