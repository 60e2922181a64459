package demand

import (
	"net/http"

	"Ampere/internal/calc/calchttp"
	"Ampere/internal/calc/diversity"
)

type Handler struct {
	Policy diversity.Policy
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	calchttp.Calc(func(in Input) (Result, error) {
		return CalculateWithPolicy(in, h.Policy)
	})(w, r)
}
