package cable

import (
	"errors"
	"net/http"

	"Ampere/internal/calc/calcerr"
	"Ampere/internal/calc/calchttp"
	"Ampere/internal/metrics"
)

type Handler struct {
	Metrics *metrics.Metrics
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	calchttp.Calc(func(in Input) (Result, error) {
		res, err := Calculate(in)
		if err == nil && errors.Is(res.Err(), calcerr.ErrBoundsExceeded) {
			h.Metrics.IncBoundsExceeded()
		}
		return res, err
	})(w, r)
}
