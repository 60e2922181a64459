package report

import (
	"bytes"
	"net/http"
	"time"

	"Ampere/internal/calc/calchttp"
	"Ampere/internal/calc/diversity"
	"Ampere/internal/logger"
)

type Handler struct {
	Policy diversity.Policy
	Log    *logger.Logger
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if !calchttp.Decode(w, r, &input) {
		return
	}
	doc, err := Build(input, h.Policy, time.Now())
	if err != nil {
		calchttp.WriteError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := Render(&buf, doc); err != nil {
		h.Log.Errorw("render report", "err", err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	w.Write(buf.Bytes())
}
