// Package calchttp holds the JSON plumbing shared by the calculator handlers.
package calchttp

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"Ampere/internal/calc/calcerr"
)

const maxBody = 1 << 20

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Decode reads a JSON body into v, rejecting unknown fields.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request payload"})
		return false
	}
	return true
}

// WriteJSON encodes before writing the status so that a value json cannot
// represent becomes a 500 instead of an empty 200.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		json.NewEncoder(&buf).Encode(errorBody{Error: "Encoding error"})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// WriteError translates calculator errors into a 400 naming the field;
// anything else is a 500.
func WriteError(w http.ResponseWriter, err error) {
	if errors.Is(err, calcerr.ErrInvalidInput) {
		WriteJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Field: calcerr.Field(err)})
		return
	}
	WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "Calculation error"})
}

// Calc builds a handler around a pure calculator function.
func Calc[In, Out any](calculate func(In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input In
		if !Decode(w, r, &input) {
			return
		}
		res, err := calculate(input)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, res)
	}
}
