package calchttp

import (
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Ampere/internal/calc/calcerr"
)

type out struct {
	Value float64 `json:"value"`
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, out{Value: 1.5})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"value":1.5}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestWriteJSON_Unencodable(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, out{Value: math.Inf(1)})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Encoding error"}`, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, calcerr.Invalid("length", "must be a positive number"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"length"`)

	rec = httptest.NewRecorder()
	WriteError(rec, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCalc(t *testing.T) {
	h := Calc(func(in out) (out, error) {
		if in.Value < 0 {
			return out{}, calcerr.Invalid("value", "must not be negative")
		}
		return out{Value: in.Value * 1e300}, nil
	})

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		return rec
	}

	rec := post(`{"value":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"value":2e300}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, post(`{"value":-1}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{"value":1,"extra":true}`).Code)
	assert.Equal(t, http.StatusInternalServerError, post(`{"value":1e10}`).Code)
}
