package importer

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var header = []any{"Circuit", "Ib (A)", "Length (m)", "Method", "Phases", "Drop %"}

func TestImport(t *testing.T) {
	buf := workbook(t, [][]any{
		header,
		{"Cooker", 32, 20, "c", 1},
		{"Lighting", 6, 40, "B", 1, 3},
		{"Pump", "lots", 10, "C", 3},
		{},
		{"Feeder", 0, 10, "E", 3},
		{"Main", 800, 100, "A", 3},
	})

	res, err := Import(buf)
	require.NoError(t, err)

	require.Equal(t, 3, res.Count)
	assert.Equal(t, "Cooker", res.Circuits[0].Name)
	assert.Equal(t, 2, res.Circuits[0].Row)
	assert.Equal(t, 4.0, res.Circuits[0].Result.RecommendedSize)
	assert.Equal(t, 3.0, res.Circuits[1].Result.VoltageDropLimit)
	assert.Empty(t, res.Circuits[0].Warning)
	assert.Equal(t, 7, res.Circuits[2].Row)
	assert.True(t, res.Circuits[2].Result.BoundsExceeded)
	assert.Contains(t, res.Circuits[2].Warning, "bounds exceeded")

	require.Len(t, res.Errors, 2)
	assert.Equal(t, 4, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Error, "design current")
	assert.Equal(t, 6, res.Errors[1].Row)
	assert.Contains(t, res.Errors[1].Error, "design_current")
}

func TestImport_EmptySheet(t *testing.T) {
	_, err := Import(workbook(t, [][]any{header}))
	assert.ErrorIs(t, err, ErrEmptySheet)

	_, err = Import(bytes.NewBufferString("not a workbook"))
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "schedule.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook(t, [][]any{header, {"Cooker", 32, 20, "C", 1}}).Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	(&Handler{}).Cable(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = httptest.NewRecorder()
	(&Handler{}).Cable(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
