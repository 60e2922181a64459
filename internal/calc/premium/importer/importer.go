// Package importer reads a circuit schedule spreadsheet and sizes each row.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"Ampere/internal/calc/cable"
)

// Columns: name, design current (A), length (m), method, phases, [drop limit %].
const minColumns = 5

var ErrEmptySheet = errors.New("sheet has no data rows")

type Circuit struct {
	Row    int          `json:"row"`
	Name   string       `json:"name"`
	Result cable.Result `json:"result"`
	// Warning is set when no standard size satisfies the row.
	Warning string `json:"warning,omitempty"`
}

type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type Result struct {
	Count    int        `json:"count"`
	Circuits []Circuit  `json:"circuits"`
	Errors   []RowError `json:"errors,omitempty"`
}

// Import sizes every circuit on the first sheet. A bad row is reported and
// the rest are still sized.
func Import(r io.Reader) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return Result{}, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) < 2 {
		return Result{}, ErrEmptySheet
	}

	var res Result
	for i, row := range rows[1:] {
		n := i + 2 // spreadsheet row number
		if blank(row) {
			continue
		}
		name, in, err := parseRow(row)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: n, Error: err.Error()})
			continue
		}
		sized, err := cable.Calculate(in)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: n, Error: err.Error()})
			continue
		}
		c := Circuit{Row: n, Name: name, Result: sized}
		if err := sized.Err(); err != nil {
			c.Warning = err.Error()
		}
		res.Circuits = append(res.Circuits, c)
	}
	res.Count = len(res.Circuits)
	return res, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string) (string, cable.Input, error) {
	if len(row) < minColumns {
		return "", cable.Input{}, fmt.Errorf("expected at least %d columns, got %d", minColumns, len(row))
	}
	current, err := toFloat("design current", row[1])
	if err != nil {
		return "", cable.Input{}, err
	}
	length, err := toFloat("length", row[2])
	if err != nil {
		return "", cable.Input{}, err
	}
	phases, err := strconv.Atoi(strings.TrimSpace(row[4]))
	if err != nil {
		return "", cable.Input{}, fmt.Errorf("phases: %q is not a whole number", row[4])
	}
	in := cable.Input{
		DesignCurrent:      current,
		Length:             length,
		InstallationMethod: cable.Method(strings.ToUpper(strings.TrimSpace(row[3]))),
		Phases:             phases,
	}
	if len(row) > minColumns && strings.TrimSpace(row[5]) != "" {
		limit, err := toFloat("drop limit", row[5])
		if err != nil {
			return "", cable.Input{}, err
		}
		in.VoltageDropLimit = &limit
	}
	return strings.TrimSpace(row[0]), in, nil
}

func toFloat(col, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", col, s)
	}
	return v, nil
}
