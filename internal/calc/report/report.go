// Package report renders calculation results as a PDF design summary.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"Ampere/internal/calc/cable"
	"Ampere/internal/calc/calcerr"
	"Ampere/internal/calc/demand"
	"Ampere/internal/calc/diversity"
)

type CableRun struct {
	Name  string      `json:"name"`
	Input cable.Input `json:"input"`
}

type Input struct {
	Project string        `json:"project"`
	Author  string        `json:"author"`
	Title   string        `json:"title"`
	Notes   string        `json:"notes"`
	Demand  *demand.Input `json:"demand,omitempty"`
	Cables  []CableRun    `json:"cables,omitempty"`
}

// Document is the computed content of a report, before layout.
type Document struct {
	Input
	Date      time.Time
	MaxDemand *demand.Result
	Sizing    []cable.Result
}

// Build runs every calculation the report asks for.
func Build(in Input, p diversity.Policy, now time.Time) (Document, error) {
	if in.Demand == nil && len(in.Cables) == 0 {
		return Document{}, calcerr.Invalid("demand", "a demand or at least one cable run is required")
	}
	if in.Title == "" {
		in.Title = "Electrical Design Report"
	}
	doc := Document{Input: in, Date: now}
	if in.Demand != nil {
		res, err := demand.CalculateWithPolicy(*in.Demand, p)
		if err != nil {
			return Document{}, err
		}
		doc.MaxDemand = &res
	}
	for i, run := range in.Cables {
		res, err := cable.Calculate(run.Input)
		if err != nil {
			return Document{}, fmt.Errorf("cables[%d] %s: %w", i, run.Name, err)
		}
		doc.Sizing = append(doc.Sizing, res)
	}
	return doc, nil
}

// Render lays out doc on A4 and writes the PDF to w.
func Render(w io.Writer, doc Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := textFor(pdf)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(doc.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr("Project: "+doc.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr("Author: "+doc.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Date: "+doc.Date.Format("2006-01-02"))
	pdf.Ln(10)

	if d := doc.MaxDemand; d != nil {
		heading(pdf, "Maximum demand")
		row(pdf, true, "Category", "Connected (W)", "Demand (W)", "Diversity")
		for _, c := range d.Breakdown {
			row(pdf, false, c.Category, fmt.Sprintf("%.0f", c.ConnectedLoad), fmt.Sprintf("%.0f", c.DemandLoad), fmt.Sprintf("%.2f", c.DiversityFactor))
		}
		row(pdf, true, "Total", fmt.Sprintf("%.0f", d.TotalConnectedLoad), fmt.Sprintf("%.0f", d.TotalDemandLoad), fmt.Sprintf("%.2f", d.OverallDiversityFactor))
		pdf.Ln(3)
		pdf.Cell(0, 6, fmt.Sprintf("Current: %.1f A single-phase, %.1f A three-phase", d.CurrentBreakdown.SinglePhase, d.CurrentBreakdown.ThreePhase))
		pdf.Ln(6)
		bullets(pdf, tr, d.Recommendations)
	}

	if len(doc.Sizing) > 0 {
		heading(pdf, "Cable schedule")
		row(pdf, true, "Circuit", "Size (mm2)", "Drop (%)", "Device (A)")
		for i, c := range doc.Sizing {
			device := "-"
			if c.ProtectionRequired > 0 {
				device = fmt.Sprintf("%.0f", c.ProtectionRequired)
			}
			status := ""
			if c.BoundsExceeded {
				status = " (non-compliant)"
			}
			row(pdf, false, tr(doc.Cables[i].Name)+status, fmt.Sprintf("%g", c.RecommendedSize), fmt.Sprintf("%.2f", c.VoltageDrop), device)
		}
		for i, c := range doc.Sizing {
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 10)
			pdf.Cell(0, 6, tr(doc.Cables[i].Name))
			pdf.Ln(6)
			bullets(pdf, tr, c.Recommendations)
		}
	}

	if doc.Notes != "" {
		heading(pdf, "Notes")
		pdf.MultiCell(0, 6, tr(doc.Notes), "", "L", false)
	}
	return pdf.Output(w)
}

// outsideCP1252 maps symbols the core fonts cannot draw to ASCII.
var outsideCP1252 = strings.NewReplacer(
	"≤", "<=",
	"≥", ">=",
	"≠", "!=",
	"≈", "~",
	"√", "sqrt",
	"→", "->",
	"Ω", "ohm",
)

func plain(s string) string {
	return outsideCP1252.Replace(s)
}

// textFor returns the cp1252 translator for pdf behind the ASCII fallbacks.
func textFor(pdf *gofpdf.Fpdf) func(string) string {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	return func(s string) string {
		return tr(plain(s))
	}
}

func heading(pdf *gofpdf.Fpdf, text string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, text)
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
}

func row(pdf *gofpdf.Fpdf, bold bool, cells ...string) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 10)
	widths := []float64{70, 40, 40, 30}
	for i, c := range cells {
		pdf.CellFormat(widths[i], 7, c, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func bullets(pdf *gofpdf.Fpdf, tr func(string) string, lines []string) {
	pdf.SetFont("Helvetica", "", 9)
	for _, l := range lines {
		pdf.MultiCell(0, 5, tr("- "+l), "", "L", false)
	}
}
