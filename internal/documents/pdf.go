// Package documents renders booking paperwork as PDF.
package documents

import (
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Page geometry in millimetres
const (
	pageMargin = 15.0
	labelWidth = 55.0
	lineHeight = 8.0
)

const fontFamily = "Helvetica"

// sheet wraps an fpdf document with the layout helpers shared by every document.
type sheet struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newSheet(title string) *sheet {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("Fleetiva", true)
	return &sheet{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (s *sheet) heading(text string, size float64) {
	s.pdf.SetFont(fontFamily, "B", size)
	s.pdf.CellFormat(0, lineHeight+2, s.tr(text), "", 1, "C", false, 0, "")
}

func (s *sheet) subheading(text string) {
	s.pdf.SetFont(fontFamily, "I", 11)
	s.pdf.CellFormat(0, lineHeight, s.tr(text), "", 1, "C", false, 0, "")
	s.pdf.Ln(4)
}

func (s *sheet) row(label, value string) {
	s.pdf.SetFont(fontFamily, "B", 11)
	s.pdf.CellFormat(labelWidth, lineHeight, s.tr(label), "", 0, "L", false, 0, "")
	s.pdf.SetFont(fontFamily, "", 11)
	s.pdf.MultiCell(0, lineHeight, s.tr(value), "", "L", false)
}

func (s *sheet) rule() {
	y := s.pdf.GetY() + 2
	w, _ := s.pdf.GetPageSize()
	s.pdf.Line(pageMargin, y, w-pageMargin, y)
	s.pdf.Ln(5)
}

func rupees(amount float64) string {
	return fmt.Sprintf("Rs. %.2f", amount)
}

func tons(weight float64) string {
	return fmt.Sprintf("%g tons", weight)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
