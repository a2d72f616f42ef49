// Package payslip renders one employee's payroll row into a fixed-layout
// landscape PDF document.
package payslip

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"payslips/internal/domain/company"
	"payslips/internal/domain/payroll"
)

var ErrRender = errors.New("payslip render failed")

const (
	margin = 25.0
	lineH  = 18.0
)

// Filename derives the deterministic payslip file name for one row. The
// period is made filesystem safe: spaces become underscores, slashes become
// hyphens and commas are dropped. Re-rendering the same row and period
// always lands on the same path.
func Filename(employeeNumber, period string) string {
	safe := strings.ReplaceAll(period, " ", "_")
	safe = strings.ReplaceAll(safe, "/", "-")
	safe = strings.ReplaceAll(safe, ",", "")
	return fmt.Sprintf("payslip_%s_%s.pdf", employeeNumber, safe)
}

type earningLine struct {
	label  string
	hours  *float64
	amount *float64
}

type deductionLine struct {
	label  string
	amount float64
	bold   bool
}

// Render writes one payslip PDF into outputDir, creating the directory if
// needed, and returns the file path. An existing file for the same row and
// period is overwritten. logoPath may be empty or point at a missing file;
// the page simply renders without a logo.
func Render(row payroll.Row, outputDir, logoPath string, cfg company.Config) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create output dir: %v", ErrRender, err)
	}
	path := filepath.Join(outputDir, Filename(row.EmployeeNumber, row.PayrollPeriod))

	pdf := gofpdf.New("L", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	left := margin
	right := pageW - margin

	y := 40.0

	// Header: optional centered logo, then centered company name.
	if logoPath != "" {
		if _, err := os.Stat(logoPath); err == nil {
			logoW, logoH := 100.0, 50.0
			pdf.ImageOptions(logoPath, (pageW-logoW)/2, y, logoW, logoH, false,
				gofpdf.ImageOptions{ReadDpi: true}, 0, "")
			y += logoH + 20
		}
	}
	pdf.SetFont("Helvetica", "B", 14)
	drawCentered(pdf, pageW/2, y+11, cfg.CompanyName)
	y += 30

	// 2x3 info grid.
	gridH := lineH * 3
	midX := (left + right) / 2
	pdf.Rect(left, y, right-left, gridH, "D")
	pdf.Line(midX, y, midX, y+gridH)
	pdf.Line(left, y+lineH, right, y+lineH)
	pdf.Line(left, y+2*lineH, right, y+2*lineH)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(left+8, y+lineH-4, "Employee Number")
	pdf.Text(midX+8, y+lineH-4, "Payroll Period")
	pdf.Text(left+8, y+2*lineH-4, "Basic")
	pdf.Text(midX+8, y+2*lineH-4, "Name")
	pdf.Text(left+8, y+3*lineH-4, "Monthly Allowance")
	pdf.Text(midX+8, y+3*lineH-4, "Department/Position")

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(left+140, y+lineH-4, row.EmployeeNumber)
	pdf.Text(midX+140, y+lineH-4, row.PayrollPeriod)
	pdf.Text(left+140, y+2*lineH-4, formatAmount(row.BasicSalary))
	pdf.Text(midX+140, y+2*lineH-4, row.Name)
	pdf.Text(left+140, y+3*lineH-4, formatAmount(row.Allowance))
	pdf.Text(midX+140, y+3*lineH-4, row.Position)

	y += gridH + 30

	// Earnings and deductions boxes side by side.
	eLeft, eRight := left, midX-20
	dLeft, dRight := midX+20, right

	earnings := []earningLine{
		{"Regular Hours", &row.RegularHours, &row.RegularAmount},
		{"Regular OT", &row.RegularOTHours, &row.RegularOTAmount},
		{"Legal Holiday", &row.LegalHolidayHours, &row.LegalHolidayAmount},
		{"Legal Holiday OT", nil, nil},
		{"Special Holiday", &row.SpecialHolidayHours, &row.SpecialHolidayAmount},
		{"Special Holiday OT", nil, nil},
		{"Total Night Diff.", &row.NightDiffHours, &row.NightDiffAmount},
		{"Offset", &row.OffsetHours, &row.OffsetAmount},
		{"Paid Leave", nil, &row.PaidLeaveAmount},
		{"Adjustment", nil, &row.AdjustmentEarnings},
		{"Allowance", nil, &row.Allowance},
		{"13th Month Pay", nil, &row.ThirteenthMonthPay},
		{"Others", nil, &row.OthersEarnings},
		{"Gross Income", nil, &row.GrossIncome},
	}

	deductions := []deductionLine{
		{"Pag-ibig Contribution", row.PagibigContribution, false},
		{"Philhealth Contribution", row.PhilhealthContribution, false},
		{"SSS Contribution", row.SSSContribution, false},
		{"Pag-ibig Loan", row.PagibigLoan, false},
		{"SSS Loan", row.SSSLoan, false},
		{"Withholding Tax", row.WithholdingTax, false},
		{"Adjustment", row.AdjustmentDeductions, false},
		{"Others", row.OthersDeductions, false},
		{"Total Deductions", row.TotalDeductions, true},
		{"NET PAY", row.NetPay, true},
	}

	// Earnings box.
	earnH := lineH * float64(len(earnings)+1)
	pdf.Rect(eLeft, y, eRight-eLeft, earnH, "D")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(eLeft+5, y+lineH-4, "EARNINGS")
	pdf.Text(eLeft+160, y+lineH-4, "HOURS")
	pdf.Text(eLeft+250, y+lineH-4, "AMOUNT")
	pdf.Line(eLeft, y+lineH, eRight, y+lineH)

	pdf.SetFont("Helvetica", "", 10)
	rowY := y + lineH
	for _, line := range earnings {
		rowY += lineH
		pdf.Line(eLeft, rowY, eRight, rowY)
		pdf.Text(eLeft+5, rowY-4, line.label)

		if line.hours != nil {
			drawRight(pdf, eLeft+210, rowY-4, formatHours(*line.hours))
		}
		if line.amount != nil {
			if line.label == "Gross Income" {
				pdf.SetFont("Helvetica", "B", 10)
			}
			drawRight(pdf, eRight-8, rowY-4, formatAmount(*line.amount))
			if line.label == "Gross Income" {
				pdf.SetFont("Helvetica", "", 10)
			}
		}
	}
	pdf.Line(eLeft+150, y, eLeft+150, y+earnH)
	pdf.Line(eLeft+220, y, eLeft+220, y+earnH)

	// Deductions box.
	dedH := lineH * float64(len(deductions)+1)
	pdf.Rect(dLeft, y, dRight-dLeft, dedH, "D")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(dLeft+5, y+lineH-4, "DEDUCTIONS")
	pdf.Text(dLeft+240, y+lineH-4, "AMOUNT")
	pdf.Line(dLeft, y+lineH, dRight, y+lineH)

	pdf.SetFont("Helvetica", "", 10)
	rowY = y + lineH
	for _, line := range deductions {
		rowY += lineH
		pdf.Line(dLeft, rowY, dRight, rowY)
		pdf.Text(dLeft+5, rowY-4, line.label)
		if line.bold {
			pdf.SetFont("Helvetica", "B", 10)
		}
		drawRight(pdf, dRight-8, rowY-4, formatAmount(line.amount))
		if line.bold {
			pdf.SetFont("Helvetica", "", 10)
		}
	}
	pdf.Line(dLeft+220, y, dLeft+220, y+dedH)

	// Footer disclaimer, wrapped to a fixed character width, then the
	// signature block under it.
	textY := y + dedH + 25
	pdf.SetFont("Helvetica", "", 8)
	for _, line := range wrapText(cfg.FooterText, 90) {
		pdf.Text(dLeft, textY, line)
		textY += 10
	}

	textY += 15
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(dLeft, textY, "Received by:")

	textY += 20
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(dLeft+60, textY, row.Name)
	underlineY := textY + 3
	pdf.Line(dLeft+60, underlineY, dLeft+260, underlineY)

	pdf.SetFont("Helvetica", "", 7)
	pdf.Text(dLeft+70, underlineY+10, "Signature over Printed Name / Date")

	// Bottom line: effectivity date left, document id right.
	pdf.SetFont("Helvetica", "", 7)
	pdf.Text(left, pageH-30, "Effectivity Date: "+cfg.EffectivityDate)
	drawRight(pdf, right, pageH-30, cfg.DocumentID)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return path, nil
}

func drawRight(pdf *gofpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s), y, s)
}

func drawCentered(pdf *gofpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s)/2, y, s)
}

// formatAmount renders a fixed two-decimal, comma-grouped amount.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]
	var b strings.Builder
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

// formatHours drops trailing zeros so whole-hour counts print bare.
func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// wrapText greedily wraps words to the given character width. A word longer
// than the width is broken at the boundary so no line ever overruns its
// column.
func wrapText(s string, width int) []string {
	var lines []string
	var current string
	for _, word := range strings.Fields(s) {
		for len(word) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}
		switch {
		case word == "":
		case current == "":
			current = word
		case len(current)+1+len(word) > width:
			lines = append(lines, current)
			current = word
		default:
			current += " " + word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
