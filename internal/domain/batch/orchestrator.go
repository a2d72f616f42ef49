// Package batch drives one validated payroll table through rendering and
// dispatch, producing the run's ledger.
package batch

import (
	"context"
	"fmt"

	"payslips/internal/domain/company"
	"payslips/internal/domain/payroll"
	"payslips/internal/domain/payslip"
	"payslips/internal/platform/email"
)

// Status is the closed set of per-row results.
type Status string

const (
	StatusGenerated     Status = "Generated"
	StatusSent          Status = "Sent"
	StatusFailed        Status = "Failed"
	StatusQuotaExceeded Status = "Quota Exceeded"
	StatusError         Status = "Error"
)

// Outcome is one row's result. PDF is empty for unrecoverable row errors.
type Outcome struct {
	Employee string `json:"employee"`
	Email    string `json:"email"`
	Status   Status `json:"status"`
	Message  string `json:"message"`
	PDF      string `json:"pdf,omitempty"`
}

// Ledger is the ordered, append-only sequence of outcomes for one run. It is
// wholly replaced by the next run.
type Ledger []Outcome

// Summary aggregates a finished run. Remaining counts rows that were never
// processed because the loop stopped early.
type Summary struct {
	Succeeded     int `json:"succeeded"`
	Failed        int `json:"failed"`
	Errors        int `json:"errors"`
	QuotaExceeded int `json:"quotaExceeded"`
	Remaining     int `json:"remaining"`
}

// Sender delivers one rendered payslip. Satisfied by *email.Dispatcher.
type Sender interface {
	SendPayslip(row payroll.Row, pdfPath string) email.SendResult
}

// RenderFunc matches payslip.Render; injectable for tests.
type RenderFunc func(row payroll.Row, outputDir, logoPath string, cfg company.Config) (string, error)

// Orchestrator processes rows strictly in table order, one fully finished
// before the next begins. Sender is ignored in dry-run mode.
type Orchestrator struct {
	Render   RenderFunc
	Sender   Sender
	DryRun   bool
	Progress func(fraction float64, label string)
}

// Run renders (and, outside dry-run, sends) every row until the table is
// exhausted, the provider reports quota exhaustion, or ctx is cancelled.
// Row-level failures are recorded and never stop the batch; quota exhaustion
// stops it immediately, discarding the remaining rows.
func (o *Orchestrator) Run(ctx context.Context, table *payroll.Table, outputDir, logoPath string, cfg company.Config) Ledger {
	render := o.Render
	if render == nil {
		render = payslip.Render
	}

	total := len(table.Rows)
	ledger := make(Ledger, 0, total)

	for i, row := range table.Rows {
		if ctx.Err() != nil {
			break
		}
		o.report(float64(i+1)/float64(total), fmt.Sprintf("Processing %s (%d/%d)", row.Name, i+1, total))

		pdfPath, err := render(row, outputDir, logoPath, cfg)
		if err != nil {
			ledger = append(ledger, Outcome{
				Employee: row.Name,
				Email:    row.Email,
				Status:   StatusError,
				Message:  err.Error(),
			})
			continue
		}

		if o.DryRun || o.Sender == nil {
			ledger = append(ledger, Outcome{
				Employee: row.Name,
				Email:    row.Email,
				Status:   StatusGenerated,
				Message:  "PDF created (dry run mode)",
				PDF:      pdfPath,
			})
			continue
		}

		res := o.Sender.SendPayslip(row, pdfPath)
		switch res.Outcome {
		case email.OutcomeQuotaExceeded:
			ledger = append(ledger, Outcome{
				Employee: row.Name,
				Email:    row.Email,
				Status:   StatusQuotaExceeded,
				Message:  res.Message,
				PDF:      pdfPath,
			})
			// Hard stop: remaining rows are not processed this run.
			return ledger
		case email.OutcomeSent:
			ledger = append(ledger, Outcome{
				Employee: row.Name,
				Email:    row.Email,
				Status:   StatusSent,
				Message:  res.Message,
				PDF:      pdfPath,
			})
		default:
			ledger = append(ledger, Outcome{
				Employee: row.Name,
				Email:    row.Email,
				Status:   StatusFailed,
				Message:  res.Message,
				PDF:      pdfPath,
			})
		}
	}
	return ledger
}

func (o *Orchestrator) report(fraction float64, label string) {
	if o.Progress != nil {
		o.Progress(fraction, label)
	}
}

// Summarize counts a run's ledger against the size of its source table.
func Summarize(ledger Ledger, totalRows int) Summary {
	var s Summary
	for _, out := range ledger {
		switch out.Status {
		case StatusSent, StatusGenerated:
			s.Succeeded++
		case StatusFailed:
			s.Failed++
		case StatusError:
			s.Errors++
		case StatusQuotaExceeded:
			s.QuotaExceeded++
		}
	}
	s.Remaining = totalRows - len(ledger)
	if s.Remaining < 0 {
		s.Remaining = 0
	}
	return s
}
