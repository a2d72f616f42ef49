package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"payslips/internal/domain/company"
	"payslips/internal/domain/payroll"
	"payslips/internal/platform/email"
)

type fakeSender struct {
	results []email.SendResult
	calls   int
}

func (f *fakeSender) SendPayslip(row payroll.Row, pdfPath string) email.SendResult {
	res := f.results[f.calls]
	f.calls++
	return res
}

func fakeRender(row payroll.Row, outputDir, logoPath string, cfg company.Config) (string, error) {
	return filepath.Join(outputDir, "payslip_"+row.EmployeeNumber+".pdf"), nil
}

func fiveRows() *payroll.Table {
	t := &payroll.Table{}
	for i := 1; i <= 5; i++ {
		t.Rows = append(t.Rows, payroll.Row{
			EmployeeNumber: fmt.Sprintf("E%d", i),
			Name:           fmt.Sprintf("Emp%d", i),
			Email:          fmt.Sprintf("e%d@co.com", i),
			PayrollPeriod:  "Jan 2024",
		})
	}
	return t
}

func TestRunQuotaStopsLoopImmediately(t *testing.T) {
	sender := &fakeSender{results: []email.SendResult{
		{Outcome: email.OutcomeSent, Message: "Sent to e1@co.com"},
		{Outcome: email.OutcomeFailed, Message: "Error: mailbox busy"},
		{Outcome: email.OutcomeQuotaExceeded, Message: "Daily sending limit reached - email not sent"},
	}}
	o := &Orchestrator{Render: fakeRender, Sender: sender}

	ledger := o.Run(context.Background(), fiveRows(), t.TempDir(), "", company.Config{})

	if len(ledger) != 3 {
		t.Fatalf("expected 3 records, got %d", len(ledger))
	}
	if ledger[0].Status != StatusSent || ledger[1].Status != StatusFailed {
		t.Fatalf("unexpected early statuses: %v %v", ledger[0].Status, ledger[1].Status)
	}
	if ledger[2].Status != StatusQuotaExceeded {
		t.Fatalf("expected quota status on row 3, got %v", ledger[2].Status)
	}
	if sender.calls != 3 {
		t.Fatalf("expected rows 4-5 never sent, got %d calls", sender.calls)
	}

	s := Summarize(ledger, 5)
	if s.Succeeded != 1 || s.Failed != 1 || s.QuotaExceeded != 1 || s.Remaining != 2 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestRunDryRunNeverTouchesSender(t *testing.T) {
	sender := &fakeSender{}
	o := &Orchestrator{Render: fakeRender, Sender: sender, DryRun: true}

	table := fiveRows()
	table.Rows = table.Rows[:3]
	ledger := o.Run(context.Background(), table, t.TempDir(), "", company.Config{})

	if len(ledger) != 3 {
		t.Fatalf("expected 3 records, got %d", len(ledger))
	}
	for _, out := range ledger {
		if out.Status != StatusGenerated {
			t.Fatalf("expected Generated, got %v", out.Status)
		}
	}
	if sender.calls != 0 {
		t.Fatalf("expected no sends in dry run, got %d", sender.calls)
	}
}

func TestRunRenderErrorIsIsolated(t *testing.T) {
	boom := errors.New("disk full")
	render := func(row payroll.Row, outputDir, logoPath string, cfg company.Config) (string, error) {
		if row.EmployeeNumber == "E2" {
			return "", boom
		}
		return fakeRender(row, outputDir, logoPath, cfg)
	}
	o := &Orchestrator{Render: render, DryRun: true}

	table := fiveRows()
	table.Rows = table.Rows[:3]
	ledger := o.Run(context.Background(), table, t.TempDir(), "", company.Config{})

	if len(ledger) != 3 {
		t.Fatalf("expected all rows recorded, got %d", len(ledger))
	}
	if ledger[1].Status != StatusError || ledger[1].PDF != "" {
		t.Fatalf("expected row 2 Error with no pdf, got %+v", ledger[1])
	}
	if ledger[0].Status != StatusGenerated || ledger[2].Status != StatusGenerated {
		t.Fatal("expected surrounding rows unaffected")
	}
}

func TestRunPreservesTableOrder(t *testing.T) {
	o := &Orchestrator{Render: fakeRender, DryRun: true}
	ledger := o.Run(context.Background(), fiveRows(), t.TempDir(), "", company.Config{})
	for i, out := range ledger {
		if want := fmt.Sprintf("Emp%d", i+1); out.Employee != want {
			t.Fatalf("row %d: expected %s, got %s", i, want, out.Employee)
		}
	}
}

func TestRunReportsProgress(t *testing.T) {
	var labels []string
	var last float64
	o := &Orchestrator{
		Render: fakeRender,
		DryRun: true,
		Progress: func(fraction float64, label string) {
			labels = append(labels, label)
			last = fraction
		},
	}
	o.Run(context.Background(), fiveRows(), t.TempDir(), "", company.Config{})
	if len(labels) != 5 {
		t.Fatalf("expected 5 progress reports, got %d", len(labels))
	}
	if last != 1 {
		t.Fatalf("expected final fraction 1, got %v", last)
	}
	if labels[0] != "Processing Emp1 (1/5)" {
		t.Fatalf("unexpected label %q", labels[0])
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := &Orchestrator{Render: fakeRender, DryRun: true}
	ledger := o.Run(ctx, fiveRows(), t.TempDir(), "", company.Config{})
	if len(ledger) != 0 {
		t.Fatalf("expected no rows processed, got %d", len(ledger))
	}
}
