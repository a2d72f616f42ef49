package batch

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	ledger := Ledger{
		{Employee: "Ana", Email: "ana@co.com", Status: StatusSent, Message: "Sent to ana@co.com"},
		{Employee: "Ben, Jr.", Email: "ben@co.com", Status: StatusFailed, Message: "Error: mailbox full"},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, ledger); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %v", lines)
	}
	if lines[0] != "Employee,Email,Status,Message" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[2], `"Ben, Jr."`) {
		t.Fatalf("expected quoted comma field, got %q", lines[2])
	}
}

func TestWriteZipBundlesExistingPDFs(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "payslip_E1_Jan_2024.pdf")
	if err := os.WriteFile(good, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	ledger := Ledger{
		{Employee: "Ana", Status: StatusSent, PDF: good},
		{Employee: "Ben", Status: StatusError, PDF: ""},
		{Employee: "Cal", Status: StatusSent, PDF: filepath.Join(dir, "gone.pdf")},
	}

	var buf bytes.Buffer
	if err := WriteZip(&buf, ledger); err != nil {
		t.Fatalf("write zip: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	if len(zr.File) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(zr.File))
	}
	if zr.File[0].Name != "payslip_E1_Jan_2024.pdf" {
		t.Fatalf("unexpected entry %q", zr.File[0].Name)
	}
}
