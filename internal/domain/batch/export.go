package batch

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteCSV exports the ledger as tabular text with the columns the results
// view shows: Employee, Email, Status, Message.
func WriteCSV(w io.Writer, ledger Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Employee", "Email", "Status", "Message"}); err != nil {
		return err
	}
	for _, out := range ledger {
		if err := cw.Write([]string{out.Employee, out.Email, string(out.Status), out.Message}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteZip bundles every outcome's PDF that still exists on disk, each stored
// under its deterministic file name.
func WriteZip(w io.Writer, ledger Ledger) error {
	zw := zip.NewWriter(w)
	for _, out := range ledger {
		if out.PDF == "" {
			continue
		}
		data, err := os.ReadFile(out.PDF)
		if err != nil {
			continue
		}
		entry, err := zw.Create(filepath.Base(out.PDF))
		if err != nil {
			return fmt.Errorf("zip entry %s: %w", filepath.Base(out.PDF), err)
		}
		if _, err := entry.Write(data); err != nil {
			return fmt.Errorf("zip entry %s: %w", filepath.Base(out.PDF), err)
		}
	}
	return zw.Close()
}
