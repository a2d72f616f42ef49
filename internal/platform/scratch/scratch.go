// Package scratch manages the per-run output directories rendered payslips
// land in before they are mailed, zipped or cleared.
package scratch

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dirPrefix = "payslips-"

// NewRunDir creates a fresh uniquely named directory under base.
func NewRunDir(base string) (string, error) {
	dir := filepath.Join(base, dirPrefix+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Remove deletes a run directory. Only paths directly under base are
// touched; anything else is refused silently.
func Remove(base, dir string) {
	if dir == "" || filepath.Dir(dir) != filepath.Clean(base) {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("scratch cleanup failed", "dir", dir, "err", err)
	}
}

// Sweep removes run directories under base older than maxAge that contain
// rendered payslips. Best effort; a failed sweep never blocks startup.
func Sweep(base string, maxAge time.Duration) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if !strings.HasPrefix(entry.Name(), dirPrefix) {
			continue
		}
		dir := filepath.Join(base, entry.Name())
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		pdfs, err := filepath.Glob(filepath.Join(dir, "payslip_*.pdf"))
		if err != nil || len(pdfs) == 0 {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("stale scratch dir not removed", "dir", dir, "err", err)
		}
	}
}
