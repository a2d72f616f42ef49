package scratch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewRunDir(t *testing.T) {
	base := t.TempDir()
	dir, err := NewRunDir(base)
	if err != nil {
		t.Fatalf("new run dir: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(dir), dirPrefix) {
		t.Fatalf("unexpected dir name %q", dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected directory, got %v %v", info, err)
	}
}

func TestRemoveRefusesForeignPaths(t *testing.T) {
	base := t.TempDir()
	foreign := t.TempDir()
	victim := filepath.Join(foreign, "keep")
	if err := os.MkdirAll(victim, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	Remove(base, victim)
	if _, err := os.Stat(victim); err != nil {
		t.Fatal("expected foreign dir untouched")
	}

	dir, err := NewRunDir(base)
	if err != nil {
		t.Fatalf("new run dir: %v", err)
	}
	Remove(base, dir)
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatal("expected run dir removed")
	}
}

func TestSweepRemovesOnlyStalePayslipDirs(t *testing.T) {
	base := t.TempDir()

	stale, err := NewRunDir(base)
	if err != nil {
		t.Fatalf("new run dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(stale, "payslip_E1_Jan_2024.pdf"), []byte("%PDF"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	fresh, err := NewRunDir(base)
	if err != nil {
		t.Fatalf("new run dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(fresh, "payslip_E2_Jan_2024.pdf"), []byte("%PDF"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	staleEmpty, err := NewRunDir(base)
	if err != nil {
		t.Fatalf("new run dir: %v", err)
	}
	if err := os.Chtimes(staleEmpty, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	Sweep(base, 24*time.Hour)

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("expected stale payslip dir removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatal("expected fresh dir kept")
	}
	if _, err := os.Stat(staleEmpty); err != nil {
		t.Fatal("expected dir without payslips kept")
	}
}
