// Package batchhandler exposes the payslip pipeline to the UI layer: upload
// the payroll sheet and company config, start a batch, watch its progress and
// export the results.
package batchhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-chi/chi/v5"

	"payslips/internal/domain/batch"
	"payslips/internal/domain/company"
	"payslips/internal/domain/payroll"
	"payslips/internal/platform/config"
	"payslips/internal/platform/email"
	"payslips/internal/platform/jobs"
	"payslips/internal/platform/metrics"
	"payslips/internal/platform/scratch"
	"payslips/internal/requestctx"
	"payslips/internal/transport/http/api"
	"payslips/internal/transport/http/middleware"
)

type Handler struct {
	cfg     config.Config
	jobs    *jobs.Service
	metrics *metrics.Collector

	mu       sync.Mutex
	table    *payroll.Table
	company  *company.Config
	runDir   string
	logoPath string
	ledger   batch.Ledger
	summary  *batch.Summary
}

func NewHandler(cfg config.Config, jobsSvc *jobs.Service, collector *metrics.Collector) *Handler {
	return &Handler{cfg: cfg, jobs: jobsSvc, metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Post("/spreadsheet", h.HandleUploadSpreadsheet)
		r.Post("/config", h.HandleUploadConfig)
		r.Post("/logo", h.HandleUploadLogo)
		r.Post("/smtp/verify", h.HandleVerifySMTP)
		r.Post("/run", h.HandleRun)
		r.Get("/run/status", h.HandleRunStatus)
		r.Get("/results", h.HandleResults)
		r.Get("/results/csv", h.HandleResultsCSV)
		r.Get("/results/bundle", h.HandleResultsBundle)
		r.Delete("/results", h.HandleClear)
	})
}

// HandleUploadSpreadsheet loads and validates the payroll workbook. A batch
// with any violation is rejected whole; every aggregated message is returned
// so the source table can be fixed in one pass.
func (h *Handler) HandleUploadSpreadsheet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	file, _, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "spreadsheet file is required", reqID)
		return
	}
	defer file.Close()

	sheet := r.FormValue("sheet")
	if sheet == "" {
		sheet = h.cfg.DefaultSheet
	}

	table, err := payroll.Load(file, sheet)
	if err != nil {
		switch {
		case errors.Is(err, payroll.ErrSheetNotFound):
			api.Fail(w, http.StatusBadRequest, "sheet_not_found", err.Error(), reqID)
		default:
			api.Fail(w, http.StatusBadRequest, "parse_failed", err.Error(), reqID)
		}
		return
	}

	if ok, verrs := payroll.Validate(table, payroll.RequiredColumns); !ok {
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "validation_failed",
			"payroll sheet validation failed", verrs, reqID)
		return
	}

	h.mu.Lock()
	h.table = table
	h.mu.Unlock()

	period := ""
	if len(table.Rows) > 0 {
		period = table.Rows[0].PayrollPeriod
	}
	api.Success(w, map[string]any{
		"rows":          len(table.Rows),
		"payrollPeriod": period,
		"columns":       table.Columns,
	}, reqID)
}

func (h *Handler) HandleUploadConfig(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "unable to read config document", reqID)
		return
	}
	cfg, err := company.Parse(body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_config", err.Error(), reqID)
		return
	}

	h.mu.Lock()
	h.company = &cfg
	h.mu.Unlock()

	api.Success(w, map[string]any{
		"companyName": cfg.CompanyName,
		"documentId":  cfg.DocumentID,
		"smtpEmail":   cfg.SMTP.Email,
	}, reqID)
}

func (h *Handler) HandleUploadLogo(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	data, err := io.ReadAll(r.Body)
	if err != nil || len(data) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "logo image bytes are required", reqID)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	dir, err := h.ensureRunDirLocked()
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "scratch_failed", "unable to create scratch directory", reqID)
		return
	}
	logoPath := filepath.Join(dir, "custom_logo.png")
	if err := os.WriteFile(logoPath, data, 0o644); err != nil {
		api.Fail(w, http.StatusInternalServerError, "scratch_failed", "unable to store logo", reqID)
		return
	}
	h.logoPath = logoPath
	api.Success(w, map[string]any{"logoPath": logoPath}, reqID)
}

// HandleVerifySMTP performs a connect/login/quit round trip with the
// configured mailbox so bad credentials surface before a batch is started.
func (h *Handler) HandleVerifySMTP(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	h.mu.Lock()
	cfg := h.company
	h.mu.Unlock()
	if cfg == nil {
		api.Fail(w, http.StatusPreconditionFailed, "config_missing", "upload the company config first", reqID)
		return
	}
	if !payroll.ValidEmail(cfg.SMTP.Email) {
		api.Fail(w, http.StatusBadRequest, "invalid_config", "invalid mailbox address", reqID)
		return
	}

	d := email.New(h.cfg.SMTPHost, h.cfg.SMTPPort, cfg.SMTP, h.cfg.SMTPConnectTimeout)
	if err := d.VerifyLogin(r.Context()); err != nil {
		switch {
		case errors.Is(err, email.ErrAuth):
			api.Fail(w, http.StatusUnauthorized, "auth_failed",
				"Authentication failed. Check your email and app password.", reqID)
		case errors.Is(err, email.ErrTransport):
			api.Fail(w, http.StatusBadGateway, "smtp_error", err.Error(), reqID)
		default:
			api.Fail(w, http.StatusBadGateway, "connection_failed", err.Error(), reqID)
		}
		return
	}
	api.Success(w, map[string]any{"verified": true}, reqID)
}

type runRequest struct {
	DryRun    bool   `json:"dryRun"`
	OutputDir string `json:"outputDir,omitempty"`
}

// HandleRun starts one batch over the loaded table. Only one run may be
// active at a time; the mail session it owns is exclusive.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var req runRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "unable to decode run request", reqID)
			return
		}
	}

	h.mu.Lock()
	table := h.table
	companyCfg := h.company
	logoPath := h.logoPath
	h.mu.Unlock()

	if table == nil {
		api.Fail(w, http.StatusPreconditionFailed, "table_missing", "upload and validate a payroll sheet first", reqID)
		return
	}
	if companyCfg == nil {
		api.Fail(w, http.StatusPreconditionFailed, "config_missing", "upload the company config first", reqID)
		return
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		h.mu.Lock()
		dir, err := h.ensureRunDirLocked()
		h.mu.Unlock()
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "scratch_failed", "unable to create output directory", reqID)
			return
		}
		outputDir = dir
	}

	// Immutable copy for the duration of the run.
	runCfg := *companyCfg
	dryRun := req.DryRun

	runID, err := h.jobs.Submit("payslip-batch", func(ctx context.Context, report func(float64, string)) error {
		var sender batch.Sender
		if !dryRun {
			d := email.New(h.cfg.SMTPHost, h.cfg.SMTPPort, runCfg.SMTP, h.cfg.SMTPConnectTimeout)
			if err := d.Connect(ctx); err != nil {
				return fmt.Errorf("connect to SMTP server: %w", err)
			}
			defer d.Disconnect()
			sender = d
		}

		o := &batch.Orchestrator{Sender: sender, DryRun: dryRun, Progress: report}
		ledger := o.Run(ctx, table, outputDir, logoPath, runCfg)
		summary := batch.Summarize(ledger, len(table.Rows))

		h.mu.Lock()
		h.ledger = ledger
		h.summary = &summary
		h.mu.Unlock()

		h.recordBatch(ledger, summary)
		slog.Info("batch recorded",
			"runId", requestctx.GetRunID(ctx),
			"rows", len(ledger),
			"succeeded", summary.Succeeded,
			"remaining", summary.Remaining)
		return nil
	})
	if err != nil {
		if errors.Is(err, jobs.ErrBusy) {
			api.Fail(w, http.StatusConflict, "run_in_progress", err.Error(), reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "submit_failed", err.Error(), reqID)
		return
	}

	api.Success(w, map[string]any{"runId": runID, "dryRun": dryRun, "outputDir": outputDir}, reqID)
}

func (h *Handler) HandleRunStatus(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.jobs.Snapshot(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleResults(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	h.mu.Lock()
	ledger := h.ledger
	summary := h.summary
	h.mu.Unlock()

	if summary == nil {
		api.Fail(w, http.StatusNotFound, "no_results", "no batch has finished yet", reqID)
		return
	}
	api.Success(w, map[string]any{"ledger": ledger, "summary": summary}, reqID)
}

func (h *Handler) HandleResultsCSV(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	h.mu.Lock()
	ledger := h.ledger
	h.mu.Unlock()
	if ledger == nil {
		api.Fail(w, http.StatusNotFound, "no_results", "no batch has finished yet", reqID)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=payslip_results.csv")
	if err := batch.WriteCSV(w, ledger); err != nil {
		slog.Warn("results csv export failed", "err", err)
	}
}

func (h *Handler) HandleResultsBundle(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	h.mu.Lock()
	ledger := h.ledger
	h.mu.Unlock()
	if ledger == nil {
		api.Fail(w, http.StatusNotFound, "no_results", "no batch has finished yet", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment; filename=payslips.zip")
	if err := batch.WriteZip(w, ledger); err != nil {
		slog.Warn("payslip bundle export failed", "err", err)
	}
}

// HandleClear drops the ledger and removes the run's scratch directory. The
// UI confirms with the user before calling this.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	if h.jobs.Snapshot().State == jobs.StateRunning {
		api.Fail(w, http.StatusConflict, "run_in_progress", "cannot clear while a batch is running", reqID)
		return
	}

	h.mu.Lock()
	if h.runDir != "" {
		scratch.Remove(h.cfg.ScratchBaseDir, h.runDir)
	}
	h.runDir = ""
	h.logoPath = ""
	h.ledger = nil
	h.summary = nil
	h.mu.Unlock()

	api.Success(w, map[string]any{"cleared": true}, reqID)
}

func (h *Handler) ensureRunDirLocked() (string, error) {
	if h.runDir != "" {
		return h.runDir, nil
	}
	dir, err := scratch.NewRunDir(h.cfg.ScratchBaseDir)
	if err != nil {
		return "", err
	}
	h.runDir = dir
	return dir, nil
}

func (h *Handler) recordBatch(ledger batch.Ledger, summary batch.Summary) {
	if h.metrics == nil {
		return
	}
	rendered := 0
	sent := 0
	for _, out := range ledger {
		if out.Status != batch.StatusError {
			rendered++
		}
		if out.Status == batch.StatusSent {
			sent++
		}
	}
	h.metrics.RecordBatch(rendered, sent, summary.Failed, summary.QuotaExceeded > 0)
}
