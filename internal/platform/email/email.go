// Package email owns the authenticated SMTP session used to deliver payslip
// batches. One Dispatcher serves exactly one batch run; after Disconnect a
// fresh Dispatcher is required.
package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"payslips/internal/domain/company"
	"payslips/internal/domain/payroll"
)

var (
	ErrAuth         = errors.New("smtp authentication failed")
	ErrTransport    = errors.New("smtp protocol error")
	ErrConnection   = errors.New("smtp connection failed")
	ErrNotConnected = errors.New("not connected to SMTP server")
)

// Outcome is the tagged result of one send attempt.
type Outcome int

const (
	OutcomeSent Outcome = iota
	OutcomeFailed
	OutcomeQuotaExceeded
)

// SendResult reports one send attempt. QuotaExceeded is a distinguished stop
// signal, not a per-row failure; the orchestrator halts the batch on it.
type SendResult struct {
	Outcome Outcome
	Message string
}

type Dispatcher struct {
	host     string
	port     int
	from     string
	password string
	timeout  time.Duration
	client   *smtp.Client
}

// New builds a disconnected Dispatcher. Embedded whitespace is stripped from
// the secret before use; Gmail app passwords are issued with spaces in them.
func New(host string, port int, creds company.SMTPCredentials, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		host:     host,
		port:     port,
		from:     creds.Email,
		password: strings.ReplaceAll(creds.Password, " ", ""),
		timeout:  timeout,
	}
}

// Connect dials the transport endpoint, negotiates STARTTLS and logs in.
func (d *Dispatcher) Connect(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", d.host, d.port)
	dialer := net.Dialer{Timeout: d.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	// The deadline must cover the greeting, STARTTLS and AUTH exchanges
	// too; a server that accepts and then goes silent must not hang the
	// login past the configured timeout.
	if d.timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(d.timeout))
	}

	client, err := smtp.NewClient(conn, d.host)
	if err != nil {
		conn.Close()
		return classifyConnectErr(err)
	}
	if err := client.StartTLS(&tls.Config{ServerName: d.host}); err != nil {
		client.Close()
		return classifyConnectErr(err)
	}
	auth := smtp.PlainAuth("", d.from, d.password, d.host)
	if err := client.Auth(auth); err != nil {
		client.Close()
		return classifyConnectErr(err)
	}
	_ = conn.SetDeadline(time.Time{})

	d.client = client
	return nil
}

// VerifyLogin performs a full connect/login/quit round trip. Used by the UI
// boundary to test credentials before a batch is started.
func (d *Dispatcher) VerifyLogin(ctx context.Context) error {
	if err := d.Connect(ctx); err != nil {
		return err
	}
	d.Disconnect()
	return nil
}

// SendPayslip emails one rendered payslip to the row's address. Local
// failures (missing PDF, no session) never touch the wire and come back as
// OutcomeFailed. A provider daily-quota rejection comes back as
// OutcomeQuotaExceeded.
func (d *Dispatcher) SendPayslip(row payroll.Row, pdfPath string) SendResult {
	if d.client == nil {
		return SendResult{Outcome: OutcomeFailed, Message: ErrNotConnected.Error()}
	}
	pdfData, err := os.ReadFile(pdfPath)
	if err != nil {
		return SendResult{Outcome: OutcomeFailed, Message: fmt.Sprintf("PDF file not found: %s", pdfPath)}
	}

	msg := buildMessage(d.from, row.Email, row.Name, row.PayrollPeriod, filepath.Base(pdfPath), pdfData)

	if err := d.transmit(row.Email, msg); err != nil {
		if isQuotaErr(err) {
			return SendResult{
				Outcome: OutcomeQuotaExceeded,
				Message: "Daily sending limit reached - email not sent",
			}
		}
		return SendResult{Outcome: OutcomeFailed, Message: fmt.Sprintf("Error: %v", err)}
	}
	return SendResult{Outcome: OutcomeSent, Message: fmt.Sprintf("Sent to %s", row.Email)}
}

func (d *Dispatcher) transmit(to string, msg []byte) error {
	if err := d.client.Mail(d.from); err != nil {
		return err
	}
	if err := d.client.Rcpt(to); err != nil {
		return err
	}
	w, err := d.client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// Disconnect closes the session, swallowing close-time errors. The
// Dispatcher is terminal afterwards.
func (d *Dispatcher) Disconnect() {
	if d.client == nil {
		return
	}
	_ = d.client.Quit()
	d.client = nil
}

func classifyConnectErr(err error) error {
	var proto *textproto.Error
	if errors.As(err, &proto) {
		if proto.Code == 535 || proto.Code == 534 {
			return fmt.Errorf("%w: %v", ErrAuth, err)
		}
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if strings.Contains(strings.ToLower(err.Error()), "auth") {
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}
	return fmt.Errorf("%w: %v", ErrConnection, err)
}

// isQuotaErr matches the provider's daily sending-quota signature. Gmail
// rejects with enhanced status 5.4.5 ("Daily user sending limit exceeded").
func isQuotaErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "5.4.5") ||
		strings.Contains(msg, "daily user sending") ||
		strings.Contains(msg, "sending limit exceeded")
}
