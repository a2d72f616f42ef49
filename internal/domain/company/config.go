// Package company holds the per-batch company configuration document.
package company

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrConfig = errors.New("invalid company configuration")

// SMTPCredentials is the mailbox identity used by the dispatcher.
type SMTPCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Config carries the company display details printed on every payslip plus
// the transport credentials. It is immutable for the duration of a batch run;
// callers copy it into each run request.
type Config struct {
	CompanyName     string          `json:"company_name"`
	FooterText      string          `json:"footer_text"`
	DocumentID      string          `json:"document_id"`
	EffectivityDate string          `json:"effectivity_date"`
	SMTP            SMTPCredentials `json:"smtp"`
}

// Parse decodes an uploaded company config document. The SMTP sub-object must
// carry both the mailbox address and the secret.
func Parse(b []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if cfg.SMTP.Email == "" || cfg.SMTP.Password == "" {
		return Config{}, fmt.Errorf("%w: smtp configuration requires both email and password", ErrConfig)
	}
	return cfg, nil
}
