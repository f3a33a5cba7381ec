// Package emailjs delivers orders through the EmailJS REST API, filling the
// store's order template with the flattened order record.
package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
)

// DefaultEndpoint is the EmailJS send API.
const DefaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// maxErrorBody caps how much of a failure response is kept in the error.
const maxErrorBody = 512

// ErrNotConfigured is returned by New when service, template or public key is missing.
var ErrNotConfigured = errors.New("emailjs: service_id, template_id and public_key are required")

// Config identifies the EmailJS account, service and template.
type Config struct {
	ServiceID  string        `mapstructure:"service_id" yaml:"service_id"`
	TemplateID string        `mapstructure:"template_id" yaml:"template_id"`
	PublicKey  string        `mapstructure:"public_key" yaml:"public_key"`
	PrivateKey string        `mapstructure:"private_key" yaml:"private_key"`
	Endpoint   string        `mapstructure:"endpoint" yaml:"endpoint"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Configured reports whether the mandatory identifiers are present.
func (c Config) Configured() bool {
	return c.ServiceID != "" && c.TemplateID != "" && c.PublicKey != ""
}

type request struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// Submitter implements ports.OrderSubmitter.
type Submitter struct {
	cfg    Config
	client *http.Client
}

// Option configures the Submitter.
type Option func(*Submitter)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Submitter) {
		s.client = c
	}
}

// New creates a Submitter.
func New(cfg Config, opts ...Option) (*Submitter, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	s := &Submitter{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Submit sends the order record as template parameters. Any transport error
// or non-2xx response is a failure carrying the response text.
func (s *Submitter) Submit(ctx context.Context, order domain.Order) error {
	params := order.Params()
	params["reference"] = order.Reference

	body, err := json.Marshal(request{
		ServiceID:      s.cfg.ServiceID,
		TemplateID:     s.cfg.TemplateID,
		UserID:         s.cfg.PublicKey,
		AccessToken:    s.cfg.PrivateKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("emailjs: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("emailjs: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("emailjs: status %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
