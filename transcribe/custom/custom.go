// Package custom implements transcribe.Provider against a self-hosted
// transcription HTTP service exposing a multipart /transcribe endpoint.
package custom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/skillsenselab/batchscribe/config"
	apperrors "github.com/skillsenselab/batchscribe/errors"
	"github.com/skillsenselab/batchscribe/transcribe"
)

const (
	// ProviderName is the registered name for the custom service provider.
	ProviderName = "custom"

	defaultTimeout = 300 * time.Second
	probeTimeout   = 5 * time.Second
)

func init() {
	transcribe.RegisterFactory(ProviderName, func(cfg *config.Settings) (transcribe.Provider, error) {
		if cfg.Custom.ServiceURI == "" {
			return nil, apperrors.MissingSetting(ProviderName, "service_uri")
		}
		return NewProvider(Config{
			ServiceURI: cfg.Custom.ServiceURI,
			Timeout:    cfg.Custom.Timeout,
		}), nil
	})
}

// Config holds configuration for the custom service provider.
type Config struct {
	ServiceURI string        `json:"service_uri" yaml:"service_uri"`
	Timeout    time.Duration `json:"timeout" yaml:"timeout"`
}

// Provider implements transcribe.Provider using an HTTP transcription service.
type Provider struct {
	cfg    Config
	client *http.Client
}

// NewProvider creates a custom service provider.
func NewProvider(cfg Config) *Provider {
	cfg.ServiceURI = strings.TrimRight(cfg.ServiceURI, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Provider{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the transcription service is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.ServiceURI, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < http.StatusBadRequest
}

// TranscribeFile sends one audio file to the service's /transcribe endpoint.
// Every failure mode lands in the result's status string.
func (p *Provider) TranscribeFile(ctx context.Context, path string) *transcribe.Result {
	filename := filepath.Base(path)

	audioData, err := os.ReadFile(path)
	if err != nil {
		return &transcribe.Result{Status: "exception: " + err.Error()}
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return &transcribe.Result{Status: "exception: " + err.Error()}
	}
	if _, err := part.Write(audioData); err != nil {
		return &transcribe.Result{Status: "exception: " + err.Error()}
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.ServiceURI+"/transcribe", &buf)
	if err != nil {
		return &transcribe.Result{Status: "exception: " + err.Error()}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return &transcribe.Result{Status: "error: request timeout"}
		}
		return &transcribe.Result{Status: "error: cannot connect to service at " + p.cfg.ServiceURI}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return &transcribe.Result{Status: fmt.Sprintf("error: HTTP %d", resp.StatusCode)}
	}

	var result serviceResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return &transcribe.Result{Status: "exception: " + err.Error()}
	}

	return &transcribe.Result{Text: result.Text, Status: "success"}
}

func isTimeout(err error) bool {
	var uerr *url.Error
	return errors.As(err, &uerr) && uerr.Timeout()
}

// serviceResponse is the transcription service's reply document.
type serviceResponse struct {
	Text string `json:"text"`
}

var _ transcribe.Provider = (*Provider)(nil)
