// Package azure implements transcribe.Provider using the Azure Speech
// short-audio REST endpoint.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
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
	// ProviderName is the registered name for the Azure Speech provider.
	ProviderName = "azure"

	defaultTimeout = 120 * time.Second
	probeTimeout   = 5 * time.Second
)

func init() {
	transcribe.RegisterFactory(ProviderName, func(cfg *config.Settings) (transcribe.Provider, error) {
		if cfg.Azure.SubscriptionKey == "" {
			return nil, apperrors.MissingSetting(ProviderName, "subscription_key")
		}
		return NewProvider(Config{
			SubscriptionKey: cfg.Azure.SubscriptionKey,
			Region:          cfg.Azure.Region,
			Endpoint:        cfg.Azure.Endpoint,
			Language:        cfg.Language,
		}), nil
	})
}

// Config holds configuration for the Azure Speech provider.
type Config struct {
	SubscriptionKey string `json:"subscription_key" yaml:"subscription_key"`
	Region          string `json:"region" yaml:"region"`
	// Endpoint overrides the regional recognition URL, for custom models
	// or speech containers.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint"`
	Language string `json:"language" yaml:"language"`
}

// Provider implements transcribe.Provider against Azure Speech.
type Provider struct {
	cfg    Config
	client *http.Client
}

// NewProvider creates an Azure Speech provider.
func NewProvider(cfg Config) *Provider {
	return &Provider{
		cfg: cfg,
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks whether the subscription key is accepted by the
// regional token endpoint, or whether a custom endpoint is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if p.cfg.Endpoint != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.Endpoint, nil)
		if err != nil {
			return false
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return true
	}

	tokenURL := fmt.Sprintf("https://%s.api.cognitive.microsoft.com/sts/v1.0/issueToken", p.cfg.Region)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", p.cfg.SubscriptionKey)
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// TranscribeFile recognizes one short audio file. Every failure mode lands
// in the result's status string; the elapsed recognition time is reported
// for all outcomes except transport-level exceptions.
func (p *Provider) TranscribeFile(ctx context.Context, path string) *transcribe.Result {
	audioData, err := os.ReadFile(path)
	if err != nil {
		return &transcribe.Result{Status: "exception: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.recognizeURL(), bytes.NewReader(audioData))
	if err != nil {
		return &transcribe.Result{Status: "exception: " + err.Error()}
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", p.cfg.SubscriptionKey)
	req.Header.Set("Content-Type", contentType(path))
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return &transcribe.Result{Status: "exception: " + err.Error()}
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		detail := fmt.Sprintf("Reason=Error, ErrorCode=%d", resp.StatusCode)
		if len(body) > 0 {
			detail += ", Details=" + strings.TrimSpace(string(body))
		}
		return &transcribe.Result{Status: "canceled: " + detail, Elapsed: elapsed}
	}

	var result recognitionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return &transcribe.Result{Status: "exception: " + err.Error()}
	}

	switch result.RecognitionStatus {
	case "Success":
		return &transcribe.Result{Text: result.DisplayText, Status: "success", Elapsed: elapsed}
	case "NoMatch", "InitialSilenceTimeout", "BabbleTimeout":
		return &transcribe.Result{Status: "no_speech_detected", Elapsed: elapsed}
	default:
		return &transcribe.Result{Status: "unknown_result: " + result.RecognitionStatus, Elapsed: elapsed}
	}
}

func (p *Provider) recognizeURL() string {
	base := p.cfg.Endpoint
	if base == "" {
		base = fmt.Sprintf("https://%s.stt.speech.microsoft.com/speech/recognition/conversation/cognitiveservices/v1", p.cfg.Region)
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "language=" + url.QueryEscape(p.cfg.Language)
}

// contentType maps the audio container to the codec declaration the
// short-audio endpoint expects.
func contentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return "audio/wav; codecs=audio/pcm; samplerate=16000"
	case ".ogg":
		return "audio/ogg; codecs=opus"
	default:
		return "application/octet-stream"
	}
}

// recognitionResponse is the short-audio endpoint's reply document.
type recognitionResponse struct {
	RecognitionStatus string `json:"RecognitionStatus"`
	DisplayText       string `json:"DisplayText"`
	Offset            int64  `json:"Offset"`
	Duration          int64  `json:"Duration"`
}

var _ transcribe.Provider = (*Provider)(nil)
