// Package google implements transcribe.Provider using the Google Cloud
// Speech-to-Text REST API.
package google

import (
	"context"
	"encoding/base64"
	"net/http"
	"os"
	"strings"
	"time"

	speech "google.golang.org/api/speech/v1"
	"google.golang.org/api/option"

	"github.com/skillsenselab/batchscribe/config"
	apperrors "github.com/skillsenselab/batchscribe/errors"
	"github.com/skillsenselab/batchscribe/transcribe"
)

const (
	// ProviderName is the registered name for the Google Speech provider.
	ProviderName = "google"

	// recognitionModel selects the long-form audio model.
	recognitionModel = "latest_long"

	probeTimeout = 5 * time.Second
)

func init() {
	transcribe.RegisterFactory(ProviderName, func(cfg *config.Settings) (transcribe.Provider, error) {
		return NewProvider(context.Background(), Config{
			ProjectID:       cfg.Google.ProjectID,
			Location:        cfg.Google.Location,
			CredentialsFile: cfg.Google.CredentialsFile,
			Language:        cfg.Language,
		})
	})
}

// Config holds configuration for the Google Speech provider.
type Config struct {
	// ProjectID, when set, is billed for API quota instead of the
	// credential's default project.
	ProjectID string `json:"project_id,omitempty" yaml:"project_id"`
	// Location routes requests to a regional endpoint such as "eu" or
	// "us". Empty or "global" uses the default endpoint.
	Location string `json:"location,omitempty" yaml:"location"`
	// CredentialsFile points at a service account JSON key. When empty,
	// Application Default Credentials are used.
	CredentialsFile string `json:"credentials_file,omitempty" yaml:"credentials_file"`
	Language        string `json:"language" yaml:"language"`
	// Endpoint overrides the API endpoint, for emulators or private
	// gateways. Requests to an overridden endpoint are unauthenticated.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint"`
}

// Provider implements transcribe.Provider against Google Cloud Speech.
type Provider struct {
	cfg Config
	svc *speech.Service
}

// NewProvider creates a Google Speech provider. Credentials are resolved
// eagerly, so a bad service account file fails here rather than on the
// first transcription.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.ProjectID != "" {
		opts = append(opts, option.WithQuotaProject(cfg.ProjectID))
	}
	switch ep := regionalEndpoint(cfg.Location); {
	case cfg.Endpoint != "":
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	case ep != "":
		opts = append(opts, option.WithEndpoint(ep))
	}

	svc, err := speech.NewService(ctx, opts...)
	if err != nil {
		return nil, apperrors.Configuration("cannot create google speech client").WithCause(err)
	}
	return &Provider{cfg: cfg, svc: svc}, nil
}

// regionalEndpoint returns the speech endpoint for a location, or empty for
// the default global endpoint.
func regionalEndpoint(location string) string {
	if location == "" || location == "global" {
		return ""
	}
	return "https://" + location + "-speech.googleapis.com/"
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the speech API endpoint is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.svc.BasePath, nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// TranscribeFile recognizes one audio file synchronously. Transcripts from
// all result segments are joined into a single text. Failures land in the
// result's status string.
func (p *Provider) TranscribeFile(ctx context.Context, path string) *transcribe.Result {
	audioData, err := os.ReadFile(path)
	if err != nil {
		return &transcribe.Result{Status: "error: " + err.Error()}
	}

	req := &speech.RecognizeRequest{
		Audio: &speech.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(audioData),
		},
		Config: &speech.RecognitionConfig{
			LanguageCode: p.cfg.Language,
			Model:        recognitionModel,
		},
	}

	resp, err := p.svc.Speech.Recognize(req).Context(ctx).Do()
	if err != nil {
		return &transcribe.Result{Status: "error: " + err.Error()}
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, " "))

	return &transcribe.Result{Text: text, Status: "success"}
}

var _ transcribe.Provider = (*Provider)(nil)
