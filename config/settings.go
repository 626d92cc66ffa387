package config

import (
	"time"

	"github.com/skillsenselab/batchscribe/errors"
	"github.com/skillsenselab/batchscribe/logger"
	"github.com/skillsenselab/batchscribe/util"
	"github.com/skillsenselab/batchscribe/validation"
)

// Supported speech-to-text provider names.
const (
	ProviderAzure  = "azure"
	ProviderGoogle = "google"
	ProviderCustom = "custom"
	ProviderAmazon = "amazon"
)

// Providers returns all supported provider names.
func Providers() []string {
	return []string{ProviderAzure, ProviderGoogle, ProviderCustom, ProviderAmazon}
}

// Settings is the root configuration for the transcription tools.
type Settings struct {
	Provider   string   `yaml:"provider" mapstructure:"provider" validate:"required,oneof=azure google custom amazon"`
	AudioDir   string   `yaml:"audio_dir" mapstructure:"audio_dir" validate:"required"`
	OutputCSV  string   `yaml:"output_csv" mapstructure:"output_csv" validate:"required"`
	Language   string   `yaml:"language" mapstructure:"language" validate:"required"`
	Extensions []string `yaml:"extensions" mapstructure:"extensions"`

	Logging logger.Config   `yaml:"logging" mapstructure:"logging"`
	Poll    PollSettings    `yaml:"poll" mapstructure:"poll"`
	History HistorySettings `yaml:"history" mapstructure:"history"`

	Azure  AzureSettings  `yaml:"azure" mapstructure:"azure"`
	Amazon AmazonSettings `yaml:"amazon" mapstructure:"amazon"`
	Google GoogleSettings `yaml:"google" mapstructure:"google"`
	Custom CustomSettings `yaml:"custom" mapstructure:"custom"`
}

// PollSettings controls how submitted remote jobs are watched for completion.
type PollSettings struct {
	Interval    time.Duration `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	SubmitDelay time.Duration `yaml:"submit_delay" mapstructure:"submit_delay" validate:"gte=0"`
}

// HistorySettings configures the local run history database.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// AzureSettings configures the Azure Speech provider.
type AzureSettings struct {
	SubscriptionKey string `yaml:"subscription_key" mapstructure:"subscription_key"`
	Region          string `yaml:"region" mapstructure:"region"`
	Endpoint        string `yaml:"endpoint" mapstructure:"endpoint"`
}

// AmazonSettings configures the Amazon Transcribe provider and its S3 staging bucket.
type AmazonSettings struct {
	AccessKeyID     string `yaml:"access_key_id" mapstructure:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" mapstructure:"secret_access_key"`
	Region          string `yaml:"region" mapstructure:"region"`
	Bucket          string `yaml:"bucket" mapstructure:"bucket"`
	Endpoint        string `yaml:"endpoint" mapstructure:"endpoint"`
	TLSSkipVerify   bool   `yaml:"tls_skip_verify" mapstructure:"tls_skip_verify"`
}

// GoogleSettings configures the Google Cloud Speech provider.
type GoogleSettings struct {
	ProjectID       string `yaml:"project_id" mapstructure:"project_id"`
	Location        string `yaml:"location" mapstructure:"location"`
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`
}

// CustomSettings configures the self-hosted transcription service provider.
type CustomSettings struct {
	ServiceURI string        `yaml:"service_uri" mapstructure:"service_uri" validate:"omitempty,url"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
}

// envAliases maps the environment variable names the tools have always honored
// onto their nested config keys. The automatic binder cannot derive these
// because the variable names predate the nested layout.
var envAliases = map[string]string{
	"AZURE_SPEECH_KEY":               "azure.subscription_key",
	"AZURE_SPEECH_REGION":            "azure.region",
	"AZURE_SPEECH_ENDPOINT":          "azure.endpoint",
	"AZURE_SPEECH_LANGUAGE":          "language",
	"AWS_ACCESS_KEY_ID":              "amazon.access_key_id",
	"AWS_SECRET_ACCESS_KEY":          "amazon.secret_access_key",
	"AWS_REGION":                     "amazon.region",
	"AWS_S3_BUCKET":                  "amazon.bucket",
	"GOOGLE_APPLICATION_CREDENTIALS": "google.credentials_file",
	"GOOGLE_CLOUD_PROJECT":           "google.project_id",
	"CUSTOM_SERVICE_URI":             "custom.service_uri",
	"AUDIO_DIR":                      "audio_dir",
	"OUTPUT_CSV":                     "output_csv",
}

// LoadSettings loads tool configuration for the named command, applies
// defaults, and validates the result.
func LoadSettings(serviceName string, opts ...LoaderOption) (*Settings, error) {
	return LoadSettingsWith(serviceName, nil, opts...)
}

// LoadSettingsWith is LoadSettings with a hook that adjusts the loaded
// values, typically from command-line flags, before defaults and
// validation run.
func LoadSettingsWith(serviceName string, override func(*Settings), opts ...LoaderOption) (*Settings, error) {
	var s Settings
	opts = append(opts, WithEnvAliases(envAliases))
	if err := LoadConfig(serviceName, &s, opts...); err != nil {
		return nil, errors.Configuration(err.Error())
	}
	if override != nil {
		override(&s)
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ApplyDefaults fills zero-valued fields with their defaults.
func (s *Settings) ApplyDefaults() {
	s.Provider = util.Coalesce(s.Provider, ProviderAzure)
	s.AudioDir = util.Coalesce(s.AudioDir, "./audio")
	s.OutputCSV = util.Coalesce(s.OutputCSV, "./transcriptions.csv")
	s.Language = util.Coalesce(s.Language, "en-US")
	if len(s.Extensions) == 0 {
		s.Extensions = DefaultExtensions()
	}
	s.Extensions = util.Unique(s.Extensions)
	s.Poll.Interval = util.Coalesce(s.Poll.Interval, 5*time.Second)
	s.Poll.Timeout = util.Coalesce(s.Poll.Timeout, 300*time.Second)
	s.Poll.SubmitDelay = util.Coalesce(s.Poll.SubmitDelay, 250*time.Millisecond)
	s.History.Path = util.Coalesce(s.History.Path, "./transcriptions.db")
	s.Azure.Region = util.Coalesce(s.Azure.Region, "eastus")
	s.Amazon.Region = util.Coalesce(s.Amazon.Region, "us-east-1")
	s.Google.Location = util.Coalesce(s.Google.Location, "global")
	s.Custom.Timeout = util.Coalesce(s.Custom.Timeout, 300*time.Second)
	s.Logging.ApplyDefaults()
}

// Validate checks the settings, including the requirements of the selected
// provider. Settings for providers other than the selected one are ignored.
func (s *Settings) Validate() error {
	if err := s.Logging.Validate(); err != nil {
		return errors.Configuration(err.Error())
	}
	if err := validation.Validate(s); err != nil {
		return err
	}
	switch s.Provider {
	case ProviderAzure:
		if s.Azure.SubscriptionKey == "" {
			return errors.MissingSetting(s.Provider, "subscription_key")
		}
	case ProviderAmazon:
		if s.Amazon.AccessKeyID == "" {
			return errors.MissingSetting(s.Provider, "access_key_id")
		}
		if s.Amazon.SecretAccessKey == "" {
			return errors.MissingSetting(s.Provider, "secret_access_key")
		}
		if s.Amazon.Bucket == "" {
			return errors.MissingSetting(s.Provider, "bucket")
		}
	case ProviderGoogle:
		if s.Google.ProjectID == "" {
			return errors.MissingSetting(s.Provider, "project_id")
		}
	case ProviderCustom:
		if s.Custom.ServiceURI == "" {
			return errors.MissingSetting(s.Provider, "service_uri")
		}
	}
	return nil
}

// DefaultExtensions returns the audio file extensions scanned by default.
func DefaultExtensions() []string {
	return []string{".wav", ".mp3", ".ogg", ".flac"}
}
