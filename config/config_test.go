package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSettingsApplyDefaults(t *testing.T) {
	var s Settings
	s.ApplyDefaults()

	if s.Provider != ProviderAzure {
		t.Errorf("expected provider %q, got %q", ProviderAzure, s.Provider)
	}
	if s.AudioDir != "./audio" {
		t.Errorf("expected audio dir './audio', got %q", s.AudioDir)
	}
	if s.OutputCSV != "./transcriptions.csv" {
		t.Errorf("expected output csv './transcriptions.csv', got %q", s.OutputCSV)
	}
	if s.Language != "en-US" {
		t.Errorf("expected language 'en-US', got %q", s.Language)
	}
	if len(s.Extensions) != 4 {
		t.Errorf("expected 4 default extensions, got %v", s.Extensions)
	}
	if s.Poll.Interval != 5*time.Second {
		t.Errorf("expected poll interval 5s, got %v", s.Poll.Interval)
	}
	if s.Poll.Timeout != 300*time.Second {
		t.Errorf("expected poll timeout 300s, got %v", s.Poll.Timeout)
	}
	if s.Poll.SubmitDelay != 250*time.Millisecond {
		t.Errorf("expected submit delay 250ms, got %v", s.Poll.SubmitDelay)
	}
	if s.Azure.Region != "eastus" {
		t.Errorf("expected azure region 'eastus', got %q", s.Azure.Region)
	}
	if s.Amazon.Region != "us-east-1" {
		t.Errorf("expected amazon region 'us-east-1', got %q", s.Amazon.Region)
	}
	if s.Google.Location != "global" {
		t.Errorf("expected google location 'global', got %q", s.Google.Location)
	}
	if s.Custom.Timeout != 300*time.Second {
		t.Errorf("expected custom timeout 300s, got %v", s.Custom.Timeout)
	}
	if s.Logging.Level != "info" {
		t.Errorf("expected logging level 'info', got %q", s.Logging.Level)
	}
}

func TestSettingsValidate(t *testing.T) {
	base := func(provider string) Settings {
		s := Settings{Provider: provider}
		s.ApplyDefaults()
		return s
	}

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid azure",
			mutate: func(s *Settings) { s.Azure.SubscriptionKey = "key" },
		},
		{
			name:    "azure missing subscription key",
			mutate:  func(s *Settings) {},
			wantErr: true,
			errMsg:  "subscription_key is required for the azure provider",
		},
		{
			name: "amazon missing bucket",
			mutate: func(s *Settings) {
				s.Provider = ProviderAmazon
				s.Amazon.AccessKeyID = "AKIA"
				s.Amazon.SecretAccessKey = "secret"
			},
			wantErr: true,
			errMsg:  "bucket is required for the amazon provider",
		},
		{
			name: "amazon missing access key",
			mutate: func(s *Settings) {
				s.Provider = ProviderAmazon
				s.Amazon.Bucket = "my-bucket"
			},
			wantErr: true,
			errMsg:  "access_key_id is required for the amazon provider",
		},
		{
			name: "valid amazon",
			mutate: func(s *Settings) {
				s.Provider = ProviderAmazon
				s.Amazon.AccessKeyID = "AKIA"
				s.Amazon.SecretAccessKey = "secret"
				s.Amazon.Bucket = "my-bucket"
			},
		},
		{
			name:    "google missing project id",
			mutate:  func(s *Settings) { s.Provider = ProviderGoogle },
			wantErr: true,
			errMsg:  "project_id is required for the google provider",
		},
		{
			name:    "custom missing service uri",
			mutate:  func(s *Settings) { s.Provider = ProviderCustom },
			wantErr: true,
			errMsg:  "service_uri is required for the custom provider",
		},
		{
			name: "unknown provider",
			mutate: func(s *Settings) {
				s.Provider = "ibm"
			},
			wantErr: true,
			errMsg:  "provider",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := base(ProviderAzure)
			tc.mutate(&s)
			err := s.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadSettingsFromYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
provider: azure
language: es-ES
audio_dir: ./recordings
azure:
  subscription_key: yaml-key
  region: westeurope
poll:
  interval: 2s
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	s, err := LoadSettings("batchscribe", WithConfigFile(configPath))
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if s.Language != "es-ES" {
		t.Errorf("expected language 'es-ES', got %q", s.Language)
	}
	if s.AudioDir != "./recordings" {
		t.Errorf("expected audio dir './recordings', got %q", s.AudioDir)
	}
	if s.Azure.SubscriptionKey != "yaml-key" {
		t.Errorf("expected subscription key from yaml, got %q", s.Azure.SubscriptionKey)
	}
	if s.Azure.Region != "westeurope" {
		t.Errorf("expected azure region 'westeurope', got %q", s.Azure.Region)
	}
	if s.Poll.Interval != 2*time.Second {
		t.Errorf("expected poll interval 2s, got %v", s.Poll.Interval)
	}
	// Unset fields still pick up defaults.
	if s.OutputCSV != "./transcriptions.csv" {
		t.Errorf("expected default output csv, got %q", s.OutputCSV)
	}
	if s.Poll.Timeout != 300*time.Second {
		t.Errorf("expected default poll timeout, got %v", s.Poll.Timeout)
	}
}

func TestLoadSettingsEnvAliases(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
provider: azure
azure:
  subscription_key: yaml-key
  region: eastus2
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("AZURE_SPEECH_KEY", `"env-key"`)
	t.Setenv("AZURE_SPEECH_REGION", "westeurope")

	s, err := LoadSettings("batchscribe", WithConfigFile(configPath))
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	// Aliased env vars win over file values, with quotes stripped.
	if s.Azure.SubscriptionKey != "env-key" {
		t.Errorf("expected sanitized env key 'env-key', got %q", s.Azure.SubscriptionKey)
	}
	if s.Azure.Region != "westeurope" {
		t.Errorf("expected env region 'westeurope', got %q", s.Azure.Region)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	t.Setenv("AZURE_SPEECH_KEY", "env-key")

	s, err := LoadSettings("batchscribe", WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("expected LoadSettings to succeed with missing file, got %v", err)
	}
	if s.Provider != ProviderAzure {
		t.Errorf("expected default provider, got %q", s.Provider)
	}
}

func TestLoadSettingsWithOverride(t *testing.T) {
	t.Setenv("CUSTOM_SERVICE_URI", "http://localhost:9000")

	// The override selects the custom provider, so validation must not
	// demand the default provider's subscription key.
	s, err := LoadSettingsWith("batchscribe", func(s *Settings) {
		s.Provider = ProviderCustom
		s.Language = "es-ES"
	})
	if err != nil {
		t.Fatalf("LoadSettingsWith failed: %v", err)
	}
	if s.Provider != ProviderCustom {
		t.Errorf("expected provider override, got %q", s.Provider)
	}
	if s.Language != "es-ES" {
		t.Errorf("expected language override, got %q", s.Language)
	}
	if s.Custom.ServiceURI != "http://localhost:9000" {
		t.Errorf("expected service uri from env, got %q", s.Custom.ServiceURI)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{"AZURE_SPEECH_KEY", []string{"azure_speech_key", "azure.speech.key", "azure.speech_key"}},
		{"AUDIO_DIR", []string{"audio_dir", "audio.dir"}},
		{"PROVIDER", []string{"provider"}},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			variants := generateEnvKeyVariants(tc.key)
			set := make(map[string]bool, len(variants))
			for _, v := range variants {
				set[v] = true
			}
			for _, w := range tc.want {
				if !set[w] {
					t.Errorf("expected variant %q in %v", w, variants)
				}
			}
		})
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/batchscribe/config.yml": true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("batchscribe", LoaderConfig{})
	if files.ConfigFile != "./cmd/batchscribe/config.yml" {
		t.Errorf("expected config file at ./cmd/batchscribe/config.yml, got %q", files.ConfigFile)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool   { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }
func (m *mockFS) Getwd() (string, error)    { return "/mock", nil }

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	aliases := map[string]string{"FOO_BAR": "foo.bar"}

	WithFileSystem(fs)(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvAliases(aliases)(&lc)

	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" {
		t.Errorf("expected config file path, got %q", lc.ConfigFile)
	}
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("expected env file path, got %q", lc.EnvFile)
	}
	if lc.EnvAliases["FOO_BAR"] != "foo.bar" {
		t.Errorf("expected env aliases to be set, got %v", lc.EnvAliases)
	}
}
