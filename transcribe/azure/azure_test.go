package azure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeAudio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("RIFF fake audio"), 0o600); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func TestTranscribeFileSuccess(t *testing.T) {
	var gotKey, gotLanguage, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		gotLanguage = r.URL.Query().Get("language")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"RecognitionStatus":"Success","DisplayText":"hola mundo"}`))
	}))
	defer server.Close()

	p := NewProvider(Config{SubscriptionKey: "key-123", Endpoint: server.URL, Language: "es-ES"})
	result := p.TranscribeFile(context.Background(), writeAudio(t, "sample.wav"))

	if result.Status != "success" {
		t.Errorf("expected status success, got %q", result.Status)
	}
	if result.Text != "hola mundo" {
		t.Errorf("expected text 'hola mundo', got %q", result.Text)
	}
	if result.Elapsed <= 0 {
		t.Error("expected elapsed time to be recorded")
	}
	if gotKey != "key-123" {
		t.Errorf("expected subscription key header, got %q", gotKey)
	}
	if gotLanguage != "es-ES" {
		t.Errorf("expected language query es-ES, got %q", gotLanguage)
	}
	if !strings.HasPrefix(gotContentType, "audio/wav") {
		t.Errorf("expected audio/wav content type, got %q", gotContentType)
	}
}

func TestTranscribeFileNoSpeech(t *testing.T) {
	for _, status := range []string{"NoMatch", "InitialSilenceTimeout", "BabbleTimeout"} {
		t.Run(status, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"RecognitionStatus":"` + status + `"}`))
			}))
			defer server.Close()

			p := NewProvider(Config{SubscriptionKey: "k", Endpoint: server.URL, Language: "es-ES"})
			result := p.TranscribeFile(context.Background(), writeAudio(t, "quiet.wav"))

			if result.Status != "no_speech_detected" {
				t.Errorf("expected no_speech_detected, got %q", result.Status)
			}
			if result.Text != "" {
				t.Errorf("expected empty text, got %q", result.Text)
			}
			if result.Elapsed <= 0 {
				t.Error("expected elapsed time to be recorded")
			}
		})
	}
}

func TestTranscribeFileUnknownStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"RecognitionStatus":"EndOfDictation"}`))
	}))
	defer server.Close()

	p := NewProvider(Config{SubscriptionKey: "k", Endpoint: server.URL, Language: "es-ES"})
	result := p.TranscribeFile(context.Background(), writeAudio(t, "odd.wav"))

	if result.Status != "unknown_result: EndOfDictation" {
		t.Errorf("unexpected status %q", result.Status)
	}
}

func TestTranscribeFileHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid subscription key"))
	}))
	defer server.Close()

	p := NewProvider(Config{SubscriptionKey: "bad", Endpoint: server.URL, Language: "es-ES"})
	result := p.TranscribeFile(context.Background(), writeAudio(t, "sample.wav"))

	if !strings.HasPrefix(result.Status, "canceled: ") {
		t.Errorf("expected canceled status, got %q", result.Status)
	}
	if !strings.Contains(result.Status, "ErrorCode=401") {
		t.Errorf("expected error code in status, got %q", result.Status)
	}
	if !strings.Contains(result.Status, "Details=invalid subscription key") {
		t.Errorf("expected response details in status, got %q", result.Status)
	}
	if result.Elapsed <= 0 {
		t.Error("expected elapsed time to be recorded")
	}
}

func TestTranscribeFileConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	uri := server.URL
	server.Close()

	p := NewProvider(Config{SubscriptionKey: "k", Endpoint: uri, Language: "es-ES"})
	result := p.TranscribeFile(context.Background(), writeAudio(t, "sample.wav"))

	if !strings.HasPrefix(result.Status, "exception: ") {
		t.Errorf("expected exception status, got %q", result.Status)
	}
	if result.Elapsed != 0 {
		t.Errorf("expected no elapsed time on exception, got %v", result.Elapsed)
	}
}

func TestTranscribeFileUnreadableFile(t *testing.T) {
	p := NewProvider(Config{SubscriptionKey: "k", Region: "westeurope", Language: "es-ES"})
	result := p.TranscribeFile(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))

	if !strings.HasPrefix(result.Status, "exception: ") {
		t.Errorf("expected exception status, got %q", result.Status)
	}
}

func TestIsAvailableCustomEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer server.Close()

	p := NewProvider(Config{SubscriptionKey: "k", Endpoint: server.URL})
	if !p.IsAvailable(context.Background()) {
		t.Error("expected reachable endpoint to be available")
	}

	server.Close()
	if p.IsAvailable(context.Background()) {
		t.Error("expected closed endpoint to be unavailable")
	}
}

func TestRecognizeURL(t *testing.T) {
	regional := NewProvider(Config{Region: "westeurope", Language: "es-ES"})
	got := regional.recognizeURL()
	want := "https://westeurope.stt.speech.microsoft.com/speech/recognition/conversation/cognitiveservices/v1?language=es-ES"
	if got != want {
		t.Errorf("regional URL = %q, want %q", got, want)
	}

	custom := NewProvider(Config{Endpoint: "http://container:5000/v1?model=es", Language: "es-ES"})
	got = custom.recognizeURL()
	if !strings.Contains(got, "?model=es&language=es-ES") {
		t.Errorf("custom endpoint query not merged: %q", got)
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"clip.wav", "audio/wav; codecs=audio/pcm; samplerate=16000"},
		{"clip.WAV", "audio/wav; codecs=audio/pcm; samplerate=16000"},
		{"clip.ogg", "audio/ogg; codecs=opus"},
		{"clip.mp3", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := contentType(tt.path); got != tt.want {
			t.Errorf("contentType(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
