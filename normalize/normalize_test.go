package normalize

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/skillsenselab/batchscribe/sink"
)

func TestNormalize(t *testing.T) {
	n := New(nil)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase and punctuation", "Hola, ¿cómo estás?", "hola cómo estás"},
		{"accents preserved", "la señal del año pasado", "la señal del año pasado"},
		{"storage replacement spaced", "Tengo 1 TB de espacio", "tengo un terabyte de espacio"},
		{"storage replacement joined", "disco de 2TB lleno", "disco de dos terabyte lleno"},
		{"bare unit", "quedan 21 tb libres", "quedan veintiuno terabyte libres"},
		{"processor names", "procesador i7 o i5", "procesador i siete o i cinco"},
		{"paper format", "folio a4 impreso", "folio a cuatro impreso"},
		{"model code", "modelo XG-500", "modelo equis ge quinientos"},
		{"invoice code", "pago con F A 123", "pago con efe a ciento veintitrés"},
		{"number to words", "factura de 250 euros", "factura de doscientos cincuenta euros"},
		{"year", "año 2026", "año dos mil veintiséis"},
		{"long code digit by digit", "el código es 12345", "el código es uno dos tres cuatro cinco"},
		{"leading zeros in code", "serie 00123", "serie cero cero uno dos tres"},
		{"version dotted", "Versión 2.0", "versión dos cero"},
		{"article fix", "1 gigabyte de memoria", "un gigabyte de memoria"},
		{"embedded digits untouched", "modelo b52", "modelo b52"},
		{"underscores removed", "under_score word", "under score word"},
		{"whitespace collapse", "  hola   mundo  ", "hola mundo"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeCustomReplacements(t *testing.T) {
	n := New([]Replacement{{"ssd", "disco sólido"}})

	if got := n.Normalize("SSD rápido"); got != "disco sólido rápido" {
		t.Errorf("custom replacement not applied: %q", got)
	}
	// A custom table replaces the default one entirely.
	if got := n.Normalize("5 tb"); got != "cinco tb" {
		t.Errorf("default table leaked through: %q", got)
	}
}

func TestSpellNumber(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "cero"},
		{5, "cinco"},
		{10, "diez"},
		{15, "quince"},
		{16, "dieciséis"},
		{20, "veinte"},
		{21, "veintiuno"},
		{26, "veintiséis"},
		{30, "treinta"},
		{47, "cuarenta y siete"},
		{90, "noventa"},
		{100, "cien"},
		{101, "ciento uno"},
		{115, "ciento quince"},
		{250, "doscientos cincuenta"},
		{500, "quinientos"},
		{999, "novecientos noventa y nueve"},
		{1000, "mil"},
		{1001, "mil uno"},
		{2026, "dos mil veintiséis"},
		{9999, "nueve mil novecientos noventa y nueve"},
	}
	for _, tt := range tests {
		if got := spellNumber(tt.n); got != tt.want {
			t.Errorf("spellNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestProcessCSV(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "results.csv")
	output := filepath.Join(dir, "results_normalized.csv")

	records := []sink.Record{
		{"filename": "a.wav", "text": "Tengo 1 TB libres.", "status": "success"},
		{"filename": "b.wav", "text": "", "status": "no_speech_detected"},
	}
	if err := sink.Write(input, []string{"filename", "text", "status"}, records); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if err := New(nil).ProcessCSV(input, output, "text"); err != nil {
		t.Fatalf("ProcessCSV: %v", err)
	}

	header, got, err := sink.Read(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(header) != 4 || header[3] != "text_normalized" {
		t.Fatalf("unexpected header: %v", header)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0]["text_normalized"] != "tengo un terabyte libres" {
		t.Errorf("normalized text = %q", got[0]["text_normalized"])
	}
	if got[0]["text"] != "Tengo 1 TB libres." {
		t.Errorf("original text changed: %q", got[0]["text"])
	}
	if got[1]["text_normalized"] != "" {
		t.Errorf("empty text should normalize to empty, got %q", got[1]["text_normalized"])
	}
}

func TestProcessCSVMissingColumn(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "results.csv")
	if err := sink.Write(input, []string{"filename", "status"}, []sink.Record{
		{"filename": "a.wav", "status": "success"},
	}); err != nil {
		t.Fatalf("write input: %v", err)
	}

	err := New(nil).ProcessCSV(input, filepath.Join(dir, "out.csv"), "text")
	if err == nil {
		t.Fatal("expected error for missing column")
	}
	if !strings.Contains(err.Error(), `column "text" not found`) {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "filename, status") {
		t.Errorf("expected available columns listed, got: %v", err)
	}
}

func TestProcessCSVMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := New(nil).ProcessCSV(filepath.Join(dir, "absent.csv"), filepath.Join(dir, "out.csv"), "text")
	if err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestProcessCSVEmptyColumn(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "results.csv")
	if err := sink.Write(input, []string{"filename"}, []sink.Record{{"filename": "a.wav"}}); err != nil {
		t.Fatalf("write input: %v", err)
	}

	err := New(nil).ProcessCSV(input, filepath.Join(dir, "out.csv"), "")
	if err == nil {
		t.Fatal("expected error for empty column name")
	}
	if !strings.Contains(err.Error(), "column: is required") {
		t.Errorf("unexpected error: %v", err)
	}
}
