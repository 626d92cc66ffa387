// Command normtext normalizes a transcription column in a CSV file for
// Spanish ASR evaluation, writing the result to a _normalized copy.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skillsenselab/batchscribe/normalize"
	"github.com/skillsenselab/batchscribe/sink"
	"github.com/skillsenselab/batchscribe/version"
)

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorRed   = "\033[31m"
)

func info(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[info] "+colorReset+msg+"\n", a...)
}

func ok(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[ok] "+colorReset+msg+"\n", a...)
}

func fail(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[error] "+colorReset+msg+"\n", a...)
}

func main() {
	var (
		outputPath  string
		column      string
		showVersion bool
	)

	flag.StringVar(&outputPath, "output", "", "Output CSV path (default <input>_normalized.csv) (-o)")
	flag.StringVar(&outputPath, "o", "", "Output CSV path")
	flag.StringVar(&column, "column", "text", "Name of the column to normalize (-c)")
	flag.StringVar(&column, "c", "text", "Name of the column to normalize")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <input.csv>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Println("normtext " + version.Resolve().String())
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	inputPath := flag.Arg(0)

	if outputPath == "" {
		ext := filepath.Ext(inputPath)
		stem := strings.TrimSuffix(inputPath, ext)
		outputPath = stem + "_normalized" + ext
	}

	info("Processing: %s", inputPath)

	n := normalize.New(normalize.DefaultReplacements())
	if err := n.ProcessCSV(inputPath, outputPath, column); err != nil {
		fail("%v", err)
		os.Exit(1)
	}

	_, records, err := sink.Read(outputPath)
	if err != nil {
		fail("reading back %s: %v", outputPath, err)
		os.Exit(1)
	}

	ok("Normalization complete: %d rows", len(records))
	ok("Saved to: %s", outputPath)
}
