package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skillsenselab/batchscribe/batch"
	"github.com/skillsenselab/batchscribe/config"
	apperrors "github.com/skillsenselab/batchscribe/errors"
	"github.com/skillsenselab/batchscribe/logger"
	"github.com/skillsenselab/batchscribe/sink"
	"github.com/skillsenselab/batchscribe/util"
)

// TranscribeDirectory transcribes every audio file in cfg.AudioDir whose
// extension is in cfg.Extensions, in natural sort order, and appends one
// record per file to the CSV table at cfg.OutputCSV. Per-file failures are
// captured in each record's status; the returned error covers only
// configuration faults and sink write failures.
//
// Back-ends implementing batch.Service are driven through the batch
// orchestrator; all others are called sequentially per file.
func TranscribeDirectory(ctx context.Context, p Provider, cfg *config.Settings, log *logger.Logger) ([]sink.Record, error) {
	l := log.WithComponent("transcribe")

	info, err := os.Stat(cfg.AudioDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Configuration(fmt.Sprintf("audio directory not found: %s", cfg.AudioDir))
		}
		return nil, apperrors.Configuration(fmt.Sprintf("audio directory inaccessible: %s", cfg.AudioDir)).WithCause(err)
	}
	if !info.IsDir() {
		return nil, apperrors.Configuration(fmt.Sprintf("audio path is not a directory: %s", cfg.AudioDir))
	}

	paths, err := listAudioFiles(cfg.AudioDir, cfg.Extensions)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		l.Info("no audio files found", map[string]interface{}{"dir": cfg.AudioDir})
		return nil, nil
	}

	l.Info("found audio files", map[string]interface{}{"dir": cfg.AudioDir, "count": len(paths)})

	var records []sink.Record
	if svc, ok := p.(batch.Service); ok {
		runner := batch.NewRunner(svc, batch.Config{
			PollInterval: cfg.Poll.Interval,
			PollTimeout:  cfg.Poll.Timeout,
			SubmitDelay:  cfg.Poll.SubmitDelay,
		}, log)
		records = runner.Run(ctx, paths)
	} else {
		records = make([]sink.Record, 0, len(paths))
		for _, path := range paths {
			name := filepath.Base(path)
			l.Info("transcribing file", map[string]interface{}{"file": name})
			res := p.TranscribeFile(ctx, path)
			rec := sink.Record{
				"filename": name,
				"text":     res.Text,
				"status":   res.Status,
			}
			if res.Elapsed > 0 {
				rec["transcription_time"] = fmt.Sprintf("%.2f", res.Elapsed.Seconds())
			}
			records = append(records, rec)
		}
	}

	for _, rec := range records {
		rec["provider"] = p.Name()
		for k, v := range stemMetadata(rec["filename"]) {
			rec[k] = v
		}
	}

	if err := sink.Append(cfg.OutputCSV, records); err != nil {
		return records, err
	}
	l.Info("results saved", map[string]interface{}{"path": cfg.OutputCSV, "rows": len(records)})
	return records, nil
}

// listAudioFiles returns the directory's matching files in natural sort
// order, so file2 processes before file10.
func listAudioFiles(dir string, extensions []string) ([]string, error) {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[strings.ToLower(ext)] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.Configuration(fmt.Sprintf("cannot list audio directory: %s", dir)).WithCause(err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if allowed[strings.ToLower(filepath.Ext(e.Name()))] {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	util.SortNatural(paths)
	return paths, nil
}

// stemMetadata parses dataset-generator names of the form
// <person>_<audio>_<noise>_<snr>.wav. Stems with fewer underscore parts
// yield correspondingly fewer fields; a bare stem yields none.
func stemMetadata(name string) map[string]string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(stem, "_")
	if len(parts) < 2 {
		return nil
	}
	md := map[string]string{"person": parts[0], "audio": parts[1]}
	if len(parts) >= 3 {
		md["noise"] = parts[2]
	}
	if len(parts) >= 4 {
		md["snr"] = parts[3]
	}
	return md
}
