package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kaizenlab/pdca-coach/internal/workflow"
)

// Format selects the export serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// JSON renders the active variant's stage set as pretty JSON.
func JSON(set workflow.StageSet) ([]byte, error) {
	out, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return out, nil
}

// CSV renders one line per stage in PDCA order: the upper-cased stage
// key followed by the stage's fields as JSON.
func CSV(set workflow.StageSet) ([]byte, error) {
	var b strings.Builder
	for i, s := range workflow.Stages() {
		fields, err := json.Marshal(set[s.Key()])
		if err != nil {
			return nil, fmt.Errorf("encode stage %s: %w", s.Key(), err)
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.ToUpper(s.Key()))
		b.WriteByte(',')
		b.Write(fields)
	}
	return []byte(b.String()), nil
}

// FileName builds the dated export file name, e.g. pdca_A_2026-08-31.json.
func FileName(v workflow.Variant, format Format, now time.Time) string {
	return fmt.Sprintf("pdca_%s_%s.%s", v.Key(), now.Format("2006-01-02"), format)
}

// Write serializes the stage set into dir and returns the file path.
func Write(dir string, v workflow.Variant, format Format, set workflow.StageSet, now time.Time) (string, error) {
	var (
		content []byte
		err     error
	)
	switch format {
	case FormatCSV:
		content, err = CSV(set)
	case FormatJSON:
		content, err = JSON(set)
	default:
		return "", fmt.Errorf("unknown export format: %q", format)
	}
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(v, format, now))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}
