package collection

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// OutputHeader is header followed by every enrichment column it lacks.
func OutputHeader(header []string) []string {
	if len(header) == 0 {
		header = DefaultColumns
	}
	out := make([]string, 0, len(header)+len(EnrichmentColumns))
	present := make(map[string]bool, len(header))
	for _, h := range header {
		out = append(out, h)
		present[normalizeColumn(h)] = true
	}
	for _, c := range EnrichmentColumns {
		if !present[c] {
			out = append(out, c)
		}
	}
	return out
}

// Write emits enriched rows. Input columns keep their order and raw
// values; enrichment columns already in header are overwritten.
func Write(w io.Writer, header []string, records []EnrichedRecord) error {
	out := OutputHeader(header)
	sourceWidth := len(header)
	if sourceWidth == 0 {
		sourceWidth = len(DefaultColumns)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(out); err != nil {
		return err
	}

	cells := make([]string, len(out))
	for _, rec := range records {
		useRaw := len(header) > 0 && len(rec.raw) == len(header)
		for i, col := range out {
			key := normalizeColumn(col)
			if v, ok := identityValue(rec.Identity, key); ok {
				cells[i] = v
				continue
			}
			if useRaw && i < sourceWidth {
				cells[i] = rec.raw[i]
				continue
			}
			cells[i] = rec.value(key)
		}
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes to a temporary file next to path and renames it into
// place, so a failed write never replaces an existing output.
func WriteFile(path string, header []string, records []EnrichedRecord) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Write(tmp, header, records); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync output: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
