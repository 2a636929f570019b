// Package csvio implements the audit list text formats: the imported URL
// list and the exported annotation CSV.
package csvio

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lewtec/revisor/internal/domain"
)

// ParseList extracts image URLs from CSV text. Lines are separated by \n
// or \r\n. Each line contributes the first double-quoted substring when
// one is present, else the trimmed raw line; a line is accepted iff the
// extracted string starts with http:// or https://. Headers, blank lines
// and anything else are silently discarded. Relative order is preserved.
func ParseList(text string) []string {
	var urls []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		entry := extractField(line)
		if strings.HasPrefix(entry, "http://") || strings.HasPrefix(entry, "https://") {
			urls = append(urls, entry)
		}
	}
	return urls
}

// extractField returns the first double-quoted substring of a line, or
// the trimmed line when no quoted field exists.
func extractField(line string) string {
	open := strings.Index(line, `"`)
	if open >= 0 {
		rest := line[open+1:]
		if close := strings.Index(rest, `"`); close >= 0 {
			return rest[:close]
		}
	}
	return strings.TrimSpace(line)
}

// WriteExport writes the audit CSV: an "Image URL,Defects" header and one
// double-quoted row per image in load order. Images without defects get
// an empty quoted field.
func WriteExport(w io.Writer, rows []domain.ExportRow) error {
	if _, err := io.WriteString(w, "Image URL,Defects\r\n"); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s,%s\r\n", quote(row.URL), quote(row.Defects)); err != nil {
			return err
		}
	}
	return nil
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// ExportFilename names a download after the export date, e.g.
// image-audit-2026-08-28.csv.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("image-audit-%s.csv", t.Format("2006-01-02"))
}
