package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/menureport/internal/model"
)

// Slug lowercases name and joins its whitespace-separated words with '-'.
// Leading and trailing whitespace is dropped, and '/' and '\' count as
// whitespace so the slug is always a single file name component.
func Slug(name string) string {
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

// Filename builds the artifact name for subject on day now.
func Filename(format model.ExportFormat, subject string, now time.Time) string {
	date := now.Format("2006-01-02")
	slug := Slug(subject)
	switch format {
	case model.FormatPDF:
		return fmt.Sprintf("analytics-report-%s-%s.pdf", slug, date)
	default:
		return fmt.Sprintf("analytics-%s-%s.%s", slug, date, format)
	}
}
