package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/menureport/internal/document"
	"github.com/verte-zerg/menureport/internal/generator"
	"github.com/verte-zerg/menureport/internal/model"
)

var testNow = time.Date(2026, 10, 18, 14, 5, 0, 0, time.UTC)

func newTestExporter() *Exporter {
	e := New(zerolog.Nop())
	e.Now = func() time.Time { return testNow }
	return e
}

func sampleData() model.AnalyticsData {
	return generator.New(3).Analytics(30, testNow)
}

func TestExportDocument(t *testing.T) {
	a, err := newTestExporter().Export(sampleData(), model.DefaultExportOptions(), "Test Cafe", model.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "analytics-report-test-cafe-2026-10-18.pdf", a.Filename)
	assert.Equal(t, "application/pdf", a.ContentType)
	assert.True(t, bytes.HasPrefix(a.Data, []byte("%PDF")))
	assert.GreaterOrEqual(t, a.Pages, 2)
	assert.Len(t, a.Sections, 9)
}

func TestExportDocumentWithoutCharts(t *testing.T) {
	opts := model.DefaultExportOptions()
	opts.IncludeCharts = false
	a, err := newTestExporter().Export(sampleData(), opts, "Test Cafe", model.FormatPDF)
	require.NoError(t, err)
	for _, s := range a.Sections {
		assert.False(t, s.IsChart(), "unexpected chart section %s", s)
	}
}

func TestExportDocumentNonLatinSubject(t *testing.T) {
	a, err := newTestExporter().Export(sampleData(), model.DefaultExportOptions(), "Café Ünïcode 東京", model.FormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(a.Data, []byte("%PDF")))
	assert.Equal(t, "analytics-report-café-ünïcode-東京-2026-10-18.pdf", a.Filename)
}

func TestExportReadsClockOnce(t *testing.T) {
	e := New(zerolog.Nop())
	// Straddles midnight: a second clock read would land on the next day.
	clock := time.Date(2026, 10, 18, 23, 59, 59, 900_000_000, time.UTC)
	e.Now = func() time.Time {
		now := clock
		clock = clock.Add(time.Second)
		return now
	}
	a, err := e.Export(sampleData(), model.DefaultExportOptions(), "Test Cafe", model.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "analytics-test-cafe-2026-10-18.json", a.Filename)
	assert.Equal(t, "2026-10-18", a.GeneratedAt.Format("2006-01-02"))

	r, err := ParseStructured(a.Data)
	require.NoError(t, err)
	assert.Equal(t, a.GeneratedAt.Format(time.RFC3339), r.GeneratedAt)
}

func TestExportStructuredRoundTrip(t *testing.T) {
	data := sampleData()
	cases := map[string]func(*model.ExportOptions){
		"all":          func(*model.ExportOptions) {},
		"no raw data":  func(o *model.ExportOptions) { o.IncludeRawData = false },
		"no devices":   func(o *model.ExportOptions) { o.IncludeDeviceStats = false },
		"no popular":   func(o *model.ExportOptions) { o.IncludePopularItems = false },
		"no traffic":   func(o *model.ExportOptions) { o.IncludeTrafficPatterns = false },
		"summary only": func(o *model.ExportOptions) { *o = model.ExportOptions{DateRangeLabel: "Q3"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			opts := model.DefaultExportOptions()
			mutate(&opts)
			a, err := newTestExporter().Export(data, opts, "Test Cafe", model.FormatJSON)
			require.NoError(t, err)
			assert.Equal(t, "analytics-test-cafe-2026-10-18.json", a.Filename)

			r, err := ParseStructured(a.Data)
			require.NoError(t, err)
			assert.Equal(t, Filter(data, opts), r.Data())
			assert.Equal(t, "Test Cafe", r.Subject)
			assert.Equal(t, opts.DateRangeLabel, r.DateRange)
			assert.Equal(t, "2026-10-18T14:05:00Z", r.GeneratedAt)
		})
	}
}

func TestStructuredKeepsMissingRating(t *testing.T) {
	rating := 4.5
	data := model.AnalyticsData{CategoryPerformance: []model.CategoryStat{
		{Name: "Mains", Views: 10, ItemCount: 2, AvgRating: &rating},
		{Name: "Drinks", Views: 5, ItemCount: 1},
	}}
	a, err := newTestExporter().Export(data, model.DefaultExportOptions(), "x", model.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(a.Data), "avgRating"))

	r, err := ParseStructured(a.Data)
	require.NoError(t, err)
	require.Len(t, r.CategoryPerformance, 2)
	require.NotNil(t, r.CategoryPerformance[0].AvgRating)
	assert.InDelta(t, 4.5, *r.CategoryPerformance[0].AvgRating, 1e-9)
	assert.Nil(t, r.CategoryPerformance[1].AvgRating)
}

func TestExportFlatGroups(t *testing.T) {
	data := sampleData()
	a, err := newTestExporter().Export(data, model.DefaultExportOptions(), "Test Cafe", model.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "analytics-test-cafe-2026-10-18.csv", a.Filename)
	assert.Equal(t, "text/csv", a.ContentType)

	groups := strings.Split(strings.TrimSuffix(string(a.Data), "\n"), "\n\n")
	require.Len(t, groups, 6)
	wantTitles := []string{"# Summary", "# Daily Views", "# Popular Items", "# Category Performance", "# Traffic By Hour", "# Devices"}
	wantRows := []int{2, len(data.ViewsSeries), len(data.PopularItems), len(data.CategoryPerformance), 24, 3}
	for i, g := range groups {
		r := csv.NewReader(strings.NewReader(g))
		r.FieldsPerRecord = -1
		records, err := r.ReadAll()
		require.NoError(t, err)
		assert.Equal(t, wantTitles[i], records[0][0])
		assert.Len(t, records[2:], wantRows[i], "group %s", wantTitles[i])
	}
}

func TestExportFlatGating(t *testing.T) {
	opts := model.ExportOptions{IncludeDeviceStats: true}
	a, err := newTestExporter().Export(sampleData(), opts, "Test Cafe", model.FormatCSV)
	require.NoError(t, err)
	out := string(a.Data)
	assert.Contains(t, out, "# Summary")
	assert.Contains(t, out, "# Devices")
	assert.NotContains(t, out, "# Daily Views")
	assert.NotContains(t, out, "# Popular Items")
	assert.NotContains(t, out, "# Traffic By Hour")
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := newTestExporter().Export(sampleData(), model.DefaultExportOptions(), "x", "xlsx")
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, err = ParseFormat("docx")
	require.ErrorIs(t, err, ErrUnknownFormat)
	f, err := ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, model.FormatCSV, f)
}

func TestExporterDoesNotShareStyle(t *testing.T) {
	e := newTestExporter()
	s := e.style()
	s.Palette[0] = document.Color{}
	assert.NotEqual(t, document.Color{}, e.Style.Palette[0])
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Test Cafe":          "test-cafe",
		"  The   Old\tMill ": "the-old-mill",
		"Bar/Grill":          "bar-grill",
		`..\Up\Stairs`:       "..-up-stairs",
		"":                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slug(in), "slug of %q", in)
	}
}

func TestWriteArtifact(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	a := Artifact{Filename: "analytics-x-2026-10-18.csv", Data: []byte("a,b\n")}
	path, err := WriteArtifact(dir, a)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, a.Filename), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, a.Data, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWriteArtifactRejectsPaths(t *testing.T) {
	_, err := WriteArtifact(t.TempDir(), Artifact{Filename: "../escape.pdf"})
	require.Error(t, err)
}
