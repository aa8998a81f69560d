package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/verte-zerg/menureport/internal/model"
)

// flatKind enumerates the row groups of the flat-table format.
type flatKind int

const (
	flatSummary flatKind = iota
	flatDaily
	flatPopular
	flatCategories
	flatHourly
	flatDevices
)

var flatKinds = []flatKind{flatSummary, flatDaily, flatPopular, flatCategories, flatHourly, flatDevices}

// flatSection is one row group: a title line, a header and its rows.
type flatSection struct {
	kind   flatKind
	title  string
	header []string
	rows   [][]string
}

// enabled reports whether opts include the group. The summary is always written.
func (k flatKind) enabled(opts model.ExportOptions) bool {
	switch k {
	case flatSummary:
		return true
	case flatDaily, flatCategories:
		return opts.IncludeRawData
	case flatPopular:
		return opts.IncludePopularItems
	case flatHourly:
		return opts.IncludeTrafficPatterns
	case flatDevices:
		return opts.IncludeDeviceStats
	}
	return false
}

func (k flatKind) build(data model.AnalyticsData) flatSection {
	switch k {
	case flatSummary:
		return summaryRows(data)
	case flatDaily:
		return dailyRows(data.ViewsSeries)
	case flatPopular:
		return popularRows(data.PopularItems)
	case flatCategories:
		return categoryRows(data.CategoryPerformance)
	case flatHourly:
		return hourlyRows(data.TimeDistribution)
	case flatDevices:
		return deviceRows(data.DeviceBreakdown)
	}
	panic(fmt.Sprintf("unknown flat section %d", k))
}

func flatSections(data model.AnalyticsData, opts model.ExportOptions) []flatSection {
	var out []flatSection
	for _, k := range flatKinds {
		if k.enabled(opts) {
			out = append(out, k.build(data))
		}
	}
	return out
}

func summaryRows(data model.AnalyticsData) flatSection {
	return flatSection{
		kind:   flatSummary,
		title:  "Summary",
		header: []string{"metric", "total", "change_pct"},
		rows: [][]string{
			{"views", strconv.Itoa(data.ViewsTotal), formatFloat(data.ViewsChangePct)},
			{"scans", strconv.Itoa(data.ScansTotal), formatFloat(data.ScansChangePct)},
		},
	}
}

func dailyRows(series []model.DailyViews) flatSection {
	s := flatSection{kind: flatDaily, title: "Daily Views", header: []string{"date", "views", "scans"}}
	for _, p := range series {
		s.rows = append(s.rows, []string{p.Date, strconv.Itoa(p.Views), strconv.Itoa(p.Scans)})
	}
	return s
}

func popularRows(items []model.PopularItem) flatSection {
	s := flatSection{kind: flatPopular, title: "Popular Items", header: []string{"rank", "name", "category", "views", "change_pct"}}
	for i, it := range items {
		s.rows = append(s.rows, []string{
			strconv.Itoa(i + 1), it.Name, it.Category, strconv.Itoa(it.Views), formatFloat(it.ChangePct),
		})
	}
	return s
}

func categoryRows(cats []model.CategoryStat) flatSection {
	s := flatSection{kind: flatCategories, title: "Category Performance", header: []string{"category", "views", "items", "avg_rating"}}
	for _, c := range cats {
		rating := ""
		if c.AvgRating != nil {
			rating = formatFloat(*c.AvgRating)
		}
		s.rows = append(s.rows, []string{c.Name, strconv.Itoa(c.Views), strconv.Itoa(c.ItemCount), rating})
	}
	return s
}

func hourlyRows(hours []model.HourlyViews) flatSection {
	s := flatSection{kind: flatHourly, title: "Traffic By Hour", header: []string{"hour", "views"}}
	for _, h := range hours {
		s.rows = append(s.rows, []string{h.Hour, strconv.Itoa(h.Views)})
	}
	return s
}

func deviceRows(devices []model.DeviceStat) flatSection {
	s := flatSection{kind: flatDevices, title: "Devices", header: []string{"device", "count", "percentage"}}
	for _, d := range devices {
		s.rows = append(s.rows, []string{d.Device, strconv.Itoa(d.Count), formatFloat(d.Percentage)})
	}
	return s
}

func encodeFlat(data model.AnalyticsData, opts model.ExportOptions) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for i, s := range flatSections(data, opts) {
		if i > 0 {
			if err := w.Write(nil); err != nil {
				return nil, fmt.Errorf("failed to write csv: %w", err)
			}
		}
		if err := w.Write([]string{"# " + s.title}); err != nil {
			return nil, fmt.Errorf("failed to write csv: %w", err)
		}
		if err := w.Write(s.header); err != nil {
			return nil, fmt.Errorf("failed to write csv: %w", err)
		}
		if err := w.WriteAll(s.rows); err != nil {
			return nil, fmt.Errorf("failed to write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
