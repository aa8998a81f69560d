package preview

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/menureport/internal/document"
	"github.com/verte-zerg/menureport/internal/model"
)

// Section is one titled block of preview text.
type Section struct {
	Title string
	Lines []string
}

// SummaryLines lists the headline metrics with their change.
func SummaryLines(data model.AnalyticsData) []string {
	days := len(data.ViewsSeries)
	avg := func(total int) string {
		if days == 0 {
			return "0"
		}
		return fmt.Sprintf("%.1f", float64(total)/float64(days))
	}
	return FormatTable(
		[]string{"Metric", "Value", "Change"},
		[][]string{
			{"Total Views", strconv.Itoa(data.ViewsTotal), document.FormatChange(data.ViewsChangePct)},
			{"QR Scans", strconv.Itoa(data.ScansTotal), document.FormatChange(data.ScansChangePct)},
			{"Avg. Daily Views", avg(data.ViewsTotal), ""},
			{"Avg. Daily Scans", avg(data.ScansTotal), ""},
		},
		map[int]bool{1: true, 2: true},
	)
}

// PopularLines renders the ranked item table.
func PopularLines(items []model.PopularItem) []string {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{strconv.Itoa(i + 1), it.Name, it.Category, strconv.Itoa(it.Views), document.FormatChange(it.ChangePct)}
	}
	return FormatTable([]string{"#", "Item", "Category", "Views", "Change"}, rows, map[int]bool{0: true, 3: true, 4: true})
}

// CategoryLines renders the category table. Missing ratings print as "-".
func CategoryLines(cats []model.CategoryStat) []string {
	rows := make([][]string, len(cats))
	for i, c := range cats {
		rating := "-"
		if c.AvgRating != nil {
			rating = fmt.Sprintf("%.1f", *c.AvgRating)
		}
		rows[i] = []string{c.Name, strconv.Itoa(c.Views), strconv.Itoa(c.ItemCount), rating}
	}
	return FormatTable([]string{"Category", "Views", "Items", "Rating"}, rows, map[int]bool{1: true, 2: true, 3: true})
}

// DeviceLines renders the device breakdown with a proportional bar per row.
func DeviceLines(devices []model.DeviceStat) []string {
	rows := make([][]string, len(devices))
	for i, d := range devices {
		bar := strings.Repeat("█", int(d.Percentage/5+0.5))
		rows[i] = []string{d.Device, strconv.Itoa(d.Count), fmt.Sprintf("%.1f%%", d.Percentage), bar}
	}
	return FormatTable([]string{"Device", "Count", "Share", ""}, rows, map[int]bool{1: true, 2: true})
}

// TrendLines plots views and scans of the most recent days on a shared axis.
func TrendLines(series []model.DailyViews, opts PlotOptions) ([]string, error) {
	if len(series) > document.TrendPoints {
		series = series[len(series)-document.TrendPoints:]
	}
	views := make([]float64, len(series))
	scans := make([]float64, len(series))
	labels := make([]string, len(series))
	for i, p := range series {
		views[i] = float64(p.Views)
		scans[i] = float64(p.Scans)
		labels[i] = p.Date
	}
	opts.XLabels = labels
	return plotLines("", []Series{{Name: "Views", Values: views}, {Name: "Scans", Values: scans}}, opts)
}

// HourlyLines plots the 24-hour traffic distribution.
func HourlyLines(hours []model.HourlyViews, opts PlotOptions) ([]string, error) {
	values := make([]float64, len(hours))
	labels := make([]string, len(hours))
	for i, h := range hours {
		values[i] = float64(h.Views)
		labels[i] = h.Hour
	}
	opts.XLabels = labels
	return plotLines("", []Series{{Name: "Views", Values: values}}, opts)
}

func plotLines(title string, series []Series, opts PlotOptions) ([]string, error) {
	var b strings.Builder
	if err := PlotSeries(&b, title, series, opts); err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(b.String(), "\n"), "\n"), nil
}

// Build collects the preview sections gated the same way as the document.
func Build(data model.AnalyticsData, opts model.ExportOptions, plot PlotOptions) ([]Section, error) {
	sections := []Section{{Title: "Overview", Lines: SummaryLines(data)}}
	if opts.IncludeCharts && len(data.ViewsSeries) > 0 {
		lines, err := TrendLines(data.ViewsSeries, plot)
		if err != nil {
			return nil, fmt.Errorf("failed to plot trend: %w", err)
		}
		sections = append(sections, Section{Title: "Views & Scans Trend", Lines: lines})
	}
	if opts.IncludeTrafficPatterns && len(data.TimeDistribution) > 0 {
		lines, err := HourlyLines(data.TimeDistribution, plot)
		if err != nil {
			return nil, fmt.Errorf("failed to plot hourly traffic: %w", err)
		}
		sections = append(sections, Section{Title: "Traffic By Hour", Lines: lines})
	}
	if opts.IncludePopularItems {
		sections = append(sections, Section{Title: "Popular Items", Lines: PopularLines(data.PopularItems)})
	}
	if opts.IncludeRawData {
		sections = append(sections, Section{Title: "Category Performance", Lines: CategoryLines(data.CategoryPerformance)})
	}
	if opts.IncludeDeviceStats {
		sections = append(sections, Section{Title: "Device Breakdown", Lines: DeviceLines(data.DeviceBreakdown)})
	}
	return sections, nil
}

// Write prints every section to w.
func Write(w io.Writer, sections []Section) error {
	for i, s := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s\n%s\n", s.Title, strings.Repeat("─", len([]rune(s.Title)))); err != nil {
			return err
		}
		for _, line := range s.Lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}
