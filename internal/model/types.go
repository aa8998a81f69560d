// Package model defines shared data structures.
package model

import "time"

// ExportFormat selects the artifact kind produced by an export.
type ExportFormat string

const (
	FormatPDF  ExportFormat = "pdf"
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
)

// DailyViews is one point of the views/scans time series.
type DailyViews struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
	Scans int    `json:"scans"`
}

// PopularItem is a ranked menu item. Rank is the position in the slice.
type PopularItem struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Views     int     `json:"views"`
	ChangePct float64 `json:"changePct"`
}

// CategoryStat summarizes one menu category.
type CategoryStat struct {
	Name      string   `json:"name"`
	Views     int      `json:"views"`
	ItemCount int      `json:"itemCount"`
	AvgRating *float64 `json:"avgRating,omitempty"`
}

// HourlyViews is one bucket of the 24-hour traffic distribution.
type HourlyViews struct {
	Hour  string `json:"hourLabel"`
	Views int    `json:"views"`
}

// DeviceStat is one row of the device breakdown.
// Percentages are pre-rounded and need not sum to 100.
type DeviceStat struct {
	Device     string  `json:"deviceName"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// AnalyticsData is the pre-aggregated input of every export.
type AnalyticsData struct {
	ViewsSeries         []DailyViews   `json:"viewsSeries"`
	ViewsTotal          int            `json:"viewsTotal"`
	ViewsChangePct      float64        `json:"viewsChangePct"`
	ScansTotal          int            `json:"scansTotal"`
	ScansChangePct      float64        `json:"scansChangePct"`
	PopularItems        []PopularItem  `json:"popularItems"`
	CategoryPerformance []CategoryStat `json:"categoryPerformance"`
	TimeDistribution    []HourlyViews  `json:"timeDistribution"`
	DeviceBreakdown     []DeviceStat   `json:"deviceBreakdown"`
}

// ExportOptions gates the sections of an export. Each flag is independent,
// except that in the Document format IncludeCharts dominates every chart.
type ExportOptions struct {
	IncludeCharts          bool   `json:"includeCharts"`
	IncludeRawData         bool   `json:"includeRawData"`
	IncludeDeviceStats     bool   `json:"includeDeviceStats"`
	IncludePopularItems    bool   `json:"includePopularItems"`
	IncludeTrafficPatterns bool   `json:"includeTrafficPatterns"`
	DateRangeLabel         string `json:"dateRangeLabel"`
}

// DefaultExportOptions returns a freshly constructed options value.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		IncludeCharts:          true,
		IncludeRawData:         true,
		IncludeDeviceStats:     true,
		IncludePopularItems:    true,
		IncludeTrafficPatterns: true,
		DateRangeLabel:         "Last 30 days",
	}
}

// ExportRecord is one row of the export history.
type ExportRecord struct {
	ID        int64
	CreatedAt time.Time
	Subject   string
	Format    ExportFormat
	Filename  string
	Path      string
	Bytes     int64
	Pages     int
}
