package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/verte-zerg/menureport/internal/model"
)

// Summary holds the scalar metrics, which every structured export carries.
type Summary struct {
	ViewsTotal     int     `json:"viewsTotal"`
	ViewsChangePct float64 `json:"viewsChangePct"`
	ScansTotal     int     `json:"scansTotal"`
	ScansChangePct float64 `json:"scansChangePct"`
}

// StructuredReport is the JSON document of the structured-object format.
type StructuredReport struct {
	Subject             string               `json:"subject"`
	GeneratedAt         string               `json:"generatedAt"`
	DateRange           string               `json:"dateRange"`
	Summary             Summary              `json:"summary"`
	ViewsSeries         []model.DailyViews   `json:"viewsSeries,omitempty"`
	PopularItems        []model.PopularItem  `json:"popularItems,omitempty"`
	CategoryPerformance []model.CategoryStat `json:"categoryPerformance,omitempty"`
	TimeDistribution    []model.HourlyViews  `json:"timeDistribution,omitempty"`
	DeviceBreakdown     []model.DeviceStat   `json:"deviceBreakdown,omitempty"`
}

// Filter returns the subset of data the structured formats export under opts.
// Excluded and empty slices come back nil.
//
//	IncludeRawData         -> ViewsSeries, CategoryPerformance
//	IncludePopularItems    -> PopularItems
//	IncludeTrafficPatterns -> TimeDistribution
//	IncludeDeviceStats     -> DeviceBreakdown
func Filter(data model.AnalyticsData, opts model.ExportOptions) model.AnalyticsData {
	out := model.AnalyticsData{
		ViewsTotal:     data.ViewsTotal,
		ViewsChangePct: data.ViewsChangePct,
		ScansTotal:     data.ScansTotal,
		ScansChangePct: data.ScansChangePct,
	}
	if opts.IncludeRawData {
		out.ViewsSeries = nonEmpty(data.ViewsSeries)
		out.CategoryPerformance = nonEmpty(data.CategoryPerformance)
	}
	if opts.IncludePopularItems {
		out.PopularItems = nonEmpty(data.PopularItems)
	}
	if opts.IncludeTrafficPatterns {
		out.TimeDistribution = nonEmpty(data.TimeDistribution)
	}
	if opts.IncludeDeviceStats {
		out.DeviceBreakdown = nonEmpty(data.DeviceBreakdown)
	}
	return out
}

// NewStructuredReport builds the structured document for data under opts.
func NewStructuredReport(data model.AnalyticsData, opts model.ExportOptions, subject string, now time.Time) StructuredReport {
	f := Filter(data, opts)
	return StructuredReport{
		Subject:     subject,
		GeneratedAt: now.UTC().Format(time.RFC3339),
		DateRange:   opts.DateRangeLabel,
		Summary: Summary{
			ViewsTotal:     f.ViewsTotal,
			ViewsChangePct: f.ViewsChangePct,
			ScansTotal:     f.ScansTotal,
			ScansChangePct: f.ScansChangePct,
		},
		ViewsSeries:         f.ViewsSeries,
		PopularItems:        f.PopularItems,
		CategoryPerformance: f.CategoryPerformance,
		TimeDistribution:    f.TimeDistribution,
		DeviceBreakdown:     f.DeviceBreakdown,
	}
}

// Data converts the document back into analytics data.
func (r StructuredReport) Data() model.AnalyticsData {
	return model.AnalyticsData{
		ViewsSeries:         r.ViewsSeries,
		ViewsTotal:          r.Summary.ViewsTotal,
		ViewsChangePct:      r.Summary.ViewsChangePct,
		ScansTotal:          r.Summary.ScansTotal,
		ScansChangePct:      r.Summary.ScansChangePct,
		PopularItems:        r.PopularItems,
		CategoryPerformance: r.CategoryPerformance,
		TimeDistribution:    r.TimeDistribution,
		DeviceBreakdown:     r.DeviceBreakdown,
	}
}

func encodeStructured(data model.AnalyticsData, opts model.ExportOptions, subject string, now time.Time) ([]byte, error) {
	out, err := json.MarshalIndent(NewStructuredReport(data, opts, subject, now), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return append(out, '\n'), nil
}

// ParseStructured decodes a structured-object artifact.
func ParseStructured(b []byte) (StructuredReport, error) {
	var r StructuredReport
	if err := json.Unmarshal(b, &r); err != nil {
		return StructuredReport{}, fmt.Errorf("failed to decode json: %w", err)
	}
	return r, nil
}

func nonEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
