// Package export turns analytics data into downloadable artifacts.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/menureport/internal/document"
	"github.com/verte-zerg/menureport/internal/model"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Artifact is the in-memory result of one export.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	Pages       int
	Sections    []document.SectionKind
	// GeneratedAt is the instant the filename date and report stamp came from.
	GeneratedAt time.Time
}

// Exporter dispatches an export request to one of the format encoders.
// It holds no per-render state, so one value may serve concurrent calls.
type Exporter struct {
	Logger zerolog.Logger
	Now    func() time.Time
	Style  document.Style
}

// New returns an exporter that logs to logger and renders with the default style.
func New(logger zerolog.Logger) *Exporter {
	return &Exporter{Logger: logger, Now: time.Now, Style: document.DefaultStyle()}
}

// ParseFormat maps a user-supplied name onto an export format.
func ParseFormat(s string) (model.ExportFormat, error) {
	switch model.ExportFormat(s) {
	case model.FormatPDF, model.FormatJSON, model.FormatCSV:
		return model.ExportFormat(s), nil
	}
	return "", fmt.Errorf("%w: %q (expected pdf, json or csv)", ErrUnknownFormat, s)
}

// Export renders data for subject in format.
func (e *Exporter) Export(data model.AnalyticsData, opts model.ExportOptions, subject string, format model.ExportFormat) (Artifact, error) {
	now := e.now()
	log := e.Logger.With().Str("format", string(format)).Str("subject", subject).Logger()
	log.Debug().Msg("export started")

	var (
		a   Artifact
		err error
	)
	switch format {
	case model.FormatPDF:
		a, err = e.exportDocument(data, opts, subject, now)
	case model.FormatJSON:
		a.ContentType = "application/json"
		a.Data, err = encodeStructured(data, opts, subject, now)
	case model.FormatCSV:
		a.ContentType = "text/csv"
		a.Data, err = encodeFlat(data, opts)
	default:
		return Artifact{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		log.Error().Err(err).Msg("export failed")
		return Artifact{}, err
	}
	a.Filename = Filename(format, subject, now)
	a.GeneratedAt = now
	log.Info().Str("file", a.Filename).Int("bytes", len(a.Data)).Int("pages", a.Pages).Msg("export finished")
	return a, nil
}

func (e *Exporter) exportDocument(data model.AnalyticsData, opts model.ExportOptions, subject string, now time.Time) (Artifact, error) {
	style := e.style()
	canvas := document.NewPDFCanvas(style.PageSize, now)
	res, err := document.Assemble(canvas, document.Report{
		Data:        data,
		Options:     opts,
		Subject:     subject,
		GeneratedAt: now,
	}, style)
	if err != nil {
		return Artifact{}, err
	}
	var buf bytes.Buffer
	if err := canvas.Output(&buf); err != nil {
		return Artifact{}, err
	}
	return Artifact{
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
		Pages:       res.Pages,
		Sections:    res.Sections,
	}, nil
}

func (e *Exporter) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// style returns a private copy so renders never share a palette.
func (e *Exporter) style() document.Style {
	if len(e.Style.Palette) == 0 {
		s := document.DefaultStyle()
		s.PieWedges = e.Style.PieWedges
		if e.Style.PageSize != "" {
			s.PageSize = e.Style.PageSize
		}
		return s
	}
	s := e.Style
	s.Palette = append(document.Palette(nil), e.Style.Palette...)
	return s
}
