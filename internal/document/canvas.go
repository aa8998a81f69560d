// Package document renders analytics reports onto paginated page primitives.
package document

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

// ErrUnencodable is returned by Canvas.Text when the string cannot be drawn.
var ErrUnencodable = errors.New("text not encodable by canvas font")

// Color is an RGB triple in the 0-255 range.
type Color struct {
	R, G, B int
}

// Point is a position in page units (mm, origin top-left, y grows downward).
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in page units.
type Rect struct {
	X, Y, W, H float64
}

// Bottom returns the y coordinate of the lower edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Inset shrinks the rectangle by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Draw styles accepted by Rect, Circle and Polygon.
const (
	StyleFill       = "F"
	StyleStroke     = "D"
	StyleFillStroke = "FD"
)

// Canvas is the low-level drawing surface the report is built on.
type Canvas interface {
	AddPage()
	PageSize() (width, height float64)
	SetFillColor(c Color)
	SetDrawColor(c Color)
	SetTextColor(c Color)
	SetLineWidth(w float64)
	SetFont(style string, size float64)
	Rect(r Rect, style string)
	Line(x1, y1, x2, y2 float64)
	Circle(x, y, radius float64, style string)
	Polygon(points []Point, style string)
	// Text draws s with its baseline at y. It returns ErrUnencodable
	// without drawing anything when the font cannot represent s.
	Text(x, y float64, s string) error
	TextWidth(s string) float64
	Err() error
}

// PageSize names a supported paper format.
type PageSize string

const (
	PageA4     PageSize = "A4"
	PageLetter PageSize = "Letter"
)

const fontFamily = "Helvetica"

// PDFCanvas implements Canvas on top of fpdf using the core Helvetica font.
type PDFCanvas struct {
	pdf *fpdf.Fpdf
	enc *charmap.Charmap
}

// NewPDFCanvas creates an empty portrait document measured in millimetres.
// The creation date is pinned so identical input yields identical bytes.
func NewPDFCanvas(size PageSize, created time.Time) *PDFCanvas {
	if size != PageLetter {
		size = PageA4
	}
	pdf := fpdf.New("P", "mm", string(size), "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	pdf.SetCreator("menureport", true)
	pdf.SetFont(fontFamily, "", 10)
	return &PDFCanvas{pdf: pdf, enc: charmap.Windows1252}
}

func (p *PDFCanvas) AddPage() { p.pdf.AddPage() }

func (p *PDFCanvas) PageSize() (float64, float64) { return p.pdf.GetPageSize() }

func (p *PDFCanvas) SetFillColor(c Color) { p.pdf.SetFillColor(c.R, c.G, c.B) }

func (p *PDFCanvas) SetDrawColor(c Color) { p.pdf.SetDrawColor(c.R, c.G, c.B) }

func (p *PDFCanvas) SetTextColor(c Color) { p.pdf.SetTextColor(c.R, c.G, c.B) }

func (p *PDFCanvas) SetLineWidth(w float64) { p.pdf.SetLineWidth(w) }

func (p *PDFCanvas) SetFont(style string, size float64) { p.pdf.SetFont(fontFamily, style, size) }

func (p *PDFCanvas) Rect(r Rect, style string) { p.pdf.Rect(r.X, r.Y, r.W, r.H, style) }

func (p *PDFCanvas) Line(x1, y1, x2, y2 float64) { p.pdf.Line(x1, y1, x2, y2) }

func (p *PDFCanvas) Circle(x, y, radius float64, style string) { p.pdf.Circle(x, y, radius, style) }

func (p *PDFCanvas) Polygon(points []Point, style string) {
	if len(points) < 3 {
		return
	}
	pts := make([]fpdf.PointType, len(points))
	for i, pt := range points {
		pts[i] = fpdf.PointType{X: pt.X, Y: pt.Y}
	}
	p.pdf.Polygon(pts, style)
}

func (p *PDFCanvas) Text(x, y float64, s string) error {
	if _, err := p.enc.NewEncoder().String(s); err != nil {
		return ErrUnencodable
	}
	p.pdf.Text(x, y, s)
	return nil
}

func (p *PDFCanvas) TextWidth(s string) float64 { return p.pdf.GetStringWidth(s) }

// Err reports the first error fpdf recorded. fpdf errors are sticky.
func (p *PDFCanvas) Err() error { return p.pdf.Error() }

// Output writes the finished document.
func (p *PDFCanvas) Output(w io.Writer) error {
	if err := p.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
