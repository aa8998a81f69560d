package document

import (
	"strings"
	"unicode/utf8"
)

type drawOp struct {
	kind   string
	rect   Rect
	text   string
	x, y   float64
	page   int
	points []Point
}

// recorder is a Canvas that keeps every primitive for inspection.
type recorder struct {
	w, h   float64
	pages  int
	ops    []drawOp
	reject func(string) bool
	err    error
}

func newRecorder() *recorder {
	return &recorder{w: 210, h: 297}
}

func (r *recorder) AddPage() { r.pages++ }
func (r *recorder) PageSize() (float64, float64) { return r.w, r.h }
func (r *recorder) SetFillColor(Color) {}
func (r *recorder) SetDrawColor(Color) {}
func (r *recorder) SetTextColor(Color) {}
func (r *recorder) SetLineWidth(float64) {}
func (r *recorder) SetFont(string, float64) {}
func (r *recorder) TextWidth(s string) float64 { return float64(utf8.RuneCountInString(s)) * 1.5 }
func (r *recorder) Err() error { return r.err }
func (r *recorder) Line(x1, y1, x2, y2 float64) { r.add(drawOp{kind: "line", x: x1, y: y1}) }
func (r *recorder) Rect(rect Rect, style string) { r.add(drawOp{kind: "rect", rect: rect}) }
func (r *recorder) Polygon(p []Point, style string) { r.add(drawOp{kind: "polygon", points: p}) }

func (r *recorder) Circle(x, y, radius float64, style string) {
	r.add(drawOp{kind: "circle:" + style, x: x, y: y})
}

func (r *recorder) Text(x, y float64, s string) error {
	if r.reject != nil && r.reject(s) {
		return ErrUnencodable
	}
	r.add(drawOp{kind: "text", x: x, y: y, text: s})
	return nil
}

func (r *recorder) add(op drawOp) {
	op.page = r.pages
	r.ops = append(r.ops, op)
}

func (r *recorder) texts() []string {
	var out []string
	for _, op := range r.ops {
		if op.kind == "text" {
			out = append(out, op.text)
		}
	}
	return out
}

func (r *recorder) countText(s string) int {
	n := 0
	for _, t := range r.texts() {
		if t == s {
			n++
		}
	}
	return n
}

func (r *recorder) hasTextPrefix(prefix string) bool {
	for _, t := range r.texts() {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return false
}

func (r *recorder) count(kind string) int {
	n := 0
	for _, op := range r.ops {
		if op.kind == kind {
			n++
		}
	}
	return n
}
