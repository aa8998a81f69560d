package document

import "math"

const (
	// TableHeaderHeight is the height of the shaded header band.
	TableHeaderHeight = 8.0
	// TableRowHeight is the fixed height of every body row.
	TableRowHeight = 7.0

	cellPad = 2.0
)

// Table is a header plus rows with fixed column offsets. Columns holds the
// left edge of each column as a fraction of the table width; RightAlign
// marks numeric columns.
type Table struct {
	Headers    []string
	Columns    []float64
	RightAlign map[int]bool
	Rows       [][]string
}

// DrawTable draws t at the layout cursor and returns the cursor y after the
// last row. Rows never split; when a row does not fit, a new page is started
// and the header band is drawn again before continuing.
func DrawTable(c Canvas, l *Layout, x, width float64, t Table) float64 {
	page := l.CurrentPage()
	if !l.Fits(TableHeaderHeight+TableRowHeight) && page.CursorY > page.ContentTop {
		l.Break()
	}
	drawTableHeader(c, l.Reserve(TableHeaderHeight), x, width, t)

	onPage := 0
	for i, row := range t.Rows {
		if onPage > 0 && !l.Fits(TableRowHeight) {
			l.Break()
			drawTableHeader(c, l.Reserve(TableHeaderHeight), x, width, t)
			onPage = 0
		}
		drawTableRow(c, l.Reserve(TableRowHeight), x, width, t, i, row)
		onPage++
	}
	return l.CurrentPage().CursorY
}

// TablePages returns how many pages a table of rows occupies when it starts
// at the top of a page of height pageHeight, repeating the header per page.
func TablePages(rows int, rowHeight, headerHeight, pageHeight float64) int {
	if rows <= 0 {
		return 1
	}
	perPage := int(math.Floor((pageHeight - headerHeight) / rowHeight))
	if perPage < 1 {
		perPage = 1
	}
	return (rows + perPage - 1) / perPage
}

func drawTableHeader(c Canvas, y, x, width float64, t Table) {
	c.SetFillColor(colorHeaderRow)
	c.Rect(Rect{X: x, Y: y, W: width, H: TableHeaderHeight}, StyleFill)
	c.SetFont("B", 8)
	c.SetTextColor(colorPrimary)
	drawCells(c, y, TableHeaderHeight, x, width, t, t.Headers)
}

func drawTableRow(c Canvas, y, x, width float64, t Table, index int, row []string) {
	if index%2 == 1 {
		c.SetFillColor(colorAltRow)
		c.Rect(Rect{X: x, Y: y, W: width, H: TableRowHeight}, StyleFill)
	}
	c.SetDrawColor(colorGrid)
	c.SetLineWidth(0.1)
	c.Line(x, y+TableRowHeight, x+width, y+TableRowHeight)
	c.SetFont("", 8)
	c.SetTextColor(colorText)
	drawCells(c, y, TableRowHeight, x, width, t, row)
}

func drawCells(c Canvas, y, height, x, width float64, t Table, cells []string) {
	baseline := y + height/2 + 1.2
	for i, cell := range cells {
		if i >= len(t.Columns) {
			break
		}
		left := x + t.Columns[i]*width
		right := x + width
		if i+1 < len(t.Columns) {
			right = x + t.Columns[i+1]*width
		}
		text := fitText(c, cell, right-left-2*cellPad)
		if t.RightAlign[i] {
			DrawText(c, right-cellPad-c.TextWidth(text), baseline, text)
			continue
		}
		DrawText(c, left+cellPad, baseline, text)
	}
}
