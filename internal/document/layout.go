package document

// Page is the active page of a Layout.
type Page struct {
	Index         int
	CursorY       float64
	ContentTop    float64
	ContentBottom float64
}

// Layout tracks the vertical cursor across pages. It only moves forward.
type Layout struct {
	page    Page
	pages   int
	onBreak func(Page)
}

// NewLayout starts page 0 with the cursor at top. onBreak, when set, is
// called with the fresh page every time a new page is started.
func NewLayout(top, bottom float64, onBreak func(Page)) *Layout {
	if bottom < top {
		bottom = top
	}
	return &Layout{
		page:    Page{Index: 0, CursorY: top, ContentTop: top, ContentBottom: bottom},
		pages:   1,
		onBreak: onBreak,
	}
}

// CurrentPage returns a copy of the active page.
func (l *Layout) CurrentPage() Page { return l.page }

// Pages returns the number of pages started so far.
func (l *Layout) Pages() int { return l.pages }

// Remaining returns the free height below the cursor.
func (l *Layout) Remaining() float64 { return l.page.ContentBottom - l.page.CursorY }

// Fits reports whether height fits below the cursor on the current page.
func (l *Layout) Fits(height float64) bool {
	return l.page.CursorY+height <= l.page.ContentBottom
}

// Break starts a new page with the cursor at the content top.
func (l *Layout) Break() {
	l.page = Page{
		Index:         l.page.Index + 1,
		CursorY:       l.page.ContentTop,
		ContentTop:    l.page.ContentTop,
		ContentBottom: l.page.ContentBottom,
	}
	l.pages++
	if l.onBreak != nil {
		l.onBreak(l.page)
	}
}

// Reserve claims height on the current page, breaking first when it does
// not fit, and returns the y where the block starts. A block taller than a
// whole page is placed on a fresh page and the cursor clamps at the bottom.
func (l *Layout) Reserve(height float64) float64 {
	if height < 0 {
		height = 0
	}
	if !l.Fits(height) && l.page.CursorY > l.page.ContentTop {
		l.Break()
	}
	y := l.page.CursorY
	l.page.CursorY += height
	if l.page.CursorY > l.page.ContentBottom {
		l.page.CursorY = l.page.ContentBottom
	}
	return y
}

// Advance moves the cursor down by height without breaking, clamped to the
// page bottom. Used for spacing after a block.
func (l *Layout) Advance(height float64) {
	l.page.CursorY += height
	if l.page.CursorY > l.page.ContentBottom {
		l.page.CursorY = l.page.ContentBottom
	}
}
