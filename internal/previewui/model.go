// Package previewui provides the Bubble Tea report preview.
package previewui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/menureport/internal/document"
	"github.com/verte-zerg/menureport/internal/model"
	"github.com/verte-zerg/menureport/internal/preview"
)

const (
	tabOverview = iota
	tabItems
	tabCategories
	tabHistory
)

const plotHeight = 8

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3498DB"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	upStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ECC71"))
	downStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
	sectionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C0C0C0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea preview UI.
type Model struct {
	subject string
	data    model.AnalyticsData
	opts    model.ExportOptions
	history []model.ExportRecord

	tabs      []string
	activeTab int
	overview  viewport.Model
	tables    map[int]*table.Model

	width  int
	height int
}

// NewModel constructs a preview for data as it would be exported under opts.
func NewModel(subject string, data model.AnalyticsData, opts model.ExportOptions, history []model.ExportRecord) *Model {
	m := &Model{
		subject: subject,
		data:    data,
		opts:    opts,
		history: history,
		tabs:    []string{"Overview", "Items", "Categories", "History"},
		tables:  map[int]*table.Model{},
	}
	m.overview = viewport.New(0, 0)
	m.tables[tabItems] = newTable(itemsTable(data.PopularItems))
	m.tables[tabCategories] = newTable(categoriesTable(data.CategoryPerformance))
	m.tables[tabHistory] = newTable(historyTable(history))
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.overview.SetContent(m.renderOverview())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "g", "home":
			if t, ok := m.tables[m.activeTab]; ok {
				t.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if t, ok := m.tables[m.activeTab]; ok {
				t.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if t, ok := m.tables[m.activeTab]; ok {
			*t, cmd = t.Update(msg)
			return m, cmd
		}
		m.overview, cmd = m.overview.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Top/bottom: g/G  Quit: q"), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// ActiveTab returns the name of the visible tab.
func (m *Model) ActiveTab() string {
	return m.tabs[m.activeTab]
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(1, lipgloss.Height(activeNavStyle.Render("X"))) + 1
	footerHeight = 1
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	for _, t := range m.tables {
		t.SetWidth(m.width)
		t.SetHeight(max(1, bodyHeight-1))
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	for i, t := range m.tables {
		if i == m.activeTab {
			t.Focus()
		} else {
			t.Blur()
		}
	}
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	summary := fmt.Sprintf("%s  |  %s  |  %d days", m.subject, m.opts.DateRangeLabel, len(m.data.ViewsSeries))
	return tabs + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody() string {
	t, ok := m.tables[m.activeTab]
	if !ok {
		return m.overview.View()
	}
	if len(t.Rows()) == 0 {
		if m.activeTab == tabHistory {
			return "No exports recorded yet."
		}
		return "No data."
	}
	return tableMutedStyle.Render(t.View())
}

func (m *Model) renderOverview() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	blocks := []string{renderCards(m.data, width)}
	plot := preview.PlotOptions{Width: preview.PlotWidthFor(width, 6), Height: plotHeight, ForceColor: true}
	if m.opts.IncludeCharts && len(m.data.ViewsSeries) > 0 {
		blocks = append(blocks, section("Views & Scans Trend", plotOrError(preview.TrendLines(m.data.ViewsSeries, plot))))
	}
	if m.opts.IncludeTrafficPatterns && len(m.data.TimeDistribution) > 0 {
		blocks = append(blocks, section("Traffic By Hour", plotOrError(preview.HourlyLines(m.data.TimeDistribution, plot))))
	}
	if m.opts.IncludeDeviceStats && len(m.data.DeviceBreakdown) > 0 {
		blocks = append(blocks, section("Device Breakdown", preview.DeviceLines(m.data.DeviceBreakdown)))
	}
	return strings.Join(blocks, "\n\n")
}

func renderCards(data model.AnalyticsData, width int) string {
	days := max(1, len(data.ViewsSeries))
	cards := []string{
		metricCard("Total Views", strconv.Itoa(data.ViewsTotal), data.ViewsChangePct),
		metricCard("QR Scans", strconv.Itoa(data.ScansTotal), data.ScansChangePct),
		metricCard("Avg. Daily Views", fmt.Sprintf("%.1f", float64(data.ViewsTotal)/float64(days)), data.ViewsChangePct),
		metricCard("Avg. Daily Scans", fmt.Sprintf("%.1f", float64(data.ScansTotal)/float64(days)), data.ScansChangePct),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string, change float64) string {
	trend := upStyle.Render("▲ " + document.FormatChange(change))
	if change < 0 {
		trend = downStyle.Render("▼ " + document.FormatChange(change))
	}
	content := fmt.Sprintf("%s\n%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value), trend)
	return cardStyle.Render(content)
}

func section(title string, lines []string) string {
	return sectionStyle.Render(title) + "\n" + strings.Join(lines, "\n")
}

func plotOrError(lines []string, err error) []string {
	if err != nil {
		return []string{fmt.Sprintf("Failed to render plot: %v", err)}
	}
	return lines
}

func newTable(cols []table.Column, rows []table.Row) *table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(1),
	)
	t.SetStyles(tableStyles())
	return &t
}

func itemsTable(items []model.PopularItem) ([]table.Column, []table.Row) {
	cols := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Item", Width: 24},
		{Title: "Category", Width: 14},
		{Title: "Views", Width: 7},
		{Title: "Change", Width: 8},
	}
	rows := make([]table.Row, 0, len(items))
	for i, it := range items {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1), it.Name, it.Category, strconv.Itoa(it.Views), document.FormatChange(it.ChangePct),
		})
	}
	return cols, rows
}

func categoriesTable(cats []model.CategoryStat) ([]table.Column, []table.Row) {
	cols := []table.Column{
		{Title: "Category", Width: 18},
		{Title: "Views", Width: 7},
		{Title: "Items", Width: 6},
		{Title: "Rating", Width: 7},
	}
	rows := make([]table.Row, 0, len(cats))
	for _, c := range cats {
		rating := "-"
		if c.AvgRating != nil {
			rating = fmt.Sprintf("%.1f", *c.AvgRating)
		}
		rows = append(rows, table.Row{c.Name, strconv.Itoa(c.Views), strconv.Itoa(c.ItemCount), rating})
	}
	return cols, rows
}

func historyTable(history []model.ExportRecord) ([]table.Column, []table.Row) {
	cols := []table.Column{
		{Title: "When", Width: 16},
		{Title: "Subject", Width: 18},
		{Title: "Format", Width: 6},
		{Title: "Pages", Width: 5},
		{Title: "File", Width: 40},
	}
	rows := make([]table.Row, 0, len(history))
	for _, h := range history {
		pages := "-"
		if h.Pages > 0 {
			pages = strconv.Itoa(h.Pages)
		}
		rows = append(rows, table.Row{
			h.CreatedAt.Local().Format("2006-01-02 15:04"), h.Subject, string(h.Format), pages, h.Filename,
		})
	}
	return cols, rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
