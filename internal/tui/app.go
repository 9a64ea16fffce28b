// Package tui is the terminal front end of the workbench. Every input message
// is turned into a frame and run through workbench.Tick; View renders the
// resulting state and marks the zones the next frame hit-tests against.
package tui

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/jask/plotbench/internal/axis"
	"github.com/jask/plotbench/internal/config"
	"github.com/jask/plotbench/internal/pane"
	"github.com/jask/plotbench/internal/service"
	"github.com/jask/plotbench/internal/signal"
	"github.com/jask/plotbench/internal/workbench"
)

type focusArea int

const (
	focusSidebar focusArea = iota
	focusPanes
)

const (
	headerRows = 1
	statusRows = 1
	footerRows = 1
	minPaneRow = 4
)

type Model struct {
	wb       *workbench.Workbench
	cfg      config.Config
	exporter *service.Exporter
	log      *slog.Logger
	keys     *KeyRegistry
	axis     axis.Hierarchy

	zones *zone.Manager
	hits  hitTester

	filter    textinput.Model
	filtering bool

	focus      focusArea
	cursor     int
	paneCursor int
	scroll     int

	resizing int64
	resizeY  int

	hoverRow  int
	hoverPane int64
	readout   string

	width  int
	height int

	status    string
	statusErr bool

	confirmClear bool
}

// New builds the model. exporter may be nil, in which case export reports an
// error instead of writing.
func New(wb *workbench.Workbench, cfg config.Config, exporter *service.Exporter, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter signals"
	ti.CharLimit = 64

	zm := zone.New()
	return Model{
		wb:       wb,
		cfg:      cfg,
		exporter: exporter,
		log:      logger,
		keys:     NewKeyRegistry(DefaultKeyBindings()),
		axis:     axis.Minutes().WithDomain(axis.Range{Min: cfg.Sampling.DomainMin, Max: cfg.Sampling.DomainMax}),
		zones:    zm,
		hits:     zoneHits{zones: zm},
		filter:   ti,
		hoverRow: -1,
		width:    100,
		height:   40,
	}
}

func (m Model) Init() tea.Cmd {
	return statusCmd("drag a signal onto a pane, or press g to grab and enter to drop")
}

func (m Model) scope() string {
	if m.filtering {
		return scopeFilter
	}
	if m.focus == focusPanes {
		return scopePanes
	}
	return scopeSidebar
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ensurePaneVisible()
		return m, nil
	case tea.BlurMsg:
		if m.wb.CancelDrag() {
			m.setStatus("drag cancelled: focus lost", false)
		}
		m.resizing = 0
		return m, nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case StatusMsg:
		m.setStatus(msg.Text, msg.IsErr)
		return m, nil
	case exportDoneMsg:
		if msg.err != nil {
			m.log.Error("export failed", "pane", msg.snapshot.PaneID, "err", msg.err)
			m.setStatus("export failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.log.Info("pane exported", "pane", msg.snapshot.PaneID, "snapshot", msg.snapshot.ID, "series", len(msg.snapshot.Series))
		m.setStatus(fmt.Sprintf("exported %s (%d series) as %s", msg.snapshot.PaneTitle, len(msg.snapshot.Series), shortID(msg.snapshot.ID)), false)
		return m, nil
	case undoDoneMsg:
		switch {
		case msg.err != nil:
			m.log.Error("undo export failed", "err", msg.err)
			m.setStatus("undo export failed: "+msg.err.Error(), true)
		case !msg.found:
			m.setStatus("no exports to undo", false)
		default:
			m.setStatus(fmt.Sprintf("removed export %s of %s", shortID(msg.snapshot.ID), msg.snapshot.PaneTitle), false)
		}
		return m, nil
	case resetDoneMsg:
		if msg.err != nil {
			m.log.Error("clear exports failed", "err", msg.err)
			m.setStatus("clear exports failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.setStatus("all exports deleted", false)
		return m, nil
	}
	return m, nil
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Action == tea.MouseActionPress && m.scroll > 0 {
			m.scroll--
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if msg.Action == tea.MouseActionPress && m.scroll < len(m.wb.Panes())-1 {
			m.scroll++
		}
		return m, nil
	}

	f := m.newFrame()
	f.mouse = &msg

	if m.resizing != 0 {
		switch msg.Action {
		case tea.MouseActionMotion:
			f.resize = map[int64]float64{m.resizing: float64(msg.Y-m.resizeY) * m.cfg.UI.UnitsPerRow}
			m.resizeY = msg.Y
		case tea.MouseActionRelease:
			m.resizing = 0
		}
	} else if f.pressed() {
		if _, dragging := m.wb.Dragging(); !dragging {
			for _, p := range m.wb.Panes() {
				if f.visiblePanes[p.ID] && m.hits.hit(resizeZone(p.ID), msg) {
					m.resizing = p.ID
					m.resizeY = msg.Y
					break
				}
			}
		}
	}

	m.tick(f)

	m.readout = ""
	if m.resizing == 0 && msg.Action == tea.MouseActionMotion {
		m.readout = m.readoutAt(msg)
	}

	if f.pressed() {
		if f.hoverRow >= 0 {
			m.focus = focusSidebar
			m.selectSignal(f.hoverRow)
		} else if f.hoverPane != 0 {
			m.focus = focusPanes
			m.selectPane(f.hoverPane)
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		if m.keys.IsAction(msg, actionQuit, scopeFilter) {
			return m, tea.Quit
		}
		if m.keys.IsAction(msg, actionAccept, scopeFilter) {
			m.filtering = false
			m.filter.Blur()
			if msg.Type == tea.KeyEsc {
				m.filter.SetValue("")
			}
			m.clampCursor()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.cursor = 0
		return m, cmd
	}

	scope := m.scope()
	action := m.keys.Action(msg, scope)
	if action != actionClearExports {
		m.confirmClear = false
	}
	switch action {
	case actionQuit:
		return m, tea.Quit
	case actionFocus:
		if m.focus == focusSidebar {
			m.focus = focusPanes
		} else {
			m.focus = focusSidebar
		}
	case actionUp:
		m.move(-1)
	case actionDown:
		m.move(1)
	case actionGrab:
		entries := m.visibleEntries()
		if m.cursor < len(entries) {
			f := m.newFrame()
			f.grab = entries[m.cursor].Index
			m.tick(f)
		}
	case actionDrop:
		f := m.newFrame()
		f.release = true
		if p := m.focusedPane(); p != nil {
			f.dropOn = p.ID
		}
		m.tick(f)
	case actionCancel:
		f := m.newFrame()
		f.cancel = true
		m.tick(f)
	case actionAddPane:
		p := m.wb.AddPane()
		m.selectPane(p.ID)
		m.setStatus("added "+p.Title, false)
	case actionClosePane:
		if p := m.focusedPane(); p != nil {
			f := m.newFrame()
			f.closeID = p.ID
			m.tick(f)
		}
	case actionGrow, actionShrink:
		if p := m.focusedPane(); p != nil {
			delta := m.cfg.UI.UnitsPerRow
			if m.keys.IsAction(msg, actionShrink, scope) {
				delta = -delta
			}
			f := m.newFrame()
			f.resize = map[int64]float64{p.ID: delta}
			m.tick(f)
		}
	case actionDetach:
		if p := m.focusedPane(); p != nil && len(p.Attachments) > 0 {
			last := p.Attachments[len(p.Attachments)-1]
			p.Detach(len(p.Attachments) - 1)
			m.setStatus(fmt.Sprintf("removed %s from %s", m.signalName(last.SignalIndex), p.Title), false)
		}
	case actionExport:
		return m.export()
	case actionUndoExport:
		return m.undoExport()
	case actionClearExports:
		return m.clearExports()
	case actionFilter:
		m.filtering = true
		return m, m.filter.Focus()
	case actionCycleColor:
		m.cycleColor()
	case actionAddSignal:
		m.addSignal()
	}
	return m, nil
}

func (m Model) export() (tea.Model, tea.Cmd) {
	p := m.focusedPane()
	if p == nil {
		m.setStatus("no pane to export", true)
		return m, nil
	}
	if m.exporter == nil {
		m.setStatus("export database not configured", true)
		return m, nil
	}
	d := service.Domain{
		Min:    m.cfg.Sampling.DomainMin,
		Max:    m.cfg.Sampling.DomainMax,
		Points: m.cfg.Sampling.Points,
	}
	m.setStatus("exporting "+p.Title+"...", false)
	return m, exportPaneCmd(m.exporter, p.Clone(), m.wb.Registry().Clone(), d)
}

func (m Model) undoExport() (tea.Model, tea.Cmd) {
	if m.exporter == nil {
		m.setStatus("export database not configured", true)
		return m, nil
	}
	return m, undoExportCmd(m.exporter)
}

// clearExports asks for a second press before deleting every export.
func (m Model) clearExports() (tea.Model, tea.Cmd) {
	if m.exporter == nil {
		m.setStatus("export database not configured", true)
		return m, nil
	}
	if !m.confirmClear {
		m.confirmClear = true
		m.setStatus("press ctrl+r again to delete every export", false)
		return m, nil
	}
	m.confirmClear = false
	return m, resetExportsCmd(m.exporter)
}

// tick runs one workbench frame and folds its events into the status bar.
func (m *Model) tick(f *frame) {
	events := m.wb.Tick(f)
	m.hoverRow = f.hoverRow
	m.hoverPane = f.hoverPane
	for _, e := range events {
		m.applyEvent(e)
	}
	m.clampPaneCursor()
	m.ensurePaneVisible()
}

func (m *Model) applyEvent(e workbench.Event) {
	switch e.Kind {
	case workbench.DragStarted:
		m.setStatus("dragging "+m.signalName(e.SignalIndex), false)
	case workbench.Attached:
		title := fmt.Sprintf("pane %d", e.PaneID)
		if p, ok := m.wb.Pane(e.PaneID); ok {
			title = p.Title
		}
		m.setStatus(fmt.Sprintf("%s → %s", m.signalName(e.SignalIndex), title), false)
	case workbench.DropMissed:
		m.setStatus("dropped outside every pane", false)
	case workbench.DragCancelled:
		m.setStatus("drag cancelled", false)
	case workbench.PaneClosed:
		m.setStatus(fmt.Sprintf("closed Plot %d", e.PaneID), false)
		if m.resizing == e.PaneID {
			m.resizing = 0
		}
	case workbench.PaneResized, workbench.PaneMoved:
		m.setStatus(fmt.Sprintf("Plot %d height %.0f", e.PaneID, e.Height), false)
	}
}

func (m Model) newFrame() *frame {
	f := newFrame(m.hits, m.viewport())
	f.visibleRows = make(map[int]bool)
	for _, e := range m.visibleEntries() {
		f.visibleRows[e.Index] = true
	}
	f.visiblePanes = make(map[int64]bool)
	for _, p := range m.shownPanes() {
		f.visiblePanes[p.ID] = true
	}
	return f
}

func (m Model) signalName(index int) string {
	s, err := m.wb.Registry().Get(index)
	if err != nil {
		return fmt.Sprintf("signal %d", index)
	}
	return s.Name
}

func (m Model) visibleEntries() []signal.Entry {
	return m.wb.Registry().Search(m.filter.Value())
}

func (m *Model) move(delta int) {
	if m.focus == focusSidebar {
		m.cursor += delta
		m.clampCursor()
		return
	}
	m.paneCursor += delta
	m.clampPaneCursor()
	m.ensurePaneVisible()
}

func (m *Model) clampCursor() {
	n := len(m.visibleEntries())
	m.cursor = max(0, min(m.cursor, n-1))
}

func (m *Model) clampPaneCursor() {
	n := len(m.wb.Panes())
	m.paneCursor = max(0, min(m.paneCursor, n-1))
}

func (m *Model) selectSignal(index int) {
	for i, e := range m.visibleEntries() {
		if e.Index == index {
			m.cursor = i
			return
		}
	}
}

func (m *Model) selectPane(id int64) {
	for i, p := range m.wb.Panes() {
		if p.ID == id {
			m.paneCursor = i
			m.ensurePaneVisible()
			return
		}
	}
}

func (m Model) focusedPane() *pane.Pane {
	panes := m.wb.Panes()
	if m.paneCursor < 0 || m.paneCursor >= len(panes) {
		return nil
	}
	return panes[m.paneCursor]
}

func (m *Model) cycleColor() {
	entries := m.visibleEntries()
	if m.cursor >= len(entries) {
		return
	}
	e := entries[m.cursor]
	next := signal.Palette[0]
	for i, c := range signal.Palette {
		if strings.EqualFold(c, e.Signal.Color) {
			next = signal.Palette[(i+1)%len(signal.Palette)]
			break
		}
	}
	if err := m.wb.Registry().SetColor(e.Index, next); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus(fmt.Sprintf("%s color %s", e.Signal.Name, next), false)
}

func (m *Model) addSignal() {
	n := m.wb.Registry().Len()
	day := float64(axis.MinutesPerDay)
	var gen signal.Generator
	switch n % 3 {
	case 0:
		gen = signal.Sine(1, day/float64(n%4+2))
	case 1:
		gen = signal.Cosine(0.5, day/float64(n%4+2))
	default:
		gen = signal.Linear(-1/(m.cfg.Sampling.DomainMax-m.cfg.Sampling.DomainMin), 1)
	}
	name := fmt.Sprintf("Signal%d", n+1)
	idx := m.wb.AddSignal(name, signal.Palette[n%len(signal.Palette)], gen)
	m.selectSignal(idx)
	m.setStatus("registered "+name, false)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Layout.

func (m Model) sidebarWidth() int {
	w := m.cfg.UI.SidebarWidth
	if w <= 0 {
		w = 28
	}
	return min(w, max(10, m.width/2))
}

func (m Model) mainHeight() int {
	return max(1, m.height-headerRows-statusRows-footerRows)
}

// viewport is the tallest a pane may grow, in pane height units.
func (m Model) viewport() float64 {
	return float64(m.mainHeight()) * m.unitsPerRow()
}

func (m Model) unitsPerRow() float64 {
	if m.cfg.UI.UnitsPerRow <= 0 {
		return 20
	}
	return m.cfg.UI.UnitsPerRow
}

func (m Model) paneRows(p *pane.Pane) int {
	return max(minPaneRow, int(math.Round(p.Height/m.unitsPerRow())))
}

// shownPanes returns the panes that fit on screen from the scroll offset.
func (m Model) shownPanes() []*pane.Pane {
	panes := m.wb.Panes()
	if m.scroll >= len(panes) {
		return nil
	}
	avail := m.mainHeight()
	var out []*pane.Pane
	for _, p := range panes[m.scroll:] {
		if avail <= 0 {
			break
		}
		out = append(out, p)
		avail -= m.paneRows(p)
	}
	return out
}

func (m *Model) ensurePaneVisible() {
	n := len(m.wb.Panes())
	if n == 0 {
		m.scroll = 0
		return
	}
	m.scroll = max(0, min(m.scroll, n-1))
	if m.paneCursor < m.scroll {
		m.scroll = m.paneCursor
		return
	}
	panes := m.wb.Panes()
	for m.scroll < m.paneCursor {
		used := 0
		for _, p := range panes[m.scroll : m.paneCursor+1] {
			used += m.paneRows(p)
		}
		if used <= m.mainHeight() {
			return
		}
		m.scroll++
	}
}

func (m Model) mark(id, s string) string {
	if m.zones == nil {
		return s
	}
	return m.zones.Mark(id, s)
}

func (m Model) View() string {
	width := max(1, m.width)
	header := m.renderHeader(width)
	sidebar := m.renderSidebar(m.sidebarWidth(), m.mainHeight())
	main := m.renderPanes(width-m.sidebarWidth(), m.mainHeight())
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
	body = clipHeight(body, m.mainHeight())

	view := lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		renderStatusBar(m.status, m.statusErr, width),
		renderFooter(m.keys, m.scope(), width),
	)
	if m.zones == nil {
		return view
	}
	return m.zones.Scan(view)
}

func (m Model) renderHeader(width int) string {
	text := headerStyle.Background(colorMantle).Render("plotbench")
	if idx, ok := m.wb.Dragging(); ok {
		text += lipgloss.NewStyle().Foreground(colorDrag).Background(colorMantle).
			Render("  dragging " + m.signalName(idx))
	} else if m.readout != "" {
		text += mutedStyle.Background(colorMantle).Render("  " + m.readout)
	}
	return renderBar(headerBarStyle, width, text, colorMantle)
}

func (m Model) renderSidebar(width, height int) string {
	dragIdx, dragging := m.wb.Dragging()
	lines := []string{headerStyle.Render("Signals")}
	if m.filtering || m.filter.Value() != "" {
		lines = append(lines, m.filter.View())
	}
	for i, e := range m.visibleEntries() {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Signal.Color)).Render("●")
		prefix := "  "
		if i == m.cursor && m.focus == focusSidebar {
			prefix = "▶ "
		}
		style := lipgloss.NewStyle().Foreground(colorText)
		switch {
		case dragging && e.Index == dragIdx:
			style = style.Background(blend(lipgloss.Color(e.Signal.Color), colorBg, 0.6)).Bold(true)
		case e.Index == m.hoverRow:
			style = style.Background(colorSurface0)
		}
		row := padRight(prefix+swatch+" "+style.Render(e.Signal.Name), width-1)
		lines = append(lines, m.mark(signalZone(e.Index), row))
	}
	if len(lines) == 1 {
		lines = append(lines, mutedStyle.Render("  no matches"))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	out := make([]string, 0, len(lines))
	for _, l := range lines[:height] {
		out = append(out, padRight(l, width))
	}
	return strings.Join(out, "\n")
}

// paneSlot is a pane laid out on screen with the rows it occupies.
type paneSlot struct {
	pane *pane.Pane
	rows int
}

// paneSlots lays out the shown panes in height rows. Panes that would get
// fewer than three rows are left out.
func (m Model) paneSlots(height int) []paneSlot {
	var slots []paneSlot
	remaining := height
	for _, p := range m.shownPanes() {
		rows := min(m.paneRows(p), remaining)
		if rows < 3 {
			break
		}
		remaining -= rows
		slots = append(slots, paneSlot{pane: p, rows: rows})
	}
	return slots
}

// chartSize is the chart area inside a pane box of the given outer size.
func chartSize(width, rows int) (int, int) {
	return width - 4, rows - 3
}

func (m Model) sampling() sampling {
	return sampling{min: m.cfg.Sampling.DomainMin, max: m.cfg.Sampling.DomainMax, points: max(2, m.cfg.Sampling.Points)}
}

// readoutAt returns the cursor label for the chart under msg, if any.
func (m Model) readoutAt(msg tea.MouseMsg) string {
	width := m.width - m.sidebarWidth()
	for _, slot := range m.paneSlots(m.mainHeight()) {
		col, row, ok := m.hits.pos(chartZone(slot.pane.ID), msg)
		if !ok {
			continue
		}
		w, h := chartSize(width, slot.rows)
		text, ok := chartReadout(pane.Resolve(slot.pane, m.wb.Registry()), w, h, m.sampling(), m.axis, col, row)
		if !ok {
			return ""
		}
		return strings.ReplaceAll(text, "\n", "  ")
	}
	return ""
}

func (m Model) renderPanes(width, height int) string {
	if width <= 0 {
		return ""
	}
	slots := m.paneSlots(height)
	if len(slots) == 0 {
		return padRight(mutedStyle.Render("  no panes, press a to add one"), width)
	}
	_, dragActive := m.wb.Dragging()
	focused := m.focusedPane()
	s := m.sampling()

	blocks := make([]string, 0, len(slots))
	for _, slot := range slots {
		p, rows := slot.pane, slot.rows
		v := pane.Resolve(p, m.wb.Registry())

		border := colorBorder
		isFocused := focused != nil && focused.ID == p.ID && m.focus == focusPanes
		if isFocused {
			border = colorAccent
		}
		if dragActive {
			border = colorDrag
			if p.ID == m.hoverPane {
				border = colorSuccess
			}
		}

		innerW, chartH := chartSize(width, rows)
		content := m.legend(v, innerW)
		if chartH > 0 {
			content += "\n" + m.mark(chartZone(p.ID), renderChart(v, innerW, chartH, s, m.axis))
		}

		box := paneBox{
			Title:   p.Title,
			Content: content,
			Close:   m.mark(closeZone(p.ID), lipgloss.NewStyle().Foreground(colorError).Render("[x]")),
			Grip:    m.mark(resizeZone(p.ID), lipgloss.NewStyle().Foreground(colorMuted).Render("═══")),
			Border:  border,
			Focused: isFocused,
		}
		blocks = append(blocks, m.mark(paneZone(p.ID), box.Render(width, rows)))
	}
	return strings.Join(blocks, "\n")
}

func (m Model) legend(v pane.View, width int) string {
	if len(v.Lines) == 0 && v.Skipped == 0 {
		return mutedStyle.Render("drop a signal here")
	}
	parts := make([]string, 0, len(v.Lines)+1)
	for _, l := range v.Lines {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color)).Render("━ "+l.Name))
	}
	if v.Skipped > 0 {
		parts = append(parts, mutedStyle.Render(fmt.Sprintf("(%d missing)", v.Skipped)))
	}
	return padRight(strings.Join(parts, "  "), width)
}
