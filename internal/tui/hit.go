package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

// hitTester answers whether a mouse event falls inside a zone marked during
// the previous View.
type hitTester interface {
	hit(id string, msg tea.MouseMsg) bool
	// pos returns msg relative to the zone's top-left cell.
	pos(id string, msg tea.MouseMsg) (x, y int, ok bool)
}

type zoneHits struct {
	zones *zone.Manager
}

func (h zoneHits) hit(id string, msg tea.MouseMsg) bool {
	info := h.zones.Get(id)
	return info != nil && info.InBounds(msg)
}

func (h zoneHits) pos(id string, msg tea.MouseMsg) (int, int, bool) {
	info := h.zones.Get(id)
	if info == nil || !info.InBounds(msg) {
		return 0, 0, false
	}
	x, y := info.Pos(msg)
	return x, y, true
}

func signalZone(index int) string { return fmt.Sprintf("signal:%d", index) }
func paneZone(id int64) string    { return fmt.Sprintf("pane:%d", id) }
func closeZone(id int64) string   { return fmt.Sprintf("close:%d", id) }
func resizeZone(id int64) string  { return fmt.Sprintf("resize:%d", id) }
func chartZone(id int64) string   { return fmt.Sprintf("chart:%d", id) }
