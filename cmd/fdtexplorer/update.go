package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fdtkit/fdtkit/fdt"
)

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		if m.inputMode == SearchMode {
			return m.updateSearch(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

// updateSearch handles keys while the search prompt is open.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = NormalMode
		m.inputBuffer = ""
		return m, nil

	case tea.KeyEnter:
		m.inputMode = NormalMode
		m.runSearch(m.inputBuffer)
		m.inputBuffer = ""
		return m, nil

	case tea.KeyBackspace:
		if len(m.inputBuffer) > 0 {
			m.inputBuffer = m.inputBuffer[:len(m.inputBuffer)-1]
		}
		return m, nil

	case tea.KeyRunes:
		m.inputBuffer += string(msg.Runes)
		return m, nil
	}

	return m, nil
}

// updateNormal handles keys in browse mode.
func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Esc):
		m.showHelp = false
		m.statusMessage = ""
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.focusedPane == TreePane {
			m.focusedPane = DetailPane
		} else {
			m.focusedPane = TreePane
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.inputMode = SearchMode
		m.inputBuffer = ""
		return m, nil

	case key.Matches(msg, m.keys.NextMatch):
		m.jumpMatch(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevMatch):
		m.jumpMatch(-1)
		return m, nil
	}

	if m.focusedPane == DetailPane {
		return m.updateDetailKeys(msg)
	}
	return m.updateTreeKeys(msg)
}

// updateTreeKeys handles navigation within the tree pane.
func (m Model) updateTreeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.paneContentHeight())

	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.paneContentHeight())

	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
		m.detailOffset = 0
		m.clampScroll()

	case key.Matches(msg, m.keys.End):
		m.cursor = len(m.rows) - 1
		m.detailOffset = 0
		m.clampScroll()

	case key.Matches(msg, m.keys.Enter):
		if n := m.selectedRow().node; n != nil && len(n.Children) > 0 {
			m.expanded[n] = !m.expanded[n]
			m.rebuildRows()
			m.clampScroll()
		}

	case key.Matches(msg, m.keys.Right):
		if n := m.selectedRow().node; n != nil && len(n.Children) > 0 && !m.expanded[n] {
			m.expanded[n] = true
			m.rebuildRows()
			m.clampScroll()
		}

	case key.Matches(msg, m.keys.Left):
		if n := m.selectedRow().node; n != nil && m.expanded[n] && n != m.tree.Root {
			m.expanded[n] = false
			m.rebuildRows()
			m.clampScroll()
		} else {
			m.goToParent()
		}

	case key.Matches(msg, m.keys.GoToParent):
		m.goToParent()

	case key.Matches(msg, m.keys.ExpandAll):
		if n := m.selectedRow().node; n != nil {
			m.expandSubtree(n)
			m.rebuildRows()
			m.clampScroll()
		}

	case key.Matches(msg, m.keys.CollapseAll):
		m.expanded = map[*fdt.Node]bool{m.tree.Root: true}
		m.cursor = 0
		m.rebuildRows()
		m.clampScroll()
	}

	return m, nil
}

// updateDetailKeys scrolls the detail pane.
func (m Model) updateDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.detailOffset > 0 {
			m.detailOffset--
		}

	case key.Matches(msg, m.keys.Down):
		m.detailOffset++

	case key.Matches(msg, m.keys.PageUp):
		m.detailOffset -= m.paneContentHeight()
		if m.detailOffset < 0 {
			m.detailOffset = 0
		}

	case key.Matches(msg, m.keys.PageDown):
		m.detailOffset += m.paneContentHeight()

	case key.Matches(msg, m.keys.Home):
		m.detailOffset = 0
	}

	return m, nil
}

// moveCursor shifts the tree cursor by delta, clamped to the row list.
func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	m.detailOffset = 0
	m.clampScroll()
}

// goToParent moves the cursor to the nearest row above with one less
// depth: the pre-order parent.
func (m *Model) goToParent() {
	cur := m.selectedRow()
	if cur.node == nil || cur.depth == 0 {
		return
	}
	for i := m.cursor - 1; i >= 0; i-- {
		if m.rows[i].depth == cur.depth-1 {
			m.cursor = i
			m.detailOffset = 0
			m.clampScroll()
			return
		}
	}
}

// expandSubtree marks a whole subtree expanded.
func (m *Model) expandSubtree(n *fdt.Node) {
	if len(n.Children) == 0 {
		return
	}
	m.expanded[n] = true
	for _, c := range n.Children {
		m.expandSubtree(c)
	}
}

// paneContentHeight is the number of tree rows that fit in a pane: the
// window minus the title line, the status line, and the pane border.
func (m *Model) paneContentHeight() int {
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// clampScroll keeps the cursor inside the visible window.
func (m *Model) clampScroll() {
	h := m.paneContentHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// runSearch matches node names case-insensitively, expands every ancestor
// of a match, and jumps to the first one.
func (m *Model) runSearch(query string) {
	query = strings.TrimSpace(strings.ToLower(query))
	m.searchQuery = query
	m.matches = nil
	m.matchIdx = 0

	if query == "" {
		m.statusMessage = ""
		return
	}

	m.expandToMatches(m.tree.Root, query)
	m.rebuildRows()

	for i, r := range m.rows {
		if strings.Contains(strings.ToLower(r.node.Name), query) {
			m.matches = append(m.matches, i)
		}
	}

	if len(m.matches) == 0 {
		m.statusMessage = fmt.Sprintf("no matches for %q", query)
		return
	}
	m.cursor = m.matches[0]
	m.detailOffset = 0
	m.clampScroll()
	m.statusMessage = fmt.Sprintf("match 1 of %d for %q", len(m.matches), query)
}

// expandToMatches reports whether the subtree at n contains a name match
// and expands every node on the way to one.
func (m *Model) expandToMatches(n *fdt.Node, query string) bool {
	hit := strings.Contains(strings.ToLower(n.Name), query)
	childHit := false
	for _, c := range n.Children {
		if m.expandToMatches(c, query) {
			childHit = true
		}
	}
	if childHit {
		m.expanded[n] = true
	}
	return hit || childHit
}

// jumpMatch cycles the cursor through search matches.
func (m *Model) jumpMatch(dir int) {
	if len(m.matches) == 0 {
		return
	}
	m.matchIdx = (m.matchIdx + dir + len(m.matches)) % len(m.matches)
	m.cursor = m.matches[m.matchIdx]
	m.detailOffset = 0
	m.clampScroll()
	m.statusMessage = fmt.Sprintf("match %d of %d for %q", m.matchIdx+1, len(m.matches), m.searchQuery)
}
