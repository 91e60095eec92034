package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fdtkit/fdtkit/fdt/printer"
)

// View renders the whole screen
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.helpView()
	}

	title := m.titleView()
	panes := lipgloss.JoinHorizontal(lipgloss.Top, m.treeView(), m.detailView())
	status := m.statusView()

	return lipgloss.JoinVertical(lipgloss.Left, title, panes, status)
}

// treeWidth is the column count of the tree pane, border included.
func (m Model) treeWidth() int {
	w := m.width * 2 / 5
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) titleView() string {
	name := filepath.Base(m.blobPath)
	left := headerStyle.Render(fmt.Sprintf("fdtexplorer  %s  (v%d, %d bytes)", name, m.treeVer, m.totalSize))
	path := pathStyle.Render(truncate(m.selectedRow().path, m.width-lipgloss.Width(left)-3))
	return left + "  " + path
}

// treeView renders the visible window of tree rows.
func (m Model) treeView() string {
	h := m.paneContentHeight()
	contentW := m.treeWidth() - 4

	var b strings.Builder
	for i := m.offset; i < len(m.rows) && i < m.offset+h; i++ {
		r := m.rows[i]

		marker := "  "
		if len(r.node.Children) > 0 {
			if m.expanded[r.node] {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}

		name := r.node.Name
		if name == "" {
			name = "/"
		}
		line := truncate(strings.Repeat("  ", r.depth)+marker+name, contentW)

		switch {
		case i == m.cursor:
			line = selectedStyle.Render(line)
		case m.searchQuery != "" && strings.Contains(strings.ToLower(r.node.Name), m.searchQuery):
			line = matchStyle.Render(line)
		}

		if i > m.offset {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}

	style := paneStyle
	if m.focusedPane == TreePane {
		style = activePaneStyle
	}
	return style.Width(m.treeWidth() - 2).Height(h).Render(b.String())
}

// detailView renders the selected node in source form, one level deep.
func (m Model) detailView() string {
	h := m.paneContentHeight()
	paneW := m.width - m.treeWidth()
	contentW := paneW - 4

	var buf strings.Builder
	if n := m.selectedRow().node; n != nil {
		opts := printer.DefaultOptions()
		opts.MaxDepth = 2
		p := printer.New(&buf, opts)
		if err := p.PrintNode(n); err != nil {
			buf.Reset()
			buf.WriteString(fmt.Sprintf("render error: %v", err))
		}
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	// Clamp the scroll window locally; the stored offset may run past the
	// end after a node switch.
	off := m.detailOffset
	if off > len(lines)-h {
		off = len(lines) - h
	}
	if off < 0 {
		off = 0
	}

	var b strings.Builder
	for i := off; i < len(lines) && i < off+h; i++ {
		if i > off {
			b.WriteByte('\n')
		}
		b.WriteString(truncate(lines[i], contentW))
	}

	style := paneStyle
	if m.focusedPane == DetailPane {
		style = activePaneStyle
	}
	return style.Width(paneW - 2).Height(h).Render(b.String())
}

// statusView renders the bottom line: search prompt, status message, or
// the short help.
func (m Model) statusView() string {
	if m.inputMode == SearchMode {
		return statusStyle.Width(m.width).Render(searchPromptStyle.Render("/" + m.inputBuffer))
	}

	left := m.statusMessage
	if left == "" {
		left = fmt.Sprintf("%d nodes", len(m.rows))
	}
	right := helpStyle.Render("tab: switch  /: search  ?: help  q: quit")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return statusStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// helpView renders the full-screen help overlay.
func (m Model) helpView() string {
	rows := []struct{ key, desc string }{
		{"↑/k, ↓/j", "move up/down"},
		{"→/l", "expand node"},
		{"←/h", "collapse node / go to parent"},
		{"enter", "expand/collapse"},
		{"p", "go to parent"},
		{"E", "expand whole subtree"},
		{"C", "collapse all"},
		{"g / G", "go to top / bottom"},
		{"tab", "switch pane"},
		{"/", "search node names"},
		{"n / N", "next / previous match"},
		{"?", "close help"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(helpTitleStyle.Render("fdtexplorer keys"))
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(helpKeyStyle.Render(r.key))
		b.WriteString(helpDescStyle.Render(r.desc))
		b.WriteByte('\n')
	}
	b.WriteString("\nPress ? or esc to close")
	return b.String()
}
