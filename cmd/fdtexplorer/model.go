package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fdtkit/fdtkit/fdt"
)

// Pane represents which pane is focused
type Pane int

const (
	TreePane Pane = iota
	DetailPane
)

// InputMode represents different input modes
type InputMode int

const (
	NormalMode InputMode = iota
	SearchMode
)

// row is one visible line of the tree pane: a node, its full path, and
// its indent depth.
type row struct {
	node  *fdt.Node
	path  string
	depth int
}

// Model is the main application model. The whole tree lives in memory, so
// every update is synchronous; there are no loading messages.
type Model struct {
	blobPath string
	file     *fdt.File
	tree     *fdt.Tree

	// Header facts shown in the title bar.
	totalSize uint32
	treeVer   uint32

	rows     []row
	expanded map[*fdt.Node]bool
	cursor   int
	offset   int

	// Detail pane scroll state.
	detailOffset int

	focusedPane Pane
	inputMode   InputMode
	inputBuffer string

	// Search state
	searchQuery string
	matches     []int
	matchIdx    int

	keys   KeyMap
	width  int
	height int

	statusMessage string
	showHelp      bool
}

// NewModel opens a blob and builds the initial model with the root
// expanded one level.
func NewModel(blobPath string) (Model, error) {
	f, err := fdt.Open(blobPath)
	if err != nil {
		return Model{}, fmt.Errorf("failed to open blob %s: %w", blobPath, err)
	}

	m := Model{
		blobPath:    blobPath,
		file:        f,
		tree:        f.Tree,
		expanded:    map[*fdt.Node]bool{f.Tree.Root: true},
		keys:        DefaultKeyMap(),
		focusedPane: TreePane,
		inputMode:   NormalMode,
	}

	if h, err := fdt.ParseHeader(f.Blob()); err == nil {
		m.totalSize = h.TotalSize()
		m.treeVer = h.Version()
	}

	m.rebuildRows()
	return m, nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Close releases the mapped blob.
func (m *Model) Close() {
	if m.file != nil {
		m.file.Close()
		m.file = nil
	}
}

// rebuildRows flattens the expanded part of the tree into the visible row
// list, keeping the cursor in range.
func (m *Model) rebuildRows() {
	m.rows = m.rows[:0]
	if m.tree != nil && m.tree.Root != nil {
		m.appendRows(m.tree.Root, "/", 0)
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) appendRows(n *fdt.Node, path string, depth int) {
	m.rows = append(m.rows, row{node: n, path: path, depth: depth})
	if !m.expanded[n] {
		return
	}
	for _, c := range n.Children {
		childPath := path + "/" + c.Name
		if path == "/" {
			childPath = "/" + c.Name
		}
		m.appendRows(c, childPath, depth+1)
	}
}

// selectedRow returns the row under the cursor, or a zero row when the
// tree is empty.
func (m *Model) selectedRow() row {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}
	}
	return m.rows[m.cursor]
}

// Rows exposes the visible rows (for testing)
func (m *Model) Rows() []row {
	return m.rows
}

// Cursor exposes the cursor position (for testing)
func (m *Model) Cursor() int {
	return m.cursor
}
