package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"wingman/internal/config"
	"wingman/internal/history"
	"wingman/pkg/catalog"
	"wingman/pkg/manager"
	"wingman/pkg/tracker"
)

// View represents different views in the TUI
type View int

const (
	ViewPackages View = iota
	ViewUpdates
	ViewSearch
	ViewOperations
	ViewHistory
	ViewDetails
	ViewHelp
)

// Tab represents a navigable tab
type Tab struct {
	Name string
	View View
}

// DefaultTabs returns the default tab configuration
func DefaultTabs() []Tab {
	return []Tab{
		{Name: "Packages", View: ViewPackages},
		{Name: "Updates", View: ViewUpdates},
		{Name: "Search", View: ViewSearch},
		{Name: "Operations", View: ViewOperations},
		{Name: "History", View: ViewHistory},
	}
}

// sourceCycle is the order the source filter steps through.
var sourceCycle = []manager.Source{"", manager.SourceWinget, manager.SourceMSStore, manager.SourceChocolatey}

// Model holds the application state
type Model struct {
	// Core state
	ready    bool
	quitting bool

	// Dimensions
	width  int
	height int

	// Navigation
	tabs       []Tab
	activeTab  int
	activeView View
	prevView   View

	// Data
	service        *catalog.Service
	config         *config.Config
	historyStore   *history.Store
	packages       []manager.Package
	providerErrs   map[manager.Source]error
	searchResults  []manager.Package
	historyEntries []history.Entry
	operations     []tracker.Operation
	bulk           catalog.BulkProgress
	selectedPkg    *manager.Package
	selectedInfo   *manager.PackageInfo
	versions       []string

	// UI state
	loading      bool
	loadingMsg   string
	errorMsg     string
	successMsg   string
	filter       manager.Filter
	searchQuery  string
	inputMode    bool
	inputPrompt  string
	inputValue   string
	inputHandler func(string) tea.Cmd

	// Cursor positions for each view
	cursors map[View]int

	// Scroll offsets for each view
	scrolls map[View]int

	// Styles and keys
	styles *Styles
	keys   KeyMap

	// Confirmation dialog
	showConfirm   bool
	confirmTitle  string
	confirmAction func() tea.Cmd
}

// NewModel creates a new TUI model
func NewModel(service *catalog.Service, cfg *config.Config, historyStore *history.Store) *Model {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Model{
		tabs:         DefaultTabs(),
		activeTab:    0,
		activeView:   ViewPackages,
		service:      service,
		config:       cfg,
		historyStore: historyStore,
		cursors:      make(map[View]int),
		scrolls:      make(map[View]int),
		styles:       DefaultStyles(),
		keys:         DefaultKeyMap(),
	}
}

// SetSize sets the terminal size
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// CurrentTab returns the current tab
func (m *Model) CurrentTab() Tab {
	if m.activeTab >= 0 && m.activeTab < len(m.tabs) {
		return m.tabs[m.activeTab]
	}
	return m.tabs[0]
}

// Cursor returns the cursor position for the current view
func (m *Model) Cursor() int {
	return m.cursors[m.activeView]
}

// SetCursor sets the cursor position for the current view
func (m *Model) SetCursor(pos int) {
	m.cursors[m.activeView] = pos
}

// Scroll returns the scroll offset for the current view
func (m *Model) Scroll() int {
	return m.scrolls[m.activeView]
}

// SetScroll sets the scroll offset for the current view
func (m *Model) SetScroll(offset int) {
	m.scrolls[m.activeView] = offset
}

// VisibleHeight returns the height available for list content
func (m *Model) VisibleHeight() int {
	// Account for header (2), tabs (1), footer (2), padding (2)
	h := m.height - 7
	if h < 1 {
		h = 1
	}
	return h
}

// ListItems returns the packages shown in the current view
func (m *Model) ListItems() []manager.Package {
	switch m.activeView {
	case ViewPackages:
		return m.filter.Apply(m.packages)
	case ViewUpdates:
		f := m.filter
		f.OnlyUpdates = true
		return f.Apply(m.packages)
	case ViewSearch:
		return m.searchResults
	default:
		return nil
	}
}

// listLen returns the number of rows in the current view
func (m *Model) listLen() int {
	switch m.activeView {
	case ViewOperations:
		return len(m.operations)
	case ViewHistory:
		return len(m.historyEntries)
	}
	return len(m.ListItems())
}

// UpdateCount returns how many loaded packages have an update.
func (m *Model) UpdateCount() int {
	n := 0
	for _, p := range m.packages {
		if p.HasUpdate {
			n++
		}
	}
	return n
}

// SelectedPackage returns the currently selected package
func (m *Model) SelectedPackage() *manager.Package {
	if m.activeView == ViewDetails {
		return m.selectedPkg
	}
	items := m.ListItems()
	cursor := m.Cursor()
	if cursor >= 0 && cursor < len(items) {
		return &items[cursor]
	}
	return nil
}

// MoveCursor moves the cursor by delta, clamping to valid range
func (m *Model) MoveCursor(delta int) {
	n := m.listLen()
	if n == 0 {
		return
	}

	newPos := m.Cursor() + delta
	if newPos < 0 {
		newPos = 0
	}
	if newPos >= n {
		newPos = n - 1
	}
	m.SetCursor(newPos)

	// Adjust scroll to keep cursor visible
	visibleHeight := m.VisibleHeight()
	scroll := m.Scroll()

	if newPos < scroll {
		m.SetScroll(newPos)
	} else if newPos >= scroll+visibleHeight {
		m.SetScroll(newPos - visibleHeight + 1)
	}
}

// GoToTop moves cursor to the top
func (m *Model) GoToTop() {
	m.SetCursor(0)
	m.SetScroll(0)
}

// GoToBottom moves cursor to the bottom
func (m *Model) GoToBottom() {
	n := m.listLen()
	if n == 0 {
		return
	}
	m.SetCursor(n - 1)

	visibleHeight := m.VisibleHeight()
	if n > visibleHeight {
		m.SetScroll(n - visibleHeight)
	}
}

// clampCursor keeps the cursor inside the list after it shrinks
func (m *Model) clampCursor() {
	n := m.listLen()
	if m.Cursor() >= n {
		m.SetCursor(max(n-1, 0))
	}
	if m.Scroll() > m.Cursor() {
		m.SetScroll(m.Cursor())
	}
}

// NextTab switches to the next tab
func (m *Model) NextTab() {
	m.activeTab = (m.activeTab + 1) % len(m.tabs)
	m.activeView = m.tabs[m.activeTab].View
}

// PrevTab switches to the previous tab
func (m *Model) PrevTab() {
	m.activeTab--
	if m.activeTab < 0 {
		m.activeTab = len(m.tabs) - 1
	}
	m.activeView = m.tabs[m.activeTab].View
}

// SetTab switches to a specific tab by index
func (m *Model) SetTab(index int) {
	if index >= 0 && index < len(m.tabs) {
		m.activeTab = index
		m.activeView = m.tabs[m.activeTab].View
	}
}

// CycleSource steps the source filter through all, winget, msstore and
// chocolatey.
func (m *Model) CycleSource() {
	for i, s := range sourceCycle {
		if s == m.filter.Source {
			m.filter.Source = sourceCycle[(i+1)%len(sourceCycle)]
			break
		}
	}
	m.GoToTop()
}

// CycleCategory steps the category filter through every category.
func (m *Model) CycleCategory() {
	cycle := append([]manager.Category{""}, manager.Categories...)
	for i, c := range cycle {
		if c == m.filter.Category {
			m.filter.Category = cycle[(i+1)%len(cycle)]
			break
		}
	}
	m.GoToTop()
}

// ShowDetails shows the details view for the selected package
func (m *Model) ShowDetails() bool {
	pkg := m.SelectedPackage()
	if pkg == nil {
		return false
	}
	selected := *pkg
	m.selectedPkg = &selected
	m.selectedInfo = nil
	m.versions = nil
	m.prevView = m.activeView
	m.activeView = ViewDetails
	return true
}

// GoBack returns to the previous view
func (m *Model) GoBack() {
	if m.activeView == ViewDetails || m.activeView == ViewHelp {
		m.activeView = m.prevView
	}
}

// SetLoading sets the loading state
func (m *Model) SetLoading(loading bool, msg string) {
	m.loading = loading
	m.loadingMsg = msg
}

// SetError sets an error message
func (m *Model) SetError(msg string) {
	m.errorMsg = msg
	m.successMsg = ""
}

// SetSuccess sets a success message
func (m *Model) SetSuccess(msg string) {
	m.successMsg = msg
	m.errorMsg = ""
}

// ClearMessages clears all messages
func (m *Model) ClearMessages() {
	m.errorMsg = ""
	m.successMsg = ""
}

// StartInput starts input mode
func (m *Model) StartInput(prompt string, handler func(string) tea.Cmd) {
	m.inputMode = true
	m.inputPrompt = prompt
	m.inputValue = ""
	m.inputHandler = handler
}

// FinishInput finishes input mode and calls the handler
func (m *Model) FinishInput() tea.Cmd {
	handler, value := m.inputHandler, m.inputValue
	m.CancelInput()
	if handler == nil {
		return nil
	}
	return handler(value)
}

// CancelInput cancels input mode
func (m *Model) CancelInput() {
	m.inputMode = false
	m.inputPrompt = ""
	m.inputValue = ""
	m.inputHandler = nil
}

// ShowConfirm shows a confirmation dialog
func (m *Model) ShowConfirm(title string, action func() tea.Cmd) {
	m.showConfirm = true
	m.confirmTitle = title
	m.confirmAction = action
}

// ConfirmYes executes the confirmation action
func (m *Model) ConfirmYes() tea.Cmd {
	action := m.confirmAction
	m.ConfirmNo()
	if action == nil {
		return nil
	}
	return action()
}

// ConfirmNo cancels the confirmation
func (m *Model) ConfirmNo() {
	m.showConfirm = false
	m.confirmTitle = ""
	m.confirmAction = nil
}
