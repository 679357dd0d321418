package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wingman/internal/config"
	"wingman/internal/history"
	"wingman/internal/ui"
	"wingman/pkg/catalog"
	"wingman/pkg/manager"
	"wingman/pkg/tracker"
)

// refreshInterval is how often the operations view polls the tracker.
const refreshInterval = 250 * time.Millisecond

// Messages for async operations
type (
	packagesLoadedMsg struct {
		list        manager.PackageList
		noProviders bool
	}

	searchResultsMsg struct {
		query   string
		results []manager.Package
		errs    map[manager.Source]error
		err     error
	}

	detailsLoadedMsg struct {
		key      string
		info     *manager.PackageInfo
		versions []string
		err      error
	}

	historyLoadedMsg struct {
		entries []history.Entry
		err     error
	}

	operationCompleteMsg struct {
		kind   tracker.Kind
		pkg    manager.Package
		result manager.Result
		err    error
	}

	bulkCompleteMsg struct {
		bulk manager.BulkResult
	}

	operationsTickMsg time.Time
)

// App wraps the Model with bubbletea components
type App struct {
	*Model
	ctx       context.Context
	cancel    context.CancelFunc
	spinner   spinner.Model
	textInput textinput.Model
	progress  progress.Model
	help      help.Model

	// pending counts actions started from this app that have not reported
	// back. Package tools hold exclusive locks, so only one runs at a time.
	pending int
}

// NewApp creates a new TUI application
func NewApp(ctx context.Context, service *catalog.Service, cfg *config.Config, historyStore *history.Store) *App {
	ctx, cancel := context.WithCancel(ctx)

	// Initialize spinner
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	// Initialize text input
	ti := textinput.New()
	ti.Placeholder = "Type to search..."
	ti.CharLimit = 100
	ti.Width = 40

	return &App{
		Model:     NewModel(service, cfg, historyStore),
		ctx:       ctx,
		cancel:    cancel,
		spinner:   sp,
		textInput: ti,
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
		help:      help.New(),
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	a.SetLoading(true, "Loading packages...")
	return tea.Batch(
		a.spinner.Tick,
		a.loadPackages(false),
		a.loadHistory(),
		tickOperations(),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetSize(msg.Width, msg.Height)
		a.help.Width = msg.Width
		a.ready = true

	case tea.KeyMsg:
		// Handle confirmation dialog first
		if a.showConfirm {
			switch msg.String() {
			case "y", "Y", "enter":
				return a, a.ConfirmYes()
			case "n", "N", "esc", "q":
				a.ConfirmNo()
			}
			return a, nil
		}

		// Handle input mode
		if a.inputMode {
			switch msg.String() {
			case "enter":
				a.textInput.Blur()
				return a, a.FinishInput()
			case "esc":
				a.textInput.Blur()
				a.CancelInput()
				return a, nil
			default:
				var cmd tea.Cmd
				a.textInput, cmd = a.textInput.Update(msg)
				a.inputValue = a.textInput.Value()
				return a, cmd
			}
		}

		cmds = append(cmds, a.handleKey(msg))

	case packagesLoadedMsg:
		a.SetLoading(false, "")
		a.packages = msg.list.Packages
		a.providerErrs = msg.list.Errors
		a.clampCursor()
		switch {
		case msg.noProviders:
			a.SetError("No package tool found; install winget or Chocolatey")
		case len(msg.list.Errors) > 0:
			a.SetError(providerErrorSummary(msg.list.Errors))
		}

	case searchResultsMsg:
		a.SetLoading(false, "")
		if msg.err != nil {
			a.SetError(msg.err.Error())
			break
		}
		a.searchQuery = msg.query
		a.searchResults = msg.results
		a.cursors[ViewSearch] = 0
		a.scrolls[ViewSearch] = 0
		switch {
		case len(msg.errs) > 0:
			a.SetError(providerErrorSummary(msg.errs))
		case len(msg.results) == 0:
			a.SetError("No packages found")
		}

	case detailsLoadedMsg:
		a.SetLoading(false, "")
		if a.selectedPkg == nil || a.selectedPkg.Key() != msg.key {
			break
		}
		if msg.err != nil {
			a.SetError(msg.err.Error())
			break
		}
		a.selectedInfo = msg.info
		a.versions = msg.versions

	case historyLoadedMsg:
		if msg.err == nil {
			a.historyEntries = msg.entries
		}

	case operationCompleteMsg:
		if a.pending > 0 {
			a.pending--
		}
		a.syncOperations()
		switch {
		case msg.err != nil:
			a.SetError(msg.err.Error())
		case msg.result.Success:
			a.SetSuccess(fmt.Sprintf("%s %s", pastTense(msg.kind), msg.pkg.DisplayName()))
			cmds = append(cmds, a.loadPackages(false))
		default:
			text := fmt.Sprintf("%s %s failed: %s", msg.kind, msg.pkg.DisplayName(), msg.result.Error)
			if hint := ui.CauseHint(msg.result.Cause); hint != "" {
				text += " (" + hint + ")"
			}
			a.SetError(text)
		}
		cmds = append(cmds, a.loadHistory())

	case bulkCompleteMsg:
		if a.pending > 0 {
			a.pending--
		}
		a.syncOperations()
		if msg.bulk.Failed > 0 {
			a.SetError(fmt.Sprintf("Updated %d/%d packages, %d failed", msg.bulk.Successful, msg.bulk.Total, msg.bulk.Failed))
		} else {
			a.SetSuccess(fmt.Sprintf("Updated %d packages", msg.bulk.Successful))
		}
		cmds = append(cmds, a.loadPackages(false), a.loadHistory())

	case operationsTickMsg:
		a.syncOperations()
		cmds = append(cmds, tickOperations())

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// handleKey dispatches a key press outside of dialogs and input mode.
func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		a.cancel()
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		if a.activeView == ViewHelp {
			a.GoBack()
		} else {
			a.prevView = a.activeView
			a.activeView = ViewHelp
		}

	case key.Matches(msg, a.keys.Tab1):
		a.SetTab(0)
	case key.Matches(msg, a.keys.Tab2):
		a.SetTab(1)
	case key.Matches(msg, a.keys.Tab3):
		a.SetTab(2)
		if a.searchQuery == "" {
			a.startSearch()
		}
	case key.Matches(msg, a.keys.Tab4):
		a.SetTab(3)
	case key.Matches(msg, a.keys.Tab5):
		a.SetTab(4)

	case key.Matches(msg, a.keys.Left):
		a.PrevTab()
	case key.Matches(msg, a.keys.Right):
		a.NextTab()

	case key.Matches(msg, a.keys.Back):
		a.GoBack()
	case key.Matches(msg, a.keys.Cancel):
		a.GoBack()
		a.ClearMessages()

	// Navigation
	case key.Matches(msg, a.keys.Up), key.Matches(msg, a.keys.VimUp):
		a.MoveCursor(-1)
	case key.Matches(msg, a.keys.Down), key.Matches(msg, a.keys.VimDown):
		a.MoveCursor(1)
	case key.Matches(msg, a.keys.PageUp):
		a.MoveCursor(-a.VisibleHeight())
	case key.Matches(msg, a.keys.PageDown):
		a.MoveCursor(a.VisibleHeight())
	case key.Matches(msg, a.keys.Home), key.Matches(msg, a.keys.VimTop):
		a.GoToTop()
	case key.Matches(msg, a.keys.End), key.Matches(msg, a.keys.VimBot):
		a.GoToBottom()

	// Actions
	case key.Matches(msg, a.keys.Info):
		if a.ShowDetails() {
			return a.loadDetails(*a.selectedPkg)
		}

	case key.Matches(msg, a.keys.Search):
		a.SetTab(2)
		a.startSearch()

	case key.Matches(msg, a.keys.Filter):
		a.startFilter()

	case key.Matches(msg, a.keys.Source):
		a.CycleSource()
	case key.Matches(msg, a.keys.Category):
		a.CycleCategory()

	case key.Matches(msg, a.keys.Refresh):
		a.SetLoading(true, "Refreshing...")
		return tea.Batch(a.loadPackages(true), a.loadHistory())

	case key.Matches(msg, a.keys.ClearOps):
		if a.activeView == ViewOperations && a.service != nil {
			a.service.Tracker().ClearFinished()
			a.syncOperations()
			a.clampCursor()
		}

	case key.Matches(msg, a.keys.Install):
		if a.busy() {
			break
		}
		if pkg := a.SelectedPackage(); pkg != nil && a.fromSearch() {
			p := *pkg
			a.ShowConfirm(fmt.Sprintf("Install %s from %s?", p.DisplayName(), p.Source), func() tea.Cmd {
				return a.runAction(tracker.KindInstall, p)
			})
		}

	case key.Matches(msg, a.keys.Uninstall):
		if a.busy() {
			break
		}
		if pkg := a.SelectedPackage(); pkg != nil && !a.fromSearch() {
			p := *pkg
			a.ShowConfirm(fmt.Sprintf("Uninstall %s?", p.DisplayName()), func() tea.Cmd {
				return a.runAction(tracker.KindUninstall, p)
			})
		}

	case key.Matches(msg, a.keys.Update):
		if a.busy() {
			break
		}
		if pkg := a.SelectedPackage(); pkg != nil && pkg.HasUpdate {
			p := *pkg
			a.ShowConfirm(fmt.Sprintf("Update %s to %s?", p.DisplayName(), p.AvailableVersion), func() tea.Cmd {
				return a.runAction(tracker.KindUpdate, p)
			})
		}

	case key.Matches(msg, a.keys.UpdateAll):
		if a.busy() {
			break
		}
		f := manager.Filter{OnlyUpdates: true}
		if pkgs := f.Apply(a.packages); len(pkgs) > 0 {
			a.ShowConfirm(fmt.Sprintf("Update %d packages?", len(pkgs)), func() tea.Cmd {
				return a.runUpdateAll(pkgs)
			})
		}
	}
	return nil
}

// fromSearch reports whether the selection came from search results
// rather than the installed listing.
func (a *App) fromSearch() bool {
	if a.activeView == ViewDetails {
		return a.prevView == ViewSearch
	}
	return a.activeView == ViewSearch
}

// syncOperations copies the tracker state into the model.
func (a *App) syncOperations() {
	if a.service == nil {
		return
	}
	a.operations = a.service.Tracker().List()
	a.bulk = a.service.Bulk()
}

// View implements tea.Model
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.quitting {
		return ""
	}

	// Overlay: Confirmation dialog
	if a.showConfirm {
		return a.renderDialog()
	}

	var b strings.Builder

	// Header
	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	// Tabs
	b.WriteString(a.renderTabs())
	b.WriteString("\n")

	// Content
	b.WriteString(a.renderContent())

	// Footer
	b.WriteString(a.renderFooter())

	return b.String()
}

// renderHeader renders the header bar
func (a *App) renderHeader() string {
	title := a.styles.Header.Render(" wingman - Windows package manager ")

	// Right side: loading indicator or status
	var right string
	if a.loading {
		right = a.spinner.View() + " " + a.loadingMsg
	} else if a.errorMsg != "" {
		right = a.styles.Error.Render(a.errorMsg)
	} else if a.successMsg != "" {
		right = a.styles.Success.Render(a.successMsg)
	}

	// Pad to full width
	padding := a.width - lipgloss.Width(title) - lipgloss.Width(right) - 2
	if padding < 0 {
		padding = 0
	}

	return title + strings.Repeat(" ", padding) + right
}

// renderTabs renders the tab bar
func (a *App) renderTabs() string {
	var tabs []string
	for i, tab := range a.tabs {
		style := a.styles.TabInactive
		if i == a.activeTab {
			style = a.styles.TabActive
		}
		name := tab.Name
		switch tab.View {
		case ViewUpdates:
			if n := a.UpdateCount(); n > 0 {
				name = fmt.Sprintf("%s (%d)", name, n)
			}
		case ViewOperations:
			if n := countRunning(a.operations); n > 0 {
				name = fmt.Sprintf("%s (%d)", name, n)
			}
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("[%d] %s", i+1, name)))
	}

	tabBar := strings.Join(tabs, " ")
	return lipgloss.NewStyle().
		Width(a.width).
		Background(ColorBgAlt).
		Padding(0, 1).
		Render(tabBar)
}

// renderContent renders the main content area
func (a *App) renderContent() string {
	height := a.height - 5 // Account for header, tabs, footer

	var content string
	switch a.activeView {
	case ViewPackages:
		content = a.renderPackageList("Installed Packages")
	case ViewUpdates:
		content = a.renderPackageList("Available Updates")
	case ViewSearch:
		content = a.renderSearchView()
	case ViewOperations:
		content = a.renderOperationsView()
	case ViewHistory:
		content = a.renderHistoryView()
	case ViewDetails:
		content = a.renderDetailsView()
	case ViewHelp:
		content = a.renderHelpView()
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Render(content)
}

// renderPackageList renders the filtered installed packages
func (a *App) renderPackageList(title string) string {
	var b strings.Builder

	items := a.ListItems()

	// Title with count and active filters
	titleStr := fmt.Sprintf("%s (%d)", title, len(items))
	if f := a.filterLabel(); f != "" {
		titleStr += " - " + f
	}
	b.WriteString(a.styles.Title.Render(titleStr))
	b.WriteString("\n\n")

	if len(items) == 0 {
		if a.activeView == ViewUpdates && len(a.packages) > 0 {
			b.WriteString(a.styles.Description.Render("Everything is up to date"))
		} else {
			b.WriteString(a.styles.Description.Render("No packages found"))
		}
		return b.String()
	}

	b.WriteString(a.renderPackageRows(items, a.VisibleHeight()))

	// Scroll indicator
	if visibleHeight := a.VisibleHeight(); len(items) > visibleHeight {
		scrollPct := float64(a.Scroll()) / float64(len(items)-visibleHeight) * 100
		b.WriteString(a.styles.Description.Render(fmt.Sprintf("\n  %.0f%% (%d/%d)", scrollPct, a.Cursor()+1, len(items))))
	}

	return b.String()
}

// filterLabel describes the active filters
func (a *App) filterLabel() string {
	var parts []string
	if a.filter.Query != "" {
		parts = append(parts, "filter: "+a.filter.Query)
	}
	if a.filter.Source != "" {
		parts = append(parts, "source: "+string(a.filter.Source))
	}
	if a.filter.Category != "" {
		parts = append(parts, "category: "+string(a.filter.Category))
	}
	return strings.Join(parts, ", ")
}

// renderPackageRows renders the visible window of a package list
func (a *App) renderPackageRows(packages []manager.Package, visibleHeight int) string {
	var b strings.Builder

	scroll := a.Scroll()
	cursor := a.Cursor()

	end := scroll + visibleHeight
	if end > len(packages) {
		end = len(packages)
	}

	for i := scroll; i < end; i++ {
		b.WriteString(a.renderPackageLine(packages[i], i == cursor))
		b.WriteString("\n")
	}

	return b.String()
}

// renderPackageLine renders a single package line
func (a *App) renderPackageLine(pkg manager.Package, selected bool) string {
	// Cursor indicator
	cursor := "  "
	if selected {
		cursor = a.styles.ListItemSelected.Render("> ")
	}

	// Package name
	name := a.styles.PackageName.Render(pkg.DisplayName())
	if !selected {
		name = lipgloss.NewStyle().Foreground(ColorText).Render(pkg.DisplayName())
	}

	// Version, with the available version when an update exists
	version := a.styles.PackageVersion.Render(pkg.CurrentVersion)
	if pkg.HasUpdate {
		version += " " + a.styles.PackageUpdate.Render(ui.SymbolUpdate+" "+pkg.AvailableVersion)
	}

	id := a.styles.Description.Render(pkg.ID)

	return fmt.Sprintf("%s%-30s %s %s %s", cursor, name, version, SourceBadge(pkg.Source), id)
}

// renderSearchView renders the search view
func (a *App) renderSearchView() string {
	var b strings.Builder

	// Search input
	if a.inputMode && a.inputPrompt == searchPrompt {
		b.WriteString(a.styles.InputPrompt.Render(searchPrompt))
		b.WriteString(a.textInput.View())
		b.WriteString("\n\n")
	} else if a.searchQuery != "" {
		b.WriteString(a.styles.Title.Render(fmt.Sprintf("Search results for '%s' (%d)", a.searchQuery, len(a.searchResults))))
		b.WriteString("\n\n")
	} else {
		b.WriteString(a.styles.Title.Render("Search Packages"))
		b.WriteString("\n")
		b.WriteString(a.styles.Description.Render("Press / to search winget, the Microsoft Store and Chocolatey"))
		b.WriteString("\n\n")
	}

	if len(a.searchResults) > 0 {
		b.WriteString(a.renderPackageRows(a.searchResults, a.VisibleHeight()-4))
	} else if a.searchQuery != "" && !a.loading {
		b.WriteString(a.styles.Description.Render("No results found"))
	}

	return b.String()
}

// renderOperationsView renders tracked operations with progress bars
func (a *App) renderOperationsView() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Operations"))
	b.WriteString("\n\n")

	if a.bulk.Total > 0 {
		state := "finished"
		if a.bulk.Active {
			state = fmt.Sprintf("%d/%d", a.bulk.Current, a.bulk.Total)
		}
		b.WriteString(a.styles.Subtitle.Render("Update all: "))
		b.WriteString(fmt.Sprintf("%s  %s %d  %s %d\n\n",
			state,
			a.styles.Success.Render(ui.SymbolSuccess), a.bulk.Successful,
			a.styles.Error.Render(ui.SymbolError), a.bulk.Failed))
	}

	if len(a.operations) == 0 {
		b.WriteString(a.styles.Description.Render("No operations yet"))
		return b.String()
	}

	scroll := a.Scroll()
	cursor := a.Cursor()
	end := scroll + a.VisibleHeight()
	if end > len(a.operations) {
		end = len(a.operations)
	}

	for i := scroll; i < end; i++ {
		op := a.operations[i]
		prefix := "  "
		if i == cursor {
			prefix = a.styles.ListItemSelected.Render("> ")
		}

		line := fmt.Sprintf("%s%-10s %-28s %s %3d%% %s",
			prefix,
			op.Kind,
			op.PackageName,
			a.progress.ViewAs(float64(op.Progress)/100),
			op.Progress,
			a.styles.StatusStyle(op.Status).Render(string(op.Status)))
		if op.Error != "" {
			line += " " + a.styles.Description.Render(op.Error)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// renderHistoryView renders the history view
func (a *App) renderHistoryView() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Operation History"))
	b.WriteString("\n\n")

	if a.historyStore == nil {
		b.WriteString(a.styles.Description.Render("History is not available"))
		return b.String()
	}
	if len(a.historyEntries) == 0 {
		b.WriteString(a.styles.Description.Render("No history entries"))
		return b.String()
	}

	scroll := a.Scroll()
	cursor := a.Cursor()
	end := scroll + a.VisibleHeight()
	if end > len(a.historyEntries) {
		end = len(a.historyEntries)
	}

	for i := scroll; i < end; i++ {
		entry := a.historyEntries[i]

		prefix := "  "
		if i == cursor {
			prefix = a.styles.ListItemSelected.Render("> ")
		}

		// Format: [time] operation packages (status)
		status := a.styles.Success.Render("OK")
		if !entry.Success {
			status = a.styles.Error.Render("FAILED")
		}

		pkgs := strings.Join(entry.Packages, ", ")
		if entry.Operation == history.OpUpgradeAll {
			pkgs = fmt.Sprintf("%d/%d packages", entry.Successful, entry.Successful+entry.Failed)
		}
		if len(pkgs) > 40 {
			pkgs = pkgs[:37] + "..."
		}

		b.WriteString(fmt.Sprintf("%s%s  %-11s  %-40s  %s\n", prefix, entry.FormatTime(), entry.Operation, pkgs, status))
	}

	return b.String()
}

// renderDetailsView renders package details
func (a *App) renderDetailsView() string {
	var b strings.Builder

	if a.selectedPkg == nil {
		b.WriteString(a.styles.Error.Render("No package selected"))
		return b.String()
	}

	pkg := *a.selectedPkg
	var info manager.PackageInfo
	if a.selectedInfo != nil {
		info = *a.selectedInfo
	}

	// Header
	b.WriteString(a.styles.Title.Render(pkg.DisplayName()))
	b.WriteString(" ")
	b.WriteString(SourceBadge(pkg.Source))
	b.WriteString("\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(a.styles.Subtitle.Render(fmt.Sprintf("%-12s", label+":")))
		b.WriteString(" ")
		b.WriteString(value)
		b.WriteString("\n")
	}

	field("ID", pkg.ID)
	field("Version", a.styles.PackageVersion.Render(firstNonEmpty(pkg.CurrentVersion, info.CurrentVersion)))
	if pkg.HasUpdate {
		field("Available", a.styles.PackageUpdate.Render(pkg.AvailableVersion))
	}
	field("Publisher", firstNonEmpty(info.Publisher, pkg.Publisher))
	field("Category", string(pkg.Category))
	field("Homepage", info.Homepage)
	field("License", info.License)
	if len(info.Tags) > 0 {
		field("Tags", strings.Join(info.Tags, ", "))
	}
	if len(a.versions) > 0 {
		shown := a.versions
		if len(shown) > 8 {
			shown = shown[:8]
		}
		field("Versions", strings.Join(shown, ", "))
	}

	if desc := firstNonEmpty(info.Description, pkg.Description); desc != "" {
		b.WriteString("\n")
		b.WriteString(a.styles.Subtitle.Render("Description"))
		b.WriteString("\n")
		b.WriteString(a.styles.PackageDesc.Render(desc))
		b.WriteString("\n")
	}

	// Actions
	b.WriteString("\n")
	b.WriteString(a.styles.Subtitle.Render("Actions"))
	b.WriteString("\n")
	if a.fromSearch() {
		b.WriteString("  [i] Install package\n")
	} else {
		if pkg.HasUpdate {
			b.WriteString("  [u] Update package\n")
		}
		b.WriteString("  [r] Uninstall package\n")
	}
	b.WriteString("  [b] Back\n")

	return b.String()
}

// renderHelpView renders the help view
func (a *App) renderHelpView() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(a.help.FullHelpView(a.keys.FullHelp()))

	return b.String()
}

// renderFooter renders the footer bar
func (a *App) renderFooter() string {
	var hints []string

	switch a.activeView {
	case ViewPackages:
		hints = []string{"u:update", "r:uninstall", "f:filter", "s:source", "c:category", "Enter:details"}
	case ViewUpdates:
		hints = []string{"u:update", "U:update all", "r:uninstall", "Enter:details"}
	case ViewSearch:
		hints = []string{"/:search", "i:install", "Enter:details"}
	case ViewOperations:
		hints = []string{"x:clear finished"}
	case ViewDetails:
		if a.fromSearch() {
			hints = []string{"i:install", "b:back"}
		} else {
			hints = []string{"u:update", "r:uninstall", "b:back"}
		}
	}

	hints = append(hints, "ctrl+r:refresh", "?:help", "q:quit")

	footer := strings.Join(hints, "  ")
	return lipgloss.NewStyle().
		Width(a.width).
		Background(ColorBgAlt).
		Foreground(ColorMuted).
		Padding(0, 1).
		Render(footer)
}

// renderDialog renders the confirmation dialog centered on screen
func (a *App) renderDialog() string {
	dialog := a.styles.Dialog.Render(
		a.styles.DialogTitle.Render(a.confirmTitle) + "\n\n" +
			Badge("[Y]es", ColorPrimary) + " " +
			lipgloss.NewStyle().Foreground(ColorMuted).Render("[N]o"),
	)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, dialog,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorBg))
}

const (
	searchPrompt = "Search: "
	filterPrompt = "Filter: "
)

// startSearch initiates search input
func (a *App) startSearch() {
	a.textInput.SetValue("")
	a.textInput.Focus()
	a.StartInput(searchPrompt, func(query string) tea.Cmd {
		query = strings.TrimSpace(query)
		if query == "" {
			return nil
		}
		a.SetLoading(true, "Searching...")
		return a.search(query)
	})
}

// startFilter initiates filter input
func (a *App) startFilter() {
	a.textInput.SetValue(a.filter.Query)
	a.textInput.Focus()
	a.StartInput(filterPrompt, func(filter string) tea.Cmd {
		a.filter.Query = filter
		a.GoToTop()
		return nil
	})
}

// Async commands

func tickOperations() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return operationsTickMsg(t)
	})
}

func (a *App) loadPackages(refresh bool) tea.Cmd {
	return func() tea.Msg {
		if a.service == nil {
			return packagesLoadedMsg{}
		}
		if len(a.service.Registry().InstalledProviders(a.ctx)) == 0 {
			return packagesLoadedMsg{noProviders: true}
		}
		return packagesLoadedMsg{list: a.service.Packages(a.ctx, refresh)}
	}
}

func (a *App) loadHistory() tea.Cmd {
	return func() tea.Msg {
		if a.historyStore == nil {
			return historyLoadedMsg{}
		}

		entries, err := a.historyStore.List(50)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

func (a *App) search(query string) tea.Cmd {
	return func() tea.Msg {
		list, err := a.service.Search(a.ctx, query, false)
		return searchResultsMsg{query: query, results: list.Packages, errs: list.Errors, err: err}
	}
}

func (a *App) loadDetails(pkg manager.Package) tea.Cmd {
	a.SetLoading(true, "Loading details...")
	return func() tea.Msg {
		msg := detailsLoadedMsg{key: pkg.Key()}
		msg.info, msg.err = a.service.Show(a.ctx, pkg.ID, pkg.Source, false)
		if msg.err != nil {
			return msg
		}
		versions, err := a.service.Versions(a.ctx, pkg.ID, pkg.Source, false)
		if err != nil && !errors.Is(err, manager.ErrNotSupported) {
			msg.err = err
		}
		msg.versions = versions
		return msg
	}
}

// busy reports, and shows, whether an operation is still running.
func (a *App) busy() bool {
	if a.pending > 0 || a.bulk.Active {
		a.SetError("Another operation is still running; wait for it to finish")
		return true
	}
	return false
}

func (a *App) runAction(kind tracker.Kind, pkg manager.Package) tea.Cmd {
	if a.busy() {
		return nil
	}
	a.pending++
	opts := manager.ActionOpts{Interactive: a.config.General.Interactive}
	return func() tea.Msg {
		var (
			res manager.Result
			err error
			op  history.Operation
		)
		switch kind {
		case tracker.KindInstall:
			op = history.OpInstall
			res, err = a.service.Install(a.ctx, pkg, opts)
		case tracker.KindUpdate:
			op = history.OpUpdate
			res, err = a.service.Update(a.ctx, pkg, opts)
		default:
			op = history.OpUninstall
			res, err = a.service.Uninstall(a.ctx, pkg)
		}
		if err == nil {
			a.record(history.FromResult(op, pkg.Source, res))
		}
		return operationCompleteMsg{kind: kind, pkg: pkg, result: res, err: err}
	}
}

func (a *App) runUpdateAll(pkgs []manager.Package) tea.Cmd {
	if a.busy() {
		return nil
	}
	a.pending++
	opts := manager.ActionOpts{Interactive: a.config.General.Interactive}
	a.SetTab(3)
	return func() tea.Msg {
		bulk := a.service.UpdateAll(a.ctx, pkgs, opts, nil)
		a.record(history.FromBulk(bulk))
		return bulkCompleteMsg{bulk: bulk}
	}
}

// record stores a history entry; history is best effort in the TUI.
func (a *App) record(entry *history.Entry) {
	if a.historyStore != nil {
		_ = a.historyStore.Record(entry)
	}
}

func providerErrorSummary(errs map[manager.Source]error) string {
	sources := make([]string, 0, len(errs))
	for src := range errs {
		sources = append(sources, string(src))
	}
	sort.Strings(sources)

	parts := make([]string, 0, len(sources))
	for _, src := range sources {
		parts = append(parts, fmt.Sprintf("%s: %v", src, errs[manager.Source(src)]))
	}
	return strings.Join(parts, "; ")
}

func countRunning(ops []tracker.Operation) int {
	n := 0
	for _, op := range ops {
		if !op.Done() {
			n++
		}
	}
	return n
}

func pastTense(kind tracker.Kind) string {
	switch kind {
	case tracker.KindInstall:
		return "Installed"
	case tracker.KindUpdate:
		return "Updated"
	}
	return "Uninstalled"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Run starts the TUI application
func Run(ctx context.Context, service *catalog.Service, cfg *config.Config, historyStore *history.Store) error {
	app := NewApp(ctx, service, cfg, historyStore)
	defer app.cancel()
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
