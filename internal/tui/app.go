// Package tui implements the interactive sync dashboard.
//
// The dashboard follows the standard bubbletea model/update/view pattern:
// App is the root model, tab content renders into a shared viewport, and
// reusable sub-models (tabs, status bar, confirm dialog) consume messages
// before the global key handler sees them. Scans and fixes run in tea.Cmd
// goroutines so the UI never blocks on disk I/O.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/agentsync-dev/agentsync/internal/core"
	"github.com/agentsync-dev/agentsync/internal/core/state"
	"github.com/agentsync-dev/agentsync/internal/core/tool"
)

// Config carries the resolved runtime dependencies the dashboard needs.
type Config struct {
	Paths   tool.Paths
	Enabled []state.ToolName
	Opts    core.CompareOptions
}

// App is the root model for the dashboard.
type App struct {
	cfg Config

	// Layout.
	width  int
	height int
	ready  bool

	// Sub-models.
	tabs      tabsModel
	viewport  viewport.Model
	statusBar statusBarModel
	confirm   confirmModel
	help      help.Model

	// Data.
	report  *state.SyncReport
	loading bool
	fixLog  []string

	// Commands tab selection.
	cmdCursor int

	// Command body preview overlay.
	previewActive   bool
	previewTitle    string
	previewLoading  bool
	previewViewport viewport.Model
	previewSpinner  spinner.Model

	// Cached glamour renderer — creating one is expensive, reuse across previews.
	glamourRenderer *glamour.TermRenderer
}

// NewApp creates the dashboard model.
func NewApp(cfg Config) App {
	h := help.New()
	h.ShortSeparator = "  |  "
	h.Styles.ShortKey = helpStyle.Bold(true)
	h.Styles.ShortDesc = helpStyle

	return App{
		cfg:            cfg,
		tabs:           newTabsModel(),
		statusBar:      newStatusBarModel(),
		confirm:        newConfirmModel(),
		help:           h,
		loading:        true,
		previewSpinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
	}
}

// --- Messages ---

// reportLoadedMsg is sent when a background scan + compare completes.
type reportLoadedMsg struct {
	report *state.SyncReport
}

// fixDoneMsg is sent when a background fix pass completes.
type fixDoneMsg struct {
	actions []string
	dryRun  bool
}

// openPreviewMsg requests the command body preview overlay.
type openPreviewMsg struct {
	title   string
	content string
}

// previewRenderedMsg is sent when background glamour rendering completes.
type previewRenderedMsg struct {
	content  string
	renderer *glamour.TermRenderer
}

// --- Commands ---

// loadDataCmd runs the full scan + compare pipeline off the UI goroutine.
func (a App) loadDataCmd() tea.Msg {
	canonical := core.ScanCanonical(a.cfg.Paths)
	toolConfigs := core.ScanTools(a.cfg.Paths, a.cfg.Enabled)
	infra := core.CheckInfra(a.cfg.Paths)
	report := core.BuildSyncReport(canonical, toolConfigs, infra, a.cfg.Opts)
	return reportLoadedMsg{report: report}
}

// fixCmd applies (or previews) every available fix against the current report.
func (a App) fixCmd(dryRun bool) tea.Cmd {
	report := a.report
	paths := a.cfg.Paths
	return func() tea.Msg {
		applier := core.NewFixApplier(paths)
		actions := applier.Apply(report, dryRun)
		return fixDoneMsg{actions: actions, dryRun: dryRun}
	}
}

// --- Init / Update / View ---

func (a App) Init() tea.Cmd {
	var busyCmd tea.Cmd
	a.statusBar, busyCmd = a.statusBar.setBusy(true, "scanning")
	return tea.Batch(a.loadDataCmd, busyCmd)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.help.Width = msg.Width
		a.propagateSize()
		a.refreshContent()
		return a, nil

	case reportLoadedMsg:
		a.report = msg.report
		a.loading = false
		a.statusBar, _ = a.statusBar.setBusy(false, "")
		a.clampCmdCursor()
		a.tabs = a.tabs.setLabels(a.tabLabels())
		a.refreshContent()
		return a, nil

	case fixDoneMsg:
		a.statusBar, _ = a.statusBar.setBusy(false, "")
		a.appendFixLog(msg)
		a.tabs.activeTab = tabFixLog
		a.refreshContent()

		var cmds []tea.Cmd
		var barCmd tea.Cmd
		switch {
		case len(msg.actions) == 0:
			a.statusBar, barCmd = a.statusBar.showMsg("Everything is in sync!", statusSuccess)
		case msg.dryRun:
			a.statusBar, barCmd = a.statusBar.showMsg(
				fmt.Sprintf("Dry-run: %d action(s) pending", len(msg.actions)), statusWarning)
		default:
			a.statusBar, barCmd = a.statusBar.showMsg(
				fmt.Sprintf("Applied %d fix(es)", len(msg.actions)), statusSuccess)
		}
		cmds = append(cmds, barCmd)

		// Applying fixes changes the stores — rescan to show converged state.
		if !msg.dryRun {
			a.loading = true
			var busyCmd tea.Cmd
			a.statusBar, busyCmd = a.statusBar.setBusy(true, "scanning")
			cmds = append(cmds, a.loadDataCmd, busyCmd)
		}
		return a, tea.Batch(cmds...)

	case openPreviewMsg:
		return a.openPreview(msg)

	case previewRenderedMsg:
		a.previewLoading = false
		a.previewViewport.SetContent(msg.content)
		if msg.renderer != nil {
			a.glamourRenderer = msg.renderer
		}
		return a, nil

	case spinner.TickMsg:
		if a.previewLoading {
			var cmd tea.Cmd
			a.previewSpinner, cmd = a.previewSpinner.Update(msg)
			return a, cmd
		}
		var cmd tea.Cmd
		a.statusBar, cmd = a.statusBar.update(msg)
		return a, cmd

	case statusDismissMsg:
		var cmd tea.Cmd
		a.statusBar, cmd = a.statusBar.update(msg)
		return a, cmd

	case confirmResultMsg:
		if msg.confirmed {
			var busyCmd tea.Cmd
			a.statusBar, busyCmd = a.statusBar.setBusy(true, "fixing")
			return a, busyCmd
		}
		return a, nil

	case tabActiveMsg:
		a.refreshContent()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

// handleKey routes key input: confirm dialog first, then the preview
// overlay, then the tab bar, then global bindings.
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Confirm dialog intercepts everything while active.
	if a.confirm.active {
		var cmd tea.Cmd
		var consumed bool
		a.confirm, cmd, consumed = a.confirm.update(msg)
		if consumed {
			return a, cmd
		}
	}

	// Preview overlay: esc/q close, everything else scrolls.
	if a.previewActive {
		switch {
		case key.Matches(msg, keys.Back), key.Matches(msg, keys.Quit):
			a.previewActive = false
			return a, nil
		}
		var cmd tea.Cmd
		a.previewViewport, cmd = a.previewViewport.Update(msg)
		return a, cmd
	}

	// Tab bar handles tab / shift+tab / h / l.
	var tabCmd tea.Cmd
	var consumed bool
	a.tabs, tabCmd, consumed = a.tabs.update(msg)
	if consumed {
		a.refreshContent()
		return a, tabCmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.propagateSize()
		a.refreshContent()
		return a, nil

	case key.Matches(msg, keys.Refresh):
		if a.loading {
			return a, nil
		}
		a.loading = true
		var busyCmd tea.Cmd
		a.statusBar, busyCmd = a.statusBar.setBusy(true, "scanning")
		return a, tea.Batch(a.loadDataCmd, busyCmd)

	case key.Matches(msg, keys.Fix):
		if a.report == nil || a.loading {
			return a, nil
		}
		n := a.report.FixableCount()
		if n == 0 {
			var cmd tea.Cmd
			a.statusBar, cmd = a.statusBar.showMsg("Nothing to fix", statusSuccess)
			return a, cmd
		}
		a.confirm = a.confirm.show(
			fmt.Sprintf("Apply %d fix(es) to your tool configs?", n),
			a.fixCmd(false),
		)
		return a, nil

	case key.Matches(msg, keys.DryRun):
		if a.report == nil || a.loading {
			return a, nil
		}
		return a, a.fixCmd(true)

	case key.Matches(msg, keys.Enter):
		if a.tabs.activeTab == tabCommands {
			return a, a.previewSelectedCommand()
		}
		return a, nil

	case key.Matches(msg, keys.Up):
		if a.tabs.activeTab == tabCommands && len(previewableCommands(a.report)) > 0 {
			if a.cmdCursor > 0 {
				a.cmdCursor--
			}
			a.refreshContent()
			return a, nil
		}

	case key.Matches(msg, keys.Down):
		if a.tabs.activeTab == tabCommands {
			if cmds := previewableCommands(a.report); a.cmdCursor < len(cmds)-1 {
				a.cmdCursor++
			}
			a.refreshContent()
			return a, nil
		}
	}

	// Fall through to viewport scrolling.
	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

// openPreview activates the preview overlay and kicks off background
// markdown rendering so the UI never blocks on glamour.
func (a App) openPreview(msg openPreviewMsg) (tea.Model, tea.Cmd) {
	a.previewActive = true
	a.previewTitle = msg.title
	a.previewLoading = true
	w, h := a.innerContentSize()
	// -4 for the preview's own header, separator, footer, and separator lines.
	vp := viewport.New(w, max(0, h-4))
	a.previewViewport = vp

	rawContent := msg.content
	cachedRenderer := a.glamourRenderer
	renderCmd := func() tea.Msg {
		r := cachedRenderer
		if r == nil {
			var err error
			r, err = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(w),
			)
			if err != nil {
				return previewRenderedMsg{content: rawContent}
			}
		}
		rendered, err := r.Render(rawContent)
		if err != nil {
			rendered = rawContent
		}
		return previewRenderedMsg{
			content:  strings.TrimRight(rendered, "\n"),
			renderer: r,
		}
	}
	return a, tea.Batch(a.previewSpinner.Tick, renderCmd)
}

// previewSelectedCommand opens the preview for the command under the cursor.
func (a App) previewSelectedCommand() tea.Cmd {
	cmds := previewableCommands(a.report)
	if a.cmdCursor < 0 || a.cmdCursor >= len(cmds) {
		return nil
	}
	c := cmds[a.cmdCursor]
	return func() tea.Msg {
		return openPreviewMsg{title: c.DisplayName(), content: c.Body}
	}
}

// appendFixLog records a completed fix pass in the Fix Log tab.
func (a *App) appendFixLog(msg fixDoneMsg) {
	prefix := "Done: "
	if msg.dryRun {
		prefix = "Would: "
	}
	if len(msg.actions) == 0 {
		a.fixLog = append(a.fixLog, mutedStyle.Render("(nothing to fix)"))
		return
	}
	for _, action := range msg.actions {
		a.fixLog = append(a.fixLog, prefix+action)
	}
}

// clampCmdCursor keeps the Commands tab cursor in range after a rescan.
func (a *App) clampCmdCursor() {
	n := len(previewableCommands(a.report))
	if a.cmdCursor >= n {
		a.cmdCursor = max(0, n-1)
	}
}

// tabLabels returns tab labels with live counts from the current report.
func (a App) tabLabels() []string {
	if a.report == nil {
		return []string{"Overview", "MCP", "Skills", "Commands", "Infra", "Fix Log"}
	}
	r := a.report
	return []string{
		"Overview",
		fmt.Sprintf("MCP (%d)", len(itemsOfType(r, state.ContentMCP))),
		fmt.Sprintf("Skills (%d)", len(itemsOfType(r, state.ContentSkill))),
		fmt.Sprintf("Commands (%d)", len(itemsOfType(r, state.ContentCommand))),
		fmt.Sprintf("Infra (%d)", len(itemsOfType(r, state.ContentSymlink, state.ContentConfig))),
		"Fix Log",
	}
}

// refreshContent re-renders the active tab into the shared viewport.
func (a *App) refreshContent() {
	if !a.ready {
		return
	}
	if a.report == nil {
		a.viewport.SetContent(mutedStyle.Render("  Scanning configurations…"))
		return
	}
	var content string
	switch a.tabs.activeTab {
	case tabOverview:
		content = renderOverview(a.report)
	case tabMCP:
		content = renderMCPTab(a.report)
	case tabSkills:
		content = renderSkillsTab(a.report)
	case tabCommands:
		content = renderCommandsTab(a.report, a.cmdCursor)
	case tabInfra:
		content = renderInfraTab(a.report)
	case tabFixLog:
		content = renderFixLog(a.fixLog)
	}
	a.viewport.SetContent(content)
}

// --- Layout ---

// chromeHeight is the vertical space used outside the content area:
// header (1), tab bar (2), content border + padding (4), status bar (1).
const chromeHeight = 8

// innerContentSize returns the usable width and height inside the bordered
// content area.
func (a App) innerContentSize() (int, int) {
	w := max(10, a.width-8)
	h := max(3, a.height-chromeHeight-lipgloss.Height(a.helpView()))
	return w, h
}

// propagateSize pushes the window dimensions into every sub-model.
func (a *App) propagateSize() {
	w, h := a.innerContentSize()
	a.viewport.Width = w
	a.viewport.Height = h
	a.statusBar.width = a.width
	a.confirm = a.confirm.setSize(a.width, a.height)
	if a.previewActive {
		a.previewViewport.Width = w
		a.previewViewport.Height = max(0, h-4)
	}
}

func (a App) helpView() string {
	return a.help.View(keys)
}

func (a App) View() string {
	if !a.ready {
		return "Loading…"
	}

	header := a.headerView()
	tabs := a.tabs.view()

	var body string
	if a.previewActive {
		body = a.previewView()
	} else {
		body = a.viewport.View()
	}
	content := contentStyle.Width(a.width - 4).Render(body)

	statusBar := a.statusBar.view(helpStyle.Render(a.helpView()))

	screen := lipgloss.JoinVertical(lipgloss.Left,
		header,
		tabs,
		content,
		statusBar,
	)

	if a.confirm.active {
		return a.confirm.view()
	}
	return screen
}

// headerView renders the top bar: logo, agents dir, overall status.
func (a App) headerView() string {
	logo := logoStyle.Render("AgentSync")
	path := headerPathStyle.Render(a.cfg.Paths.AgentsDir)

	status := ""
	switch {
	case a.loading:
		status = headerStatusStyle.Render("scanning…")
	case a.report != nil && a.report.OverallStatus() == state.StatusSynced:
		status = syncedStyle.Render("in sync")
	case a.report != nil:
		status = driftStyle.Render(fmt.Sprintf("%d issue(s)", a.report.DriftCount()+a.report.MissingCount()+a.report.ExtraCount()))
	}

	left := logo + path
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + status
}

// previewView renders the command body overlay inside the content area.
func (a App) previewView() string {
	title := viewportTitleStyle.Render(a.previewTitle)
	sep := sectionRuleStyle.Render(strings.Repeat("─", a.viewport.Width))

	if a.previewLoading {
		return title + "\n" + sep + "\n" + a.previewSpinner.View() + " rendering…"
	}

	pct := previewPctStyle.Render(fmt.Sprintf(" %3.0f%% ", a.previewViewport.ScrollPercent()*100))
	footer := mutedStyle.Render("esc: back") + "  " + pct

	return title + "\n" + sep + "\n" + a.previewViewport.View() + "\n" + sep + "\n" + footer
}
