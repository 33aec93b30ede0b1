package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/bulk"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/editor"
	"github.com/five82/shelf/internal/logtail"
	"github.com/five82/shelf/internal/media"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/selection"
)

// View represents the current active view.
type View int

const (
	ViewCatalog View = iota
	ViewAdd
	ViewImages
	ViewActivity
)

func (v View) String() string {
	switch v {
	case ViewAdd:
		return "Add"
	case ViewImages:
		return "Images"
	case ViewActivity:
		return "Activity"
	default:
		return "Catalog"
	}
}

// Products is the catalog state the UI drives. *catalog.State satisfies it.
type Products interface {
	editor.Products
	editor.Creator
	Load(ctx context.Context) (catalog.Catalog, error)
	Subscribe() (<-chan catalog.Catalog, func())
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Products   Products
	Engine     *bulk.Engine
	Media      media.Source
	Permission media.Permission
	Logger     *zap.Logger
	LogPath    string
	ThemeName  string
	PrefsPath  string
	Prefs      prefs.Prefs
	// LoadErr is the result of the startup load, shown on the first frame.
	LoadErr error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	products   Products
	engine     *bulk.Engine
	media      media.Source
	permission media.Permission
	log        *zap.Logger
	logPath    string
	prefsPath  string
	prefs      prefs.Prefs
	keys       keyMap

	updates     <-chan catalog.Catalog
	unsubscribe func()

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	busy        bool
	confirm     *confirmation
	notice      notice

	// Catalog state
	catalog     catalog.Catalog
	selectedRow int
	selection   *selection.Set

	// Add form state
	add addForm

	// Image review state
	session   *editor.Session
	imageRow  int
	picking   bool
	pickInput textinput.Model

	// Activity state
	activityViewport viewport.Model
	activity         []logtail.Entry
}

// confirmation is a pending destructive action waiting for y/n.
type confirmation struct {
	prompt string
	run    tea.Cmd
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = opts.Prefs.Theme
	}

	m := Model{
		ctx:         ctx,
		products:    opts.Products,
		engine:      opts.Engine,
		media:       opts.Media,
		permission:  opts.Permission,
		log:         log.Named("ui"),
		logPath:     opts.LogPath,
		prefsPath:   opts.PrefsPath,
		prefs:       opts.Prefs,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewCatalog,
		selection:   selection.New(),
		add:         newAddForm(),
		pickInput:   newPickInput(),
	}
	if m.products != nil {
		m.catalog = m.products.Catalog()
		m.updates, m.unsubscribe = m.products.Subscribe()
	}
	m.noticeLoad(opts.LoadErr)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen}
	if m.updates != nil {
		cmds = append(cmds, waitForCatalog(m.updates))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initActivityViewport()
		}
		m.ready = true
		m.resizeActivityViewport()
		return m, nil

	case catalogMsg:
		m.applyCatalog(catalog.Catalog(msg))
		return m, waitForCatalog(m.updates)

	case loadedMsg:
		m.noticeLoad(msg.err)
		m.applyCatalog(m.products.Catalog())
		return m, nil

	case deletedMsg:
		m.busy = false
		m.handleDeleted(msg)
		return m, nil

	case sharedMsg:
		m.busy = false
		m.noticeShare(msg.result)
		return m, nil

	case savedMsg:
		m.busy = false
		return m.handleSaved(msg)

	case pickedMsg:
		m.busy = false
		return m.handlePicked(msg)

	case imagesMsg:
		m.busy = false
		return m.handleImagesChanged(msg)

	case activityMsg:
		m.handleActivity(msg)
		return m, nil

	case prefsSavedMsg:
		if msg.err != nil {
			m.log.Warn("save preferences failed", zap.Error(msg.err))
			m.setNotice(noticeWarning, "Preferences not saved: "+msg.err.Error())
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input. Views that own a text input get the key
// first so typed letters are not taken as commands.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}

	switch {
	case m.currentView == ViewAdd:
		return m.handleAddKey(msg)
	case m.currentView == ViewImages && m.picking:
		return m.handlePickInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		return m, m.savePrefs()

	case key.Matches(msg, m.keys.Activity):
		if m.currentView == ViewActivity {
			return m, nil
		}
		m.leaveImages()
		m.currentView = ViewActivity
		return m, m.refreshActivity()
	}

	switch m.currentView {
	case ViewImages:
		return m.handleImagesKey(msg)
	case ViewActivity:
		return m.handleActivityKey(msg)
	default:
		return m.handleCatalogKey(msg)
	}
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pending := m.confirm
	m.confirm = nil
	if key.Matches(msg, m.keys.Confirm) {
		m.busy = true
		return m, pending.run
	}
	m.setNotice(noticeInfo, "Cancelled")
	return m, nil
}

// askConfirm shows prompt and runs cmd on y/enter.
func (m *Model) askConfirm(prompt string, cmd tea.Cmd) {
	m.confirm = &confirmation{prompt: prompt, run: cmd}
}

// startBusy marks a store or capability call in flight. Only one runs at a
// time; further action keys are ignored until its result arrives.
func (m Model) startBusy(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.busy = true
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m, tea.Quit
}

// showCatalog switches to the catalog view and reloads it from the store.
func (m Model) showCatalog() (tea.Model, tea.Cmd) {
	m.leaveImages()
	m.currentView = ViewCatalog
	return m, m.reload()
}

// applyCatalog installs a newly committed catalog and brings every view's
// cursors and selections in line with it.
func (m *Model) applyCatalog(c catalog.Catalog) {
	m.catalog = c
	m.selection.Prune(c.Has)
	m.selectedRow = clampRow(m.selectedRow, len(c))

	if m.session != nil {
		m.session.Sync(c)
		m.imageRow = clampRow(m.imageRow, len(m.session.Images()))
		if m.session.Mode() == editor.Done && m.currentView == ViewImages {
			m.leaveImages()
			m.currentView = ViewCatalog
		}
	}
}

// noticeLoad surfaces a load result. Corrupt data is called out so the user
// knows where the original bytes went.
func (m *Model) noticeLoad(err error) {
	if err == nil {
		return
	}
	var corrupt *catalog.CorruptError
	switch {
	case errors.As(err, &corrupt):
		text := "Stored catalog was unreadable and has been set aside"
		if corrupt.QuarantineKey != "" {
			text += " as " + corrupt.QuarantineKey
		}
		m.setNotice(noticeError, text)
	case errors.Is(err, catalog.ErrReadOnly):
		m.setNotice(noticeError, "Catalog is read-only: "+err.Error())
	default:
		m.setNotice(noticeError, "Load failed: "+err.Error())
	}
	m.log.Warn("catalog load failed", zap.Error(err))
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	// Main content
	b.WriteString(m.renderContent())
	b.WriteString("\n")

	// Footer: notice or confirmation prompt
	b.WriteString(m.renderNotice())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewAdd:
		return m.renderAdd()
	case ViewImages:
		return m.renderImages()
	case ViewActivity:
		return m.renderActivity()
	default:
		return m.renderCatalog()
	}
}

// contentHeight is the height left for the titled box under the two header
// lines and above the notice line.
func (m Model) contentHeight() int {
	return max(m.height-3, 3)
}

func clampRow(row, n int) int {
	if n == 0 || row < 0 {
		return 0
	}
	if row >= n {
		return n - 1
	}
	return row
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
