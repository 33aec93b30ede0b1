package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/blobstore"
	"github.com/five82/shelf/internal/bulk"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/editor"
	"github.com/five82/shelf/internal/media"
	"github.com/five82/shelf/internal/prefs"
)

type fakeSharer struct {
	calls [][]string
	err   error
}

func (f *fakeSharer) Share(_ context.Context, refs []string) error {
	f.calls = append(f.calls, append([]string(nil), refs...))
	return f.err
}

type fakeSource struct {
	library map[string][]string
	camera  []string
}

func (f *fakeSource) Pick(_ context.Context, req media.Request) ([]string, error) {
	if req.Kind == media.KindCamera {
		if len(f.camera) == 0 {
			return nil, media.ErrCancelled
		}
		return f.camera, nil
	}
	refs, ok := f.library[req.Query]
	if !ok {
		return nil, media.ErrCancelled
	}
	return refs, nil
}

type fakePermission struct{ granted bool }

func (f fakePermission) Camera(context.Context) (bool, error) { return f.granted, nil }

type harness struct {
	state  *catalog.State
	sharer *fakeSharer
	source *fakeSource
	opts   Options
}

func newHarness(t *testing.T, products ...catalog.Product) *harness {
	t.Helper()
	n := 0
	state, err := catalog.New(blobstore.NewMemory(), catalog.WithIDFunc(func() string {
		n++
		return "new-" + string(rune('0'+n))
	}))
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	for _, p := range products {
		if _, err := state.Append(context.Background(), p); err != nil {
			t.Fatalf("Append(%s): %v", p.ID, err)
		}
	}
	h := &harness{
		state:  state,
		sharer: &fakeSharer{},
		source: &fakeSource{library: map[string][]string{}},
	}
	h.opts = Options{
		Products:   state,
		Engine:     bulk.New(state, h.sharer, nil),
		Media:      h.source,
		Permission: fakePermission{granted: true},
		Prefs:      prefs.Defaults(),
	}
	return h
}

func (h *harness) model(t *testing.T) Model {
	t.Helper()
	m := New(h.opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press sends each key and runs whatever commands the model returns.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(keyMsg(k))
		m = run(t, next.(Model), cmd)
	}
	return m
}

// run executes cmd and feeds the model's own result messages back into it.
// Commands that do not finish promptly (cursor blink) are dropped.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case loadedMsg, deletedMsg, sharedMsg, savedMsg, pickedMsg, imagesMsg, activityMsg, prefsSavedMsg:
			next, follow := m.Update(msg)
			m = run(t, next.(Model), follow)
		}
	}
	return m
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		return []tea.Msg{msg}
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func threeProducts() []catalog.Product {
	return []catalog.Product{
		{ID: "1", Name: "Chair", Price: "20", Images: []string{"a.jpg"}},
		{ID: "2", Name: "Lamp", Price: "15", Images: []string{"b.jpg", "c.jpg"}},
		{ID: "3", Name: "Desk", Price: "90", Images: []string{"d.jpg"}},
	}
}

func TestCatalogDeleteSelected(t *testing.T) {
	h := newHarness(t, threeProducts()...)
	m := h.model(t)

	m = press(t, m, " ", "j", "j", " ")
	if got := m.selection.IDs(); !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Fatalf("selection = %v, want [1 3]", got)
	}

	m = press(t, m, "d")
	if m.confirm == nil {
		t.Fatal("delete did not ask for confirmation")
	}
	if len(h.state.Catalog()) != 3 {
		t.Fatal("delete ran before confirmation")
	}

	m = press(t, m, "y")
	if m.confirm != nil || m.busy {
		t.Fatalf("confirm = %v busy = %v after delete", m.confirm, m.busy)
	}
	if got := h.state.Catalog().IDs(); !reflect.DeepEqual(got, []string{"2"}) {
		t.Fatalf("stored ids = %v, want [2]", got)
	}
	if got := m.catalog.IDs(); !reflect.DeepEqual(got, []string{"2"}) {
		t.Fatalf("model ids = %v, want [2]", got)
	}
	if !m.selection.Empty() {
		t.Fatalf("selection not cleared: %v", m.selection.IDs())
	}
	if m.notice.level != noticeSuccess || m.notice.text != "Deleted 2 products" {
		t.Fatalf("notice = %+v", m.notice)
	}
}

func TestCatalogDeleteDeclined(t *testing.T) {
	h := newHarness(t, threeProducts()...)
	m := h.model(t)

	m = press(t, m, " ", "d", "n")
	if len(h.state.Catalog()) != 3 {
		t.Fatalf("catalog changed after declining: %v", h.state.Catalog().IDs())
	}
	if m.selection.Len() != 1 {
		t.Fatalf("selection = %v, want kept", m.selection.IDs())
	}
	if m.notice.text != "Cancelled" {
		t.Fatalf("notice = %q, want Cancelled", m.notice.text)
	}
}

func TestCatalogDeleteWithoutSelection(t *testing.T) {
	h := newHarness(t, threeProducts()...)
	m := h.model(t)

	m = press(t, m, "d")
	if m.confirm != nil {
		t.Fatal("empty selection asked for confirmation")
	}
	if len(h.state.Catalog()) != 3 {
		t.Fatal("catalog changed")
	}
}

func TestCatalogShareKeepsSelection(t *testing.T) {
	h := newHarness(t, threeProducts()...)
	m := h.model(t)

	// Select Desk before Lamp; images still come out in catalog order.
	m = press(t, m, "G", " ", "k", " ", "s")
	if len(h.sharer.calls) != 1 {
		t.Fatalf("share calls = %d, want 1", len(h.sharer.calls))
	}
	if got, want := h.sharer.calls[0], []string{"b.jpg", "c.jpg", "d.jpg"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("shared = %v, want %v", got, want)
	}
	if m.selection.Len() != 2 {
		t.Fatalf("selection = %v, want kept", m.selection.IDs())
	}
	if m.notice.text != "Shared 3 images" {
		t.Fatalf("notice = %q", m.notice.text)
	}
}

func TestCatalogShareFailureIsNotice(t *testing.T) {
	h := newHarness(t, threeProducts()...)
	h.sharer.err = errors.New("bucket offline")
	m := h.model(t)

	m = press(t, m, " ", "s")
	if m.notice.level != noticeError || !strings.Contains(m.notice.text, "bucket offline") {
		t.Fatalf("notice = %+v", m.notice)
	}
	if len(h.state.Catalog()) != 3 || m.selection.Len() != 1 {
		t.Fatal("failed share changed catalog or selection")
	}
}

func TestAddFormSavesProduct(t *testing.T) {
	h := newHarness(t)
	h.source.library["~/Pictures/*.jpg"] = []string{"file:///p/x.jpg", "file:///p/y.jpg"}
	h.opts.PrefsPath = filepath.Join(t.TempDir(), "prefs.toml")
	m := h.model(t)

	m = press(t, m, "a")
	if m.currentView != ViewAdd {
		t.Fatalf("view = %v, want Add", m.currentView)
	}
	m = press(t, m, "Oak chair", "tab", "20", "tab", "~/Pictures/*.jpg", "enter")
	if got := m.add.draft.Images(); len(got) != 2 {
		t.Fatalf("draft images = %v, want 2", got)
	}
	if len(h.state.Catalog()) != 0 {
		t.Fatal("draft persisted before save")
	}

	m = press(t, m, "ctrl+s")
	if m.currentView != ViewCatalog {
		t.Fatalf("view = %v, want Catalog after save", m.currentView)
	}
	c := h.state.Catalog()
	if len(c) != 1 {
		t.Fatalf("catalog = %v, want one product", c)
	}
	want := catalog.Product{ID: "new-1", Name: "Oak chair", Price: "20", Images: []string{"file:///p/x.jpg", "file:///p/y.jpg"}}
	if !reflect.DeepEqual(c[0], want) {
		t.Fatalf("saved = %+v, want %+v", c[0], want)
	}
	if got := prefs.Load(h.opts.PrefsPath).LibraryDir; got != "~/Pictures/*.jpg" {
		t.Fatalf("prefs library_dir = %q", got)
	}
}

func TestAddFormRemoveWhileSavingKeepsSavedImages(t *testing.T) {
	h := newHarness(t)
	h.source.library["~/Pictures/*.jpg"] = []string{"file:///p/x.jpg", "file:///p/y.jpg"}
	m := h.model(t)

	m = press(t, m, "a", "Oak chair", "tab", "20", "tab", "~/Pictures/*.jpg", "enter")
	if got := m.add.draft.Images(); len(got) != 2 {
		t.Fatalf("draft images = %v, want 2", got)
	}

	next, save := m.Update(keyMsg("ctrl+s"))
	m = next.(Model)
	if !m.busy || save == nil {
		t.Fatalf("busy = %v, save cmd = %v", m.busy, save != nil)
	}

	m = press(t, m, "tab", "x")
	if got := m.add.draft.Images(); len(got) != 2 {
		t.Fatalf("draft images after remove while saving = %v, want 2", got)
	}

	m = run(t, m, save)
	c := h.state.Catalog()
	if len(c) != 1 {
		t.Fatalf("catalog = %v, want one product", c)
	}
	want := []string{"file:///p/x.jpg", "file:///p/y.jpg"}
	if !reflect.DeepEqual(c[0].Images, want) {
		t.Fatalf("saved images = %q, want %q", c[0].Images, want)
	}
	if m.busy || m.currentView != ViewCatalog {
		t.Fatalf("busy = %v view = %v after save", m.busy, m.currentView)
	}
}

func TestAddFormEscapeDiscardsDraft(t *testing.T) {
	h := newHarness(t)
	m := h.model(t)

	m = press(t, m, "a", "Lamp", "esc")
	if m.currentView != ViewCatalog {
		t.Fatalf("view = %v, want Catalog", m.currentView)
	}
	if len(h.state.Catalog()) != 0 {
		t.Fatal("discarded draft was saved")
	}

	m = press(t, m, "a")
	if v := m.add.inputs[fieldName].Value(); v != "" {
		t.Fatalf("name input = %q, want empty form", v)
	}
}

func TestAddFormCameraDenied(t *testing.T) {
	h := newHarness(t)
	h.opts.Permission = fakePermission{granted: false}
	h.source.camera = []string{"file:///cam/1.jpg"}
	h.source.library["/p/z.jpg"] = []string{"file:///p/z.jpg"}
	m := h.model(t)

	m = press(t, m, "a", "ctrl+t")
	if m.notice.level != noticeWarning || m.notice.text != "Camera unavailable" {
		t.Fatalf("notice = %+v", m.notice)
	}
	if len(m.add.draft.Images()) != 0 {
		t.Fatal("denied camera attached an image")
	}

	// The library path is unaffected.
	m = press(t, m, "tab", "tab", "/p/z.jpg", "enter")
	if got := m.add.draft.Images(); !reflect.DeepEqual(got, []string{"file:///p/z.jpg"}) {
		t.Fatalf("draft images = %v", got)
	}
}

func TestAddFormCameraGranted(t *testing.T) {
	h := newHarness(t)
	h.source.camera = []string{"file:///cam/1.jpg"}
	m := h.model(t)

	m = press(t, m, "a", "ctrl+t", "ctrl+t")
	if got := m.add.draft.Images(); !reflect.DeepEqual(got, []string{"file:///cam/1.jpg", "file:///cam/1.jpg"}) {
		t.Fatalf("draft images = %v, want duplicates kept", got)
	}
}

func TestImagesDeleteSelectedReturnsToCatalog(t *testing.T) {
	h := newHarness(t, catalog.Product{ID: "1", Name: "Chair", Images: []string{"a", "b", "a", "c"}})
	m := h.model(t)

	m = press(t, m, "enter")
	if m.currentView != ViewImages || m.session == nil {
		t.Fatalf("view = %v, want Images", m.currentView)
	}
	m = press(t, m, " ", "G", " ")
	if got := m.session.Selected(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("selected = %v, want [a c]", got)
	}
	if m.session.Mode() != editor.Reviewing {
		t.Fatalf("mode = %v, want reviewing", m.session.Mode())
	}

	m = press(t, m, "d", "y")
	p, _ := h.state.Catalog().Find("1")
	if !reflect.DeepEqual(p.Images, []string{"b"}) {
		t.Fatalf("images = %v, want [b]", p.Images)
	}
	if m.currentView != ViewCatalog || m.session != nil {
		t.Fatalf("view = %v session = %v, want back on catalog", m.currentView, m.session)
	}
}

func TestImagesShareKeepsSelection(t *testing.T) {
	h := newHarness(t, catalog.Product{ID: "1", Name: "Chair", Images: []string{"a", "b", "c"}})
	m := h.model(t)

	m = press(t, m, "enter", "G", " ", "g", " ", "s")
	if len(h.sharer.calls) != 1 || !reflect.DeepEqual(h.sharer.calls[0], []string{"c", "a"}) {
		t.Fatalf("share calls = %v, want [[c a]]", h.sharer.calls)
	}
	if m.currentView != ViewImages {
		t.Fatalf("view = %v, want Images", m.currentView)
	}
	if got := m.session.Selected(); !reflect.DeepEqual(got, []string{"c", "a"}) {
		t.Fatalf("selected = %v", got)
	}
	if m.session.Mode() != editor.Viewing {
		t.Fatalf("mode = %v, want viewing", m.session.Mode())
	}
	if title := m.imagesTitle(3); !strings.Contains(title, "2 selected") {
		t.Fatalf("title = %q, want selected count after share", title)
	}
}

func TestImagesRemoveAndAdd(t *testing.T) {
	h := newHarness(t, catalog.Product{ID: "1", Name: "Chair", Images: []string{"a", "b", "a"}})
	h.source.library["/p"] = []string{"file:///p/n.jpg"}
	m := h.model(t)

	m = press(t, m, "enter", "x")
	p, _ := h.state.Catalog().Find("1")
	if !reflect.DeepEqual(p.Images, []string{"b", "a"}) {
		t.Fatalf("after remove = %v, want [b a]", p.Images)
	}

	m = press(t, m, "a")
	if !m.picking {
		t.Fatal("a did not open the pick input")
	}
	m = press(t, m, "/p", "enter")
	p, _ = h.state.Catalog().Find("1")
	if !reflect.DeepEqual(p.Images, []string{"b", "a", "file:///p/n.jpg"}) {
		t.Fatalf("after add = %v", p.Images)
	}
	if m.notice.text != "Added 1 image" {
		t.Fatalf("notice = %q", m.notice.text)
	}
}

func TestCommittedCatalogSyncsSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, catalog.Product{ID: "1", Name: "Chair", Images: []string{"a", "b"}})
	m := h.model(t)
	m = press(t, m, "enter", "j", " ")

	c, err := h.state.Replace(ctx, "1", []string{"a"})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	next, _ := m.Update(catalogMsg(c))
	m = next.(Model)
	if got := m.session.Selected(); len(got) != 0 {
		t.Fatalf("selected = %v, want pruned", got)
	}
	if m.session.Mode() != editor.Viewing {
		t.Fatalf("mode = %v, want viewing", m.session.Mode())
	}

	c, err = h.state.RemoveMany(ctx, []string{"1"})
	if err != nil {
		t.Fatalf("RemoveMany: %v", err)
	}
	next, _ = m.Update(catalogMsg(c))
	m = next.(Model)
	if m.currentView != ViewCatalog {
		t.Fatalf("view = %v, want Catalog once the product is gone", m.currentView)
	}
}

func TestCorruptLoadIsNotice(t *testing.T) {
	h := newHarness(t)
	h.opts.LoadErr = &catalog.CorruptError{QuarantineKey: "products.corrupt", Err: errors.New("bad json")}
	m := h.model(t)

	if m.notice.level != noticeError || !strings.Contains(m.notice.text, "products.corrupt") {
		t.Fatalf("notice = %+v", m.notice)
	}
	if !strings.Contains(m.View(), "products.corrupt") {
		t.Fatal("view does not show the quarantine notice")
	}
}

func TestThemeCycleSavesPrefs(t *testing.T) {
	h := newHarness(t)
	h.opts.PrefsPath = filepath.Join(t.TempDir(), "prefs.toml")
	m := h.model(t)

	if m.theme.Name != "Linen" {
		t.Fatalf("theme = %q, want Linen", m.theme.Name)
	}
	m = press(t, m, "T")
	if m.theme.Name != "Slate" {
		t.Fatalf("theme = %q, want Slate", m.theme.Name)
	}
	if got := prefs.Load(h.opts.PrefsPath).Theme; got != "Slate" {
		t.Fatalf("saved theme = %q, want Slate", got)
	}
}

func TestActivityViewReadsLog(t *testing.T) {
	h := newHarness(t)
	logPath := filepath.Join(t.TempDir(), "shelf.log")
	line := `{"level":"warn","ts":"2026-01-02T10:00:00.000Z","logger":"bulk","msg":"share failed","count":2}` + "\n"
	if err := os.WriteFile(logPath, []byte(line), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	h.opts.LogPath = logPath
	m := h.model(t)

	m = press(t, m, "L")
	if m.currentView != ViewActivity {
		t.Fatalf("view = %v, want Activity", m.currentView)
	}
	if len(m.activity) != 1 || m.activity[0].Message != "share failed" {
		t.Fatalf("activity = %+v", m.activity)
	}
	if !strings.Contains(m.View(), "bulk") {
		t.Fatal("activity view does not show the record")
	}

	m = press(t, m, "esc")
	if m.currentView != ViewCatalog {
		t.Fatalf("view = %v, want Catalog", m.currentView)
	}
}

func TestViewsRender(t *testing.T) {
	h := newHarness(t, threeProducts()...)
	m := h.model(t)

	if out := m.View(); !strings.Contains(out, "shelf") || !strings.Contains(out, "Chair") {
		t.Fatalf("catalog view missing content:\n%s", out)
	}

	m = press(t, m, "enter")
	if out := m.View(); !strings.Contains(out, "a.jpg") {
		t.Fatalf("images view missing content:\n%s", out)
	}

	m = press(t, m, "esc", "a")
	if out := m.View(); !strings.Contains(out, "New product") {
		t.Fatalf("add view missing title:\n%s", out)
	}

	m = press(t, m, "esc", "?")
	if out := m.View(); !strings.Contains(out, "Keyboard Shortcuts") {
		t.Fatalf("help missing:\n%s", out)
	}
	m = press(t, m, "j")
	if m.showHelp {
		t.Fatal("any key should close help")
	}
}

func TestViewBeforeResize(t *testing.T) {
	h := newHarness(t)
	if got := New(h.opts).View(); got != "Loading..." {
		t.Fatalf("View() = %q, want Loading...", got)
	}
}

func TestQuit(t *testing.T) {
	h := newHarness(t)
	m := h.model(t)

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
}
