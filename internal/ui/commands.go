package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/bulk"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/editor"
	"github.com/five82/shelf/internal/logtail"
	"github.com/five82/shelf/internal/media"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/selection"
)

// Messages

type catalogMsg catalog.Catalog

type loadedMsg struct{ err error }

type deletedMsg struct {
	count int
	err   error
}

type sharedMsg struct{ result bulk.ShareResult }

type savedMsg struct {
	product catalog.Product
	err     error
}

type pickedMsg struct {
	target View
	kind   media.Kind
	refs   []string
	err    error
}

type imageOp int

const (
	imagesAdded imageOp = iota
	imageRemoved
	imagesDeleted
)

type imagesMsg struct {
	op    imageOp
	count int
	err   error
}

type activityMsg struct {
	entries []logtail.Entry
	err     error
}

type prefsSavedMsg struct{ err error }

// Commands

// waitForCatalog blocks on the next committed catalog. It is re-armed after
// every catalogMsg so the model sees each commit, including ones finished
// after the user navigated away from the screen that started them.
func waitForCatalog(updates <-chan catalog.Catalog) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-updates
		if !ok {
			return nil
		}
		return catalogMsg(c)
	}
}

func (m Model) reload() tea.Cmd {
	if m.products == nil {
		return nil
	}
	ctx, products := m.ctx, m.products
	return func() tea.Msg {
		_, err := products.Load(ctx)
		return loadedMsg{err: err}
	}
}

// deleteProductsCmd removes ids through the engine. The engine works on a
// copy of the selection; the model clears its own on success.
func (m Model) deleteProductsCmd(ids []string) tea.Cmd {
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		if engine == nil {
			return deletedMsg{err: fmt.Errorf("no catalog engine")}
		}
		_, err := engine.DeleteProducts(ctx, selection.New(ids...))
		return deletedMsg{count: len(ids), err: err}
	}
}

func (m Model) shareProductsCmd(ids []string) tea.Cmd {
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		if engine == nil {
			return sharedMsg{result: bulk.ShareResult{Outcome: bulk.Failed, Err: fmt.Errorf("no catalog engine")}}
		}
		return sharedMsg{result: engine.ShareProducts(ctx, selection.New(ids...))}
	}
}

// saveDraftCmd saves a snapshot of draft. The form keeps editing its own
// copy while the save runs.
func (m Model) saveDraftCmd(draft editor.Draft) tea.Cmd {
	ctx, products := m.ctx, m.products
	snapshot := editor.Draft{Name: draft.Name, Price: draft.Price}
	snapshot.AddImages(draft.Images()...)
	return func() tea.Msg {
		p, err := snapshot.Save(ctx, products)
		return savedMsg{product: p, err: err}
	}
}

func (m Model) pickLibraryCmd(target View, query string) tea.Cmd {
	ctx, src := m.ctx, m.media
	req := media.Request{Kind: media.KindLibrary, Multiple: true, Query: query}
	return func() tea.Msg {
		if src == nil {
			return pickedMsg{target: target, kind: req.Kind, err: media.ErrDenied}
		}
		refs, err := src.Pick(ctx, req)
		return pickedMsg{target: target, kind: req.Kind, refs: refs, err: err}
	}
}

// pickCameraCmd asks for camera permission and captures one photo when it is
// granted. A denial only blocks this path.
func (m Model) pickCameraCmd(target View) tea.Cmd {
	ctx, src, perm := m.ctx, m.media, m.permission
	req := media.Request{Kind: media.KindCamera}
	return func() tea.Msg {
		if perm != nil {
			granted, err := perm.Camera(ctx)
			if err != nil {
				return pickedMsg{target: target, kind: req.Kind, err: fmt.Errorf("%w: %w", media.ErrDenied, err)}
			}
			if !granted {
				return pickedMsg{target: target, kind: req.Kind, err: media.ErrDenied}
			}
		}
		if src == nil {
			return pickedMsg{target: target, kind: req.Kind, err: media.ErrDenied}
		}
		refs, err := src.Pick(ctx, req)
		return pickedMsg{target: target, kind: req.Kind, refs: refs, err: err}
	}
}

func (m Model) addSessionImagesCmd(s *editor.Session, refs []string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return imagesMsg{op: imagesAdded, count: len(refs), err: s.AddImages(ctx, refs...)}
	}
}

func (m Model) removeSessionImageCmd(s *editor.Session, ref string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return imagesMsg{op: imageRemoved, count: 1, err: s.RemoveImage(ctx, ref)}
	}
}

func (m Model) deleteSessionImagesCmd(s *editor.Session) tea.Cmd {
	ctx := m.ctx
	count := len(s.Selected())
	return func() tea.Msg {
		return imagesMsg{op: imagesDeleted, count: count, err: s.RemoveSelected(ctx)}
	}
}

func (m Model) shareSessionImagesCmd(s *editor.Session) tea.Cmd {
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		if engine == nil {
			return sharedMsg{result: bulk.ShareResult{Outcome: bulk.Failed, Err: fmt.Errorf("no catalog engine")}}
		}
		return sharedMsg{result: s.Share(ctx, engine)}
	}
}

func (m Model) refreshActivity() tea.Cmd {
	path := m.logPath
	return func() tea.Msg {
		if path == "" {
			return activityMsg{}
		}
		entries, err := logtail.Tail(path, ActivityLineLimit)
		return activityMsg{entries: entries, err: err}
	}
}

func (m Model) savePrefs() tea.Cmd {
	if m.prefsPath == "" {
		return nil
	}
	path, p := m.prefsPath, m.prefs
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}
