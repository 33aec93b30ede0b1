package editor

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/five82/shelf/internal/bulk"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/selection"
)

// ErrNotFound is returned by Open for an id that is not in the catalog.
var ErrNotFound = errors.New("product not found")

// Mode is the review screen state.
type Mode int

const (
	Viewing Mode = iota
	Reviewing
	Done
)

func (m Mode) String() string {
	switch m {
	case Viewing:
		return "viewing"
	case Reviewing:
		return "reviewing"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Products is the part of catalog.State a session needs.
type Products interface {
	Catalog() catalog.Catalog
	Replace(ctx context.Context, id string, images []string) (catalog.Catalog, error)
}

// ImageSharer shares an explicit list of references.
type ImageSharer interface {
	ShareImages(ctx context.Context, refs []string) bulk.ShareResult
}

// Session is one visit to the image-review screen. It is safe for concurrent
// use; commits run outside the lock so readers are not blocked by I/O.
type Session struct {
	id       string
	products Products

	mu   sync.Mutex
	sel  selection.Set
	mode Mode
}

// Open starts a session for product id.
func Open(products Products, id string) (*Session, error) {
	if !products.Catalog().Has(id) {
		return nil, ErrNotFound
	}
	return &Session{id: id, products: products}, nil
}

// ProductID returns the product under review.
func (s *Session) ProductID() string { return s.id }

// Product returns the current product and whether it still exists.
func (s *Session) Product() (catalog.Product, bool) {
	return s.products.Catalog().Find(s.id)
}

// Images returns the product's current image list.
func (s *Session) Images() []string {
	p, ok := s.Product()
	if !ok {
		return []string{}
	}
	return p.Images
}

// Mode returns the session state.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Selected returns the selected references in selection order.
func (s *Session) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.IDs()
}

// IsSelected reports whether ref is selected.
func (s *Session) IsSelected(ref string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Contains(ref)
}

// Toggle flips ref in the selection. References not in the image list are
// ignored. It reports whether ref is selected afterwards.
func (s *Session) Toggle(ref string) bool {
	attached := slices.Contains(s.Images(), ref)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == Done || !attached {
		return false
	}
	on := s.sel.Toggle(ref)
	s.syncMode()
	return on
}

// Unselect drops the selection.
func (s *Session) Unselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == Done {
		return
	}
	s.sel.Clear()
	s.mode = Viewing
}

// Sync prunes selected references that are no longer attached and ends the
// session when the product is gone.
func (s *Session) Sync(c catalog.Catalog) {
	p, ok := c.Find(s.id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		s.sel.Clear()
		s.mode = Done
		return
	}
	s.sel.Prune(func(ref string) bool { return slices.Contains(p.Images, ref) })
	s.leaveIfEmpty()
}

// AddImages appends refs to the product and commits.
func (s *Session) AddImages(ctx context.Context, refs ...string) error {
	if len(refs) == 0 {
		return nil
	}
	images := append(s.Images(), refs...)
	_, err := s.products.Replace(ctx, s.id, images)
	return err
}

// RemoveImage drops the first occurrence of ref and commits.
func (s *Session) RemoveImage(ctx context.Context, ref string) error {
	images := s.Images()
	i := slices.Index(images, ref)
	if i < 0 {
		return nil
	}
	images = slices.Delete(images, i, i+1)
	if _, err := s.products.Replace(ctx, s.id, images); err != nil {
		return err
	}
	if !slices.Contains(images, ref) {
		s.mu.Lock()
		s.sel.Prune(func(r string) bool { return r != ref })
		s.leaveIfEmpty()
		s.mu.Unlock()
	}
	return nil
}

// RemoveSelected drops every occurrence of every selected reference, commits
// and ends the session. With nothing selected it does nothing. On error the
// selection and mode are unchanged.
func (s *Session) RemoveSelected(ctx context.Context) error {
	selected := selection.New(s.Selected()...)
	if selected.Empty() {
		return nil
	}
	images := slices.DeleteFunc(s.Images(), selected.Contains)
	if _, err := s.products.Replace(ctx, s.id, images); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Clear()
	s.mode = Done
	return nil
}

// Share hands the selected references to sharer in selection order. The
// selection is kept and the mode returns to Viewing.
func (s *Session) Share(ctx context.Context, sharer ImageSharer) bulk.ShareResult {
	res := sharer.ShareImages(ctx, s.Selected())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == Reviewing {
		s.mode = Viewing
	}
	return res
}

// leaveIfEmpty and syncMode expect s.mu to be held.
func (s *Session) leaveIfEmpty() {
	if s.mode == Reviewing && s.sel.Empty() {
		s.mode = Viewing
	}
}

func (s *Session) syncMode() {
	if s.sel.Empty() {
		s.mode = Viewing
		return
	}
	s.mode = Reviewing
}
