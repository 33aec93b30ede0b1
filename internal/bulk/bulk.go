// Package bulk applies delete and share to everything in a selection.
package bulk

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/selection"
	"github.com/five82/shelf/internal/share"
)

// Products is the part of catalog.State the engine uses.
type Products interface {
	Catalog() catalog.Catalog
	RemoveMany(ctx context.Context, ids []string) (catalog.Catalog, error)
}

// Sharer hands image references to a share target.
type Sharer interface {
	Share(ctx context.Context, refs []string) error
}

// Outcome classifies a share attempt.
type Outcome int

const (
	// Empty means there was nothing to share; the target was not called.
	Empty Outcome = iota
	Shared
	Cancelled
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Empty:
		return "empty"
	case Shared:
		return "shared"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ShareResult reports what happened to a share request. Err is set only for
// Cancelled and Failed.
type ShareResult struct {
	Outcome Outcome
	Count   int
	Err     error
}

// Engine runs bulk operations against the catalog.
type Engine struct {
	products Products
	sharer   Sharer
	log      *zap.Logger
}

// New returns an Engine. A nil logger discards output.
func New(products Products, sharer Sharer, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{products: products, sharer: sharer, log: log}
}

// DeleteProducts removes every selected product and clears sel once the
// catalog was persisted. An empty selection does nothing. On failure sel is
// left as it was.
func (e *Engine) DeleteProducts(ctx context.Context, sel *selection.Set) (catalog.Catalog, error) {
	if sel == nil || sel.Empty() {
		return e.products.Catalog(), nil
	}
	ids := sel.IDs()
	next, err := e.products.RemoveMany(ctx, ids)
	if err != nil {
		return next, err
	}
	sel.Clear()
	e.log.Info("bulk delete", zap.Int("selected", len(ids)), zap.Int("remaining", len(next)))
	return next, nil
}

// ShareProducts shares the images of every selected product in catalog order.
// The selection is not modified.
func (e *Engine) ShareProducts(ctx context.Context, sel *selection.Set) ShareResult {
	if sel == nil || sel.Empty() {
		return ShareResult{Outcome: Empty}
	}
	refs := e.products.Catalog().ImagesOf(sel.IDs())
	return e.ShareImages(ctx, refs)
}

// ShareImages shares refs exactly as given.
func (e *Engine) ShareImages(ctx context.Context, refs []string) ShareResult {
	if len(refs) == 0 {
		return ShareResult{Outcome: Empty}
	}
	if e.sharer == nil {
		return ShareResult{Outcome: Failed, Count: len(refs), Err: errors.New("no share target configured")}
	}

	err := e.sharer.Share(ctx, refs)
	switch {
	case err == nil:
		e.log.Info("shared images", zap.Int("count", len(refs)))
		return ShareResult{Outcome: Shared, Count: len(refs)}
	case errors.Is(err, share.ErrCancelled), errors.Is(err, context.Canceled):
		e.log.Info("share cancelled", zap.Int("count", len(refs)))
		return ShareResult{Outcome: Cancelled, Count: len(refs), Err: err}
	default:
		e.log.Warn("share failed", zap.Int("count", len(refs)), zap.Error(err))
		return ShareResult{Outcome: Failed, Count: len(refs), Err: err}
	}
}
