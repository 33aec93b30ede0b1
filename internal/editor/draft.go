package editor

import (
	"context"
	"slices"

	"github.com/five82/shelf/internal/catalog"
)

// Creator persists a new product.
type Creator interface {
	Create(ctx context.Context, name, price string, images []string) (catalog.Product, catalog.Catalog, error)
}

// Draft is an unsaved product. The zero value is an empty draft.
type Draft struct {
	Name  string
	Price string

	images []string
}

// AddImages appends refs to the image list. Duplicates are kept.
func (d *Draft) AddImages(refs ...string) {
	d.images = append(d.images, refs...)
}

// RemoveImage drops the first occurrence of ref and reports whether one was
// found.
func (d *Draft) RemoveImage(ref string) bool {
	i := slices.Index(d.images, ref)
	if i < 0 {
		return false
	}
	d.images = slices.Delete(d.images, i, i+1)
	return true
}

// RemoveAt drops the image at position i.
func (d *Draft) RemoveAt(i int) bool {
	if i < 0 || i >= len(d.images) {
		return false
	}
	d.images = slices.Delete(d.images, i, i+1)
	return true
}

// Images returns a copy of the image list.
func (d *Draft) Images() []string {
	out := make([]string, len(d.images))
	copy(out, d.images)
	return out
}

// Reset empties the draft.
func (d *Draft) Reset() {
	*d = Draft{}
}

// Save creates the product and resets the draft. On error the draft is kept
// so the user can retry.
func (d *Draft) Save(ctx context.Context, c Creator) (catalog.Product, error) {
	p, _, err := c.Create(ctx, d.Name, d.Price, d.Images())
	if err != nil {
		return catalog.Product{}, err
	}
	d.Reset()
	return p, nil
}
