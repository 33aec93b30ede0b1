package catalog

// Product is one catalog entry.
type Product struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Price  string   `json:"price"` // free-form, never parsed
	Images []string `json:"images"`
	// Sold is always false at creation and nothing sets it. It is kept so the
	// stored records stay readable if a sold flow is added later.
	Sold bool `json:"sold"`
}

// Clone returns a deep copy with a non-nil Images slice.
func (p Product) Clone() Product {
	p.Images = cloneRefs(p.Images)
	return p
}

// Catalog is the ordered product list; insertion order is creation order.
type Catalog []Product

// Clone deep-copies the catalog. A nil catalog clones to an empty one.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for i, p := range c {
		out[i] = p.Clone()
	}
	return out
}

// Find returns the product with id and whether it exists.
func (c Catalog) Find(id string) (Product, bool) {
	if i := c.index(id); i >= 0 {
		return c[i].Clone(), true
	}
	return Product{}, false
}

// Has reports whether a product with id exists.
func (c Catalog) Has(id string) bool {
	return c.index(id) >= 0
}

// IDs returns product ids in catalog order.
func (c Catalog) IDs() []string {
	ids := make([]string, len(c))
	for i, p := range c {
		ids[i] = p.ID
	}
	return ids
}

// ImagesOf collects the image refs of every product whose id is in ids, in
// catalog order.
func (c Catalog) ImagesOf(ids []string) []string {
	want := toSet(ids)
	var refs []string
	for _, p := range c {
		if _, ok := want[p.ID]; ok {
			refs = append(refs, p.Images...)
		}
	}
	return refs
}

func (c Catalog) index(id string) int {
	for i, p := range c {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func cloneRefs(refs []string) []string {
	out := make([]string, len(refs))
	copy(out, refs)
	return out
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
