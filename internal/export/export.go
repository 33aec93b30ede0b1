// Package export writes the catalog as CSV.
package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/fsutil"
)

// ImageSeparator joins a product's image refs in one CSV cell.
const ImageSeparator = ";"

// Row is one CSV line.
type Row struct {
	ID     string `csv:"id"`
	Name   string `csv:"name"`
	Price  string `csv:"price"`
	Images string `csv:"images"`
	Count  int    `csv:"image_count"`
	Sold   bool   `csv:"sold"`
}

// Rows converts the catalog in order.
func Rows(c catalog.Catalog) []*Row {
	rows := make([]*Row, len(c))
	for i, p := range c {
		rows[i] = &Row{
			ID:     p.ID,
			Name:   p.Name,
			Price:  p.Price,
			Images: strings.Join(p.Images, ImageSeparator),
			Count:  len(p.Images),
			Sold:   p.Sold,
		}
	}
	return rows
}

// Write encodes the catalog with a header line.
func Write(w io.Writer, c catalog.Catalog) error {
	if err := gocsv.Marshal(Rows(c), w); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return nil
}

// WriteFile writes the CSV to path, replacing it atomically.
func WriteFile(path string, c catalog.Catalog) error {
	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
