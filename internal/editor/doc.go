// Package editor edits product image lists.
//
// A Draft backs the add-item form: it holds name, price and images for a
// product that does not exist yet and creates it on Save.
//
// A Session backs the image-review screen for one persisted product. It
// keeps its own selection of image references and commits every change
// through the catalog's Replace, so the catalog remains the only copy of the
// image list. The mode moves from Viewing to Reviewing when something is
// selected and back when the selection is deleted, shared or dropped.
// Deleting the selection ends the session.
package editor
