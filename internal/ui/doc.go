// Package ui provides the terminal user interface for shelf.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea model. Screens are views of that model, not
// separate programs, so navigation is a field change and only a product id
// travels between screens. Everything persistent lives in the catalog state;
// the model keeps a snapshot and is told about every commit through the
// state's subscription channel.
//
// # Package Structure
//
//   - app.go: Model, Options, Update/View dispatch and Run
//   - commands.go: messages and the tea.Cmds that call the store and capabilities
//   - catalog_view.go: product list with multi-select, delete and share
//   - add_view.go: add-item form backed by an editor.Draft
//   - images_view.go: image review backed by an editor.Session
//   - activity_view.go: recent log records read with logtail
//   - header.go, box.go, help.go: chrome shared by every view
//   - theme.go, style_helpers.go, strings.go: styling and text helpers
//
// # View Types
//
//   - Catalog: every product with its price and image count. Space marks
//     products; d deletes the marked ones after a y/n prompt; s shares their
//     images; enter opens the image review for the row under the cursor.
//   - Add: name, price and a library query. Enter on the query attaches the
//     matched files, ctrl+t takes a photo, ctrl+s creates the product.
//   - Images: one product's images. Space marks images; d removes every
//     marked one and returns to the catalog; s shares them; x removes the
//     image under the cursor.
//   - Activity: the tail of the log file.
//
// # Event Flow
//
//  1. Run builds the model and subscribes to the catalog state
//  2. Store and capability calls run as tea.Cmds; only one runs at a time
//  3. Results come back as messages and end on the notice line
//  4. Committed catalogs arrive as catalogMsg and re-sync cursors, the
//     product selection and any open review session
//  5. Returning to the catalog view reloads it from the store
//  6. Context cancellation stops the program
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context:    ctx,
//		Products:   state,
//		Engine:     bulk.New(state, sharer, log),
//		Media:      media.Sources{Library: lib, Camera: cam},
//		Permission: &media.CommandPermission{Command: cfg.Camera.Command},
//		PrefsPath:  prefsPath,
//		Prefs:      prefs.Load(prefsPath),
//	})
package ui
