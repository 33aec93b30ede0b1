// Package app is the composition root for shelf.
//
// # Overview
//
// Run loads the configuration, opens the logger and the blob store, loads the
// catalog and hands everything to the UI. No business logic lives here.
//
// # Startup Order
//
//  1. config.Load reads ~/.config/shelf/config.toml (missing file = defaults)
//  2. logging.New opens the rotating JSON log file
//  3. blobstore.Open opens the configured driver (bolt by default)
//  4. catalog.New + Load read the "products" blob
//  5. share.New builds the share target; media sources wrap the library
//     root and the camera command
//  6. ui.Run blocks until the user quits or the context is cancelled
//
// With Options.ExportPath set, Run stops after step 4 and writes the catalog
// as CSV instead of starting the UI.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Config file unreadable or not valid TOML
//   - Invalid log level or unwritable log directory
//   - Store cannot be opened
//   - Export requested but the catalog failed to load or the file cannot be
//     written
//
// Recoverable errors (logged, surfaced on the notice line):
//   - Corrupt catalog data, which is quarantined under "products.corrupt[.N]"
//   - Share target misconfigured; sharing fails until it is fixed
//   - Camera command missing; only the camera path is blocked
package app
