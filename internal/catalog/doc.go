// Package catalog owns the product list and its persistence.
//
// The whole catalog is stored as a single JSON array under one store key
// (DefaultKey, "products"). Each element carries id, name, price, images and
// sold. State keeps an in-memory copy that is replaced only after the store
// accepted the new bytes, so a failed write leaves both copies as they were.
//
// Mutations are serialized: each one computes the next catalog from the
// current in-memory value, encodes it, writes it and then swaps it in.
// Subscribers receive the latest catalog after every committed change; a slow
// subscriber only ever sees the newest value.
//
// Bytes that fail to decode, or that repeat a product id, are copied to
// "<key>.corrupt" and Load returns a *CorruptError while the catalog starts
// empty. An existing backup with different bytes is kept; the copy goes to the
// next free "<key>.corrupt.N". If no copy can be made the State refuses
// writes with ErrReadOnly.
package catalog
