// Package store implements the Configuration Store: a user-scoped,
// on-disk TOML document holding named component aliases and composition
// profiles.
//
// The document is read lazily on first lookup and mutations rewrite the
// whole document atomically: write to a temp file in the same directory,
// then rename over the original. There is no cross-process locking:
// concurrent writers race and the last rename wins, an accepted property
// of the shared-resource model.
package store
