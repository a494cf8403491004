// Package blobstore defines persistence-facing contracts for loading and
// saving the sparse override blob of one settings profile, plus adapters
// that connect storage back to the in-memory core.
//
// Responsibilities:
//   - Store only loads/saves a single flat blob (dotted path -> value) for
//     a single Ref.
//   - FileStore persists blobs as TOML documents with nested tables and a
//     reserved `_meta` table for storage-owned metadata.
//   - Watcher surfaces external edits of a persisted blob so the host can
//     reload it.
//   - The core package remains persistence-agnostic; all storage logic
//     stays behind Store implementations supplied by consumers.
//
// Data flow:
//
//	Store.Load -> Engine.LoadBlob -> rebuild
//	override write -> Sink.Persist -> Store.Save
package blobstore
