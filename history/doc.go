// Package history provides a bounded, persisted conversation log.
//
// Persistence model:
//   - Messages are role + text only. One JSON snapshot per store.
//   - Every mutation saves synchronously; a successful Add or Clear means
//     the snapshot on disk already matches memory.
//   - Snapshots are replaced by write-then-rename so a crash mid-save
//     cannot leave a corrupt file behind.
//
// The store keeps at most Capacity messages; when an append pushes it over,
// the oldest messages are dropped from the front. Order is never changed
// otherwise.
//
// A Store is not safe for concurrent use, and no inter-process locking is
// done: two processes sharing one snapshot path is an unguarded hazard.
package history
