// Package repositories provides the sqlite persistence layer.
//
// The client keeps very little local state: a key-value table backing the
// credential store's fallback medium and the persistent copy of the pending
// return path. [KVRepository] wraps that table with last-write-wins
// semantics; a missing key is a normal, representable state, not an error.
package repositories
