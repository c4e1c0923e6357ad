// Package repositories implements SQLite persistence.
//
// The only persisted entity is the lookup cache: [TrackRepository] stores the
// normalized metadata of tracks resolved from pasted links, keyed by source url,
// and [TrackCacheAdapter] plugs it into the lookup gateway. Session state is never
// written to the database.
package repositories
