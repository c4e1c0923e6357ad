// Package models defines the provider-agnostic data model shared by every ytbox component.
//
// Backend payloads are normalized once, at the lookup boundary, into:
//   - [Track] : one song from YouTube or Spotify, identified by its source URL
//   - [Playlist] : a named, ordered, duplicate-free collection of tracks
//   - [AcquisitionResult] : the outcome of turning one track into a local audio file
//   - [BatchResult] : the aggregate outcome of acquiring a whole playlist
//   - [PlaylistDocument] : the portable export/import document
//   - [UploadedTrack] : an entry in the simulated creator inventory
//
// Nothing in this package performs I/O.
package models
