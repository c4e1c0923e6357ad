// Package session holds per-user state and the commands that act on it.
//
// A [State] is the plain state machine: search results, the selected and playing
// tracks, named playlists with one active, and the creator inventory. A [Session]
// wraps one State with a working directory and runs commands one at a time. The
// [Manager] keeps many sessions apart for the HTTP server, and [Commands] binds a
// session to the lookup gateway, acquisition and batch engine.
package session
