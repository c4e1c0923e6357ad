// Package server exposes session commands over a JSON HTTP API built on gin.
//
// # Sessions
//
// Every client works against its own session, created with POST /api/sessions and
// addressed as /api/sessions/:id afterwards. Sessions are isolated from each other
// and run one command at a time; a request that arrives while another command is
// running waits for it. Idle sessions are reaped after the configured TTL and their
// working areas are purged.
//
// # Files
//
// Exports, single acquisitions and bundled batches are returned as attachments
// (Content-Disposition: attachment). Individual batch artifacts are listed in the
// response and fetched from /api/sessions/:id/files/:file.
//
// # Errors
//
// Failures are rendered as [ErrorResponse] with the error kind in the error field.
// [StatusFor] maps kinds onto status codes.
package server
